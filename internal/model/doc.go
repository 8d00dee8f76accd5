package model

// Package model defines domain data structures used across the app: lightbox
// images, the paged gallery, preload tasks and their status enum. Structures
// are plain values so the UI and services can share them without copying.
