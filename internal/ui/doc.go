package ui

// Package ui contains the Fyne user interface of the viewer: the image view
// binding that ties a canvas.Image to an ImageFetcher, and the lightbox window
// built around it. All UI strings are localized via Localization.
