package app

// Package app holds the command line front ends: flag grammars, logger setup
// and the headless fetch command shared by the viewer and the imaginary tool.
