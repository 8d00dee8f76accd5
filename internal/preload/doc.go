package preload

// Package preload fetches the images around the current lightbox page ahead
// of time. It manages preload task lifecycle, a parallelism limit, a decoded
// image cache keyed by locator, and progress propagation to the UI.
