package platform

// Package platform contains OS integration for the viewer: locating the
// pictures directory on desktop and Android, and discovering image files.
