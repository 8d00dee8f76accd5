package model

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// PreloadTask represents a single image preload
type PreloadTask struct {
	ID         string
	Locator    string
	Status     FetchStatus
	LastError  string    // last error message if any
	ErrorKind  string    // short error label, see fetch.Kind
	Width      int       // decoded width in pixels
	Height     int       // decoded height in pixels
	Format     string    // decoder name (png, jpeg, ...)
	StartedAt  time.Time // when the fetch started
	FinishedAt time.Time // when the fetch finished
}

// Elapsed returns how long the fetch took, or has taken so far
func (pt *PreloadTask) Elapsed() time.Duration {
	if pt.StartedAt.IsZero() {
		return 0
	}
	if pt.FinishedAt.IsZero() {
		return time.Since(pt.StartedAt)
	}
	return pt.FinishedAt.Sub(pt.StartedAt)
}

// GetDisplayName returns the file name of the locator, or the locator itself
func (pt *PreloadTask) GetDisplayName() string {
	return displayName(pt.Locator)
}

// displayName extracts the last path element of a URL or filesystem path
func displayName(locator string) string {
	if locator == "" {
		return ""
	}

	p := locator
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" {
		p = u.Path
	}

	// Support both / and \ separators
	p = strings.ReplaceAll(p, "\\", "/")
	name := path.Base(p)
	if name == "." || name == "/" {
		return locator
	}
	return name
}
