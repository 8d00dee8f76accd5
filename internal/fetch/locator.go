package fetch

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SchemeFile is the URI scheme of local file locators
const SchemeFile = "file"

// Locator identifies an image either on the local filesystem or on a remote host.
type Locator struct {
	raw  string
	path string
	url  *url.URL
}

// ParseLocator parses a file:// URI, a bare filesystem path or a remote URI.
// Anything without a scheme is treated as a local path.
func ParseLocator(raw string) (Locator, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	if isBarePath(raw) {
		return Locator{raw: raw, path: filepath.Clean(raw)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, fmt.Errorf("parse locator %q: %w", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "":
		return Locator{raw: raw, path: filepath.Clean(raw)}, nil
	case SchemeFile:
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			return Locator{}, fmt.Errorf("file locator %q has no path", raw)
		}
		return Locator{raw: raw, path: filepath.FromSlash(p)}, nil
	default:
		return Locator{raw: raw, url: u}, nil
	}
}

// isBarePath catches absolute paths and Windows drive paths that url.Parse
// would otherwise read as a scheme.
func isBarePath(raw string) bool {
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ".") {
		return true
	}
	if len(raw) >= 3 && raw[1] == ':' && (raw[2] == '\\' || raw[2] == '/') {
		return true
	}
	return false
}

// IsFile reports whether the locator denotes a local file.
func (l Locator) IsFile() bool {
	return l.url == nil && l.path != ""
}

// Path returns the filesystem path of a file locator.
func (l Locator) Path() string {
	return l.path
}

// URL returns the remote URL, or nil for file locators.
func (l Locator) URL() *url.URL {
	return l.url
}

func (l Locator) String() string {
	return l.raw
}
