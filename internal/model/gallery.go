package model

import (
	"fmt"
	"time"
)

// Gallery is the ordered set of lightbox pages plus the page being shown.
// It is not safe for concurrent use; the UI owns it.
type Gallery struct {
	Images    []LightboxImage
	current   int
	UpdatedAt time.Time
}

// NewGallery creates a gallery starting at page start (clamped)
func NewGallery(images []LightboxImage, start int) *Gallery {
	g := &Gallery{
		Images:    append([]LightboxImage(nil), images...),
		UpdatedAt: time.Now(),
	}
	g.current = g.clamp(start)
	return g
}

// Count returns the number of pages
func (g *Gallery) Count() int {
	return len(g.Images)
}

// IsEmpty reports whether the gallery has no pages left
func (g *Gallery) IsEmpty() bool {
	return len(g.Images) == 0
}

// CurrentIndex returns the zero-based current page, or -1 when empty
func (g *Gallery) CurrentIndex() int {
	if g.IsEmpty() {
		return -1
	}
	return g.current
}

// Current returns the current page
func (g *Gallery) Current() (LightboxImage, bool) {
	if g.IsEmpty() {
		return LightboxImage{}, false
	}
	return g.Images[g.current], true
}

// GoTo moves to page index (clamped) and reports whether the page changed
func (g *Gallery) GoTo(index int) bool {
	if g.IsEmpty() {
		return false
	}
	next := g.clamp(index)
	if next == g.current {
		return false
	}
	g.current = next
	g.UpdatedAt = time.Now()
	return true
}

// Next moves one page forward
func (g *Gallery) Next() bool {
	return g.GoTo(g.current + 1)
}

// Previous moves one page back
func (g *Gallery) Previous() bool {
	return g.GoTo(g.current - 1)
}

// HasNext reports whether there is a page after the current one
func (g *Gallery) HasNext() bool {
	return !g.IsEmpty() && g.current < len(g.Images)-1
}

// HasPrevious reports whether there is a page before the current one
func (g *Gallery) HasPrevious() bool {
	return !g.IsEmpty() && g.current > 0
}

// Remove deletes page index. The current page stays on the same image when
// possible, otherwise moves to the page that took the removed one's place.
func (g *Gallery) Remove(index int) (LightboxImage, error) {
	if index < 0 || index >= len(g.Images) {
		return LightboxImage{}, fmt.Errorf("page out of range: %d", index)
	}

	removed := g.Images[index]
	g.Images = append(g.Images[:index], g.Images[index+1:]...)

	if index < g.current {
		g.current--
	}
	g.current = g.clamp(g.current)
	g.UpdatedAt = time.Now()
	return removed, nil
}

// PageLabel returns the "page/numberOfPages" counter shown in the footer
func (g *Gallery) PageLabel() string {
	if g.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%d/%d", g.current+1, len(g.Images))
}

// PreloadWindow returns the page indices to preload around the current page,
// nearest first. A window of 0 means every page.
func (g *Gallery) PreloadWindow(window int) []int {
	if g.IsEmpty() {
		return nil
	}
	if window <= 0 || window >= len(g.Images) {
		window = len(g.Images)
	}

	indices := []int{g.current}
	for d := 1; d <= window; d++ {
		if i := g.current + d; i < len(g.Images) {
			indices = append(indices, i)
		}
		if i := g.current - d; i >= 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

func (g *Gallery) clamp(index int) int {
	if len(g.Images) == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= len(g.Images) {
		return len(g.Images) - 1
	}
	return index
}
