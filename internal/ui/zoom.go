package ui

// Zoom tracks the scale of the current image between a minimum and maximum
type Zoom struct {
	min   float32
	max   float32
	scale float32
}

// Keyboard zoom step, as a factor per key press
const zoomStep float32 = 1.25

// NewZoom creates a zoom at its minimum scale. An inverted range collapses to min.
func NewZoom(min, max float32) *Zoom {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	return &Zoom{min: min, max: max, scale: min}
}

// Scale returns the current scale
func (z *Zoom) Scale() float32 {
	return z.scale
}

// Zoomed reports whether the image is scaled past its minimum
func (z *Zoom) Zoomed() bool {
	return z.scale > z.min
}

// Set changes the scale, clamped to the range, and reports whether it changed
func (z *Zoom) Set(scale float32) bool {
	if scale < z.min {
		scale = z.min
	}
	if scale > z.max {
		scale = z.max
	}
	if scale == z.scale {
		return false
	}
	z.scale = scale
	return true
}

// Toggle jumps between the minimum and maximum scale
func (z *Zoom) Toggle() bool {
	if z.Zoomed() {
		return z.Set(z.min)
	}
	return z.Set(z.max)
}

// Step zooms in (positive) or out (negative) by one notch
func (z *Zoom) Step(direction int) bool {
	switch {
	case direction > 0:
		return z.Set(z.scale * zoomStep)
	case direction < 0:
		return z.Set(z.scale / zoomStep)
	}
	return false
}

// Reset returns to the minimum scale
func (z *Zoom) Reset() bool {
	return z.Set(z.min)
}
