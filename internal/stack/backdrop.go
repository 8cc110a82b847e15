package stack

import "github.com/1broseidon/stackwm/internal/geometry"

// Backdrop is the dim surface shown behind an animating window when its
// animation declares a background color. At most one window owns it at a
// time; reassigning it repoints ownership without tearing anything down.
type Backdrop struct {
	bounds  geometry.Rect
	layer   int
	alpha   float64
	visible bool
}

// SetBounds resizes the backdrop to cover the stack.
func (b *Backdrop) SetBounds(r geometry.Rect) { b.bounds = r }

// Bounds returns the backdrop's current coverage.
func (b *Backdrop) Bounds() geometry.Rect { return b.bounds }

// Show places the backdrop at the given layer with the given opacity.
func (b *Backdrop) Show(layer int, alpha float64) {
	b.layer = layer
	b.alpha = alpha
	b.visible = true
}

// Hide removes the backdrop from the screen.
func (b *Backdrop) Hide() { b.visible = false }

// Dimming reports whether the backdrop is currently shown.
func (b *Backdrop) Dimming() bool { return b.visible }

// Layer returns the layer the backdrop was last shown at.
func (b *Backdrop) Layer() int { return b.layer }

// Alpha returns the opacity the backdrop was last shown with.
func (b *Backdrop) Alpha() float64 { return b.alpha }
