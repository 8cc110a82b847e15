// Package display models the display a stack is attached to: its logical
// geometry, rotation, stable insets and stack z-order. The display is owned
// by the layout engine; stacks hold a non-owning reference between attach
// and detach.
package display

import "github.com/1broseidon/stackwm/internal/geometry"

// Rotation values, counted in quarter turns from the natural orientation.
const (
	Rotation0 = iota
	Rotation90
	Rotation180
	Rotation270
)

// Info is a snapshot of the display's logical configuration.
type Info struct {
	LogicalWidth  int
	LogicalHeight int
	Rotation      int
}

// Portrait reports whether the logical height dominates the width.
func (i Info) Portrait() bool {
	return i.LogicalHeight >= i.LogicalWidth
}

// Display is the mutable display state shared by all stacks attached to it.
// Callers must hold the engine's layout lock.
type Display struct {
	id           int
	info         Info
	stableInsets geometry.Insets
	dividerWidth int
	layoutNeeded bool
	stackOrder   []int // stack ids, bottom first
}

// New creates a display with the given logical configuration.
func New(id int, info Info, dividerWidth int) *Display {
	return &Display{id: id, info: info, dividerWidth: dividerWidth}
}

func (d *Display) ID() int { return d.id }

// Info returns the current logical configuration.
func (d *Display) Info() Info { return d.info }

// SetInfo replaces the logical configuration, typically after a rotation.
func (d *Display) SetInfo(info Info) { d.info = info }

// StableInsets returns the system decor insets for the current rotation.
func (d *Display) StableInsets() geometry.Insets { return d.stableInsets }

// SetStableInsets records the decor insets for the current rotation.
func (d *Display) SetStableInsets(in geometry.Insets) { d.stableInsets = in }

// DividerWidth returns the split divider thickness on this display.
func (d *Display) DividerWidth() int { return d.dividerWidth }

// LogicalRect returns the full logical rectangle of the display.
func (d *Display) LogicalRect() geometry.Rect {
	return geometry.XYWH(0, 0, d.info.LogicalWidth, d.info.LogicalHeight)
}

// ContentRect returns the logical rectangle minus the stable insets.
func (d *Display) ContentRect() geometry.Rect {
	return d.LogicalRect().Inset(d.stableInsets)
}

// RequestLayout marks the display as needing a layout pass.
func (d *Display) RequestLayout() { d.layoutNeeded = true }

// NeedsLayout reports whether a layout pass is pending.
func (d *Display) NeedsLayout() bool { return d.layoutNeeded }

// ClearLayoutNeeded resets the pending-layout flag after a pass runs.
func (d *Display) ClearLayoutNeeded() { d.layoutNeeded = false }

// AttachStack adds a stack to the top of the z-order.
func (d *Display) AttachStack(stackID int) {
	d.removeFromOrder(stackID)
	d.stackOrder = append(d.stackOrder, stackID)
}

// DetachStack removes a stack from the z-order.
func (d *Display) DetachStack(stackID int) {
	d.removeFromOrder(stackID)
}

// MoveStack raises a stack above its siblings or lowers it below them.
func (d *Display) MoveStack(stackID int, toTop bool) {
	d.removeFromOrder(stackID)
	if toTop {
		d.stackOrder = append(d.stackOrder, stackID)
	} else {
		d.stackOrder = append([]int{stackID}, d.stackOrder...)
	}
}

// StackOrder returns the current z-order, bottom first.
func (d *Display) StackOrder() []int {
	out := make([]int, len(d.stackOrder))
	copy(out, d.stackOrder)
	return out
}

func (d *Display) removeFromOrder(stackID int) {
	for i, id := range d.stackOrder {
		if id == stackID {
			d.stackOrder = append(d.stackOrder[:i], d.stackOrder[i+1:]...)
			return
		}
	}
}

// RotateBounds maps a rectangle computed under oldRotation into the
// coordinate space of newRotation. The display's Info must already describe
// the new rotation when this is called.
func (d *Display) RotateBounds(oldRotation, newRotation int, r geometry.Rect) geometry.Rect {
	delta := (newRotation - oldRotation + 4) % 4
	if delta == 0 {
		return r
	}

	// Dimensions of the old coordinate space. A quarter turn swaps them
	// relative to the current logical size.
	oldW := d.info.LogicalWidth
	oldH := d.info.LogicalHeight
	if delta%2 == 1 {
		oldW, oldH = oldH, oldW
	}

	switch delta {
	case 1:
		// (x, y) -> (oldH - y, x)
		return geometry.Rect{
			Left:   oldH - r.Bottom,
			Top:    r.Left,
			Right:  oldH - r.Top,
			Bottom: r.Right,
		}
	case 2:
		return geometry.Rect{
			Left:   oldW - r.Right,
			Top:    oldH - r.Bottom,
			Right:  oldW - r.Left,
			Bottom: oldH - r.Top,
		}
	default:
		// (x, y) -> (y, oldW - x)
		return geometry.Rect{
			Left:   r.Top,
			Top:    oldW - r.Right,
			Right:  r.Bottom,
			Bottom: oldW - r.Left,
		}
	}
}
