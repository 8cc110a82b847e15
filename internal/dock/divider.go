// Package dock resolves the bounds of stacks participating in a docked
// split-screen layout: which display edge the docked stack is anchored to,
// how the divider position maps to rectangles, and what space the remaining
// stacks may occupy.
package dock

import "github.com/1broseidon/stackwm/internal/geometry"

// Side identifies the display edge a docked stack is anchored to.
type Side int

const (
	SideInvalid Side = iota
	SideLeft
	SideTop
	SideRight
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// TopOrLeft reports whether the side anchors at the start of its axis.
func (s Side) TopOrLeft() bool {
	return s == SideTop || s == SideLeft
}

// InvertSide returns the opposite display edge.
func InvertSide(s Side) Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	default:
		return SideInvalid
	}
}

// ParseSide maps a configuration string to a Side.
func ParseSide(s string) Side {
	switch s {
	case "left":
		return SideLeft
	case "top":
		return SideTop
	case "right":
		return SideRight
	case "bottom":
		return SideBottom
	default:
		return SideInvalid
	}
}

// PositionForBounds derives the divider position from a docked stack's
// bounds. The divider sits on the free edge of the docked rectangle.
func PositionForBounds(bounds geometry.Rect, side Side, dividerSize int) int {
	switch side {
	case SideLeft:
		return bounds.Right
	case SideTop:
		return bounds.Bottom
	case SideRight:
		return bounds.Left - dividerSize
	case SideBottom:
		return bounds.Top - dividerSize
	default:
		return -1
	}
}

// BoundsForPosition derives the docked stack's bounds from a divider
// position within a displayWidth x displayHeight display.
func BoundsForPosition(position int, side Side, displayWidth, displayHeight, dividerSize int) geometry.Rect {
	out := geometry.Rect{Right: displayWidth, Bottom: displayHeight}
	switch side {
	case SideLeft:
		out.Right = position
	case SideTop:
		out.Bottom = position
	case SideRight:
		out.Left = position + dividerSize
	case SideBottom:
		out.Top = position + dividerSize
	}
	return SanitizeBounds(out, side.TopOrLeft())
}

// SanitizeBounds clamps a split rectangle to positive area without letting
// it cross the divider. When topLeft is set the right/bottom edges are
// authoritative and the left/top edges give way, otherwise the reverse.
func SanitizeBounds(bounds geometry.Rect, topLeft bool) geometry.Rect {
	if topLeft {
		if bounds.Left >= bounds.Right {
			bounds.Left = bounds.Right - 1
		}
		if bounds.Top >= bounds.Bottom {
			bounds.Top = bounds.Bottom - 1
		}
	} else {
		if bounds.Right <= bounds.Left {
			bounds.Right = bounds.Left + 1
		}
		if bounds.Bottom <= bounds.Top {
			bounds.Bottom = bounds.Top + 1
		}
	}
	return bounds
}
