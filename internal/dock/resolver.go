package dock

import "github.com/1broseidon/stackwm/internal/geometry"

// SplitParams describes one bounds resolution for a stack participating in
// the docked split.
type SplitParams struct {
	// DisplayRect is the logical rectangle of the display the split is on.
	DisplayRect geometry.Rect
	// Docked is set when resolving the docked stack itself rather than a
	// dock-adjacent sibling.
	Docked bool
	// DockedBounds holds the docked stack's raw bounds. Only consulted when
	// Docked is false.
	DockedBounds geometry.Rect
	// CreateBounds, when non-nil, is the rectangle explicitly requested at
	// docked-stack creation and is returned verbatim for the docked stack.
	CreateBounds *geometry.Rect
	// DividerWidth keeps the resolved bounds clear of the divider.
	DividerWidth int
	// DockOnTopOrLeft selects which side of the divider the docked stack
	// occupies.
	DockOnTopOrLeft bool
	// MiddlePosition is the default divider position, from the snap
	// calculator's middle target. Only consulted when Docked is true and
	// CreateBounds is nil.
	MiddlePosition int
}

// SplitBounds resolves the rectangle a stack should occupy given the docked
// split described by p. The display is split along its longer axis.
func SplitBounds(p SplitParams) geometry.Rect {
	splitHorizontally := p.DisplayRect.Width() > p.DisplayRect.Height()
	out := p.DisplayRect

	if p.Docked {
		if p.CreateBounds != nil {
			return *p.CreateBounds
		}

		// A freshly created docked stack takes about half the screen; the
		// divider can be dragged to another snap target afterwards.
		position := p.MiddlePosition
		if p.DockOnTopOrLeft {
			if splitHorizontally {
				out.Right = position
			} else {
				out.Bottom = position
			}
		} else {
			if splitHorizontally {
				out.Left = position - p.DividerWidth
			} else {
				out.Top = position - p.DividerWidth
			}
		}
		return out
	}

	// Dock-adjacent stacks occupy whatever the docked stack leaves over.
	if !p.DockOnTopOrLeft {
		if splitHorizontally {
			out.Right = p.DockedBounds.Left - p.DividerWidth
		} else {
			out.Bottom = p.DockedBounds.Top - p.DividerWidth
		}
	} else {
		if splitHorizontally {
			out.Left = p.DockedBounds.Right + p.DividerWidth
		} else {
			out.Top = p.DockedBounds.Bottom + p.DividerWidth
		}
	}
	return SanitizeBounds(out, !p.DockOnTopOrLeft)
}
