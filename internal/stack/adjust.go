package stack

import (
	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
)

// InputSurface is the on-screen input window (e.g. a soft keyboard) a
// docked stack dodges while it is visible.
type InputSurface interface {
	// Frame is the surface's display frame.
	Frame() geometry.Rect
	// ContentInsets is the part of the frame the surface does not draw
	// content into.
	ContentInsets() geometry.Insets
}

// SetImeAdjustment starts adjusting the stack bounds around a visible
// input surface.
func (s *Stack) SetImeAdjustment(surface InputSurface) {
	s.adjustedForIme = true
	s.imeSurface = surface
	s.updateAdjustedBounds()
}

// ClearImeAdjustment ends the input-surface adjustment.
func (s *Stack) ClearImeAdjustment() {
	s.adjustedForIme = false
	s.imeSurface = nil
	s.updateAdjustedBounds()
}

// SetMinimizeAmount sets how far the stack is minimized, between 0 and 1.
// Reports whether the change needs a relayout, which it does only when the
// stack is visible to the current user.
func (s *Stack) SetMinimizeAmount(amount float64) bool {
	if amount == s.minimizeAmount {
		return false
	}
	s.minimizeAmount = amount
	s.updateAdjustedBounds()
	return s.VisibleForUser()
}

// MinimizeAmount returns the current minimize progress.
func (s *Stack) MinimizeAmount() float64 { return s.minimizeAmount }

// AdjustedForMinimizedDock reports whether the minimize adjustment is the
// active one.
func (s *Stack) AdjustedForMinimizedDock() bool { return s.minimizeAmount != 0 }

// AdjustedForIme reports whether the input-surface adjustment is enabled.
// It only takes effect while the minimize adjustment is inactive.
func (s *Stack) AdjustedForIme() bool { return s.adjustedForIme }

// updateAdjustedBounds re-evaluates the adjustment state machine. The
// minimize adjustment takes priority; the input-surface adjustment only
// runs when the stack is not minimized at all. When neither applies the
// override and the hysteresis cache are cleared.
func (s *Stack) updateAdjustedBounds() {
	adjust := false
	if s.minimizeAmount != 0 {
		adjust = s.adjustForMinimizedDock(s.minimizeAmount)
	} else if s.adjustedForIme {
		adjust = s.adjustForIme(s.imeSurface)
	}
	if !adjust {
		s.pendingAdjusted = geometry.Rect{}
		s.lastContentBounds = geometry.Rect{}
	}
	s.setAdjustedBounds(s.pendingAdjusted, s.AdjustedForMinimizedDock())
}

// adjustForIme computes the override rectangle keeping a top- or
// bottom-docked stack clear of the input surface. Reports whether the
// adjustment is in effect; a true return with unchanged content bounds
// deliberately keeps the previous override instead of recomputing it, so
// transient re-evaluations do not race the bounds back to empty.
func (s *Stack) adjustForIme(surface InputSurface) bool {
	dockedSide := s.DockSide()
	dockedTopOrBottom := dockedSide == dock.SideTop || dockedSide == dock.SideBottom
	if surface == nil || !dockedTopOrBottom {
		return false
	}

	// Content area left over below the display top once the input surface
	// is taken out.
	displayContentRect := s.display.ContentRect()
	contentBounds := displayContentRect
	imeTop := max(surface.Frame().Top, contentBounds.Top)
	imeTop += surface.ContentInsets().Top
	if contentBounds.Bottom > imeTop {
		contentBounds.Bottom = imeTop
	}

	if s.lastContentBounds == contentBounds {
		return true
	}

	s.lastContentBounds = contentBounds
	adjusted := s.bounds
	yOffset := displayContentRect.Bottom - contentBounds.Bottom

	if dockedSide == dock.SideTop {
		// Shrink the top stack so the bottom one is not occluded. Task
		// bounds stay put; only the stack override moves.
		adjusted.Bottom = max(adjusted.Bottom-yOffset, displayContentRect.Top)
	} else {
		// Shift the bottom stack up by the surface height, at best until
		// the top stack is fully collapsed, keeping this stack's height.
		dividerWidth := s.display.DividerWidth()
		adjusted.Top = max(adjusted.Top-yOffset, displayContentRect.Top+dividerWidth)
		adjusted.Bottom = adjusted.Top + s.bounds.Height()
	}
	s.pendingAdjusted = adjusted
	return true
}

// adjustForMinimizedDock interpolates the divider-facing edge of the stack
// between its full position and the minimized resting position: the stable
// top inset for a top dock, the minimize thickness for a side dock. A
// stack with no determinate dock side and a non-empty previous override
// cannot adjust and reverts to idle.
func (s *Stack) adjustForMinimizedDock(amount float64) bool {
	dockSide := s.DockSide()
	if dockSide == dock.SideInvalid && !s.pendingAdjusted.IsEmpty() {
		return false
	}

	switch dockSide {
	case dock.SideTop:
		topInset := s.display.StableInsets().Top
		adjusted := s.bounds
		adjusted.Bottom = lerp(amount, topInset, s.bounds.Bottom)
		s.pendingAdjusted = adjusted
	case dock.SideLeft:
		adjusted := s.bounds
		adjusted.Right = lerp(amount, s.deps.MinimizeThickness, s.bounds.Right)
		s.pendingAdjusted = adjusted
	case dock.SideRight:
		adjusted := s.bounds
		adjusted.Left = lerp(amount, s.bounds.Right-s.deps.MinimizeThickness, s.bounds.Left)
		s.pendingAdjusted = adjusted
	}
	return true
}

// lerp interpolates from full (amount 0) to minimized (amount 1).
func lerp(amount float64, minimized, full int) int {
	return int(amount*float64(minimized) + (1-amount)*float64(full))
}

// setAdjustedBounds installs the override rectangle and realigns member
// tasks to it. keepInsets preserves the raw bounds as the inset source
// through the adjustment, which the minimize animation needs so task
// content does not reflow while sliding.
func (s *Stack) setAdjustedBounds(bounds geometry.Rect, keepInsets bool) {
	if s.adjustedBounds == bounds {
		return
	}

	s.adjustedBounds = bounds
	adjusted := !bounds.IsEmpty()

	alignTo := s.bounds
	if adjusted {
		alignTo = s.adjustedBounds
	}
	var tempInsetBounds *geometry.Rect
	if adjusted && keepInsets {
		b := s.bounds
		tempInsetBounds = &b
	}
	s.alignTasksToAdjustedBounds(alignTo, tempInsetBounds)

	if s.display != nil {
		s.display.RequestLayout()
	}
}

// alignTasksToAdjustedBounds moves member tasks along with the override: a
// panned task is re-laid out fullscreen-equivalent and re-scrolled, a
// resizeable task with an override configuration is carried to the
// adjusted top-left with the original rectangle as temporary inset source.
func (s *Stack) alignTasksToAdjustedBounds(adjustedBounds geometry.Rect, tempInsetBounds *geometry.Rect) {
	if s.fullscreen {
		return
	}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		task := s.tasks[i]
		if task.TwoFingerScrollMode() {
			task.Resize(nil, nil, false)
			task.Scroll(task.Bounds())
		} else if task.Resizeable && task.OverrideConfig != EmptyTaskConfig {
			b := task.Bounds().OffsetTo(adjustedBounds.Left, adjustedBounds.Top)
			task.SetTempInsetBounds(tempInsetBounds)
			task.Resize(&b, &task.OverrideConfig, false)
		}
	}
}
