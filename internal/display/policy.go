package display

import (
	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
)

// Policy is the read-only window policy surface the layout engine consults.
// It is evaluated elsewhere; only the queries matter here.
type Policy interface {
	// StableInsets returns the decor insets for a display of the given
	// logical size under the given rotation.
	StableInsets(rotation, width, height int) geometry.Insets
	// DockSideAllowed reports whether the docked stack may rest on side.
	DockSideAllowed(side dock.Side) bool
	// KeyguardShowing reports whether the lock screen currently restricts
	// stack visibility.
	KeyguardShowing() bool
}

// StaticPolicy is a fixed Policy, configured once at startup. The zero
// value allows every dock side, reports no insets and no keyguard.
type StaticPolicy struct {
	Insets          geometry.Insets
	DisallowedSides []dock.Side
	Keyguard        bool
}

func (p *StaticPolicy) StableInsets(rotation, width, height int) geometry.Insets {
	// Insets are declared for the natural orientation; a quarter turn
	// rotates them around the display.
	in := p.Insets
	switch rotation {
	case Rotation90:
		return geometry.Insets{Left: in.Bottom, Top: in.Left, Right: in.Top, Bottom: in.Right}
	case Rotation180:
		return geometry.Insets{Left: in.Right, Top: in.Bottom, Right: in.Left, Bottom: in.Top}
	case Rotation270:
		return geometry.Insets{Left: in.Top, Top: in.Right, Right: in.Bottom, Bottom: in.Left}
	default:
		return in
	}
}

func (p *StaticPolicy) DockSideAllowed(side dock.Side) bool {
	for _, s := range p.DisallowedSides {
		if s == side {
			return false
		}
	}
	return true
}

func (p *StaticPolicy) KeyguardShowing() bool {
	return p.Keyguard
}
