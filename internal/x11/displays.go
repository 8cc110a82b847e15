package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/geometry"
)

// PrimaryDisplay reads the geometry and rotation of the first active
// CRTC using XRandR.
func (c *Connection) PrimaryDisplay() (display.Info, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return display.Info{}, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return display.Info{}, fmt.Errorf("failed to get screen resources: %w", err)
	}

	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}
		return display.Info{
			LogicalWidth:  int(crtcInfo.Width),
			LogicalHeight: int(crtcInfo.Height),
			Rotation:      quarterTurns(crtcInfo.Rotation),
		}, nil
	}

	return display.Info{}, fmt.Errorf("no active monitor found")
}

// quarterTurns maps a RandR rotation bitmask to quarter turns (0-3).
func quarterTurns(r uint16) int {
	switch {
	case r&randr.RotationRotate90 != 0:
		return 1
	case r&randr.RotationRotate180 != 0:
		return 2
	case r&randr.RotationRotate270 != 0:
		return 3
	default:
		return 0
	}
}

// StableInsets accumulates the struts of EWMH dock windows (panels,
// taskbars) into per-edge insets for the given display rectangle. Only
// the strut bands that actually overlap the rectangle count.
func (c *Connection) StableInsets(bounds geometry.Rect) (geometry.Insets, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geometry.Insets{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return geometry.Insets{}, fmt.Errorf("failed to list clients: %w", err)
	}

	var insets geometry.Insets
	for _, windowID := range clients {
		if !isDockWindow(c, windowID) {
			continue
		}
		sp := strutsFor(c, windowID, rootWidth, rootHeight)
		if sp == nil {
			continue
		}
		accumulateStruts(bounds, rootWidth, rootHeight, sp, &insets)
	}
	return insets, nil
}

func isDockWindow(c *Connection, windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func strutsFor(c *Connection, windowID xproto.Window, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
		return sp
	}

	// Some docks only set _NET_WM_STRUT (no partial ranges).
	s, err := ewmh.WmStrutGet(c.XUtil, windowID)
	if err != nil {
		return nil
	}
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

func accumulateStruts(bounds geometry.Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *geometry.Insets) {
	if sp.Top > 0 {
		band := geometry.Rect{
			Left: int(sp.TopStartX), Top: 0,
			Right: int(sp.TopEndX) + 1, Bottom: int(sp.Top),
		}
		if isect := bounds.Intersect(band); !isect.IsEmpty() {
			acc.Top = max(acc.Top, isect.Height())
		}
	}
	if sp.Bottom > 0 {
		band := geometry.Rect{
			Left: int(sp.BottomStartX), Top: rootHeight - int(sp.Bottom),
			Right: int(sp.BottomEndX) + 1, Bottom: rootHeight,
		}
		if isect := bounds.Intersect(band); !isect.IsEmpty() {
			acc.Bottom = max(acc.Bottom, isect.Height())
		}
	}
	if sp.Left > 0 {
		band := geometry.Rect{
			Left: 0, Top: int(sp.LeftStartY),
			Right: int(sp.Left), Bottom: int(sp.LeftEndY) + 1,
		}
		if isect := bounds.Intersect(band); !isect.IsEmpty() {
			acc.Left = max(acc.Left, isect.Width())
		}
	}
	if sp.Right > 0 {
		band := geometry.Rect{
			Left: rootWidth - int(sp.Right), Top: int(sp.RightStartY),
			Right: rootWidth, Bottom: int(sp.RightEndY) + 1,
		}
		if isect := bounds.Intersect(band); !isect.IsEmpty() {
			acc.Right = max(acc.Right, isect.Width())
		}
	}
}
