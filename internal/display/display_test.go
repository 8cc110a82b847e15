package display

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
)

func TestContentRect(t *testing.T) {
	d := New(0, Info{LogicalWidth: 1920, LogicalHeight: 1080}, 20)
	d.SetStableInsets(geometry.Insets{Top: 30, Bottom: 50})

	want := geometry.Rect{Left: 0, Top: 30, Right: 1920, Bottom: 1030}
	if got := d.ContentRect(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRotateBoundsQuarterTurn(t *testing.T) {
	// Display rotated 0 -> 90: logical size flips from 1920x1080 to
	// 1080x1920 before RotateBounds is called.
	d := New(0, Info{LogicalWidth: 1080, LogicalHeight: 1920, Rotation: Rotation90}, 20)

	r := geometry.XYWH(0, 0, 950, 1080)
	got := d.RotateBounds(Rotation0, Rotation90, r)

	if got.Width() != r.Height() || got.Height() != r.Width() {
		t.Fatalf("quarter turn must swap extents: %v -> %v", r, got)
	}
	want := geometry.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 950}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRotateBoundsHalfTurn(t *testing.T) {
	d := New(0, Info{LogicalWidth: 1920, LogicalHeight: 1080, Rotation: Rotation180}, 20)

	r := geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}
	got := d.RotateBounds(Rotation0, Rotation180, r)
	want := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRotateBoundsIdentity(t *testing.T) {
	d := New(0, Info{LogicalWidth: 1920, LogicalHeight: 1080}, 20)
	r := geometry.XYWH(10, 20, 100, 200)
	if got := d.RotateBounds(Rotation90, Rotation90, r); got != r {
		t.Fatalf("same rotation must be identity, got %v", got)
	}
}

func TestStackOrder(t *testing.T) {
	d := New(0, Info{LogicalWidth: 100, LogicalHeight: 100}, 10)
	d.AttachStack(1)
	d.AttachStack(3)
	d.AttachStack(0)

	d.MoveStack(1, true)
	if got := d.StackOrder(); got[len(got)-1] != 1 {
		t.Fatalf("expected stack 1 on top, got order %v", got)
	}

	d.MoveStack(3, false)
	if got := d.StackOrder(); got[0] != 3 {
		t.Fatalf("expected stack 3 at bottom, got order %v", got)
	}

	d.DetachStack(0)
	if got := d.StackOrder(); len(got) != 2 {
		t.Fatalf("expected 2 stacks after detach, got %v", got)
	}
}

func TestStaticPolicyDockSides(t *testing.T) {
	p := &StaticPolicy{DisallowedSides: []dock.Side{dock.SideTop}}
	if p.DockSideAllowed(dock.SideTop) {
		t.Fatalf("top side should be disallowed")
	}
	if !p.DockSideAllowed(dock.SideLeft) {
		t.Fatalf("left side should be allowed")
	}
}

func TestStaticPolicyInsetsRotate(t *testing.T) {
	p := &StaticPolicy{Insets: geometry.Insets{Top: 25}}
	in := p.StableInsets(Rotation90, 1080, 1920)
	if in.Right != 25 || in.Top != 0 {
		t.Fatalf("expected top inset to rotate to the right edge, got %v", in)
	}
}
