package dock

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/geometry"
)

func TestPositionBoundsRoundTrip(t *testing.T) {
	const w, h, divider = 1920, 1080, 20

	cases := []struct {
		side     Side
		position int
	}{
		{SideLeft, 950},
		{SideTop, 500},
		{SideRight, 950},
		{SideBottom, 500},
	}

	for _, tc := range cases {
		bounds := BoundsForPosition(tc.position, tc.side, w, h, divider)
		if got := PositionForBounds(bounds, tc.side, divider); got != tc.position {
			t.Fatalf("side %v: position %d round-tripped to %d (bounds %v)",
				tc.side, tc.position, got, bounds)
		}
	}
}

func TestBoundsForPositionEdges(t *testing.T) {
	b := BoundsForPosition(950, SideLeft, 1920, 1080, 20)
	if b != (geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}) {
		t.Fatalf("unexpected left-docked bounds: %v", b)
	}

	b = BoundsForPosition(950, SideRight, 1920, 1080, 20)
	if b != (geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}) {
		t.Fatalf("unexpected right-docked bounds: %v", b)
	}
}

func TestInvertSide(t *testing.T) {
	pairs := map[Side]Side{
		SideLeft:    SideRight,
		SideRight:   SideLeft,
		SideTop:     SideBottom,
		SideBottom:  SideTop,
		SideInvalid: SideInvalid,
	}
	for in, want := range pairs {
		if got := InvertSide(in); got != want {
			t.Fatalf("InvertSide(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{SideLeft, SideTop, SideRight, SideBottom} {
		if got := ParseSide(s.String()); got != s {
			t.Fatalf("ParseSide(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got := ParseSide("diagonal"); got != SideInvalid {
		t.Fatalf("unknown side must parse as invalid, got %v", got)
	}
}
