// Package snap computes the discrete set of positions a split-screen divider
// is allowed to rest at, and resolves arbitrary divider offsets to the
// nearest allowed position.
package snap

import (
	"math"
	"sort"

	"github.com/1broseidon/stackwm/internal/geometry"
)

// Kind classifies a snap target.
type Kind int

const (
	// KindDismissStart dismisses the split by collapsing the stack on the
	// start (top/left) side.
	KindDismissStart Kind = iota
	// KindFraction is a regular resting position derived from a fractional
	// screen split.
	KindFraction
	// KindMiddle is the half-split resting position, used as the default
	// when a docked stack is created without explicit bounds.
	KindMiddle
	// KindDismissEnd dismisses the split by collapsing the stack on the end
	// (bottom/right) side.
	KindDismissEnd
)

// Target is a single allowed divider position.
type Target struct {
	Position int
	Kind     Kind
}

// Dismisses reports whether resting at this target ends the split.
func (t Target) Dismisses() bool {
	return t.Kind == KindDismissStart || t.Kind == KindDismissEnd
}

// Calculator holds the fixed, ordered target set for one display
// configuration. It is immutable after construction and safe for concurrent
// use.
type Calculator struct {
	targets []Target
	middle  int // index into targets
}

// New builds the target set for a display. fractions lists the allowed
// fractional splits of the usable dimension; 0.5 is always included. The
// usable dimension is the display height minus the top/bottom insets in
// portrait, otherwise the width minus the left/right insets.
func New(fractions []float64, displayWidth, displayHeight, dividerSize int, portrait bool, insets geometry.Insets) *Calculator {
	var start, end, dim int
	if portrait {
		dim = displayHeight
		start = insets.Top
		end = insets.Bottom
	} else {
		dim = displayWidth
		start = insets.Left
		end = insets.Right
	}
	usable := dim - start - end - dividerSize
	if usable < 0 {
		usable = 0
	}

	fs := make([]float64, 0, len(fractions)+1)
	fs = append(fs, fractions...)
	hasMiddle := false
	for _, f := range fs {
		if f == 0.5 {
			hasMiddle = true
		}
	}
	if !hasMiddle {
		fs = append(fs, 0.5)
	}
	sort.Float64s(fs)

	c := &Calculator{}
	c.targets = append(c.targets, Target{Position: start, Kind: KindDismissStart})
	prev := math.Inf(-1)
	for _, f := range fs {
		if f <= 0 || f >= 1 || f == prev {
			continue
		}
		prev = f
		kind := KindFraction
		if f == 0.5 {
			kind = KindMiddle
		}
		pos := start + int(f*float64(usable)+0.5)
		if kind == KindMiddle {
			// The half split floors on odd usable dimensions so it agrees
			// with the docked-create default bounds.
			pos = start + usable/2
			c.middle = len(c.targets)
		}
		c.targets = append(c.targets, Target{Position: pos, Kind: kind})
	}
	c.targets = append(c.targets, Target{Position: start + usable, Kind: KindDismissEnd})
	return c
}

// Targets returns a copy of the full ordered target set.
func (c *Calculator) Targets() []Target {
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// MiddleTarget returns the half-split target.
func (c *Calculator) MiddleTarget() Target {
	return c.targets[c.middle]
}

// NonDismissingTargetFor returns the target closest to position that does
// not dismiss the split. Ties resolve to the earlier target.
func (c *Calculator) NonDismissingTargetFor(position int) Target {
	best := c.targets[c.middle]
	bestDist := math.MaxInt
	for _, t := range c.targets {
		if t.Dismisses() {
			continue
		}
		dist := abs(t.Position - position)
		if dist < bestDist {
			best = t
			bestDist = dist
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
