package geometry

import "fmt"

// Rect is a rectangle in display coordinates, stored as its four edges.
// A Rect with Left >= Right or Top >= Bottom is considered empty; the zero
// value is the canonical empty rectangle.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Intersect returns the overlap of r and o, or the zero Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// OffsetTo returns the rectangle moved so its top-left corner is at
// (left, top), preserving its size.
func (r Rect) OffsetTo(left, top int) Rect {
	return r.Offset(left-r.Left, top-r.Top)
}

// Inset returns the rectangle shrunk by the given insets on each edge.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		Left:   r.Left + in.Left,
		Top:    r.Top + in.Top,
		Right:  r.Right - in.Right,
		Bottom: r.Bottom - in.Bottom,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// Insets describes the space reserved on each edge of a rectangle.
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (in Insets) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", in.Left, in.Top, in.Right, in.Bottom)
}
