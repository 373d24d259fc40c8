// Package geom provides the CSS-pixel geometry primitives layout and
// display lists are built from. All values are float64 pixels.
package geom

// Point is a position.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Origin Point
	Size   Size
}

// MakeRect builds a rect from its origin and size components.
func MakeRect(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// IsEmpty reports whether the rect covers no area.
func (r Rect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Contains reports whether the point is inside the rect. The top and
// left edges are inside; the bottom and right edges are not, so
// adjacent rects never both claim a shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.MaxX() &&
		p.Y >= r.Origin.Y && p.Y < r.MaxY()
}

// Union returns the smallest rect covering both. An empty rect is the
// identity, so a zero Rect works as a fold accumulator.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := min(r.Origin.X, other.Origin.X)
	y := min(r.Origin.Y, other.Origin.Y)
	maxX := max(r.MaxX(), other.MaxX())
	maxY := max(r.MaxY(), other.MaxY())
	return MakeRect(x, y, maxX-x, maxY-y)
}

// Intersects reports whether the rects overlap. Empty rects intersect
// nothing.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Origin.X < other.MaxX() && other.Origin.X < r.MaxX() &&
		r.Origin.Y < other.MaxY() && other.Origin.Y < r.MaxY()
}

// Translate returns the rect shifted by the offset.
func (r Rect) Translate(offset Point) Rect {
	return Rect{
		Origin: Point{X: r.Origin.X + offset.X, Y: r.Origin.Y + offset.Y},
		Size:   r.Size,
	}
}
