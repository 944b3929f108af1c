package geom

import "math"

// BoundingBox is an axis-aligned box stored as top-left corner plus size.
// Width and height may be negative only transiently while a shape is being
// dragged; use Normalize before storing a box on a finished element.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Box returns a bounding box.
func Box(x, y, w, h float64) BoundingBox {
	return BoundingBox{X: x, Y: y, W: w, H: h}
}

// BoxFromPoints returns the normalized box spanned by two corners.
func BoxFromPoints(a, b Vector) BoundingBox {
	minX, minY := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return BoundingBox{
		X: minX,
		Y: minY,
		W: math.Max(a.X, b.X) - minX,
		H: math.Max(a.Y, b.Y) - minY,
	}
}

func (b BoundingBox) Top() float64    { return b.Y }
func (b BoundingBox) Left() float64   { return b.X }
func (b BoundingBox) Right() float64  { return b.X + b.W }
func (b BoundingBox) Bottom() float64 { return b.Y + b.H }

func (b BoundingBox) TL() Vector  { return V(b.X, b.Y) }
func (b BoundingBox) TR() Vector  { return V(b.X+b.W, b.Y) }
func (b BoundingBox) BL() Vector  { return V(b.X, b.Y+b.H) }
func (b BoundingBox) BR() Vector  { return V(b.X+b.W, b.Y+b.H) }
func (b BoundingBox) Mid() Vector { return V(b.X+b.W/2, b.Y+b.H/2) }

// Area returns w*h.
func (b BoundingBox) Area() float64 {
	return b.W * b.H
}

// IsEmpty checks if the box has zero or negative area.
func (b BoundingBox) IsEmpty() bool {
	return b.W <= 0 || b.H <= 0
}

// Normalize flips negative extents so that W and H are non-negative while
// covering the same region.
func (b BoundingBox) Normalize() BoundingBox {
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

// IsIntersecting reports whether the point lies in the box. Both edges are
// inclusive.
func (b BoundingBox) IsIntersecting(p Vector) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// IsInside reports whether b and other overlap on both axes.
//
// This is an overlap test, not containment: marquee selection relies on
// boxes that merely touch the marquee being selected.
func (b BoundingBox) IsInside(other BoundingBox) bool {
	return b.X <= other.X+other.W &&
		b.X+b.W >= other.X &&
		b.Y <= other.Y+other.H &&
		b.Y+b.H >= other.Y
}

// Contains reports full containment of other within b.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.X >= b.X && other.Right() <= b.Right() &&
		other.Y >= b.Y && other.Bottom() <= b.Bottom()
}

// Pad grows the box by d on every side. Negative d shrinks it.
func (b BoundingBox) Pad(d float64) BoundingBox {
	return BoundingBox{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d}
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.X+b.W, other.X+other.W)
	maxY := max(b.Y+b.H, other.Y+other.H)

	return BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// BoundsOf returns the tight box around a set of points, or false when the
// set is empty.
func BoundsOf(points []Vector) (BoundingBox, bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}
