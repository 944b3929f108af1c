package element

import (
	"math"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/typeid"
)

// cornerFactor scales the shorter side into a corner radius for small
// rounded rectangles.
const cornerFactor = 0.25

// Rectangle is an axis-aligned, optionally rounded rectangle sized by a drag.
type Rectangle struct {
	base
	anchor geom.Vector
	origin geom.Vector
	width  float64
	height float64
}

// NewRectangle creates a zero-size rectangle anchored at origin.
func NewRectangle(st style.Style, origin geom.Vector) *Rectangle {
	return &Rectangle{
		base:   newBase(KindRect, typeid.PrefixRect, st),
		anchor: origin,
		origin: origin,
	}
}

// Resize sizes the rectangle from a drag offset relative to the anchor.
// Dragging up or left of the anchor moves the origin so width and height
// stay non-negative. Proportional locks the aspect to a square.
func (r *Rectangle) Resize(offset geom.Vector, proportional bool) {
	if r.done {
		return
	}
	w, h := math.Abs(offset.X), math.Abs(offset.Y)
	if proportional {
		w = math.Max(w, h)
		h = w
	}

	r.origin = r.anchor
	if offset.X < 0 {
		r.origin.X = r.anchor.X - w
	}
	if offset.Y < 0 {
		r.origin.Y = r.anchor.Y - h
	}
	r.width, r.height = w, h
}

func (r *Rectangle) Origin() geom.Vector { return r.origin }

func (r *Rectangle) Size() geom.Vector { return geom.V(r.width, r.height) }

// Radius returns the corner radius: a quarter of the shorter side, capped by
// the style's roundness.
func (r *Rectangle) Radius() float64 {
	roundness := r.style.RoundnessOr(0)
	if roundness <= 0 {
		return 0
	}
	return math.Min(math.Min(r.width, r.height)*cornerFactor, roundness)
}

func (r *Rectangle) SetDone(done bool) {
	r.done = done
	if done {
		r.CalculateBoundingBox()
	}
}

func (r *Rectangle) CalculateBoundingBox() {
	r.box = geom.Box(r.origin.X, r.origin.Y, r.width, r.height).Normalize()
}

// CheckIntersection treats filled rectangles as solid. Outline-only
// rectangles are hit on the band of stroke width centred on the perimeter.
func (r *Rectangle) CheckIntersection(p geom.Vector) bool {
	if r.style.HasFill() {
		return r.box.IsIntersecting(p)
	}

	half := r.style.StrokeWidth / 2
	if !r.box.Pad(half).IsIntersecting(p) {
		return false
	}
	inner := r.box.Pad(-half)
	if inner.IsEmpty() {
		return true
	}
	return !(p.X > inner.Left() && p.X < inner.Right() && p.Y > inner.Top() && p.Y < inner.Bottom())
}

func (r *Rectangle) Draw(s render.Surface) {
	s.Rect(geom.Box(r.origin.X, r.origin.Y, r.width, r.height), r.Radius(), r.paint())
}

// Circle is an ellipse centred on its drag start.
type Circle struct {
	base
	center geom.Vector
	rx, ry float64
}

// NewCircle creates a zero-radius circle at center.
func NewCircle(st style.Style, center geom.Vector) *Circle {
	return &Circle{
		base:   newBase(KindCircle, typeid.PrefixCircle, st),
		center: center,
	}
}

// Resize derives the radii from a drag offset. Proportional keeps it round.
func (c *Circle) Resize(offset geom.Vector, proportional bool) {
	if c.done {
		return
	}
	c.rx, c.ry = math.Abs(offset.X), math.Abs(offset.Y)
	if proportional {
		c.rx = math.Max(c.rx, c.ry)
		c.ry = c.rx
	}
}

func (c *Circle) Center() geom.Vector { return c.center }

func (c *Circle) Radii() geom.Vector { return geom.V(c.rx, c.ry) }

func (c *Circle) SetDone(done bool) {
	c.done = done
	if done {
		c.CalculateBoundingBox()
	}
}

func (c *Circle) CalculateBoundingBox() {
	c.box = geom.Box(c.center.X-c.rx, c.center.Y-c.ry, 2*c.rx, 2*c.ry)
}

// CheckIntersection uses the bounding box, not the exact ellipse.
func (c *Circle) CheckIntersection(p geom.Vector) bool {
	return c.intersects(p)
}

func (c *Circle) Draw(s render.Surface) {
	s.Ellipse(c.center, c.rx, c.ry, c.paint())
}

// Line is a straight segment between two points.
type Line struct {
	base
	begin geom.Vector
	end   geom.Vector
}

// NewLine creates a zero-length line at begin.
func NewLine(st style.Style, begin geom.Vector) *Line {
	return &Line{
		base:  newBase(KindLine, typeid.PrefixLine, st),
		begin: begin,
		end:   begin,
	}
}

// SetEnd moves the free end of the line.
func (l *Line) SetEnd(p geom.Vector) {
	if l.done {
		return
	}
	l.end = p
}

func (l *Line) Begin() geom.Vector { return l.begin }
func (l *Line) End() geom.Vector   { return l.end }

func (l *Line) SetDone(done bool) {
	l.done = done
	if done {
		l.CalculateBoundingBox()
	}
}

func (l *Line) CalculateBoundingBox() {
	l.box = geom.BoxFromPoints(l.begin, l.end)
}

func (l *Line) CheckIntersection(p geom.Vector) bool {
	return l.intersects(p)
}

func (l *Line) Draw(s render.Surface) {
	s.Line(l.begin, l.end, l.paint())
}
