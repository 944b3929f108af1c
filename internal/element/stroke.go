package element

import (
	"slices"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/typeid"
)

// strokeShadow is the blur radius drawn around freehand strokes.
const strokeShadow = 3

// degenerateArea is the bounding box area below which a stroke is hit
// anywhere inside its (padded) box.
const degenerateArea = 10

// Stroke is a freehand brush stroke filled from a variable-width outline.
type Stroke struct {
	base
	points  []geom.Vector
	outline []render.PathCommand

	// outlined is set once outline holds the result for the current
	// points; nil is a valid outline for very short strokes.
	outlined bool
}

// NewStroke starts a stroke at first.
func NewStroke(st style.Style, first geom.Vector) *Stroke {
	return &Stroke{
		base:   newBase(KindStroke, typeid.PrefixStroke, st),
		points: []geom.Vector{first},
	}
}

// AddPoint appends a captured point. Ignored once the stroke is done.
func (s *Stroke) AddPoint(p geom.Vector) {
	if s.done {
		return
	}
	s.points = append(s.points, p)
	s.outline, s.outlined = nil, false
}

// Points returns a copy of the captured points.
func (s *Stroke) Points() []geom.Vector {
	return slices.Clone(s.points)
}

// Outline returns the filled outline path. While the stroke is still being
// drawn it is recomputed from the current points on every call.
func (s *Stroke) Outline() []render.PathCommand {
	if !s.done || !s.outlined {
		s.outline, s.outlined = s.computeOutline(), true
	}
	return s.outline
}

func (s *Stroke) computeOutline() []render.PathCommand {
	return OutlinePath(StrokeOutline(s.points, StrokeOptions(s.style.StrokeWidth, s.done)))
}

func (s *Stroke) SetDone(done bool) {
	s.done = done
	if done {
		s.CalculateBoundingBox()
		s.outline, s.outlined = s.computeOutline(), true
	}
}

func (s *Stroke) CalculateBoundingBox() {
	if box, ok := geom.BoundsOf(s.points); ok {
		s.box = box
	}
}

// CheckIntersection tests the point against the filled outline. Strokes
// whose box is nearly empty, such as single dots, fall back to the box
// grown by half the stroke width.
func (s *Stroke) CheckIntersection(p geom.Vector) bool {
	if render.PathContains(s.Outline(), p) {
		return true
	}
	if s.box.Area() <= degenerateArea {
		return s.box.Pad(s.style.StrokeWidth / 2).IsIntersecting(p)
	}
	return false
}

func (s *Stroke) Draw(surface render.Surface) {
	p := s.paint()
	p.Fill = s.style.StrokeColor
	p.Stroke = style.None
	p.Shadow = strokeShadow
	surface.FillPath(s.Outline(), p)
}
