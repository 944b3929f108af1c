package render

import (
	"math"
	"math/rand/v2"

	"github.com/inamate/whiteboard/internal/geom"
)

// Sketchy wraps a Surface and draws shape outlines with a hand-drawn wobble.
// The jitter is derived from the paint seed, so an element looks the same on
// every frame. Fills and freehand paths pass through untouched.
type Sketchy struct {
	Surface
	Roughness float64
	Bowing    float64
}

// NewSketchy wraps s with default roughness and bowing.
func NewSketchy(s Surface) *Sketchy {
	return &Sketchy{Surface: s, Roughness: 1, Bowing: 1}
}

func (s *Sketchy) Rect(box geom.BoundingBox, radius float64, p Paint) {
	if radius > 0 || s.Roughness <= 0 {
		s.Surface.Rect(box, radius, p)
		return
	}

	s.Surface.FillPath(RectPath(box, 0), p)
	if p.Stroke.IsNone() {
		return
	}

	rng := s.rng(p.Seed)
	corners := []geom.Vector{box.TL(), box.TR(), box.BR(), box.BL()}
	var path []PathCommand
	for pass := 0; pass < 2; pass++ {
		for i := range corners {
			path = append(path, s.wobble(corners[i], corners[(i+1)%len(corners)], rng)...)
		}
	}
	s.Surface.StrokePath(path, p)
}

func (s *Sketchy) Ellipse(center geom.Vector, rx, ry float64, p Paint) {
	if s.Roughness <= 0 {
		s.Surface.Ellipse(center, rx, ry, p)
		return
	}

	s.Surface.FillPath(EllipsePath(center, rx, ry), p)
	if p.Stroke.IsNone() {
		return
	}

	rng := s.rng(p.Seed)
	var path []PathCommand
	for pass := 0; pass < 2; pass++ {
		path = append(path, s.wobbleEllipse(center, rx, ry, rng)...)
	}
	s.Surface.StrokePath(path, p)
}

func (s *Sketchy) Line(from, to geom.Vector, p Paint) {
	if s.Roughness <= 0 {
		s.Surface.Line(from, to, p)
		return
	}

	rng := s.rng(p.Seed)
	path := append(s.wobble(from, to, rng), s.wobble(from, to, rng)...)
	s.Surface.StrokePath(path, p)
}

func (s *Sketchy) rng(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x5eed))
}

// offset returns a random value in [-limit, limit] scaled by roughness.
func (s *Sketchy) offset(limit float64, rng *rand.Rand) float64 {
	return s.Roughness * (rng.Float64()*2 - 1) * limit
}

// wobble draws a from -> b as one bowed quadratic with jittered endpoints.
func (s *Sketchy) wobble(a, b geom.Vector, rng *rand.Rand) []PathCommand {
	length := a.Dist(b)
	jitter := math.Min(2, length/10)

	// bow perpendicular to the segment around its midpoint
	mid := a.Add(b).Scale(0.5)
	normal := geom.V(-(b.Y - a.Y), b.X-a.X).Normalize()
	bow := s.Bowing * s.offset(length/200, rng)
	ctrl := mid.Add(normal.Scale(bow)).Add(geom.V(s.offset(jitter, rng), s.offset(jitter, rng)))

	return []PathCommand{
		{"M", a.X + s.offset(jitter, rng), a.Y + s.offset(jitter, rng)},
		{"Q", ctrl.X, ctrl.Y, b.X + s.offset(jitter, rng), b.Y + s.offset(jitter, rng)},
	}
}

// wobbleEllipse walks the ellipse in steps with per-step radial noise.
func (s *Sketchy) wobbleEllipse(c geom.Vector, rx, ry float64, rng *rand.Rand) []PathCommand {
	const steps = 16
	jitter := math.Min(2, math.Max(rx, ry)/10)
	start := rng.Float64() * 2 * math.Pi
	step := 2 * math.Pi / steps

	pt := func(theta float64) geom.Vector {
		return geom.V(
			c.X+rx*math.Cos(theta)+s.offset(jitter, rng),
			c.Y+ry*math.Sin(theta)+s.offset(jitter, rng),
		)
	}

	first := pt(start)
	path := []PathCommand{{"M", first.X, first.Y}}
	// overshoot one step past the start
	for i := 1; i <= steps+1; i++ {
		theta := start + float64(i)*step
		ctrl := pt(theta - step/2)
		end := pt(theta)
		path = append(path, PathCommand{"Q", ctrl.X, ctrl.Y, end.X, end.Y})
	}
	return path
}
