package element

import (
	"math"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
)

// FreehandOptions tunes the variable-width outline generated for strokes.
type FreehandOptions struct {
	Size             float64
	Thinning         float64
	Smoothing        float64
	Streamline       float64
	SimulatePressure bool
	Easing           func(t float64) float64
	// Last marks the input as complete; the final point is kept exactly.
	Last bool
}

// StrokeOptions returns the outline settings used for brush strokes.
func StrokeOptions(width float64, complete bool) FreehandOptions {
	return FreehandOptions{
		Size:             width,
		Thinning:         0.6,
		Smoothing:        0.5,
		Streamline:       0.5,
		SimulatePressure: true,
		Easing:           easeOutSine,
		Last:             complete,
	}
}

func easeOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

const (
	rateOfPressureChange = 0.275
	defaultPressure      = 0.5
	// slightly more than pi so that rotations round past the half turn
	fixedPi = math.Pi + 0.0001
)

type strokePoint struct {
	point         geom.Vector
	pressure      float64
	vector        geom.Vector
	distance      float64
	runningLength float64
}

// StrokeOutline converts captured input points into the closed polygon
// outlining a pressure-simulated brush stroke.
func StrokeOutline(points []geom.Vector, opts FreehandOptions) []geom.Vector {
	return outlinePoints(strokePoints(points, opts), opts)
}

// OutlinePath turns an outline polygon into a closed smooth path of
// quadratic segments through consecutive midpoints. Fewer than four points
// yield no path.
func OutlinePath(outline []geom.Vector) []render.PathCommand {
	n := len(outline)
	if n < 4 {
		return nil
	}

	path := make([]render.PathCommand, 0, n+2)
	path = append(path, render.PathCommand{"M", outline[0].X, outline[0].Y})
	for i, p := range outline {
		next := outline[(i+1)%n]
		path = append(path, render.PathCommand{"Q", p.X, p.Y, (p.X + next.X) / 2, (p.Y + next.Y) / 2})
	}
	return append(path, render.PathCommand{"Z"})
}

func strokePoints(input []geom.Vector, opts FreehandOptions) []strokePoint {
	if len(input) == 0 {
		return nil
	}

	t := 0.15 + (1-opts.Streamline)*0.85

	pts := make([]geom.Vector, len(input))
	for i, p := range input {
		pts[i] = geom.V(p.X, p.Y)
	}

	switch len(pts) {
	case 1:
		pts = append(pts, pts[0].Add(geom.V(1, 1)))
	case 2:
		last := pts[1]
		pts = pts[:1]
		for i := 1; i < 5; i++ {
			pts = append(pts, lerp(pts[0], last, float64(i)/4))
		}
	}

	out := []strokePoint{{
		point:    pts[0],
		pressure: defaultPressure,
		vector:   geom.V(1, 1),
	}}

	reachedMinLength := false
	runningLength := 0.0
	prev := out[0]
	last := len(pts) - 1

	for i := 1; i < len(pts); i++ {
		var point geom.Vector
		if opts.Last && i == last {
			point = pts[i]
		} else {
			point = lerp(prev.point, pts[i], t)
		}
		if point.Equal(prev.point) {
			continue
		}

		distance := point.Dist(prev.point)
		runningLength += distance

		if i < last && !reachedMinLength {
			if runningLength < opts.Size {
				continue
			}
			reachedMinLength = true
		}

		prev = strokePoint{
			point:         point,
			pressure:      defaultPressure,
			vector:        prev.point.Sub(point).Normalize(),
			distance:      distance,
			runningLength: runningLength,
		}
		out = append(out, prev)
	}

	if len(out) > 1 {
		out[0].vector = out[1].vector
	} else {
		out[0].vector = geom.Vector{}
	}
	return out
}

func outlinePoints(points []strokePoint, opts FreehandOptions) []geom.Vector {
	if len(points) == 0 || opts.Size <= 0 {
		return nil
	}

	easing := opts.Easing
	if easing == nil {
		easing = func(t float64) float64 { return t }
	}

	n := len(points)
	totalLength := points[n-1].runningLength
	minDistance := math.Pow(opts.Size*opts.Smoothing, 2)

	var left, right []geom.Vector

	// seed the simulated pressure from the first few points
	prevPressure := points[0].pressure
	for _, p := range points[:min(10, n)] {
		pressure := p.pressure
		if opts.SimulatePressure {
			pressure = simulatedPressure(prevPressure, p.distance, opts.Size)
		}
		prevPressure = (prevPressure + pressure) / 2
	}

	radius := strokeRadius(opts.Size, opts.Thinning, points[n-1].pressure, easing)
	firstRadius := -1.0
	prevVector := points[0].vector
	pl, pr := points[0].point, points[0].point
	tl, tr := pl, pr
	prevSharp := false

	for i, sp := range points {
		pressure := sp.pressure

		if i < n-1 && totalLength-sp.runningLength < 3 {
			continue
		}

		if opts.Thinning != 0 {
			if opts.SimulatePressure {
				pressure = simulatedPressure(prevPressure, sp.distance, opts.Size)
			}
			radius = strokeRadius(opts.Size, opts.Thinning, pressure, easing)
		} else {
			radius = opts.Size / 2
		}
		if firstRadius < 0 {
			firstRadius = radius
		}
		radius = math.Max(0.01, radius)

		nextVector := sp.vector
		nextDpr := 1.0
		if i < n-1 {
			nextVector = points[i+1].vector
			nextDpr = sp.vector.Dot(nextVector)
		}
		prevDpr := sp.vector.Dot(prevVector)

		sharp := prevDpr < 0 && !prevSharp
		nextSharp := nextDpr < 0

		if sharp || nextSharp {
			// round the corner with a half circle
			offset := perp(prevVector).Scale(radius)
			const step = 1.0 / 13
			for t := 0.0; t <= 1; t += step {
				tl = rotateAround(sp.point.Sub(offset), sp.point, fixedPi*t)
				left = append(left, tl)
				tr = rotateAround(sp.point.Add(offset), sp.point, -fixedPi*t)
				right = append(right, tr)
			}
			pl, pr = tl, tr
			if nextSharp {
				prevSharp = true
			}
			continue
		}
		prevSharp = false

		if i == n-1 {
			offset := perp(sp.vector).Scale(radius)
			left = append(left, sp.point.Sub(offset))
			right = append(right, sp.point.Add(offset))
			continue
		}

		offset := perp(lerp(nextVector, sp.vector, nextDpr)).Scale(radius)

		tl = sp.point.Sub(offset)
		if i <= 1 || dist2(pl, tl) > minDistance {
			left = append(left, tl)
			pl = tl
		}

		tr = sp.point.Add(offset)
		if i <= 1 || dist2(pr, tr) > minDistance {
			right = append(right, tr)
			pr = tr
		}

		prevPressure = pressure
		prevVector = sp.vector
	}

	first := points[0].point
	last := first.Add(geom.V(1, 1))
	if n > 1 {
		last = points[n-1].point
	}

	if n == 1 {
		r := firstRadius
		if r < 0 {
			r = radius
		}
		start := first.Add(perp(first.Sub(last)).Normalize().Scale(-r))
		var dot []geom.Vector
		const step = 1.0 / 13
		for t := step; t <= 1; t += step {
			dot = append(dot, rotateAround(start, first, fixedPi*2*t))
		}
		return dot
	}

	if len(right) == 0 {
		return nil
	}

	var startCap []geom.Vector
	for t := 1.0 / 13; t <= 1; t += 1.0 / 13 {
		startCap = append(startCap, rotateAround(right[0], first, fixedPi*t))
	}

	var endCap []geom.Vector
	direction := perp(points[n-1].vector.Scale(-1))
	start := last.Add(direction.Scale(radius))
	for t := 1.0 / 29; t < 1; t += 1.0 / 29 {
		endCap = append(endCap, rotateAround(start, last, fixedPi*3*t))
	}

	out := make([]geom.Vector, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return append(out, startCap...)
}

func simulatedPressure(prev, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*rateOfPressureChange))
}

func strokeRadius(size, thinning, pressure float64, easing func(float64) float64) float64 {
	return size * easing(0.5-thinning*(0.5-pressure))
}

func lerp(a, b geom.Vector, t float64) geom.Vector {
	return a.Add(b.Sub(a).Scale(t))
}

// perp rotates a 2D vector a quarter turn.
func perp(v geom.Vector) geom.Vector {
	return geom.V(v.Y, -v.X)
}

func rotateAround(p, c geom.Vector, r float64) geom.Vector {
	s, co := math.Sin(r), math.Cos(r)
	px, py := p.X-c.X, p.Y-c.Y
	return geom.V(px*co-py*s+c.X, px*s+py*co+c.Y)
}

func dist2(a, b geom.Vector) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y
}
