// Package render defines the drawing boundary the scene draws against and
// provides three implementations: a command recorder for hosts that replay
// draw calls on their own canvas, a gg-backed raster surface, and a seeded
// hand-drawn decorator.
package render

import (
	"errors"
	"slices"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
)

var ErrNoSurface = errors.New("drawing surface unavailable")

// PathCommand is a single path segment in Canvas2D order:
// ["M", x, y], ["L", x, y], ["Q", cx, cy, x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// Paint is the resolved style for one draw call.
type Paint struct {
	Fill        style.Color `json:"fill,omitempty"`
	Stroke      style.Color `json:"stroke,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty"`
	Opacity     float64     `json:"opacity,omitempty"`
	LineDash    []float64   `json:"lineDash,omitempty"`
	Shadow      float64     `json:"shadow,omitempty"`
	Seed        int64       `json:"seed,omitempty"`
}

// PaintOf resolves an element style plus its stable seed.
func PaintOf(s style.Style, seed int64) Paint {
	return Paint{
		Fill:        s.FillColor,
		Stroke:      s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
		Opacity:     s.Opacity,
		LineDash:    slices.Clone(s.LineDash),
		Seed:        seed,
	}
}

// Fade returns a copy with opacity multiplied by f.
func (p Paint) Fade(f float64) Paint {
	p.Opacity *= f
	return p
}

// Surface is the abstract 2D drawing target. Fill and stroke are skipped
// when the corresponding paint color is style.None.
type Surface interface {
	Clear(bg style.Color)
	Save()
	Restore()
	// Transform concatenates m onto the current transform.
	Transform(m geom.Matrix2D)

	FillPath(path []PathCommand, p Paint)
	StrokePath(path []PathCommand, p Paint)
	Rect(box geom.BoundingBox, radius float64, p Paint)
	Ellipse(center geom.Vector, rx, ry float64, p Paint)
	Line(from, to geom.Vector, p Paint)
}

// RectPath builds a (optionally rounded) rectangle outline.
func RectPath(b geom.BoundingBox, r float64) []PathCommand {
	x, y, w, h := b.X, b.Y, b.W, b.H
	if r <= 0 {
		return []PathCommand{
			{"M", x, y},
			{"L", x + w, y},
			{"L", x + w, y + h},
			{"L", x, y + h},
			{"Z"},
		}
	}
	return []PathCommand{
		{"M", x + r, y},
		{"L", x + w - r, y},
		{"Q", x + w, y, x + w, y + r},
		{"L", x + w, y + h - r},
		{"Q", x + w, y + h, x + w - r, y + h},
		{"L", x + r, y + h},
		{"Q", x, y + h, x, y + h - r},
		{"L", x, y + r},
		{"Q", x, y, x + r, y},
		{"Z"},
	}
}

// EllipsePath approximates an ellipse with four cubic beziers.
func EllipsePath(c geom.Vector, rx, ry float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	x, y := c.X, c.Y

	return []PathCommand{
		{"M", x + rx, y},
		{"C", x + rx, y + ky, x + kx, y + ry, x, y + ry},
		{"C", x - kx, y + ry, x - rx, y + ky, x - rx, y},
		{"C", x - rx, y - ky, x - kx, y - ry, x, y - ry},
		{"C", x + kx, y - ry, x + rx, y - ky, x + rx, y},
		{"Z"},
	}
}

// WalkPath decodes path commands and calls the matching callback for each
// segment. Malformed commands are skipped.
func WalkPath(path []PathCommand, moveTo, lineTo func(x, y float64), quadTo func(cx, cy, x, y float64), cubicTo func(x1, y1, x2, y2, x, y float64), closePath func()) {
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}

		switch op {
		case "M":
			if len(cmd) >= 3 {
				moveTo(toFloat64(cmd[1]), toFloat64(cmd[2]))
			}
		case "L":
			if len(cmd) >= 3 {
				lineTo(toFloat64(cmd[1]), toFloat64(cmd[2]))
			}
		case "Q":
			if len(cmd) >= 5 {
				quadTo(toFloat64(cmd[1]), toFloat64(cmd[2]), toFloat64(cmd[3]), toFloat64(cmd[4]))
			}
		case "C":
			if len(cmd) >= 7 {
				cubicTo(toFloat64(cmd[1]), toFloat64(cmd[2]), toFloat64(cmd[3]), toFloat64(cmd[4]), toFloat64(cmd[5]), toFloat64(cmd[6]))
			}
		case "Z":
			closePath()
		}
	}
}

// toFloat64 converts an interface{} to float64.
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
