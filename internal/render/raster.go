package render

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
)

// Raster draws onto an in-memory gg context. It backs PNG export.
type Raster struct {
	dc *gg.Context
}

// NewRaster allocates a width x height surface.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster %dx%d: %w", width, height, ErrNoSurface)
	}
	return &Raster{dc: gg.NewContext(width, height)}, nil
}

func (r *Raster) Width() int  { return r.dc.Width() }
func (r *Raster) Height() int { return r.dc.Height() }

// EncodePNG writes the current pixels as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) Clear(bg style.Color) {
	if bg.IsNone() {
		r.dc.Clear()
		return
	}
	r.dc.ClearWithColor(gg.Hex(string(bg)))
}

func (r *Raster) Save()    { r.dc.Push() }
func (r *Raster) Restore() { r.dc.Pop() }

func (r *Raster) Transform(m geom.Matrix2D) {
	// gg: x' = A*x + B*y + C, y' = D*x + E*y + F
	r.dc.Transform(gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]})
}

func (r *Raster) FillPath(path []PathCommand, p Paint) {
	if p.Fill.IsNone() || len(path) == 0 {
		return
	}
	r.tracePath(path)
	r.setColor(p.Fill, p.Opacity)
	if err := r.dc.Fill(); err != nil {
		slog.Debug("raster fill failed", "error", err)
	}
}

func (r *Raster) StrokePath(path []PathCommand, p Paint) {
	if p.Stroke.IsNone() || len(path) == 0 {
		return
	}
	r.tracePath(path)
	r.setColor(p.Stroke, p.Opacity)
	r.dc.SetLineWidth(p.StrokeWidth)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	if len(p.LineDash) > 0 {
		r.dc.SetDash(p.LineDash...)
	} else {
		r.dc.ClearDash()
	}
	if err := r.dc.Stroke(); err != nil {
		slog.Debug("raster stroke failed", "error", err)
	}
}

func (r *Raster) Rect(box geom.BoundingBox, radius float64, p Paint) {
	path := RectPath(box, radius)
	r.FillPath(path, p)
	r.StrokePath(path, p)
}

func (r *Raster) Ellipse(center geom.Vector, rx, ry float64, p Paint) {
	path := EllipsePath(center, rx, ry)
	r.FillPath(path, p)
	r.StrokePath(path, p)
}

func (r *Raster) Line(from, to geom.Vector, p Paint) {
	r.StrokePath([]PathCommand{{"M", from.X, from.Y}, {"L", to.X, to.Y}}, p)
}

func (r *Raster) setColor(c style.Color, opacity float64) {
	rgba := gg.Hex(string(c))
	r.dc.SetRGBA(rgba.R, rgba.G, rgba.B, rgba.A*opacity)
}

func (r *Raster) tracePath(path []PathCommand) {
	r.dc.ClearPath()
	WalkPath(path, r.dc.MoveTo, r.dc.LineTo, r.dc.QuadraticTo, r.dc.CubicTo, r.dc.ClosePath)
}

// HitPath builds a gg path for point-in-shape queries.
func HitPath(path []PathCommand) *gg.Path {
	p := gg.NewPath()
	WalkPath(path, p.MoveTo, p.LineTo, p.QuadraticTo, p.CubicTo, p.Close)
	return p
}

// PathContains reports whether pt lies inside the filled region of path.
func PathContains(path []PathCommand, pt geom.Vector) bool {
	if len(path) == 0 {
		return false
	}
	return HitPath(path).Contains(gg.Pt(pt.X, pt.Y))
}
