// Package viewport maps between screen space (device pixels on the canvas)
// and scene space under pan and zoom, and culls elements to what is on
// screen.
//
// Zoom is inverted relative to the usual convention: screen deltas are
// multiplied by zoom to get scene deltas, so zoom > 1 shows more of the scene
// (zoomed out). The displayed percentage is (1/zoom)*100.
package viewport

import (
	"math"

	"github.com/inamate/whiteboard/internal/drag"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
)

// Options bounds the zoom factor.
type Options struct {
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
}

// DefaultOptions returns the stock zoom range [0.1, 5] with a 0.1 step.
func DefaultOptions() Options {
	return Options{MinZoom: 0.1, MaxZoom: 5, ZoomStep: 0.1}
}

// Viewport holds the zoom factor and pan offset for one canvas.
type Viewport struct {
	opts   Options
	size   geom.Vector
	center geom.Vector
	zoom   float64
	offset geom.Vector
	pan    drag.Tracker
}

// New creates a viewport for a width x height canvas. The initial offset
// maps the scene origin to the canvas top-left corner.
func New(width, height float64, opts Options) *Viewport {
	if opts.MinZoom <= 0 || opts.MaxZoom < opts.MinZoom {
		opts = DefaultOptions()
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = DefaultOptions().ZoomStep
	}

	v := &Viewport{opts: opts}
	v.setSize(width, height)
	v.Reset()
	return v
}

func (v *Viewport) setSize(width, height float64) {
	v.size = geom.V(width, height)
	v.center = v.size.Scale(0.5)
}

// Resize changes the canvas size. The scene point under the canvas centre is
// -offset, so it stays fixed.
func (v *Viewport) Resize(width, height float64) {
	v.setSize(width, height)
}

func (v *Viewport) Size() geom.Vector   { return v.size }
func (v *Viewport) Center() geom.Vector { return v.center }
func (v *Viewport) Zoom() float64       { return v.zoom }

// Offset returns the committed pan offset plus any pan still in flight.
func (v *Viewport) Offset() geom.Vector {
	return v.offset.Add(v.pan.Offset())
}

// SetView restores a saved zoom and committed offset.
func (v *Viewport) SetView(zoom float64, offset geom.Vector) {
	v.pan.Stop()
	v.zoom = v.clamp(zoom)
	v.offset = offset
}

// ZoomPercent is the zoom level as shown to the user.
func (v *Viewport) ZoomPercent() float64 {
	return 100 / v.zoom
}

// ZoomCanvas steps the zoom in direction (+1 zooms out, -1 zooms in) and
// clamps it to the configured range.
func (v *Viewport) ZoomCanvas(direction float64) {
	v.ZoomBy(direction, v.opts.ZoomStep)
}

// ZoomBy is ZoomCanvas with an explicit step.
func (v *Viewport) ZoomBy(direction, step float64) {
	if direction == 0 {
		return
	}
	v.zoom = v.clamp(v.zoom + math.Copysign(1, direction)*step)
}

func (v *Viewport) clamp(z float64) float64 {
	return math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, z))
}

func (v *Viewport) ResetZoom() {
	v.zoom = v.clamp(1)
}

// Reset restores zoom 1 and the initial offset.
func (v *Viewport) Reset() {
	v.pan.Stop()
	v.ResetZoom()
	v.offset = v.center.Scale(-1)
}

// ScreenToScene maps a canvas pixel to scene space using the committed
// offset, so pointer positions stay stable while a pan is in flight.
func (v *Viewport) ScreenToScene(p geom.Vector) geom.Vector {
	return p.Sub(v.center).Scale(v.zoom).Sub(v.offset)
}

// SceneToScreen is the inverse of ScreenToScene.
func (v *Viewport) SceneToScreen(p geom.Vector) geom.Vector {
	return p.Add(v.offset).Scale(1 / v.zoom).Add(v.center)
}

// RenderTransform is the scene-to-screen matrix applied before drawing:
// translate(center), scale(1/zoom), translate(offset).
func (v *Viewport) RenderTransform() geom.Matrix2D {
	o := v.Offset()
	return geom.Translate(v.center.X, v.center.Y).
		Multiply(geom.Scale(1/v.zoom, 1/v.zoom)).
		Multiply(geom.Translate(o.X, o.Y))
}

// BeginPan starts a pan gesture at a screen point.
func (v *Viewport) BeginPan(screen geom.Vector) {
	v.pan.Begin(v.ScreenToScene(screen))
}

// MovePan updates an in-flight pan. Ignored when not panning.
func (v *Viewport) MovePan(screen geom.Vector) {
	v.pan.To(v.ScreenToScene(screen))
}

// EndPan commits the in-flight pan into the offset.
func (v *Viewport) EndPan() {
	if !v.pan.Active() {
		return
	}
	v.offset = v.offset.Add(v.pan.Offset())
	v.pan.Stop()
}

func (v *Viewport) IsPanning() bool {
	return v.pan.Active()
}

// InnerBounds is the visible scene rectangle.
func (v *Viewport) InnerBounds() geom.BoundingBox {
	o := v.Offset()
	tl := geom.Vector{}.Sub(v.center).Scale(v.zoom).Sub(o)
	br := v.size.Sub(v.center).Scale(v.zoom).Sub(o)
	return geom.BoxFromPoints(tl, br)
}

// IsInViewport reports whether an element should be drawn and hit tested.
// Elements still being drawn are always visible.
func (v *Viewport) IsInViewport(e element.Element) bool {
	if !e.IsDone() {
		return true
	}
	return Extent(e).IsInside(v.InnerBounds())
}

// Extent is the element's bounding box grown by half its stroke width, the
// area its pixels can actually cover.
func Extent(e element.Element) geom.BoundingBox {
	return e.BoundingBox().Pad(e.Style().StrokeWidth / 2)
}
