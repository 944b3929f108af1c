package render

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "clear", "save", "restore", "transform", "fill", "stroke"
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for fill/stroke ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha
	LineDash    []float64     `json:"lineDash,omitempty"`    // Dash pattern
	Background  string        `json:"background,omitempty"`  // Clear color
}

// Recorder is a Surface that buffers draw calls in painter's order.
// Shapes are lowered to paths so the host only needs a path renderer.
type Recorder struct {
	commands []DrawCommand
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the buffered commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops all buffered commands, keeping capacity.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

func (r *Recorder) Clear(bg style.Color) {
	r.commands = append(r.commands, DrawCommand{Op: "clear", Background: string(bg)})
}

func (r *Recorder) Save() {
	r.commands = append(r.commands, DrawCommand{Op: "save"})
}

func (r *Recorder) Restore() {
	r.commands = append(r.commands, DrawCommand{Op: "restore"})
}

func (r *Recorder) Transform(m geom.Matrix2D) {
	r.commands = append(r.commands, DrawCommand{Op: "transform", Transform: m.ToSlice()})
}

func (r *Recorder) FillPath(path []PathCommand, p Paint) {
	if p.Fill.IsNone() || len(path) == 0 {
		return
	}
	r.commands = append(r.commands, DrawCommand{
		Op:      "fill",
		Path:    path,
		Fill:    string(p.Fill),
		Opacity: p.Opacity,
	})
}

func (r *Recorder) StrokePath(path []PathCommand, p Paint) {
	if p.Stroke.IsNone() || len(path) == 0 {
		return
	}
	r.commands = append(r.commands, DrawCommand{
		Op:          "stroke",
		Path:        path,
		Stroke:      string(p.Stroke),
		StrokeWidth: p.StrokeWidth,
		Opacity:     p.Opacity,
		LineDash:    p.LineDash,
	})
}

func (r *Recorder) Rect(box geom.BoundingBox, radius float64, p Paint) {
	path := RectPath(box, radius)
	r.FillPath(path, p)
	r.StrokePath(path, p)
}

func (r *Recorder) Ellipse(center geom.Vector, rx, ry float64, p Paint) {
	path := EllipsePath(center, rx, ry)
	r.FillPath(path, p)
	r.StrokePath(path, p)
}

func (r *Recorder) Line(from, to geom.Vector, p Paint) {
	r.StrokePath([]PathCommand{{"M", from.X, from.Y}, {"L", to.X, to.Y}}, p)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
