package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/viewport"
)

// Options configures a new engine.
type Options struct {
	Width      float64
	Height     float64
	MaxHistory int
	Viewport   viewport.Options
	Style      style.Style
	Background style.Color
	Sketchy    bool
	Logger     *slog.Logger
}

// DefaultOptions returns the stock 1280x720 board.
func DefaultOptions() Options {
	return Options{
		Width:      1280,
		Height:     720,
		MaxHistory: history.DefaultMaxHistory,
		Viewport:   viewport.DefaultOptions(),
		Style:      style.Default(),
		Background: style.Black,
		Sketchy:    true,
	}
}

// Engine is the whiteboard facade. It owns the scene, viewport and history
// for one board, turns input events into gestures and renders frames.
type Engine struct {
	opts   Options
	logger *slog.Logger

	boardID   string
	boardName string
	createdAt string

	history  *history.History
	viewport *viewport.Viewport
	scene    *scene.Scene

	// Current tool and the style applied to new elements
	tool         Tool
	style        style.Style
	onToolChange func(prev, next Tool)

	// Keyboard state
	keys keyboard

	// Gesture state
	drawing bool
	erasing bool

	recorder *render.Recorder
}

// NewEngine creates an engine with an empty board.
func NewEngine(opts Options) *Engine {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := history.New(opts.MaxHistory)
	vp := viewport.New(opts.Width, opts.Height, opts.Viewport)

	return &Engine{
		opts:     opts,
		logger:   logger,
		history:  h,
		viewport: vp,
		scene:    scene.New(vp, h, logger),
		tool:     ToolBrush,
		style:    opts.Style.Clone(),
		recorder: render.NewRecorder(),
	}
}

func (e *Engine) Scene() *scene.Scene          { return e.scene }
func (e *Engine) Viewport() *viewport.Viewport { return e.viewport }
func (e *Engine) BoardID() string              { return e.boardID }

// --- Commands (frontend → backend) ---

// LoadBoard replaces the board with a decoded snapshot. History is reset.
func (e *Engine) LoadBoard(b *document.Board) error {
	elements, err := b.Build()
	if err != nil {
		return fmt.Errorf("load board %s: %w", b.ID, err)
	}

	e.Cancel()
	e.scene.Load(elements)
	e.viewport.SetView(b.View.Zoom, b.View.Offset)
	e.style = b.Style.Clone()
	if b.Canvas.Background != "" {
		e.opts.Background = b.Canvas.Background
	}
	e.boardID, e.boardName, e.createdAt = b.ID, b.Name, b.CreatedAt
	return nil
}

// LoadDocument loads a board snapshot from JSON.
func (e *Engine) LoadDocument(jsonData string) error {
	b, err := document.Decode([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.LoadBoard(b)
}

// LoadSampleDocument loads the built-in sample board.
func (e *Engine) LoadSampleDocument(boardID string) {
	if err := e.LoadBoard(document.NewSampleBoard(boardID)); err != nil {
		e.logger.Error("load sample board", "error", err)
	}
}

// Resize changes the canvas size in device pixels.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.opts.Width, e.opts.Height = width, height
	e.viewport.Resize(width, height)
}

// SetStyle replaces the style applied to new elements.
func (e *Engine) SetStyle(s style.Style) {
	e.style = s.Clone()
}

// PatchStyle updates part of the style applied to new elements.
func (e *Engine) PatchStyle(p style.Patch) {
	e.style = e.style.Merge(p)
}

// Style returns the style applied to new elements.
func (e *Engine) Style() style.Style {
	return e.style.Clone()
}

// Undo reverts the last action. In-flight gestures are cancelled first.
func (e *Engine) Undo() bool {
	e.Cancel()
	return e.scene.Undo()
}

// Redo reapplies the last undone action.
func (e *Engine) Redo() bool {
	e.Cancel()
	return e.scene.Redo()
}

// Clear empties the board as one undoable action.
func (e *Engine) Clear() {
	e.Cancel()
	e.scene.Clear()
}

// DeleteSelected soft-deletes the selection as one undoable action.
func (e *Engine) DeleteSelected() {
	e.scene.DeleteSelected()
}

// Cancel unwinds any gesture in flight.
func (e *Engine) Cancel() {
	e.scene.CancelGesture()
	e.viewport.EndPan()
	e.drawing = false
	e.erasing = false
}

// Tick renders a frame and returns the draw commands as JSON.
// This is called once per animation frame from the frontend.
func (e *Engine) Tick() string {
	return e.Render()
}

// --- Queries (frontend ← backend) ---

// Render records a full frame and returns the draw commands as JSON.
func (e *Engine) Render() string {
	e.recorder.Reset()
	e.RenderTo(e.recorder)

	result, err := render.DrawCommandsToJSON(e.recorder.Commands())
	if err != nil {
		e.logger.Error("serialize draw commands", "error", err)
	}
	return result
}

// RenderTo draws a full frame onto s: clear, viewport transform, elements.
func (e *Engine) RenderTo(s render.Surface) {
	if e.opts.Sketchy {
		s = render.NewSketchy(s)
	}

	s.Clear(e.opts.Background)
	s.Save()
	s.Transform(e.viewport.RenderTransform())
	e.scene.Draw(s)
	s.Restore()
}

// RenderPNG rasterizes the current frame at canvas size.
func (e *Engine) RenderPNG(w io.Writer) error {
	r, err := render.NewRaster(int(e.opts.Width), int(e.opts.Height))
	if err != nil {
		return err
	}
	defer r.Close()

	e.RenderTo(r)
	return r.EncodePNG(w)
}

// HitTest returns the id of the topmost element under a screen point, or
// an empty string.
func (e *Engine) HitTest(x, y float64) string {
	hit, ok := e.scene.HitTest(e.viewport.ScreenToScene(geom.V(x, y)))
	if !ok {
		return ""
	}
	return hit.ID()
}

// GetSelectionBounds returns the selection's bounding box in scene space as
// JSON.
func (e *Engine) GetSelectionBounds() string {
	bounds, _ := e.scene.SelectionBounds()
	data, _ := json.Marshal(bounds)
	return string(data)
}

// GetSelection returns the selected element ids as JSON.
func (e *Engine) GetSelection() string {
	ids := []string{}
	for _, el := range e.scene.Selected() {
		ids = append(ids, el.ID())
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// ViewState is the state a toolbar shows. Elements counts every element in
// the scene, soft-deleted ones included. Visible counts the live elements
// inside the viewport.
type ViewState struct {
	Tool        Tool        `json:"tool"`
	Zoom        float64     `json:"zoom"`
	ZoomPercent float64     `json:"zoomPercent"`
	Offset      geom.Vector `json:"offset"`
	CanUndo     bool        `json:"canUndo"`
	CanRedo     bool        `json:"canRedo"`
	Elements    int         `json:"elements"`
	Visible     int         `json:"visible"`
	Selected    int         `json:"selected"`
}

// State returns the current view state.
func (e *Engine) State() ViewState {
	return ViewState{
		Tool:        e.tool,
		Zoom:        e.viewport.Zoom(),
		ZoomPercent: e.viewport.ZoomPercent(),
		Offset:      e.viewport.Offset(),
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
		Elements:    e.scene.Len(),
		Visible:     len(e.scene.Visible()),
		Selected:    len(e.scene.Selected()),
	}
}

// GetViewState returns State as JSON.
func (e *Engine) GetViewState() string {
	data, _ := json.Marshal(e.State())
	return string(data)
}

// Snapshot captures the board for persistence.
func (e *Engine) Snapshot() *document.Board {
	now := time.Now().UTC().Format(time.RFC3339)
	b := document.NewEmptyBoard(e.boardID, e.boardName, int(e.opts.Width), int(e.opts.Height), e.opts.Background)
	b.CreatedAt = e.createdAt
	if b.CreatedAt == "" {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.View = document.View{Zoom: e.viewport.Zoom(), Offset: e.viewport.Offset()}
	b.Style = e.style.Clone()
	b.SetElements(e.scene.Elements())
	return b
}

// GetDocument returns the board snapshot as JSON.
func (e *Engine) GetDocument() string {
	data, err := document.Encode(e.Snapshot())
	if err != nil {
		e.logger.Error("encode board", "error", err)
		return "{}"
	}
	return string(data)
}
