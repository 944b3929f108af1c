package engine

import (
	"math"
	"strings"

	"github.com/inamate/whiteboard/internal/geom"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// PointerEvent is a pointer event in screen space.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button Button  `json:"button"`
	Shift  bool    `json:"shift"`
}

func (ev PointerEvent) screen() geom.Vector {
	return geom.V(ev.X, ev.Y)
}

// KeyEvent carries a key identity and its modifiers.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

// WheelEvent is a scroll event. Only the vertical delta is used.
type WheelEvent struct {
	DeltaY float64 `json:"deltaY"`
}

type keyboard struct {
	space bool
}

// SpaceHeld reports whether the pan modifier is down.
func (e *Engine) SpaceHeld() bool {
	return e.keys.space
}

func (e *Engine) startsPan(ev PointerEvent) bool {
	switch {
	case ev.Button == ButtonMiddle:
		return true
	case ev.Button != ButtonPrimary:
		return false
	case e.keys.space, e.tool == ToolHand:
		return true
	}
	return false
}

// PointerDown starts a pan or the active tool's gesture.
func (e *Engine) PointerDown(ev PointerEvent) {
	if e.startsPan(ev) {
		e.viewport.BeginPan(ev.screen())
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := e.viewport.ScreenToScene(ev.screen())
	switch e.tool {
	case ToolBrush:
		e.scene.BeginStroke(p, e.style)
		e.drawing = true
	case ToolRect:
		e.scene.BeginRect(p, e.style)
		e.drawing = true
	case ToolCircle:
		e.scene.BeginCircle(p, e.style)
		e.drawing = true
	case ToolLine:
		e.scene.BeginLine(p, e.style)
		e.drawing = true
	case ToolEraser:
		e.erasing = true
		e.scene.Erase(p)
	case ToolSelector:
		if _, ok := e.scene.SelectAt(p); !ok {
			e.scene.BeginMarquee(p)
		}
	}
}

// PointerMove updates a pan or the active gesture. Moves are ignored while
// the pan modifier is held.
func (e *Engine) PointerMove(ev PointerEvent) {
	if e.viewport.IsPanning() {
		e.viewport.MovePan(ev.screen())
		return
	}
	if e.keys.space {
		return
	}

	p := e.viewport.ScreenToScene(ev.screen())
	switch e.tool {
	case ToolBrush:
		if e.drawing {
			e.scene.UpdateStroke(p)
		}
	case ToolRect:
		if e.drawing {
			e.scene.UpdateRect(p, ev.Shift)
		}
	case ToolCircle:
		if e.drawing {
			e.scene.UpdateCircle(p, ev.Shift)
		}
	case ToolLine:
		if e.drawing {
			e.scene.UpdateLine(p)
		}
	case ToolEraser:
		if e.erasing {
			e.scene.Erase(p)
		}
	case ToolSelector:
		e.scene.UpdateMarquee(p)
	}
}

// PointerUp commits a pan or finishes the active gesture.
func (e *Engine) PointerUp(ev PointerEvent) {
	if e.viewport.IsPanning() {
		e.viewport.EndPan()
		return
	}

	switch e.tool {
	case ToolBrush:
		if e.drawing {
			e.scene.EndStroke()
		}
	case ToolRect:
		if e.drawing {
			e.scene.EndRect()
		}
	case ToolCircle:
		if e.drawing {
			e.scene.EndCircle()
		}
	case ToolLine:
		if e.drawing {
			e.scene.EndLine()
		}
	case ToolEraser:
		if e.erasing {
			e.scene.EndErase()
		}
	case ToolSelector:
		e.scene.EndMarquee()
	}
	e.drawing = false
	e.erasing = false
}

// PointerLeave cancels whatever is in flight.
func (e *Engine) PointerLeave() {
	e.Cancel()
}

// Wheel zooms by one step in the direction of the scroll.
func (e *Engine) Wheel(ev WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	e.viewport.ZoomCanvas(math.Copysign(1, ev.DeltaY))
}

// KeyDown handles shortcuts and the pan modifier.
func (e *Engine) KeyDown(ev KeyEvent) {
	key := strings.ToLower(ev.Key)

	if ev.Ctrl {
		switch {
		case key == "z" && ev.Shift:
			e.Redo()
		case key == "z":
			e.Undo()
		case key == "0":
			e.viewport.Reset()
		}
		return
	}

	switch key {
	case " ", "space":
		if !e.keys.space {
			e.keys.space = true
			e.scene.PauseDrag()
		}
	case "=", "+":
		e.viewport.ZoomCanvas(-1)
	case "-":
		e.viewport.ZoomCanvas(1)
	case "escape":
		e.Cancel()
		e.scene.DeselectAll()
	case "delete", "backspace":
		e.DeleteSelected()
	default:
		if t, ok := toolKeys[key]; ok && !ev.Alt {
			e.SetTool(t)
		}
	}
}

// KeyUp releases the pan modifier, committing any pan in flight.
func (e *Engine) KeyUp(ev KeyEvent) {
	switch strings.ToLower(ev.Key) {
	case " ", "space":
		e.keys.space = false
		e.viewport.EndPan()
		e.scene.UnpauseDrag()
	}
}
