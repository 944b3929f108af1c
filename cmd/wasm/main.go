//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/style"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	whiteboard := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	whiteboard.Set("loadDocument", js.FuncOf(loadDocument))
	whiteboard.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	whiteboard.Set("resize", js.FuncOf(resize))
	whiteboard.Set("setTool", js.FuncOf(setTool))
	whiteboard.Set("setStyle", js.FuncOf(setStyle))
	whiteboard.Set("patchStyle", js.FuncOf(patchStyle))
	whiteboard.Set("pointerDown", js.FuncOf(pointerDown))
	whiteboard.Set("pointerMove", js.FuncOf(pointerMove))
	whiteboard.Set("pointerUp", js.FuncOf(pointerUp))
	whiteboard.Set("pointerLeave", js.FuncOf(pointerLeave))
	whiteboard.Set("keyDown", js.FuncOf(keyDown))
	whiteboard.Set("keyUp", js.FuncOf(keyUp))
	whiteboard.Set("wheel", js.FuncOf(wheel))
	whiteboard.Set("undo", js.FuncOf(undo))
	whiteboard.Set("redo", js.FuncOf(redo))
	whiteboard.Set("clear", js.FuncOf(clearBoard))
	whiteboard.Set("deleteSelected", js.FuncOf(deleteSelected))
	whiteboard.Set("cancel", js.FuncOf(cancel))
	whiteboard.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	whiteboard.Set("render", js.FuncOf(render))
	whiteboard.Set("hitTest", js.FuncOf(hitTest))
	whiteboard.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	whiteboard.Set("getSelection", js.FuncOf(getSelection))
	whiteboard.Set("getViewState", js.FuncOf(getViewState))
	whiteboard.Set("getDocument", js.FuncOf(getDocument))
	whiteboard.Set("isCurrentTool", js.FuncOf(isCurrentTool))

	eng.OnToolChange(func(prev, next engine.Tool) {
		if cb := js.Global().Get("whiteboardToolChanged"); cb.Type() == js.TypeFunction {
			cb.Invoke(string(prev), string(next))
		}
	})

	// Register on global scope
	js.Global().Set("whiteboardEngine", whiteboard)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// pointerArg reads (x, y, button, shift) arguments.
func pointerArg(args []js.Value) (engine.PointerEvent, bool) {
	if len(args) < 2 {
		return engine.PointerEvent{}, false
	}
	ev := engine.PointerEvent{X: args[0].Float(), Y: args[1].Float()}
	if len(args) > 2 {
		ev.Button = engine.Button(args[2].Int())
	}
	if len(args) > 3 {
		ev.Shift = args[3].Truthy()
	}
	return ev, true
}

// keyArg reads (key, ctrl, shift, alt) arguments.
func keyArg(args []js.Value) (engine.KeyEvent, bool) {
	if len(args) < 1 {
		return engine.KeyEvent{}, false
	}
	ev := engine.KeyEvent{Key: args[0].String()}
	if len(args) > 1 {
		ev.Ctrl = args[1].Truthy()
	}
	if len(args) > 2 {
		ev.Shift = args[2].Truthy()
	}
	if len(args) > 3 {
		ev.Alt = args[3].Truthy()
	}
	return ev, true
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}

	if err := eng.LoadDocument(args[0].String()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	boardID := "board_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		boardID = args[0].String()
	}

	eng.LoadSampleDocument(boardID)
	return okResult()
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return nil
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing tool")
	}
	tool, ok := engine.ParseTool(args[0].String())
	if !ok {
		return errResult("unknown tool")
	}
	eng.SetTool(tool)
	return okResult()
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing style JSON")
	}
	var st style.Style
	if err := json.Unmarshal([]byte(args[0].String()), &st); err != nil {
		return errResult(err.Error())
	}
	eng.SetStyle(st)
	return okResult()
}

func patchStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing style JSON")
	}
	var p style.Patch
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errResult(err.Error())
	}
	eng.PatchStyle(p)
	return okResult()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if ev, ok := pointerArg(args); ok {
		eng.PointerDown(ev)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if ev, ok := pointerArg(args); ok {
		eng.PointerMove(ev)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if ev, ok := pointerArg(args); ok {
		eng.PointerUp(ev)
	}
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	eng.PointerLeave()
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if ev, ok := keyArg(args); ok {
		eng.KeyDown(ev)
	}
	return nil
}

func keyUp(this js.Value, args []js.Value) interface{} {
	if ev, ok := keyArg(args); ok {
		eng.KeyUp(ev)
	}
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Wheel(engine.WheelEvent{DeltaY: args[0].Float()})
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func clearBoard(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	eng.DeleteSelected()
	return nil
}

func cancel(this js.Value, args []js.Value) interface{} {
	eng.Cancel()
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getViewState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetViewState())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}

func isCurrentTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.IsCurrentTool(engine.Tool(args[0].String())))
}
