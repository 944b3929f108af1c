package engine

// Tool identifies the active toolbar tool.
type Tool string

const (
	ToolBrush       Tool = "brush"
	ToolEraser      Tool = "eraser"
	ToolRect        Tool = "rect"
	ToolCircle      Tool = "circle"
	ToolLine        Tool = "line"
	ToolSelector    Tool = "selector"
	ToolHighlighter Tool = "highlighter"
	ToolTexture     Tool = "texture"
	ToolHand        Tool = "hand"
)

// toolKeys maps single-key shortcuts to tools.
var toolKeys = map[string]Tool{
	"a": ToolSelector,
	"b": ToolBrush,
	"e": ToolEraser,
	"r": ToolRect,
	"c": ToolCircle,
	"l": ToolLine,
	"h": ToolHighlighter,
	"i": ToolTexture,
}

// ParseTool validates a tool identifier.
func ParseTool(s string) (Tool, bool) {
	switch t := Tool(s); t {
	case ToolBrush, ToolEraser, ToolRect, ToolCircle, ToolLine,
		ToolSelector, ToolHighlighter, ToolTexture, ToolHand:
		return t, true
	}
	return "", false
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool {
	return e.tool
}

// IsCurrentTool reports whether t is active.
func (e *Engine) IsCurrentTool(t Tool) bool {
	return e.tool == t
}

// OnToolChange registers a hook fired after the tool changes.
func (e *Engine) OnToolChange(fn func(prev, next Tool)) {
	e.onToolChange = fn
}

// SetTool switches tools. Gestures in flight are cancelled, and leaving the
// selector clears the selection.
func (e *Engine) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	prev := e.tool
	e.Cancel()
	if prev == ToolSelector {
		e.scene.DeselectAll()
	}
	e.tool = t
	e.logger.Debug("tool changed", "from", prev, "to", t)

	if e.onToolChange != nil {
		e.onToolChange(prev, t)
	}
}
