package session

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	BoardID   string          `json:"boardId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input (client → server)
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeKeyDown      = "key.down"
	TypeKeyUp        = "key.up"
	TypeWheel        = "wheel"

	// Commands (client → server)
	TypeToolSet    = "tool.set"
	TypeStyleSet   = "style.set"
	TypeStylePatch = "style.patch"
	TypeUndo       = "undo"
	TypeRedo       = "redo"
	TypeClear      = "clear"
	TypeDelete     = "delete"
	TypeCancel     = "cancel"
	TypeResize     = "resize"
	TypeSave       = "save"
	TypeFrame      = "frame"

	// Server → client
	TypeWelcome = "welcome"
	TypeRender  = "render"
	TypeSaved   = "saved"
	TypeError   = "error"
)

type ToolPayload struct {
	Tool string `json:"tool"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string           `json:"sessionId"`
	BoardID   string           `json:"boardId"`
	State     engine.ViewState `json:"state"`
}

// RenderPayload is one frame: the draw commands and the toolbar state.
type RenderPayload struct {
	Commands json.RawMessage  `json:"commands"`
	State    engine.ViewState `json:"state"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
