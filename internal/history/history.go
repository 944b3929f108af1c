// Package history is a bounded undo/redo log of scene actions.
//
// History only stores actions; replaying them against the scene is the
// caller's job. When an action becomes unreachable (evicted from the undo
// stack, or dropped from the redo stack by a new action) the matching
// callback fires so the owner can prune elements nothing can resurrect.
package history

import (
	"slices"

	"github.com/inamate/whiteboard/internal/element"
)

// ActionKind tags an Action.
type ActionKind string

const (
	AddElement ActionKind = "add_element"
	Erase      ActionKind = "erase"
	Delete     ActionKind = "delete"
	ClearAll   ActionKind = "clear_all"
)

// DefaultMaxHistory is the undo depth used when none is configured.
const DefaultMaxHistory = 100

// Action is the minimal unit of undo. AddElement uses Element; the other
// kinds use Elements (for ClearAll, the whole list at clear time).
type Action struct {
	Kind     ActionKind
	Element  element.Element
	Elements []element.Element
}

func NewAddElement(e element.Element) Action {
	return Action{Kind: AddElement, Element: e}
}

func NewErase(elements []element.Element) Action {
	return Action{Kind: Erase, Elements: slices.Clone(elements)}
}

func NewDelete(elements []element.Element) Action {
	return Action{Kind: Delete, Elements: slices.Clone(elements)}
}

func NewClearAll(snapshot []element.Element) Action {
	return Action{Kind: ClearAll, Elements: slices.Clone(snapshot)}
}

// Refs returns every element the action points at.
func (a Action) Refs() []element.Element {
	if a.Element != nil {
		return append([]element.Element{a.Element}, a.Elements...)
	}
	return a.Elements
}

// References reports whether e is referenced by the action.
func (a Action) References(e element.Element) bool {
	if a.Element == e {
		return true
	}
	return slices.Contains(a.Elements, e)
}

// History holds the applied (past) and undone (future) stacks.
type History struct {
	past       []Action
	future     []Action
	maxHistory int

	onEvict     func(Action)
	onRedoClear func([]Action)
}

// New creates a history holding at most maxHistory undoable actions.
// Non-positive values fall back to DefaultMaxHistory.
func New(maxHistory int) *History {
	if maxHistory < 1 {
		maxHistory = DefaultMaxHistory
	}
	return &History{maxHistory: maxHistory}
}

// OnEvict sets the callback fired with the oldest action when it falls off
// the undo stack.
func (h *History) OnEvict(fn func(Action)) {
	h.onEvict = fn
}

// OnRedoClear sets the callback fired with the redo entries discarded by Add.
func (h *History) OnRedoClear(fn func([]Action)) {
	h.onRedoClear = fn
}

// Add records a freshly applied action and invalidates the redo stack.
func (h *History) Add(a Action) {
	h.past = append(h.past, a)
	if len(h.past) > h.maxHistory {
		oldest := h.past[0]
		h.past = slices.Delete(h.past, 0, 1)
		if h.onEvict != nil {
			h.onEvict(oldest)
		}
	}

	if len(h.future) == 0 {
		return
	}
	cleared := h.future
	h.future = nil
	if h.onRedoClear != nil {
		h.onRedoClear(cleared)
	}
}

// Undo moves the most recent action to the redo stack and returns it.
func (h *History) Undo() (Action, bool) {
	if len(h.past) == 0 {
		return Action{}, false
	}
	a := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, a)
	return a, true
}

// Redo moves the most recently undone action back to the undo stack and
// returns it.
func (h *History) Redo() (Action, bool) {
	if len(h.future) == 0 {
		return Action{}, false
	}
	a := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, a)
	return a, true
}

// Clear empties both stacks without firing callbacks.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History) CanUndo() bool   { return len(h.past) > 0 }
func (h *History) CanRedo() bool   { return len(h.future) > 0 }
func (h *History) Len() int        { return len(h.past) }
func (h *History) RedoLen() int    { return len(h.future) }
func (h *History) MaxHistory() int { return h.maxHistory }

// References reports whether any action on either stack points at e.
func (h *History) References(e element.Element) bool {
	for _, a := range h.past {
		if a.References(e) {
			return true
		}
	}
	for _, a := range h.future {
		if a.References(e) {
			return true
		}
	}
	return false
}
