// Package scene owns the live element list of a board. It runs gesture
// lifecycles that create and erase elements, records them in history,
// replays undo/redo and culls to the viewport before drawing.
//
// Elements are soft-deleted: a deleted element stays in the list so undo can
// bring it back, and is only physically removed once no history action can
// reach it anymore.
package scene

import (
	"log/slog"
	"slices"

	"github.com/inamate/whiteboard/internal/drag"
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/viewport"
)

// Scene is the single writer of the element list and the selection.
type Scene struct {
	elements []element.Element
	history  *history.History
	viewport *viewport.Viewport
	logger   *slog.Logger

	// Eraser staging, kept in hit order so the recorded action is stable.
	staged    []element.Element
	stagedSet map[element.Element]struct{}

	selected map[string]element.Element
	marquee  drag.Tracker

	// Sizes the in-progress rectangle, circle or line.
	shape drag.Tracker
}

// New creates an empty scene culled against vp and recording into h.
func New(vp *viewport.Viewport, h *history.History, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scene{
		history:   h,
		viewport:  vp,
		logger:    logger,
		stagedSet: make(map[element.Element]struct{}),
		selected:  make(map[string]element.Element),
	}
	h.OnEvict(s.onEvict)
	h.OnRedoClear(s.onRedoClear)
	return s
}

// Elements returns a copy of the live list, deleted elements included.
func (s *Scene) Elements() []element.Element {
	return slices.Clone(s.elements)
}

// Len returns the size of the live list, deleted elements included.
func (s *Scene) Len() int {
	return len(s.elements)
}

// Find returns the element with the given id.
func (s *Scene) Find(id string) (element.Element, bool) {
	for _, e := range s.elements {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

func (s *Scene) History() *history.History    { return s.history }
func (s *Scene) Viewport() *viewport.Viewport { return s.viewport }

// Load replaces the live list, e.g. from a stored snapshot. History is reset.
func (s *Scene) Load(elements []element.Element) {
	s.CancelGesture()
	s.DeselectAll()
	s.elements = slices.Clone(elements)
	s.ResetHistory()
}

// --- History ---

// Undo reverts the most recent action. It reports false when there is
// nothing to undo.
func (s *Scene) Undo() bool {
	a, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.replay(a, true)
	return true
}

// Redo reapplies the most recently undone action.
func (s *Scene) Redo() bool {
	a, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.replay(a, false)
	return true
}

func (s *Scene) replay(a history.Action, undo bool) {
	switch a.Kind {
	case history.AddElement:
		if undo {
			s.remove(a.Element)
		} else {
			s.elements = append(s.elements, a.Element)
		}

	case history.Erase, history.Delete:
		for _, e := range a.Elements {
			if undo {
				e.Recover()
			} else {
				e.Delete()
				s.Deselect(e)
			}
		}

	case history.ClearAll:
		if undo {
			s.elements = slices.Clone(a.Elements)
		} else {
			// the redo entry is already back on the undo stack
			s.clearElements()
		}

	default:
		s.logger.Warn("unknown history action", "kind", a.Kind)
	}
}

// Clear records a ClearAll action and empties the list. No-op when empty.
func (s *Scene) Clear() {
	s.CancelGesture()
	if len(s.elements) == 0 {
		return
	}
	s.history.Add(history.NewClearAll(s.elements))
	s.clearElements()
}

func (s *Scene) clearElements() {
	s.elements = nil
	s.DeselectAll()
}

// ResetHistory drops both history stacks and physically removes every
// soft-deleted element, since nothing can resurrect them anymore.
func (s *Scene) ResetHistory() {
	s.history.Clear()
	s.elements = slices.DeleteFunc(s.elements, func(e element.Element) bool {
		return e.IsDeleted()
	})
}

func (s *Scene) onEvict(a history.Action) {
	s.sweep(a)
}

func (s *Scene) onRedoClear(actions []history.Action) {
	for _, a := range actions {
		s.sweep(a)
	}
}

// sweep removes elements of an unreachable action that are deleted and not
// referenced by any action still in history.
func (s *Scene) sweep(a history.Action) {
	for _, e := range a.Refs() {
		if e.IsDeleted() && !s.history.References(e) {
			if s.remove(e) {
				s.logger.Debug("swept deleted element", "id", e.ID(), "action", a.Kind)
			}
		}
	}
}

// remove drops e from the live list, searching from the tail.
func (s *Scene) remove(e element.Element) bool {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i] == e {
			s.elements = slices.Delete(s.elements, i, i+1)
			s.Deselect(e)
			return true
		}
	}
	return false
}

// --- Drawing ---

// Visible returns the non-deleted elements inside the viewport, in painter's
// order. Elements still being drawn are always included.
func (s *Scene) Visible() []element.Element {
	var out []element.Element
	for _, e := range s.elements {
		if e.IsDeleted() || !s.viewport.IsInViewport(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Draw issues draw calls for every visible element, then the selection
// outlines and the marquee. The caller sets up the viewport transform.
func (s *Scene) Draw(surface render.Surface) {
	visible := s.Visible()
	for _, e := range visible {
		switch e.(type) {
		case *element.Stroke, *element.Rectangle, *element.Circle, *element.Line:
			e.Draw(surface)
		default:
			s.logger.Warn("element has no draw capability", "kind", e.Kind(), "id", e.ID())
		}
	}

	for _, e := range visible {
		if s.IsSelected(e) && e.IsDone() {
			surface.Rect(e.BoundingBox().Pad(selectionPadding), 0, selectionPaint())
		}
	}

	if box, ok := s.Marquee(); ok {
		surface.Rect(box, 0, marqueePaint())
	}
}
