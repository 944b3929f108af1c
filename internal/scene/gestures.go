package scene

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/viewport"
)

// inProgress returns the tail element when it is still being drawn and is of
// type T. Any other tail makes variant-specific updates a no-op.
func inProgress[T element.Element](s *Scene) (T, bool) {
	var zero T
	if len(s.elements) == 0 {
		return zero, false
	}
	el, ok := s.elements[len(s.elements)-1].(T)
	if !ok || el.IsDone() {
		return zero, false
	}
	return el, true
}

// Drawing reports whether an element is currently in progress.
func (s *Scene) Drawing() bool {
	_, ok := inProgress[element.Element](s)
	return ok
}

func (s *Scene) begin(e element.Element) bool {
	if s.Drawing() {
		s.logger.Debug("gesture already in progress, ignoring begin", "kind", e.Kind())
		return false
	}
	s.elements = append(s.elements, e)
	return true
}

// finish marks the tail done and records it.
func (s *Scene) finish(e element.Element) {
	e.SetDone(true)
	s.history.Add(history.NewAddElement(e))
}

// discardInProgress drops an unfinished tail element without recording it.
func (s *Scene) discardInProgress() {
	if e, ok := inProgress[element.Element](s); ok {
		s.elements = s.elements[:len(s.elements)-1]
		s.logger.Debug("discarded in-progress element", "kind", e.Kind())
	}
	s.shape.Stop()
}

// PauseDrag freezes shape sizing, e.g. while the pan modifier is held.
func (s *Scene) PauseDrag()   { s.shape.Pause() }
func (s *Scene) UnpauseDrag() { s.shape.Unpause() }

// CancelGesture unwinds whatever is in flight: an unfinished stroke or
// shape is discarded, eraser staging is reverted and a marquee is dropped
// (keeping the current selection).
func (s *Scene) CancelGesture() {
	s.discardInProgress()
	s.CancelErase()
	s.marquee.Stop()
}

// --- Brush ---

// BeginStroke starts a freehand stroke at p.
func (s *Scene) BeginStroke(p geom.Vector, st style.Style) {
	s.begin(element.NewStroke(st, p))
}

// UpdateStroke appends a point to the stroke in progress.
func (s *Scene) UpdateStroke(p geom.Vector) {
	if stroke, ok := inProgress[*element.Stroke](s); ok {
		stroke.AddPoint(p)
	}
}

// EndStroke completes the stroke and records it.
func (s *Scene) EndStroke() {
	if stroke, ok := inProgress[*element.Stroke](s); ok {
		s.finish(stroke)
	}
}

// --- Rectangle ---

// BeginRect starts a zero-size rectangle anchored at p.
func (s *Scene) BeginRect(p geom.Vector, st style.Style) {
	if s.begin(element.NewRectangle(st, p)) {
		s.shape.Begin(p)
	}
}

// UpdateRect resizes the rectangle in progress from the drag to p.
// Proportional locks it to a square.
func (s *Scene) UpdateRect(p geom.Vector, proportional bool) {
	r, ok := inProgress[*element.Rectangle](s)
	if !ok {
		return
	}
	s.shape.To(p)
	r.Resize(s.shape.Offset(), proportional)
}

// EndRect completes the rectangle. A rectangle with no area is discarded.
func (s *Scene) EndRect() {
	r, ok := inProgress[*element.Rectangle](s)
	if !ok {
		return
	}
	if size := r.Size(); size.X == 0 && size.Y == 0 {
		s.discardInProgress()
		return
	}
	s.shape.Stop()
	s.finish(r)
}

// --- Circle ---

// BeginCircle starts a zero-radius circle centred at p.
func (s *Scene) BeginCircle(p geom.Vector, st style.Style) {
	if s.begin(element.NewCircle(st, p)) {
		s.shape.Begin(p)
	}
}

// UpdateCircle resizes the circle in progress from the drag to p.
func (s *Scene) UpdateCircle(p geom.Vector, proportional bool) {
	c, ok := inProgress[*element.Circle](s)
	if !ok {
		return
	}
	s.shape.To(p)
	c.Resize(s.shape.Offset(), proportional)
}

// EndCircle completes the circle. A circle with no radius is discarded.
func (s *Scene) EndCircle() {
	c, ok := inProgress[*element.Circle](s)
	if !ok {
		return
	}
	if r := c.Radii(); r.X == 0 && r.Y == 0 {
		s.discardInProgress()
		return
	}
	s.shape.Stop()
	s.finish(c)
}

// --- Line ---

// BeginLine starts a line at p.
func (s *Scene) BeginLine(p geom.Vector, st style.Style) {
	if s.begin(element.NewLine(st, p)) {
		s.shape.Begin(p)
	}
}

// UpdateLine moves the free end of the line in progress.
func (s *Scene) UpdateLine(p geom.Vector) {
	l, ok := inProgress[*element.Line](s)
	if !ok {
		return
	}
	s.shape.To(p)
	l.SetEnd(l.Begin().Add(s.shape.Offset()))
}

// EndLine completes the line. A zero-length line is discarded.
func (s *Scene) EndLine() {
	l, ok := inProgress[*element.Line](s)
	if !ok {
		return
	}
	if l.Begin().Equal(l.End()) {
		s.discardInProgress()
		return
	}
	s.shape.Stop()
	s.finish(l)
}

// --- Eraser ---

// Erase stages every visible, finished element under p for deletion.
// Elements already staged are skipped.
func (s *Scene) Erase(p geom.Vector) {
	for _, e := range s.Visible() {
		if !e.IsDone() {
			continue
		}
		if _, ok := s.stagedSet[e]; ok {
			continue
		}
		if !viewport.Extent(e).IsIntersecting(p) || !e.CheckIntersection(p) {
			continue
		}
		e.StageForDelete()
		s.stagedSet[e] = struct{}{}
		s.staged = append(s.staged, e)
	}
}

// Staged returns the elements pending deletion.
func (s *Scene) Staged() []element.Element {
	return append([]element.Element(nil), s.staged...)
}

// EndErase deletes every staged element and records one Erase action for
// the whole gesture.
func (s *Scene) EndErase() {
	if len(s.staged) == 0 {
		return
	}
	for _, e := range s.staged {
		e.Delete()
		s.Deselect(e)
	}
	s.history.Add(history.NewErase(s.staged))
	s.resetStaging()
}

// CancelErase reverts staging without deleting or recording anything.
func (s *Scene) CancelErase() {
	for _, e := range s.staged {
		e.UnstageFromDelete()
	}
	s.resetStaging()
}

func (s *Scene) resetStaging() {
	s.staged = nil
	clear(s.stagedSet)
}
