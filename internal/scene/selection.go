package scene

import (
	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/viewport"
)

const selectionPadding = 10

func selectionPaint() render.Paint {
	return render.Paint{
		Stroke:      style.HotPink,
		StrokeWidth: 2,
		Opacity:     1,
		LineDash:    []float64{4, 10},
	}
}

func marqueePaint() render.Paint {
	return render.Paint{
		Stroke:      style.HotPink,
		StrokeWidth: 1,
		Opacity:     0.6,
	}
}

// HitTest returns the topmost visible, finished element under p. Newer
// elements win.
func (s *Scene) HitTest(p geom.Vector) (element.Element, bool) {
	visible := s.Visible()
	for i := len(visible) - 1; i >= 0; i-- {
		e := visible[i]
		if !e.IsDone() {
			continue
		}
		if viewport.Extent(e).IsIntersecting(p) && e.CheckIntersection(p) {
			return e, true
		}
	}
	return nil, false
}

// SelectAt replaces the selection with the element under p, if any.
func (s *Scene) SelectAt(p geom.Vector) (element.Element, bool) {
	s.DeselectAll()
	e, ok := s.HitTest(p)
	if ok {
		s.Select(e)
	}
	return e, ok
}

// Select adds e to the selection. Selecting twice is a no-op.
func (s *Scene) Select(e element.Element) {
	s.selected[e.ID()] = e
}

func (s *Scene) Deselect(e element.Element) {
	delete(s.selected, e.ID())
}

func (s *Scene) DeselectAll() {
	clear(s.selected)
}

func (s *Scene) IsSelected(e element.Element) bool {
	_, ok := s.selected[e.ID()]
	return ok
}

// Selected returns the selection in painter's order.
func (s *Scene) Selected() []element.Element {
	var out []element.Element
	for _, e := range s.elements {
		if s.IsSelected(e) {
			out = append(out, e)
		}
	}
	return out
}

// SelectionBounds is the union of the selected elements' bounding boxes.
func (s *Scene) SelectionBounds() (geom.BoundingBox, bool) {
	var (
		bounds geom.BoundingBox
		found  bool
	)
	for _, e := range s.Selected() {
		if e.IsDeleted() || !e.IsDone() {
			continue
		}
		if !found {
			bounds, found = e.BoundingBox(), true
			continue
		}
		bounds = bounds.Union(e.BoundingBox())
	}
	return bounds, found
}

// BeginMarquee starts a selection rectangle at p.
func (s *Scene) BeginMarquee(p geom.Vector) {
	s.marquee.Begin(p)
}

// UpdateMarquee grows the marquee to p and selects every visible element
// whose box overlaps it.
func (s *Scene) UpdateMarquee(p geom.Vector) {
	if !s.marquee.Active() {
		return
	}
	s.marquee.To(p)

	box, _ := s.Marquee()
	s.DeselectAll()
	for _, e := range s.Visible() {
		if e.IsDone() && e.BoundingBox().IsInside(box) {
			s.Select(e)
		}
	}
}

// EndMarquee finishes the marquee, keeping its selection.
func (s *Scene) EndMarquee() {
	s.marquee.Stop()
}

// Marquee returns the normalized marquee rectangle while one is dragged.
func (s *Scene) Marquee() (geom.BoundingBox, bool) {
	if !s.marquee.Active() {
		return geom.BoundingBox{}, false
	}
	return geom.BoxFromPoints(s.marquee.Origin(), s.marquee.End()), true
}

// DeleteSelected soft-deletes the selection as one Delete action.
func (s *Scene) DeleteSelected() {
	var targets []element.Element
	for _, e := range s.Selected() {
		if !e.IsDeleted() && e.IsDone() {
			targets = append(targets, e)
		}
	}
	s.DeselectAll()
	if len(targets) == 0 {
		return
	}

	for _, e := range targets {
		e.Delete()
	}
	s.history.Add(history.NewDelete(targets))
}
