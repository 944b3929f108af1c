// Package drag tracks click-drag gestures. The same tracker sizes shapes,
// pans the viewport and grows selection marquees.
package drag

import "github.com/inamate/whiteboard/internal/geom"

// State is a snapshot of a tracker.
type State struct {
	Start  geom.Vector
	End    geom.Vector
	Offset geom.Vector
	Active bool
}

// Tracker follows one drag gesture: idle -> active -> idle.
type Tracker struct {
	start  geom.Vector
	end    geom.Vector
	offset geom.Vector
	active bool
	paused bool
}

// Begin starts a gesture at p.
func (t *Tracker) Begin(p geom.Vector) {
	t.start = p
	t.end = p
	t.offset = geom.Vector{}
	t.active = true
	t.paused = false
}

// To moves the gesture end. Ignored while idle or paused.
func (t *Tracker) To(p geom.Vector) {
	if !t.active || t.paused {
		return
	}
	t.end = p
	t.offset = t.end.Sub(t.start)
}

// Pause freezes offset updates without ending the gesture.
func (t *Tracker) Pause() {
	if t.active {
		t.paused = true
	}
}

func (t *Tracker) Unpause() {
	t.paused = false
}

// Stop ends the gesture and zeroes all vectors.
func (t *Tracker) Stop() {
	*t = Tracker{}
}

func (t *Tracker) Active() bool        { return t.active }
func (t *Tracker) Paused() bool        { return t.paused }
func (t *Tracker) Origin() geom.Vector { return t.start }
func (t *Tracker) End() geom.Vector    { return t.end }
func (t *Tracker) Offset() geom.Vector { return t.offset }

// State returns a copy of the current gesture.
func (t *Tracker) State() State {
	return State{Start: t.start, End: t.end, Offset: t.offset, Active: t.active}
}
