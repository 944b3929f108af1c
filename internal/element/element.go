// Package element implements the drawable scene entities: freehand strokes,
// rectangles, circles and lines. The set is closed; every variant embeds base
// and is dispatched with a type switch.
package element

import (
	"math/rand/v2"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Kind tags an element variant.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
)

// StagedOpacity is the opacity factor applied to elements staged by the eraser.
const StagedOpacity = 0.3

// Element is the capability set shared by all variants.
//
// BoundingBox is only meaningful once the element is done: SetDone(true)
// computes it.
type Element interface {
	ID() string
	Kind() Kind
	Seed() int64

	Style() style.Style
	SetStyle(s style.Style)

	BoundingBox() geom.BoundingBox
	CalculateBoundingBox()

	IsDone() bool
	SetDone(done bool)

	IsDeleted() bool
	Delete()
	Recover()

	IsStagedForDelete() bool
	StageForDelete()
	UnstageFromDelete()

	CheckIntersection(p geom.Vector) bool
	Draw(s render.Surface)

	sealed()
}

type base struct {
	id      string
	kind    Kind
	seed    int64
	style   style.Style
	box     geom.BoundingBox
	done    bool
	deleted bool
	staged  bool
}

func newBase(kind Kind, prefix string, st style.Style) base {
	return base{
		id:    typeid.New(prefix),
		kind:  kind,
		seed:  rand.Int64N(1 << 31),
		style: st.Clone(),
	}
}

func (b *base) sealed() {}

func (b *base) ID() string                    { return b.id }
func (b *base) Kind() Kind                    { return b.kind }
func (b *base) Seed() int64                   { return b.seed }
func (b *base) Style() style.Style            { return b.style.Clone() }
func (b *base) SetStyle(s style.Style)        { b.style = s.Clone() }
func (b *base) BoundingBox() geom.BoundingBox { return b.box }
func (b *base) IsDone() bool                  { return b.done }
func (b *base) IsDeleted() bool               { return b.deleted }
func (b *base) IsStagedForDelete() bool       { return b.staged }

// Delete soft-deletes the element. It stays in the scene for undo.
func (b *base) Delete() {
	b.deleted = true
	b.staged = false
}

// Recover clears both the deleted and the staged flag.
func (b *base) Recover() {
	b.deleted = false
	b.staged = false
}

func (b *base) StageForDelete() {
	if !b.deleted {
		b.staged = true
	}
}

func (b *base) UnstageFromDelete() {
	b.staged = false
}

// intersects is the default hit test: inclusive bounding box containment.
func (b *base) intersects(p geom.Vector) bool {
	return b.box.IsIntersecting(p)
}

func (b *base) paint() render.Paint {
	p := render.PaintOf(b.style, b.seed)
	if b.staged {
		p = p.Fade(StagedOpacity)
	}
	return p
}
