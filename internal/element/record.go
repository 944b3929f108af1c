package element

import (
	"slices"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
)

// Record is the persisted form of an element: variant tag, geometry, style
// and lifecycle flags. Bounding boxes and outlines are derived on load.
type Record struct {
	ID      string      `json:"id"`
	Kind    Kind        `json:"kind"`
	Seed    int64       `json:"seed"`
	Style   style.Style `json:"style"`
	Done    bool        `json:"done"`
	Deleted bool        `json:"deleted,omitempty"`

	// Stroke
	Points []geom.Vector `json:"points,omitempty"`
	// Rectangle: Origin and Size. Circle: Origin is the center, Size the radii.
	// Line: Origin and End.
	Origin *geom.Vector `json:"origin,omitempty"`
	Size   *geom.Vector `json:"size,omitempty"`
	End    *geom.Vector `json:"end,omitempty"`
}

// ToRecord captures the element's persisted state.
func ToRecord(e Element) Record {
	rec := Record{
		ID:      e.ID(),
		Kind:    e.Kind(),
		Seed:    e.Seed(),
		Style:   e.Style(),
		Done:    e.IsDone(),
		Deleted: e.IsDeleted(),
	}

	switch el := e.(type) {
	case *Stroke:
		rec.Points = el.Points()
	case *Rectangle:
		rec.Origin, rec.Size = ptr(el.origin), ptr(el.Size())
	case *Circle:
		rec.Origin, rec.Size = ptr(el.center), ptr(el.Radii())
	case *Line:
		rec.Origin, rec.End = ptr(el.begin), ptr(el.end)
	}
	return rec
}

// FromRecord rebuilds an element. It reports false for unknown kinds or
// records missing the geometry their kind needs.
func FromRecord(rec Record) (Element, bool) {
	b := base{
		id:      rec.ID,
		kind:    rec.Kind,
		seed:    rec.Seed,
		style:   rec.Style.Clone(),
		deleted: rec.Deleted,
	}

	var el Element
	switch rec.Kind {
	case KindStroke:
		if len(rec.Points) == 0 {
			return nil, false
		}
		el = &Stroke{base: b, points: slices.Clone(rec.Points)}
	case KindRect:
		if rec.Origin == nil || rec.Size == nil {
			return nil, false
		}
		el = &Rectangle{base: b, anchor: *rec.Origin, origin: *rec.Origin, width: rec.Size.X, height: rec.Size.Y}
	case KindCircle:
		if rec.Origin == nil || rec.Size == nil {
			return nil, false
		}
		el = &Circle{base: b, center: *rec.Origin, rx: rec.Size.X, ry: rec.Size.Y}
	case KindLine:
		if rec.Origin == nil || rec.End == nil {
			return nil, false
		}
		el = &Line{base: b, begin: *rec.Origin, end: *rec.End}
	default:
		return nil, false
	}

	if rec.Done {
		el.SetDone(true)
	}
	return el, true
}

func ptr(v geom.Vector) *geom.Vector {
	return &v
}
