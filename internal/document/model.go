// Package document defines the persisted board snapshot: canvas settings,
// the saved view, the default style and the element list with lifecycle
// flags. Bounding boxes and stroke outlines are derived again on load.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/typeid"
)

// CurrentVersion is the snapshot format written by this package.
const CurrentVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported board version")
	ErrUnknownKind        = errors.New("unknown element kind")
	ErrInvalidElement     = errors.New("invalid element record")
	ErrUnfinishedElement  = errors.New("element is not finished")
	ErrDuplicateID        = errors.New("duplicate element id")
)

type Board struct {
	Version   int              `json:"version"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
	Canvas    Canvas           `json:"canvas"`
	View      View             `json:"view"`
	Style     style.Style      `json:"style"`
	Elements  []element.Record `json:"elements"`
}

type Canvas struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background style.Color `json:"background"`
}

// View is the saved zoom and committed pan offset.
type View struct {
	Zoom   float64     `json:"zoom"`
	Offset geom.Vector `json:"offset"`
}

var kindPrefixes = map[element.Kind]string{
	element.KindStroke: typeid.PrefixStroke,
	element.KindRect:   typeid.PrefixRect,
	element.KindCircle: typeid.PrefixCircle,
	element.KindLine:   typeid.PrefixLine,
}

// NewEmptyBoard creates a board with no elements and the default view.
func NewEmptyBoard(boardID, name string, width, height int, background style.Color) *Board {
	return &Board{
		Version: CurrentVersion,
		ID:      boardID,
		Name:    name,
		Canvas: Canvas{
			Width:      width,
			Height:     height,
			Background: background,
		},
		View: View{
			Zoom:   1,
			Offset: geom.V(-float64(width)/2, -float64(height)/2),
		},
		Style:    style.Default(),
		Elements: []element.Record{},
	}
}

// SetElements stores the finished elements of a scene. Elements still being
// drawn are skipped.
func (b *Board) SetElements(elements []element.Element) {
	b.Elements = make([]element.Record, 0, len(elements))
	for _, e := range elements {
		if !e.IsDone() {
			continue
		}
		b.Elements = append(b.Elements, element.ToRecord(e))
	}
}

// Build reconstructs the element list.
func (b *Board) Build() ([]element.Element, error) {
	out := make([]element.Element, 0, len(b.Elements))
	for i, rec := range b.Elements {
		e, ok := element.FromRecord(rec)
		if !ok {
			return nil, fmt.Errorf("element %d (%s): %w", i, rec.Kind, ErrInvalidElement)
		}
		out = append(out, e)
	}
	return out, nil
}

// Validate checks the version and every element record: the id must carry
// the prefix of its kind and be unique, the element must be finished and
// rectangles and circles must have a non-negative size.
func (b *Board) Validate() error {
	if b.Version != CurrentVersion {
		return fmt.Errorf("version %d: %w", b.Version, ErrUnsupportedVersion)
	}
	seen := make(map[string]struct{}, len(b.Elements))
	for i, rec := range b.Elements {
		prefix, ok := kindPrefixes[rec.Kind]
		if !ok {
			return fmt.Errorf("element %d (%s): %w", i, rec.Kind, ErrUnknownKind)
		}
		if err := typeid.Validate(rec.ID, prefix); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("element %d (%s): %w", i, rec.ID, ErrDuplicateID)
		}
		seen[rec.ID] = struct{}{}

		if !rec.Done {
			return fmt.Errorf("element %d (%s): %w", i, rec.ID, ErrUnfinishedElement)
		}
		if (rec.Kind == element.KindRect || rec.Kind == element.KindCircle) &&
			rec.Size != nil && (rec.Size.X < 0 || rec.Size.Y < 0) {
			return fmt.Errorf("element %d (%s): negative size: %w", i, rec.ID, ErrInvalidElement)
		}
	}
	return nil
}

// applyDefaults fills in a view and style missing from older or hand-written
// snapshots.
func (b *Board) applyDefaults() {
	if b.View.Zoom <= 0 {
		b.View = View{
			Zoom:   1,
			Offset: geom.V(-float64(b.Canvas.Width)/2, -float64(b.Canvas.Height)/2),
		}
	}
	if isZeroStyle(b.Style) {
		b.Style = style.Default()
	}
}

func isZeroStyle(st style.Style) bool {
	return st.FillColor == "" && st.StrokeColor == "" &&
		st.StrokeWidth == 0 && st.Opacity == 0 &&
		st.LineDash == nil && st.Roundness == nil
}

// Decode parses and validates a board snapshot.
func Decode(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.applyDefaults()
	return &b, nil
}

// Encode serializes a board snapshot.
func Encode(b *Board) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}
