package document

import (
	"math"
	"time"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/typeid"
)

// NewSampleBoard returns a small board with one element of each kind.
func NewSampleBoard(boardID string) *Board {
	now := time.Now().UTC().Format(time.RFC3339)

	b := NewEmptyBoard(boardID, "Untitled", 1280, 720, style.Black)
	b.CreatedAt = now
	b.UpdatedAt = now

	outline := style.Default()
	outline.FillColor = style.None
	outline.StrokeColor = style.Cyan
	outline.StrokeWidth = 3

	filled := style.Default()
	filled.FillColor = style.Orange
	filled.StrokeColor = style.Yellow

	var wave []geom.Vector
	for i := 0; i <= 40; i++ {
		x := 200 + float64(i)*20
		wave = append(wave, geom.V(x, 560+40*math.Sin(float64(i)/4)))
	}

	b.Elements = []element.Record{
		{
			ID:     typeid.New(typeid.PrefixRect),
			Kind:   element.KindRect,
			Seed:   17,
			Style:  outline,
			Done:   true,
			Origin: ptr(geom.V(120, 100)),
			Size:   ptr(geom.V(320, 200)),
		},
		{
			ID:     typeid.New(typeid.PrefixCircle),
			Kind:   element.KindCircle,
			Seed:   42,
			Style:  filled,
			Done:   true,
			Origin: ptr(geom.V(760, 220)),
			Size:   ptr(geom.V(140, 100)),
		},
		{
			ID:     typeid.New(typeid.PrefixLine),
			Kind:   element.KindLine,
			Seed:   7,
			Style:  style.Default(),
			Done:   true,
			Origin: ptr(geom.V(120, 420)),
			End:    ptr(geom.V(1100, 420)),
		},
		{
			ID:     typeid.New(typeid.PrefixStroke),
			Kind:   element.KindStroke,
			Seed:   3,
			Style:  style.Default(),
			Done:   true,
			Points: wave,
		},
	}
	return b
}

func ptr(v geom.Vector) *geom.Vector {
	return &v
}
