package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
)

func outlineOnly() style.Style {
	st := style.Default()
	st.FillColor = style.None
	st.StrokeWidth = 4
	return st
}

func TestStrokeBoundingBox(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(0, 0))
	s.AddPoint(geom.V(10, 0))
	s.AddPoint(geom.V(10, 10))
	s.SetDone(true)

	assert.Equal(t, geom.Box(0, 0, 10, 10), s.BoundingBox())
	assert.True(t, s.IsDone())
	assert.NotEmpty(t, s.Outline())
}

func TestStrokeIgnoresPointsAfterDone(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(0, 0))
	s.AddPoint(geom.V(5, 5))
	s.SetDone(true)
	s.AddPoint(geom.V(100, 100))

	assert.Len(t, s.Points(), 2)
	assert.Equal(t, geom.Box(0, 0, 5, 5), s.BoundingBox())
}

func TestStrokeBoundingBoxContainsAllPoints(t *testing.T) {
	pts := []geom.Vector{geom.V(3, -2), geom.V(-7, 4), geom.V(12, 9), geom.V(0, 0)}
	s := NewStroke(style.Default(), pts[0])
	for _, p := range pts[1:] {
		s.AddPoint(p)
	}
	s.SetDone(true)

	box := s.BoundingBox()
	assert.GreaterOrEqual(t, box.W, 0.0)
	assert.GreaterOrEqual(t, box.H, 0.0)
	for _, p := range pts {
		assert.True(t, box.IsIntersecting(p), "point %v outside %v", p, box)
	}
}

func TestStrokeHitTest(t *testing.T) {
	st := style.Default()
	st.StrokeWidth = 10
	s := NewStroke(st, geom.V(0, 0))
	for i := 1; i <= 5; i++ {
		s.AddPoint(geom.V(float64(i)*20, float64(i)*20))
	}
	s.SetDone(true)

	assert.True(t, s.CheckIntersection(geom.V(50, 50)))
	assert.False(t, s.CheckIntersection(geom.V(90, 10)))
}

func TestStrokeDotIsHittable(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(20, 20))
	s.SetDone(true)

	assert.True(t, s.CheckIntersection(geom.V(21, 20)))
	assert.False(t, s.CheckIntersection(geom.V(40, 40)))
}

func TestFinishedStrokeKeepsEmptyOutline(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(20, 20))
	s.SetDone(true)
	require.True(t, s.outlined)

	// a finished stroke whose outline came out empty is not recomputed
	s.outline = nil
	assert.Nil(t, s.Outline())
	assert.Nil(t, s.Outline())
	assert.True(t, s.CheckIntersection(geom.V(21, 20)))
}

func TestStrokeLiveOutlineFollowsPoints(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(0, 0))
	s.AddPoint(geom.V(30, 0))
	before := s.Outline()
	s.AddPoint(geom.V(60, 30))

	assert.NotEqual(t, before, s.Outline())
}

func TestRectangleQuadrantFlip(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(100, 100))
	r.Resize(geom.V(-60, -60), false)
	r.SetDone(true)

	assert.Equal(t, geom.V(40, 40), r.Origin())
	assert.Equal(t, geom.V(60, 60), r.Size())
	assert.Equal(t, geom.Box(40, 40, 60, 60), r.BoundingBox())
}

func TestRectangleProportional(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(0, 0))
	r.Resize(geom.V(30, -10), true)

	assert.Equal(t, geom.V(30, 30), r.Size())
	assert.Equal(t, geom.V(0, -30), r.Origin())
}

func TestRectangleFilledHitTest(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(0, 0))
	r.Resize(geom.V(100, 50), false)
	r.SetDone(true)

	assert.True(t, r.CheckIntersection(geom.V(50, 25)))
	assert.True(t, r.CheckIntersection(geom.V(100, 50)))
	assert.False(t, r.CheckIntersection(geom.V(101, 25)))
}

func TestRectangleOutlineHitTestUsesStrokeBand(t *testing.T) {
	r := NewRectangle(outlineOnly(), geom.V(0, 0))
	r.Resize(geom.V(100, 50), false)
	r.SetDone(true)

	tests := []struct {
		name string
		p    geom.Vector
		want bool
	}{
		{"on edge", geom.V(0, 25), true},
		{"outer half of band", geom.V(-2, 25), true},
		{"inner half of band", geom.V(2, 25), true},
		{"centre", geom.V(50, 25), false},
		{"outside band", geom.V(-3, 25), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CheckIntersection(tt.p))
		})
	}
}

func TestRectangleRadius(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(0, 0))
	r.Resize(geom.V(40, 200), false)
	assert.Equal(t, 10.0, r.Radius())

	r.Resize(geom.V(400, 200), false)
	assert.Equal(t, 20.0, r.Radius())

	sharp := style.Default()
	zero := 0.0
	sharp.Roundness = &zero
	assert.Equal(t, 0.0, NewRectangle(sharp, geom.V(0, 0)).Radius())
}

func TestCircleBoundingBoxHitTest(t *testing.T) {
	c := NewCircle(style.Default(), geom.V(50, 50))
	c.Resize(geom.V(-20, 10), false)
	c.SetDone(true)

	assert.Equal(t, geom.Box(30, 40, 40, 20), c.BoundingBox())
	// box corner is outside the ellipse but still a hit
	assert.True(t, c.CheckIntersection(geom.V(31, 41)))
	assert.False(t, c.CheckIntersection(geom.V(50, 61)))
}

func TestCircleProportional(t *testing.T) {
	c := NewCircle(style.Default(), geom.V(0, 0))
	c.Resize(geom.V(5, -12), true)

	assert.Equal(t, geom.V(12, 12), c.Radii())
}

func TestLine(t *testing.T) {
	l := NewLine(style.Default(), geom.V(10, 10))
	l.SetEnd(geom.V(0, 30))
	l.SetDone(true)
	l.SetEnd(geom.V(99, 99))

	assert.Equal(t, geom.V(0, 30), l.End())
	assert.Equal(t, geom.Box(0, 10, 10, 20), l.BoundingBox())
	assert.True(t, l.CheckIntersection(geom.V(5, 20)))
}

func TestLifecycleFlags(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(0, 0))

	r.StageForDelete()
	assert.True(t, r.IsStagedForDelete())
	r.UnstageFromDelete()
	assert.False(t, r.IsStagedForDelete())

	r.StageForDelete()
	r.Delete()
	assert.True(t, r.IsDeleted())
	assert.False(t, r.IsStagedForDelete())

	r.Recover()
	assert.False(t, r.IsDeleted())
	assert.False(t, r.IsStagedForDelete())
}

func TestStyleIsCopied(t *testing.T) {
	st := style.Default()
	st.LineDash = []float64{1, 2}
	r := NewRectangle(st, geom.V(0, 0))

	st.LineDash[0] = 9
	st.StrokeColor = style.Red

	assert.Equal(t, []float64{1, 2}, r.Style().LineDash)
	assert.Equal(t, style.White, r.Style().StrokeColor)
}

func TestIDsAndSeedsAreStable(t *testing.T) {
	a := NewStroke(style.Default(), geom.V(0, 0))
	b := NewStroke(style.Default(), geom.V(0, 0))

	assert.NotEqual(t, a.ID(), b.ID())
	id, seed := a.ID(), a.Seed()
	a.AddPoint(geom.V(3, 3))
	a.SetDone(true)
	assert.Equal(t, id, a.ID())
	assert.Equal(t, seed, a.Seed())
}

func TestStagedElementsDrawFaded(t *testing.T) {
	r := NewRectangle(style.Default(), geom.V(0, 0))
	r.Resize(geom.V(10, 10), false)
	r.SetDone(true)
	r.StageForDelete()

	rec := render.NewRecorder()
	r.Draw(rec)

	require.NotEmpty(t, rec.Commands())
	for _, cmd := range rec.Commands() {
		assert.InDelta(t, StagedOpacity, cmd.Opacity, 1e-9)
	}
}

func TestStrokeDrawsFilledOutline(t *testing.T) {
	s := NewStroke(style.Default(), geom.V(0, 0))
	s.AddPoint(geom.V(40, 40))
	s.SetDone(true)

	rec := render.NewRecorder()
	s.Draw(rec)

	require.Len(t, rec.Commands(), 1)
	assert.Equal(t, "fill", rec.Commands()[0].Op)
	assert.Equal(t, string(style.White), rec.Commands()[0].Fill)
}

func TestRecordRoundTrip(t *testing.T) {
	r := NewRectangle(outlineOnly(), geom.V(100, 100))
	r.Resize(geom.V(-60, 20), false)
	r.SetDone(true)
	r.Delete()

	back, ok := FromRecord(ToRecord(r))
	require.True(t, ok)

	assert.Equal(t, r.ID(), back.ID())
	assert.Equal(t, r.Seed(), back.Seed())
	assert.Equal(t, r.BoundingBox(), back.BoundingBox())
	assert.True(t, back.IsDeleted())
	assert.True(t, back.IsDone())
}

func TestFromRecordRejectsBadRecords(t *testing.T) {
	_, ok := FromRecord(Record{ID: "x", Kind: "triangle"})
	assert.False(t, ok)

	_, ok = FromRecord(Record{ID: "x", Kind: KindCircle})
	assert.False(t, ok)
}

func TestOutlinePathIsClosed(t *testing.T) {
	outline := StrokeOutline([]geom.Vector{geom.V(0, 0), geom.V(50, 0), geom.V(100, 20)}, StrokeOptions(8, true))
	path := OutlinePath(outline)

	require.NotEmpty(t, path)
	assert.Equal(t, "M", path[0][0])
	assert.Equal(t, render.PathCommand{"Z"}, path[len(path)-1])
	assert.Nil(t, OutlinePath(outline[:3]))
}
