package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/element"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/style"
	"github.com/inamate/whiteboard/internal/viewport"
)

func newScene(maxHistory int) *Scene {
	vp := viewport.New(800, 600, viewport.DefaultOptions())
	return New(vp, history.New(maxHistory), nil)
}

func drawStroke(s *Scene, pts ...geom.Vector) element.Element {
	s.BeginStroke(pts[0], style.Default())
	for _, p := range pts[1:] {
		s.UpdateStroke(p)
	}
	s.EndStroke()
	return s.elements[len(s.elements)-1]
}

func drawRect(s *Scene, from, to geom.Vector) element.Element {
	s.BeginRect(from, style.Default())
	s.UpdateRect(to, false)
	s.EndRect()
	return s.elements[len(s.elements)-1]
}

func diagonal(s *Scene) element.Element {
	return drawStroke(s, geom.V(0, 0), geom.V(20, 20), geom.V(40, 40), geom.V(60, 60), geom.V(80, 80), geom.V(100, 100))
}

func horizontal(s *Scene) element.Element {
	return drawStroke(s, geom.V(0, 50), geom.V(20, 50), geom.V(40, 50), geom.V(60, 50), geom.V(80, 50), geom.V(100, 50))
}

type flags struct {
	id      string
	deleted bool
	staged  bool
}

func snapshot(s *Scene) []flags {
	var out []flags
	for _, e := range s.elements {
		out = append(out, flags{e.ID(), e.IsDeleted(), e.IsStagedForDelete()})
	}
	return out
}

func TestStrokeUndoRedo(t *testing.T) {
	s := newScene(10)
	before := s.Len()

	e := drawStroke(s, geom.V(0, 0), geom.V(10, 0), geom.V(10, 10))
	assert.Equal(t, geom.Box(0, 0, 10, 10), e.BoundingBox())
	assert.Equal(t, 1, s.History().Len())

	require.True(t, s.Undo())
	assert.Equal(t, before, s.Len())

	require.True(t, s.Redo())
	require.Equal(t, before+1, s.Len())
	got := s.Elements()[before]
	assert.Equal(t, e.ID(), got.ID())
	assert.Equal(t, geom.Box(0, 0, 10, 10), got.BoundingBox())
}

func TestRectangleQuadrantFlip(t *testing.T) {
	s := newScene(10)
	e := drawRect(s, geom.V(100, 100), geom.V(40, 40))

	r, ok := e.(*element.Rectangle)
	require.True(t, ok)
	assert.Equal(t, geom.V(40, 40), r.Origin())
	assert.Equal(t, geom.V(60, 60), r.Size())
	assert.Equal(t, geom.Box(40, 40, 60, 60), r.BoundingBox())
}

func TestEraseTwoStrokesRecordsOneAction(t *testing.T) {
	s := newScene(10)
	a := diagonal(s)
	b := horizontal(s)
	actionsBefore := s.History().Len()

	s.Erase(geom.V(50, 50))
	s.EndErase()

	assert.True(t, a.IsDeleted())
	assert.True(t, b.IsDeleted())
	require.Equal(t, actionsBefore+1, s.History().Len())

	s.Undo()
	assert.False(t, a.IsDeleted())
	assert.False(t, b.IsDeleted())
	assert.Equal(t, actionsBefore, s.History().Len())

	s.Redo()
	assert.True(t, a.IsDeleted())
	assert.True(t, b.IsDeleted())
}

func TestEraseIsIdempotentAndCancelRestores(t *testing.T) {
	s := newScene(10)
	a := diagonal(s)
	before := snapshot(s)

	s.Erase(geom.V(50, 50))
	s.Erase(geom.V(50, 50))
	s.Erase(geom.V(51, 51))

	require.Len(t, s.Staged(), 1)
	assert.True(t, a.IsStagedForDelete())

	s.CancelErase()
	assert.Empty(t, s.Staged())
	assert.Equal(t, before, snapshot(s))
	assert.Equal(t, 1, s.History().Len())
}

func TestEndEraseWithNothingStaged(t *testing.T) {
	s := newScene(10)
	diagonal(s)

	s.Erase(geom.V(700, 20))
	s.EndErase()

	assert.Equal(t, 1, s.History().Len())
}

func TestEraseSkipsElementsOutsideViewport(t *testing.T) {
	s := newScene(10)
	far := drawRect(s, geom.V(5000, 5000), geom.V(5100, 5100))

	s.Erase(geom.V(5050, 5050))
	assert.Empty(t, s.Staged())
	assert.False(t, far.IsStagedForDelete())
	assert.Empty(t, s.Visible())
}

func TestUndoRedoInverseLaw(t *testing.T) {
	s := newScene(10)
	diagonal(s)
	drawRect(s, geom.V(200, 200), geom.V(300, 260))
	horizontal(s)
	s.Erase(geom.V(250, 230))
	s.EndErase()
	s.Select(s.elements[0])
	s.DeleteSelected()

	const n = 5
	require.Equal(t, n, s.History().Len())
	want := snapshot(s)

	for i := 0; i < n; i++ {
		require.True(t, s.Undo())
	}
	assert.Equal(t, 0, s.Len())
	for i := 0; i < n; i++ {
		require.True(t, s.Redo())
	}
	assert.Equal(t, want, snapshot(s))
	assert.False(t, s.Redo())
}

func TestNewActionInvalidatesRedo(t *testing.T) {
	s := newScene(10)
	diagonal(s)
	horizontal(s)
	s.Undo()

	drawRect(s, geom.V(300, 300), geom.V(350, 350))
	assert.False(t, s.Redo())
	assert.Equal(t, 2, s.Len())
}

func TestEvictionSweepsUnreachableDeletedElements(t *testing.T) {
	s := newScene(2)
	a := diagonal(s)
	s.Erase(geom.V(50, 50))
	s.EndErase()

	drawRect(s, geom.V(200, 200), geom.V(250, 250))
	// Add(a) evicted; a is still referenced by the Erase action
	assert.Contains(t, s.Elements(), a)

	drawRect(s, geom.V(300, 300), geom.V(350, 350))
	// Erase evicted; a can no longer be resurrected
	assert.NotContains(t, s.Elements(), a)
	assert.Equal(t, 2, s.Len())
	assert.LessOrEqual(t, s.History().Len(), 2)
}

func TestNewActionSweepsDeletedElementsOnlyRedoReferenced(t *testing.T) {
	s := newScene(2)
	x := diagonal(s)
	s.Erase(geom.V(50, 50))
	s.EndErase()
	require.True(t, x.IsDeleted())

	s.Clear()
	drawRect(s, geom.V(0, 0), geom.V(10, 10))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	// x is back in the list but still erased; only the undone clear holds it
	require.Contains(t, s.Elements(), x)
	assert.True(t, x.IsDeleted())

	r := drawRect(s, geom.V(200, 200), geom.V(220, 220))
	assert.NotContains(t, s.Elements(), x)
	assert.Equal(t, []element.Element{r}, s.Elements())
	assert.False(t, s.History().CanRedo())
}

func TestClearRedoDoesNotRecordTwice(t *testing.T) {
	s := newScene(10)
	diagonal(s)
	horizontal(s)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 3, s.History().Len())

	s.Undo()
	assert.Equal(t, 2, s.Len())

	s.Redo()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 3, s.History().Len())
	assert.False(t, s.History().CanRedo())
}

func TestClearOnEmptySceneIsNoop(t *testing.T) {
	s := newScene(10)
	s.Clear()
	assert.False(t, s.History().CanUndo())
}

func TestCancelDiscardsInProgressElement(t *testing.T) {
	s := newScene(10)
	s.BeginStroke(geom.V(0, 0), style.Default())
	s.UpdateStroke(geom.V(20, 20))
	assert.True(t, s.Drawing())

	s.CancelGesture()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Drawing())
	assert.False(t, s.History().CanUndo())

	s.BeginRect(geom.V(0, 0), style.Default())
	s.UpdateRect(geom.V(30, 30), false)
	s.CancelGesture()
	assert.Equal(t, 0, s.Len())
}

func TestMismatchedUpdateIsNoop(t *testing.T) {
	s := newScene(10)
	s.BeginCircle(geom.V(100, 100), style.Default())
	s.UpdateRect(geom.V(150, 150), false)
	s.UpdateStroke(geom.V(150, 150))
	s.EndRect()
	s.EndStroke()

	require.Equal(t, 1, s.Len())
	c := s.elements[0].(*element.Circle)
	assert.False(t, c.IsDone())
	assert.Equal(t, geom.V(0, 0), c.Radii())

	s.UpdateCircle(geom.V(130, 110), true)
	s.EndCircle()
	assert.True(t, c.IsDone())
	assert.Equal(t, geom.V(30, 30), c.Radii())
}

func TestSecondBeginIsIgnoredWhileDrawing(t *testing.T) {
	s := newScene(10)
	s.BeginStroke(geom.V(0, 0), style.Default())
	s.BeginRect(geom.V(10, 10), style.Default())

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, element.KindStroke, s.elements[0].Kind())
}

func TestZeroSizeShapesAreDiscarded(t *testing.T) {
	s := newScene(10)
	s.BeginRect(geom.V(10, 10), style.Default())
	s.EndRect()
	s.BeginLine(geom.V(10, 10), style.Default())
	s.EndLine()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.History().CanUndo())
}

func TestPausedDragFreezesShape(t *testing.T) {
	s := newScene(10)
	s.BeginRect(geom.V(0, 0), style.Default())
	s.UpdateRect(geom.V(20, 20), false)
	s.PauseDrag()
	s.UpdateRect(geom.V(80, 80), false)
	s.UnpauseDrag()
	s.EndRect()

	r := s.elements[0].(*element.Rectangle)
	assert.Equal(t, geom.V(20, 20), r.Size())
}

func TestLineGesture(t *testing.T) {
	s := newScene(10)
	s.BeginLine(geom.V(10, 10), style.Default())
	s.UpdateLine(geom.V(60, 30))
	s.EndLine()

	l := s.elements[0].(*element.Line)
	assert.Equal(t, geom.V(60, 30), l.End())
	assert.Equal(t, geom.Box(10, 10, 50, 20), l.BoundingBox())
	assert.Equal(t, 1, s.History().Len())
}

func TestSelectAtPrefersNewest(t *testing.T) {
	s := newScene(10)
	drawRect(s, geom.V(0, 0), geom.V(100, 100))
	top := drawRect(s, geom.V(50, 50), geom.V(150, 150))

	hit, ok := s.SelectAt(geom.V(75, 75))
	require.True(t, ok)
	assert.Equal(t, top, hit)
	assert.Len(t, s.Selected(), 1)

	s.Select(top)
	assert.Len(t, s.Selected(), 1)

	_, ok = s.SelectAt(geom.V(500, 500))
	assert.False(t, ok)
	assert.Empty(t, s.Selected())
}

func TestMarqueeSelectsOverlapping(t *testing.T) {
	s := newScene(10)
	near := drawRect(s, geom.V(10, 10), geom.V(30, 30))
	drawRect(s, geom.V(200, 200), geom.V(220, 220))

	s.BeginMarquee(geom.V(0, 0))
	s.UpdateMarquee(geom.V(15, 15))
	s.EndMarquee()

	assert.Equal(t, []element.Element{near}, s.Selected())
	_, active := s.Marquee()
	assert.False(t, active)
}

func TestSelectionBounds(t *testing.T) {
	s := newScene(10)
	a := drawRect(s, geom.V(10, 10), geom.V(30, 30))
	b := drawRect(s, geom.V(100, 50), geom.V(120, 90))

	_, ok := s.SelectionBounds()
	assert.False(t, ok)

	s.Select(a)
	s.Select(b)
	box, ok := s.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, geom.Box(10, 10, 110, 80), box)
}

func TestDeleteSelectedIsUndoable(t *testing.T) {
	s := newScene(10)
	a := drawRect(s, geom.V(10, 10), geom.V(30, 30))
	b := drawRect(s, geom.V(100, 50), geom.V(120, 90))
	s.Select(a)
	s.Select(b)

	s.DeleteSelected()
	assert.True(t, a.IsDeleted())
	assert.True(t, b.IsDeleted())
	assert.Empty(t, s.Selected())
	assert.Empty(t, s.Visible())

	s.Undo()
	assert.False(t, a.IsDeleted())
	assert.False(t, b.IsDeleted())
}

func TestResetHistoryDropsDeletedElements(t *testing.T) {
	s := newScene(10)
	a := diagonal(s)
	drawRect(s, geom.V(300, 300), geom.V(350, 350))
	s.Erase(geom.V(50, 50))
	s.EndErase()

	s.ResetHistory()
	assert.NotContains(t, s.Elements(), a)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.History().CanUndo())
}

func TestDrawSkipsDeletedAndOutlinesSelection(t *testing.T) {
	s := newScene(10)
	keep := drawRect(s, geom.V(10, 10), geom.V(30, 30))
	gone := drawRect(s, geom.V(100, 100), geom.V(130, 130))
	s.Select(gone)
	s.DeleteSelected()
	s.Select(keep)

	rec := render.NewRecorder()
	s.Draw(rec)

	var dashed int
	for _, cmd := range rec.Commands() {
		if len(cmd.LineDash) > 0 {
			dashed++
			assert.Equal(t, string(style.HotPink), cmd.Stroke)
		}
	}
	assert.Equal(t, 1, dashed)
	// fill and stroke for the live rectangle plus the selection outline
	assert.Len(t, rec.Commands(), 3)
}

func TestLoadReplacesElements(t *testing.T) {
	s := newScene(10)
	diagonal(s)

	other := newScene(10)
	r := drawRect(other, geom.V(0, 0), geom.V(10, 10))

	s.Load([]element.Element{r})
	assert.Equal(t, []element.Element{r}, s.Elements())
	assert.False(t, s.History().CanUndo())

	found, ok := s.Find(r.ID())
	require.True(t, ok)
	assert.Equal(t, r, found)
}
