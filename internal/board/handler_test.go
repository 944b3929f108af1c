package board

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/store"
	"github.com/inamate/whiteboard/internal/typeid"
)

type memRepo struct {
	mu        sync.Mutex
	boards    map[string]store.Board
	snapshots map[string][]store.Snapshot
}

func newMemRepo() *memRepo {
	return &memRepo{
		boards:    make(map[string]store.Board),
		snapshots: make(map[string][]store.Snapshot),
	}
}

func (m *memRepo) CreateBoard(_ context.Context, b store.Board) (store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.boards[b.ID] = b
	return b, nil
}

func (m *memRepo) GetBoard(_ context.Context, id string) (store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return store.Board{}, store.ErrNotFound
	}
	return b, nil
}

func (m *memRepo) ListBoards(context.Context) ([]store.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Board
	for _, b := range m.boards {
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) DeleteBoard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.boards, id)
	delete(m.snapshots, id)
	return nil
}

func (m *memRepo) SaveSnapshot(_ context.Context, id, boardID string, doc json.RawMessage) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[boardID]; !ok {
		return store.Snapshot{}, store.ErrNotFound
	}
	snap := store.Snapshot{
		ID:       id,
		BoardID:  boardID,
		Version:  int32(len(m.snapshots[boardID]) + 1),
		Document: doc,
	}
	m.snapshots[boardID] = append(m.snapshots[boardID], snap)
	return snap, nil
}

func (m *memRepo) LatestSnapshot(_ context.Context, boardID string) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := m.snapshots[boardID]
	if len(snaps) == 0 {
		return store.Snapshot{}, store.ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Width, opts.Height = 320, 240
	opts.Sketchy = false

	r := mux.NewRouter()
	NewHandler(NewService(newMemRepo(), opts)).Routes(r)
	return r
}

func do(r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createBoard(t *testing.T, r http.Handler) Board {
	t.Helper()
	rec := do(r, "POST", "/boards", `{"name":"retro"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var b Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestCreateSeedsEmptySnapshot(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	assert.NoError(t, typeid.Validate(b.ID, typeid.PrefixBoard))
	assert.Equal(t, 320, b.Width)

	rec := do(r, "GET", "/boards/"+b.ID+"/snapshots/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := document.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, b.ID, doc.ID)
	assert.Empty(t, doc.Elements)
}

func TestCreateRequiresName(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/boards", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/boards", `{`).Code)
}

func TestGetBoard(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	assert.Equal(t, http.StatusOK, do(r, "GET", "/boards/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "GET", "/boards/"+typeid.NewBoardID(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "GET", "/boards/not-an-id", "").Code)

	rec := do(r, "GET", "/boards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var boards []Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boards))
	assert.Len(t, boards, 1)
}

func TestSaveSnapshot(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	sample, err := document.Encode(document.NewSampleBoard("ignored"))
	require.NoError(t, err)

	rec := do(r, "POST", "/boards/"+b.ID+"/snapshots", string(sample))
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.Version)

	rec = do(r, "GET", "/boards/"+b.ID+"/snapshots/latest", "")
	doc, err := document.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, b.ID, doc.ID)
	assert.Len(t, doc.Elements, 4)
}

func TestSaveSnapshotRejectsInvalid(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	rec := do(r, "POST", "/boards/"+b.ID+"/snapshots", `{"version": 42}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	unfinished := `{"version": 1, "elements": [{"id": "` + typeid.New(typeid.PrefixStroke) +
		`", "kind": "stroke", "points": [{"x": 0, "y": 0}]}]}`
	rec = do(r, "POST", "/boards/"+b.ID+"/snapshots", unfinished)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	sample, err := document.Encode(document.NewSampleBoard("ignored"))
	require.NoError(t, err)
	rec = do(r, "POST", "/boards/"+typeid.NewBoardID()+"/snapshots", string(sample))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderPNG(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	rec := do(r, "GET", "/boards/"+b.ID+"/render.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, do(r, "GET", "/boards/"+typeid.NewBoardID()+"/render.png", "").Code)
}

func TestDeleteBoard(t *testing.T) {
	r := newTestRouter(t)
	b := createBoard(t, r)

	assert.Equal(t, http.StatusNoContent, do(r, "DELETE", "/boards/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "DELETE", "/boards/"+b.ID, "").Code)
}
