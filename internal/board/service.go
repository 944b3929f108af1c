package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/store"
	"github.com/inamate/whiteboard/internal/typeid"
)

var (
	ErrNotFound        = errors.New("board not found")
	ErrInvalidID       = errors.New("invalid board id")
	ErrInvalidDocument = errors.New("invalid board document")
)

// Repository is the persistence the service needs. *store.Store satisfies it.
type Repository interface {
	CreateBoard(ctx context.Context, b store.Board) (store.Board, error)
	GetBoard(ctx context.Context, id string) (store.Board, error)
	ListBoards(ctx context.Context) ([]store.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	SaveSnapshot(ctx context.Context, id, boardID string, doc json.RawMessage) (store.Snapshot, error)
	LatestSnapshot(ctx context.Context, boardID string) (store.Snapshot, error)
}

type Service struct {
	repo Repository
	opts engine.Options
}

// NewService creates a board service. New engines for rendering start from
// opts.
func NewService(repo Repository, opts engine.Options) *Service {
	return &Service{repo: repo, opts: opts}
}

type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Snapshot struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Version int    `json:"version"`
}

func (s *Service) Create(ctx context.Context, name string) (*Board, error) {
	boardID := typeid.NewBoardID()

	dbBoard, err := s.repo.CreateBoard(ctx, store.Board{
		ID:     boardID,
		Name:   name,
		Width:  int32(s.opts.Width),
		Height: int32(s.opts.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	// Seed empty board snapshot
	empty := document.NewEmptyBoard(boardID, name, int(s.opts.Width), int(s.opts.Height), s.opts.Background)
	empty.Style = s.opts.Style.Clone()
	docJSON, err := document.Encode(empty)
	if err != nil {
		return nil, fmt.Errorf("marshal empty board: %w", err)
	}

	if _, err := s.repo.SaveSnapshot(ctx, typeid.NewSnapshotID(), boardID, docJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbBoardToBoard(dbBoard), nil
}

func (s *Service) Get(ctx context.Context, boardID string) (*Board, error) {
	if err := typeid.Validate(boardID, typeid.PrefixBoard); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	dbBoard, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, mapStoreError("get board", err)
	}
	return dbBoardToBoard(dbBoard), nil
}

func (s *Service) List(ctx context.Context) ([]Board, error) {
	dbBoards, err := s.repo.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]Board, len(dbBoards))
	for i, b := range dbBoards {
		boards[i] = *dbBoardToBoard(b)
	}
	return boards, nil
}

func (s *Service) Delete(ctx context.Context, boardID string) error {
	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		return mapStoreError("delete board", err)
	}
	return nil
}

// GetLatestSnapshot returns the newest stored document of a board.
func (s *Service) GetLatestSnapshot(ctx context.Context, boardID string) (json.RawMessage, error) {
	snap, err := s.repo.LatestSnapshot(ctx, boardID)
	if err != nil {
		return nil, mapStoreError("get snapshot", err)
	}
	return snap.Document, nil
}

// SaveSnapshot validates a board document and stores it as the next version.
func (s *Service) SaveSnapshot(ctx context.Context, boardID string, doc json.RawMessage) (*Snapshot, error) {
	b, err := document.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := b.Build(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	b.ID = boardID

	data, err := document.Encode(b)
	if err != nil {
		return nil, err
	}

	snap, err := s.repo.SaveSnapshot(ctx, typeid.NewSnapshotID(), boardID, data)
	if err != nil {
		return nil, mapStoreError("save snapshot", err)
	}
	return &Snapshot{ID: snap.ID, BoardID: snap.BoardID, Version: int(snap.Version)}, nil
}

// RenderPNG rasterizes the latest snapshot of a board with its saved view.
func (s *Service) RenderPNG(ctx context.Context, boardID string) ([]byte, error) {
	doc, err := s.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}
	b, err := document.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	opts := s.opts
	if b.Canvas.Width > 0 && b.Canvas.Height > 0 {
		opts.Width, opts.Height = float64(b.Canvas.Width), float64(b.Canvas.Height)
	}
	eng := engine.NewEngine(opts)
	if err := eng.LoadBoard(b); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := eng.RenderPNG(&buf); err != nil {
		return nil, fmt.Errorf("render board: %w", err)
	}
	return buf.Bytes(), nil
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func dbBoardToBoard(b store.Board) *Board {
	return &Board{
		ID:        b.ID,
		Name:      b.Name,
		Width:     int(b.Width),
		Height:    int(b.Height),
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
