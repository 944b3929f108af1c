// Package store persists boards and their snapshot history in Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS boards (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (board_id, version)
);
`

type Board struct {
	ID        string
	Name      string
	Width     int32
	Height    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Snapshot struct {
	ID        string
	BoardID   string
	Version   int32
	Document  json.RawMessage
	CreatedAt time.Time
}

type Store struct {
	pool *pgxpool.Pool
}

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) CreateBoard(ctx context.Context, b Board) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO boards (id, name, width, height)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, width, height, created_at, updated_at`,
		b.ID, b.Name, b.Width, b.Height)

	out, err := scanBoard(row)
	if err != nil {
		return Board{}, fmt.Errorf("create board: %w", err)
	}
	return out, nil
}

func (s *Store) GetBoard(ctx context.Context, id string) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, width, height, created_at, updated_at
		FROM boards WHERE id = $1`, id)

	b, err := scanBoard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Board{}, ErrNotFound
		}
		return Board{}, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func (s *Store) ListBoards(ctx context.Context) ([]Board, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, width, height, created_at, updated_at
		FROM boards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Board, error) {
		return scanBoard(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSnapshot appends a snapshot with the next version number for its board
// and bumps the board's updated_at.
func (s *Store) SaveSnapshot(ctx context.Context, id, boardID string, doc json.RawMessage) (Snapshot, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE boards SET updated_at = now() WHERE id = $1`, boardID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("touch board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Snapshot{}, ErrNotFound
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO snapshots (id, board_id, version, document)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		FROM snapshots WHERE board_id = $2
		RETURNING id, board_id, version, document, created_at`,
		id, boardID, doc)

	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (s *Store) LatestSnapshot(ctx context.Context, boardID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, board_id, version, document, created_at
		FROM snapshots WHERE board_id = $1
		ORDER BY version DESC LIMIT 1`, boardID)

	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func scanBoard(row pgx.Row) (Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Name, &b.Width, &b.Height, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	err := row.Scan(&s.ID, &s.BoardID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}
