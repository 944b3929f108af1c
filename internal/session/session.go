// Package session drives one engine from one websocket connection. The
// read pump owns the engine: every input message is applied and answered
// with a freshly rendered frame on the same goroutine.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/style"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// DocLoader returns the stored board a session starts from.
type DocLoader func(ctx context.Context, boardID string) (*document.Board, error)

// DocSaver persists a board snapshot.
type DocSaver func(ctx context.Context, boardID string, b *document.Board) error

type Session struct {
	ID      string
	BoardID string

	conn   *websocket.Conn
	send   chan []byte
	eng    *engine.Engine
	saver  DocSaver
	dirty  bool
	logger *slog.Logger
}

func New(conn *websocket.Conn, eng *engine.Engine, boardID string, saver DocSaver) *Session {
	id := uuid.New().String()
	return &Session{
		ID:      id,
		BoardID: boardID,
		conn:    conn,
		send:    make(chan []byte, 64),
		eng:     eng,
		saver:   saver,
		logger:  slog.With("session", id, "board", boardID),
	}
}

// Run sends the welcome message and pumps until the connection closes. A
// dirty board is saved on the way out.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Send(TypeWelcome, 0, WelcomePayload{SessionID: s.ID, BoardID: s.BoardID, State: s.eng.State()})
	s.sendFrame(0)

	go s.WritePump(ctx)
	s.ReadPump(ctx)

	if s.dirty {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), writeWait)
		defer saveCancel()
		if err := s.save(saveCtx); err != nil {
			s.logger.Error("save on close", "error", err)
		}
	}
}

func (s *Session) ReadPump(ctx context.Context) {
	defer s.conn.Close(websocket.StatusNormalClosure, "")

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			s.logger.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("invalid message", "error", err)
			continue
		}

		if err := s.handleMessage(ctx, &msg); err != nil {
			s.logger.Warn("message failed", "type", msg.Type, "error", err)
			s.Send(TypeError, msg.Seq, ErrorPayload{Message: err.Error()})
			continue
		}
		s.sendFrame(msg.Seq)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				s.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues a message. It is dropped when the buffer is full.
func (s *Session) Send(msgType string, seq int64, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal payload", "error", err)
		return
	}
	data, err := json.Marshal(&Message{Type: msgType, SessionID: s.ID, BoardID: s.BoardID, Seq: seq, Payload: raw})
	if err != nil {
		s.logger.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		s.logger.Warn("send buffer full, dropping message", "type", msgType)
	}
}

func (s *Session) sendFrame(seq int64) {
	s.Send(TypeRender, seq, RenderPayload{
		Commands: json.RawMessage(s.eng.Render()),
		State:    s.eng.State(),
	})
}

func (s *Session) handleMessage(ctx context.Context, msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev engine.PointerEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode pointer event: %w", err)
		}
		switch msg.Type {
		case TypePointerDown:
			s.eng.PointerDown(ev)
		case TypePointerMove:
			s.eng.PointerMove(ev)
		case TypePointerUp:
			s.eng.PointerUp(ev)
			s.dirty = true
		}

	case TypePointerLeave:
		s.eng.PointerLeave()

	case TypeKeyDown, TypeKeyUp:
		var ev engine.KeyEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode key event: %w", err)
		}
		if msg.Type == TypeKeyDown {
			s.eng.KeyDown(ev)
			s.dirty = true
		} else {
			s.eng.KeyUp(ev)
		}

	case TypeWheel:
		var ev engine.WheelEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode wheel event: %w", err)
		}
		s.eng.Wheel(ev)

	case TypeToolSet:
		var p ToolPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode tool: %w", err)
		}
		tool, ok := engine.ParseTool(p.Tool)
		if !ok {
			return fmt.Errorf("unknown tool %q", p.Tool)
		}
		s.eng.SetTool(tool)

	case TypeStyleSet:
		var st style.Style
		if err := json.Unmarshal(msg.Payload, &st); err != nil {
			return fmt.Errorf("decode style: %w", err)
		}
		s.eng.SetStyle(st)

	case TypeStylePatch:
		var p style.Patch
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode style patch: %w", err)
		}
		s.eng.PatchStyle(p)

	case TypeResize:
		var p ResizePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode resize: %w", err)
		}
		s.eng.Resize(p.Width, p.Height)

	case TypeUndo:
		s.eng.Undo()
		s.dirty = true
	case TypeRedo:
		s.eng.Redo()
		s.dirty = true
	case TypeClear:
		s.eng.Clear()
		s.dirty = true
	case TypeDelete:
		s.eng.DeleteSelected()
		s.dirty = true
	case TypeCancel:
		s.eng.Cancel()

	case TypeSave:
		if err := s.save(ctx); err != nil {
			return err
		}
		s.Send(TypeSaved, msg.Seq, nil)

	case TypeFrame:
		// render only

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if s.saver == nil || s.BoardID == "" {
		return nil
	}
	if err := s.saver(ctx, s.BoardID, s.eng.Snapshot()); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	s.dirty = false
	s.logger.Info("board saved")
	return nil
}
