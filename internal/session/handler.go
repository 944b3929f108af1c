package session

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/engine"
)

// Handler upgrades /ws/board/{boardId} requests into input sessions.
type Handler struct {
	opts    engine.Options
	origins []string
	loader  DocLoader
	saver   DocSaver
}

func NewHandler(opts engine.Options, origins []string, loader DocLoader, saver DocSaver) *Handler {
	return &Handler{opts: opts, origins: origins, loader: loader, saver: saver}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	eng := engine.NewEngine(h.opts)
	if h.loader != nil && boardID != "" {
		b, err := h.loader(r.Context(), boardID)
		if err != nil {
			slog.Warn("load board for session", "board", boardID, "error", err)
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		if err := eng.LoadBoard(b); err != nil {
			slog.Error("load board for session", "board", boardID, "error", err)
			http.Error(w, "invalid board", http.StatusInternalServerError)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	s := New(conn, eng, boardID, h.saver)
	s.logger.Info("session started")
	s.Run(r.Context())
	s.logger.Info("session ended")
}
