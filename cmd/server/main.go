package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/gg"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/document"
	mw "github.com/inamate/whiteboard/internal/middleware"
	"github.com/inamate/whiteboard/internal/session"
	"github.com/inamate/whiteboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	engineOpts := cfg.EngineOptions()

	boardService := board.NewService(st, engineOpts)
	boardHandler := board.NewHandler(boardService)

	// Document loader for input sessions
	docLoader := func(ctx context.Context, boardID string) (*document.Board, error) {
		doc, err := boardService.GetLatestSnapshot(ctx, boardID)
		if err != nil {
			return nil, err
		}
		return document.Decode(doc)
	}

	// Document saver for input sessions
	docSaver := func(ctx context.Context, boardID string, b *document.Board) error {
		docJSON, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal board: %w", err)
		}
		_, err = boardService.SaveSnapshot(ctx, boardID, docJSON)
		return err
	}

	sessionHandler := session.NewHandler(engineOpts, cfg.Origins(), docLoader, docSaver)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	boardHandler.Routes(api)

	// WebSocket endpoint
	r.Handle("/ws/board/{boardId}", sessionHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
