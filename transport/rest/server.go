package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger  *slog.Logger
	rooms   roomReader
	metrics http.Handler
}

func New(logger *slog.Logger, rooms roomReader, metrics http.Handler) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		rooms:   rooms,
		metrics: metrics,
	}
}

// Handler - operational routes: health, metrics and read-only room inspection.
func (that *Server) Handler() http.Handler {
	rooms := &roomsHandler{logger: that.logger, rooms: that.rooms}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.Handle("GET /metrics", that.metrics)
	mux.HandleFunc("GET /rooms", rooms.getStats)
	mux.HandleFunc("GET /rooms/{id}", rooms.getRoom)

	return mux
}

// Start - serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
