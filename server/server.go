package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/transport-catalogue/handler"
)

// ShutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Server exposes a loaded transport database over HTTP.
type Server struct {
	handler    *handler.Handler
	snapshotID string
	router     *mux.Router
	logger     *slog.Logger
}

// New wires the routes for h. snapshotID is reported by the health endpoint.
func New(h *handler.Handler, snapshotID string, logger *slog.Logger) *Server {
	s := &Server{
		handler:    h,
		snapshotID: snapshotID,
		router:     mux.NewRouter(),
		logger:     logger.With("component", "server"),
	}
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/buses/{name}", s.handleBus).Methods(http.MethodGet)
	api.HandleFunc("/stops/{name}", s.handleStop).Methods(http.MethodGet)
	api.HandleFunc("/route", s.handleRoute).Methods(http.MethodGet).Queries("from", "{from}", "to", "{to}")
	api.HandleFunc("/route", s.handleMissingParams).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/stat_requests", s.handleStatRequests).Methods(http.MethodPost)
	s.router.Use(s.logRequests)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "snapshot_id", s.snapshotID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server shut down")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
