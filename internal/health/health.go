// internal/health/health.go
// Package health serves the liveness endpoint for container probes.
package health

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(addr string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: newRouter(),
		},
	}
}

func newRouter() http.Handler {
	r := chi.NewRouter()

	// Health check (no auth, no state)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	return r
}

// Start blocks serving probe requests until Stop is called.
func (s *Server) Start() error {
	log.Printf("Starting health listener on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	return s.httpServer.Shutdown(context.Background())
}
