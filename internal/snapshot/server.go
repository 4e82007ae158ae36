package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server exposes the snapshot document over plain HTTP, open to any
// caller: the dashboard polls it cross origin, so every response carries
// permissive CORS headers. There is no caching layer; every GET triggers
// a fresh build
type Server struct {
	builder *Builder
	server  *http.Server
}

func NewServer(builder *Builder, port int) *Server {
	server := &Server{builder: builder}
	server.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Router(),
	}
	return server
}

func (server *Server) Router() http.Handler {

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware)

	router.Get("/api/snapshot", server.getSnapshot)
	router.Options("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

func (server *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {

	start := time.Now()
	snapshot := server.builder.Build()
	log.Debug().Msg(fmt.Sprintf("Snapshot of %d guilds built in %s", len(snapshot.Guilds), time.Since(start)))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not serialize snapshot: %s", err))
		http.Error(w, "could not serialize snapshot", http.StatusInternalServerError)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// Run serves until the listener fails or Shutdown is called
func (server *Server) Run() error {
	log.Info().Msg(fmt.Sprintf("Snapshot API listening on %s", server.server.Addr))
	if err := server.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (server *Server) Shutdown(ctx context.Context) error {
	return server.server.Shutdown(ctx)
}
