// Package server exposes matches over an HTTP JSON API with a
// websocket event stream for spectators.
//
// Live match state is held in memory; the store keeps the durable
// trail (match records, the placement journal, scores). Storage
// failures after a resolved play are logged rather than surfaced so a
// flaky disk never rolls back a legal placement.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/beacquired/internal/game/match"
	"github.com/louisbranch/beacquired/internal/game/storage"
)

const shutdownTimeout = 5 * time.Second

// Server serves match state over HTTP and websocket.
type Server struct {
	store  storage.MatchStore
	tracer trace.Tracer

	now         func() time.Time
	idGenerator func() (string, error)

	upgrader websocket.Upgrader

	mu       sync.Mutex
	matches  map[string]*match.Match
	watchers map[string][]*websocket.Conn
}

// New returns a server backed by the given store.
func New(store storage.MatchStore) *Server {
	return &Server{
		store:    store,
		tracer:   otel.Tracer("beacquired/server"),
		now:      time.Now,
		matches:  make(map[string]*match.Match),
		watchers: make(map[string][]*websocket.Conn),
	}
}

// Handler returns the HTTP routes for the match API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/matches", s.handleCreateMatch)
	mux.HandleFunc("GET /api/matches", s.handleListMatches)
	mux.HandleFunc("GET /api/matches/{id}", s.handleGetMatch)
	mux.HandleFunc("POST /api/matches/{id}/play", s.handlePlayTile)
	mux.HandleFunc("GET /api/matches/{id}/watch", s.handleWatch)
	return mux
}

// Run serves the match API on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()
	log.Printf("game server listening on %s", listener.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeWatchers()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) closeWatchers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for matchID, conns := range s.watchers {
		for _, conn := range conns {
			_ = conn.Close()
		}
		delete(s.watchers, matchID)
	}
}
