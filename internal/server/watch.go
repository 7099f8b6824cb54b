package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/beacquired/internal/game/storage"
)

// handleWatch upgrades the connection and streams placement events for
// one match. The first frame is the current match view so a spectator
// joining mid-game sees the board immediately.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")

	s.mu.Lock()
	_, ok := s.matches[matchID]
	s.mu.Unlock()
	if !ok {
		writeError(w, storage.ErrNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch upgrade %s: %v", matchID, err)
		return
	}

	// All writes to watcher connections happen under mu, so the
	// snapshot cannot interleave with a broadcast.
	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	if err := conn.WriteJSON(newMatchView(m)); err != nil {
		s.mu.Unlock()
		log.Printf("watch snapshot %s: %v", matchID, err)
		_ = conn.Close()
		return
	}
	s.watchers[matchID] = append(s.watchers[matchID], conn)
	s.mu.Unlock()

	// Drain control frames; a read error means the spectator left.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropWatcher(matchID, conn)
				return
			}
		}
	}()
}

// broadcast pushes one event to every watcher of the match, dropping
// connections that fail to accept the write.
func (s *Server) broadcast(matchID string, event PlacementEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal event %s: %v", matchID, err)
		return
	}

	s.mu.Lock()
	conns := s.watchers[matchID]
	var stale []*websocket.Conn
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			stale = append(stale, conn)
		}
	}
	s.mu.Unlock()

	for _, conn := range stale {
		s.dropWatcher(matchID, conn)
	}
}

func (s *Server) dropWatcher(matchID string, conn *websocket.Conn) {
	_ = conn.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	conns := s.watchers[matchID]
	for i, c := range conns {
		if c == conn {
			s.watchers[matchID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.watchers[matchID]) == 0 {
		delete(s.watchers, matchID)
	}
}
