package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/beacquired/internal/game/match"
	"github.com/louisbranch/beacquired/internal/game/storage"
	apperrors "github.com/louisbranch/beacquired/internal/platform/errors"
)

type createMatchRequest struct {
	PlayerNames []string `json:"player_names"`
	Seed        int64    `json:"seed,omitempty"`
}

type playTileRequest struct {
	PlayerID string `json:"player_id"`
	Tile     string `json:"tile"`
}

type playTileResponse struct {
	Event PlacementEvent `json:"event"`
	Match MatchView      `json:"match"`
}

type matchSummary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"player_count"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var request createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	m, err := match.New(match.CreateInput{
		PlayerNames: request.PlayerNames,
		Seed:        request.Seed,
	}, s.now, s.idGenerator)
	if err != nil {
		writeError(w, err)
		return
	}

	record := storage.MatchRecord{
		ID:          m.ID,
		PlayerCount: m.Players.Len(),
		Status:      string(m.Status),
		Seed:        m.Seed,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if err := s.store.CreateMatch(r.Context(), record); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.matches[m.ID] = m
	view := newMatchView(m)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListMatches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]matchSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, matchSummary{
			ID:          record.ID,
			PlayerCount: record.PlayerCount,
			Status:      record.Status,
			CreatedAt:   record.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")

	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		writeError(w, storage.ErrNotFound)
		return
	}
	view := newMatchView(m)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePlayTile(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "server.PlayTile")
	defer span.End()

	matchID := r.PathValue("id")
	span.SetAttributes(attribute.String("match.id", matchID))

	var request playTileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		writeError(w, storage.ErrNotFound)
		return
	}

	outcome, err := m.PlayTile(request.PlayerID, request.Tile, s.now)
	if err != nil {
		s.mu.Unlock()
		writeError(w, err)
		return
	}

	play := m.Plays() - 1
	event := newPlacementEvent(m, outcome, play)
	view := newMatchView(m)
	scores := make([]storage.ScoreRecord, 0, m.Players.Len())
	for _, p := range m.Players.Players() {
		scores = append(scores, storage.ScoreRecord{
			MatchID:    m.ID,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      p.Score,
			UpdatedAt:  m.UpdatedAt,
		})
	}
	status := m.Status
	updatedAt := m.UpdatedAt
	s.mu.Unlock()

	points := 0
	for _, payout := range event.Payouts {
		points += payout.Points
	}
	placement := storage.PlacementRecord{
		MatchID:   matchID,
		Play:      play,
		PlayerID:  event.PlayerID,
		Tile:      event.Tile,
		Kind:      event.Kind,
		Company:   event.Company,
		Points:    points,
		CreatedAt: updatedAt,
	}
	if err := s.store.AppendPlacement(ctx, placement); err != nil {
		log.Printf("append placement %s/%d: %v", matchID, play, err)
	}
	for _, record := range scores {
		if err := s.store.UpsertScore(ctx, record); err != nil {
			log.Printf("upsert score %s/%s: %v", matchID, record.PlayerID, err)
		}
	}
	if status == match.StatusFinished {
		if err := s.store.UpdateMatchStatus(ctx, matchID, string(status), updatedAt); err != nil {
			log.Printf("update match status %s: %v", matchID, err)
		}
	}

	s.broadcast(matchID, event)
	writeJSON(w, http.StatusOK, playTileResponse{Event: event, Match: view})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{
		Code:    string(code),
		Message: err.Error(),
	})
}
