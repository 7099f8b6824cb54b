package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/beacquired/internal/game/storage"
)

// memStore is an in-memory MatchStore for handler tests.
type memStore struct {
	mu         sync.Mutex
	matches    map[string]storage.MatchRecord
	placements []storage.PlacementRecord
	scores     map[string]storage.ScoreRecord
}

func newMemStore() *memStore {
	return &memStore{
		matches: make(map[string]storage.MatchRecord),
		scores:  make(map[string]storage.ScoreRecord),
	}
}

func (s *memStore) CreateMatch(_ context.Context, record storage.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[record.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.matches[record.ID] = record
	return nil
}

func (s *memStore) GetMatch(_ context.Context, matchID string) (storage.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[matchID]
	if !ok {
		return storage.MatchRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (s *memStore) ListMatches(_ context.Context) ([]storage.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]storage.MatchRecord, 0, len(s.matches))
	for _, record := range s.matches {
		records = append(records, record)
	}
	return records, nil
}

func (s *memStore) UpdateMatchStatus(_ context.Context, matchID, status string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[matchID]
	if !ok {
		return storage.ErrNotFound
	}
	record.Status = status
	record.UpdatedAt = updatedAt
	s.matches[matchID] = record
	return nil
}

func (s *memStore) AppendPlacement(_ context.Context, record storage.PlacementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placements = append(s.placements, record)
	return nil
}

func (s *memStore) ListPlacements(_ context.Context, matchID string) ([]storage.PlacementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []storage.PlacementRecord
	for _, record := range s.placements {
		if record.MatchID == matchID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *memStore) UpsertScore(_ context.Context, record storage.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[record.MatchID+"/"+record.PlayerID] = record
	return nil
}

func (s *memStore) ListScores(_ context.Context, matchID string) ([]storage.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []storage.ScoreRecord
	for _, record := range s.scores {
		if record.MatchID == matchID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) placementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.placements)
}

func newTestServer(t *testing.T) (*Server, *memStore, *httptest.Server) {
	t.Helper()
	store := newMemStore()
	server := New(store)
	server.now = func() time.Time {
		return time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	}
	var next int
	server.idGenerator = func() (string, error) {
		next++
		return fmt.Sprintf("id-%02d", next), nil
	}
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return server, store, httpServer
}

func createTestMatch(t *testing.T, baseURL string, names []string, seed int64) MatchView {
	t.Helper()
	body, err := json.Marshal(createMatchRequest{PlayerNames: names, Seed: seed})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	response, err := http.Post(baseURL+"/api/matches", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", response.StatusCode, http.StatusCreated)
	}
	var view MatchView
	if err := json.NewDecoder(response.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func playTile(t *testing.T, baseURL, matchID, playerID, tile string) (*http.Response, playTileResponse) {
	t.Helper()
	body, err := json.Marshal(playTileRequest{PlayerID: playerID, Tile: tile})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	response, err := http.Post(baseURL+"/api/matches/"+matchID+"/play", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("play tile: %v", err)
	}
	var result playTileResponse
	if response.StatusCode == http.StatusOK {
		if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
			t.Fatalf("decode play response: %v", err)
		}
	}
	response.Body.Close()
	return response, result
}

func decodeError(t *testing.T, response *http.Response) errorResponse {
	t.Helper()
	defer response.Body.Close()
	var payload errorResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return payload
}

func TestCreateMatchReturnsFullView(t *testing.T) {
	_, store, httpServer := newTestServer(t)

	view := createTestMatch(t, httpServer.URL, []string{"Ada", "Grace"}, 7)
	if view.Status != "active" {
		t.Fatalf("status = %q, want active", view.Status)
	}
	if len(view.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(view.Players))
	}
	for _, p := range view.Players {
		if len(p.Hand) != 6 {
			t.Fatalf("player %s hand = %d, want 6", p.ID, len(p.Hand))
		}
	}
	if view.TilesLeft != 108-12 {
		t.Fatalf("tiles left = %d, want 96", view.TilesLeft)
	}
	if len(view.Cells) != 9 || len(view.Cells[0]) != 12 {
		t.Fatalf("board = %dx%d, want 9x12", len(view.Cells), len(view.Cells[0]))
	}
	if len(view.Companies) != 7 {
		t.Fatalf("companies = %d, want 7", len(view.Companies))
	}

	record, err := store.GetMatch(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("stored match: %v", err)
	}
	if record.PlayerCount != 2 || record.Seed != 7 {
		t.Fatalf("stored record = %+v", record)
	}
}

func TestCreateMatchRejectsPlayerCount(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	body := []byte(`{"player_names": ["Solo"]}`)
	response, err := http.Post(httpServer.URL+"/api/matches", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	payload := decodeError(t, response)
	if payload.Code != "MATCH_INVALID_PLAYER_COUNT" {
		t.Fatalf("code = %q", payload.Code)
	}
}

func TestCreateMatchRejectsMalformedBody(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	response, err := http.Post(httpServer.URL+"/api/matches", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	payload := decodeError(t, response)
	if payload.Code != "INVALID_ARGUMENT" {
		t.Fatalf("code = %q", payload.Code)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	response, err := http.Get(httpServer.URL + "/api/matches/missing")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusNotFound)
	}
	decodeError(t, response)
}

func TestPlayTileResolvesAndPersists(t *testing.T) {
	_, store, httpServer := newTestServer(t)

	view := createTestMatch(t, httpServer.URL, []string{"Ada", "Grace"}, 7)
	acting := view.Players[0]
	if view.CurrentPlayerID != acting.ID {
		t.Fatalf("current player = %q, want %q", view.CurrentPlayerID, acting.ID)
	}

	response, result := playTile(t, httpServer.URL, view.ID, acting.ID, acting.Hand[0])
	if response.StatusCode != http.StatusOK {
		t.Fatalf("play status = %d, want %d", response.StatusCode, http.StatusOK)
	}
	if result.Event.Kind != "starter" {
		t.Fatalf("first play kind = %q, want starter", result.Event.Kind)
	}
	if result.Event.Tile != acting.Hand[0] {
		t.Fatalf("event tile = %q, want %q", result.Event.Tile, acting.Hand[0])
	}
	if result.Match.CurrentPlayerID != view.Players[1].ID {
		t.Fatalf("turn did not advance: %q", result.Match.CurrentPlayerID)
	}

	placements, err := store.ListPlacements(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("list placements: %v", err)
	}
	if len(placements) != 1 || placements[0].Tile != acting.Hand[0] {
		t.Fatalf("placements = %+v", placements)
	}
	scores, err := store.ListScores(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("scores = %d, want 2", len(scores))
	}
}

func TestPlayTileOutOfTurn(t *testing.T) {
	_, store, httpServer := newTestServer(t)

	view := createTestMatch(t, httpServer.URL, []string{"Ada", "Grace"}, 7)
	waiting := view.Players[1]

	response, _ := playTile(t, httpServer.URL, view.ID, waiting.ID, waiting.Hand[0])
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusConflict)
	}
	if store.placementCount() != 0 {
		t.Fatal("rejected play must not reach storage")
	}

	// The match is untouched; the real current player can still act.
	acting := view.Players[0]
	response, _ = playTile(t, httpServer.URL, view.ID, acting.ID, acting.Hand[0])
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusOK)
	}
}

func TestPlayTileUnknownMatch(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	response, _ := playTile(t, httpServer.URL, "missing", "p1", "A1")
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusNotFound)
	}
}

func TestListMatchesSummaries(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	created := createTestMatch(t, httpServer.URL, []string{"Ada", "Grace"}, 7)

	response, err := http.Get(httpServer.URL + "/api/matches")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", response.StatusCode, http.StatusOK)
	}
	var summaries []matchSummary
	if err := json.NewDecoder(response.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != created.ID {
		t.Fatalf("summaries = %+v", summaries)
	}
	if summaries[0].PlayerCount != 2 {
		t.Fatalf("player count = %d, want 2", summaries[0].PlayerCount)
	}
}

func TestWatchStreamsSnapshotAndEvents(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	view := createTestMatch(t, httpServer.URL, []string{"Ada", "Grace"}, 7)

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/api/matches/" + view.ID + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial watch: %v", err)
	}
	defer conn.Close()

	var snapshot MatchView
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snapshot.ID != view.ID {
		t.Fatalf("snapshot id = %q, want %q", snapshot.ID, view.ID)
	}

	acting := view.Players[0]
	response, _ := playTile(t, httpServer.URL, view.ID, acting.ID, acting.Hand[0])
	if response.StatusCode != http.StatusOK {
		t.Fatalf("play status = %d", response.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event PlacementEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Type != "placement" || event.Tile != acting.Hand[0] {
		t.Fatalf("event = %+v", event)
	}
}

func TestWatchUnknownMatch(t *testing.T) {
	_, _, httpServer := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/api/matches/missing/watch"
	_, response, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial failure for unknown match")
	}
	if response == nil || response.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %+v", response)
	}
}
