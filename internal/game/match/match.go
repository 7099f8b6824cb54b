// Package match drives one game to completion: it owns the board, the
// company registry, the player ledger, the tile deck, and the turn
// order, and funnels every play through the placement engine.
//
// A match is an explicit state value with no ambient singletons. It is
// not safe for concurrent mutation; callers serialize plays (the HTTP
// server holds one lock across all matches).
package match

import (
	"fmt"
	"time"

	"github.com/louisbranch/beacquired/internal/game/board"
	"github.com/louisbranch/beacquired/internal/game/company"
	"github.com/louisbranch/beacquired/internal/game/engine"
	"github.com/louisbranch/beacquired/internal/game/player"
	"github.com/louisbranch/beacquired/internal/platform/id"
	apperrors "github.com/louisbranch/beacquired/internal/platform/errors"
)

// Player count and hand size limits for one match.
const (
	MinPlayers = 2
	MaxPlayers = 6
	HandSize   = 6
)

var (
	// ErrInvalidPlayerCount indicates a create request outside the
	// supported player range.
	ErrInvalidPlayerCount = apperrors.New(apperrors.CodeMatchInvalidPlayerCount, "matches need between 2 and 6 players")

	// ErrFinished indicates a play against a finished match.
	ErrFinished = apperrors.New(apperrors.CodeMatchFinished, "match is finished")

	// ErrNotPlayersTurn indicates a play out of turn order.
	ErrNotPlayersTurn = apperrors.New(apperrors.CodeMatchNotPlayersTurn, "it is not this player's turn")

	// ErrTileNotInHand indicates the acting player does not hold the tile.
	ErrTileNotInHand = apperrors.New(apperrors.CodeMatchTileNotInHand, "tile is not in the player's hand")

	// ErrUnknownPlayer indicates a play by a player not in the match.
	ErrUnknownPlayer = apperrors.New(apperrors.CodeMatchUnknownPlayer, "player is not part of this match")
)

// Status is the match lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Match is the full state of one game.
type Match struct {
	ID        string
	Board     *board.Board
	Companies *company.Registry
	Players   *player.Ledger
	Status    Status
	Seed      int64
	CreatedAt time.Time
	UpdatedAt time.Time

	deck  []string
	turn  int
	plays int
}

// CreateInput describes a new match.
type CreateInput struct {
	// PlayerNames lists display names in turn order.
	PlayerNames []string

	// Seed fixes the deck shuffle. Zero means "derive from the clock".
	Seed int64
}

// New creates a match, shuffles the deck, and deals every player a hand.
func New(input CreateInput, now func() time.Time, idGenerator func() (string, error)) (*Match, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if len(input.PlayerNames) < MinPlayers || len(input.PlayerNames) > MaxPlayers {
		return nil, ErrInvalidPlayerCount
	}

	matchID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate match id: %w", err)
	}

	players := make([]*player.Player, 0, len(input.PlayerNames))
	for _, name := range input.PlayerNames {
		playerID, err := idGenerator()
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		players = append(players, player.New(playerID, name))
	}

	seed := input.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}

	createdAt := now().UTC()
	m := &Match{
		ID:        matchID,
		Board:     board.New(),
		Companies: company.NewRegistry(),
		Players:   player.NewLedger(players...),
		Status:    StatusActive,
		Seed:      seed,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		deck:      NewDeck(seed),
	}

	for _, p := range players {
		for i := 0; i < HandSize; i++ {
			label, ok := m.draw()
			if !ok {
				break
			}
			p.AddTile(label)
		}
	}
	return m, nil
}

// CurrentPlayer returns the player whose turn it is.
func (m *Match) CurrentPlayer() *player.Player {
	return m.Players.At(m.turn)
}

// Plays returns the number of completed plays.
func (m *Match) Plays() int {
	return m.plays
}

// TilesLeft returns the number of undealt tiles.
func (m *Match) TilesLeft() int {
	return len(m.deck)
}

// PlayTile plays one tile from the acting player's hand.
//
// On success the tile leaves the hand, a replacement is drawn while the
// deck lasts, and the turn advances. A rejected placement (occupied
// cell, company cap) leaves the hand, the board, and the turn untouched
// so the player can choose another tile.
func (m *Match) PlayTile(playerID, label string, now func() time.Time) (engine.Outcome, error) {
	if now == nil {
		now = time.Now
	}
	if m.Status == StatusFinished {
		return engine.Outcome{}, ErrFinished
	}

	acting, ok := m.Players.Player(playerID)
	if !ok {
		return engine.Outcome{}, ErrUnknownPlayer
	}
	if acting != m.CurrentPlayer() {
		return engine.Outcome{}, ErrNotPlayersTurn
	}
	if !acting.HoldsTile(label) {
		return engine.Outcome{}, ErrTileNotInHand
	}

	coord, err := board.ParseLabel(label)
	if err != nil {
		return engine.Outcome{}, err
	}

	outcome, err := engine.ResolvePlacement(m.Board, m.Companies, m.Players, coord, playerID)
	if err != nil {
		return engine.Outcome{}, err
	}

	acting.RemoveTile(label)
	if replacement, ok := m.draw(); ok {
		acting.AddTile(replacement)
	}
	if acting.HandSize() == 0 {
		m.Status = StatusFinished
	}

	m.plays++
	m.turn = (m.turn + 1) % m.Players.Len()
	m.UpdatedAt = now().UTC()
	return outcome, nil
}

func (m *Match) draw() (string, bool) {
	if len(m.deck) == 0 {
		return "", false
	}
	label := m.deck[0]
	m.deck = m.deck[1:]
	return label, true
}
