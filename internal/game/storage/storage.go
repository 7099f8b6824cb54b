// Package storage defines the persistence interfaces for match records.
//
// Match state itself lives in memory while a game is played; storage
// keeps the durable trail: which matches exist, every resolved
// placement, and the running scores.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/beacquired/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates an insert collided with an existing record.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// MatchRecord captures match metadata that list/detail views read.
type MatchRecord struct {
	ID          string
	PlayerCount int
	Status      string
	Seed        int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlacementRecord captures one resolved placement for the match journal.
type PlacementRecord struct {
	MatchID  string
	Play     int
	PlayerID string
	Tile     string
	Kind     string
	Company  string
	Points   int
	CreatedAt time.Time
}

// ScoreRecord captures one player's running score within a match.
type ScoreRecord struct {
	MatchID    string
	PlayerID   string
	PlayerName string
	Score      int
	UpdatedAt  time.Time
}

// MatchStore owns the durable match journal.
type MatchStore interface {
	// CreateMatch inserts one match record.
	CreateMatch(ctx context.Context, record MatchRecord) error

	// GetMatch returns one match by ID, or ErrNotFound.
	GetMatch(ctx context.Context, matchID string) (MatchRecord, error)

	// ListMatches returns all matches, newest first.
	ListMatches(ctx context.Context) ([]MatchRecord, error)

	// UpdateMatchStatus transitions a match's lifecycle status.
	UpdateMatchStatus(ctx context.Context, matchID, status string, updatedAt time.Time) error

	// AppendPlacement records one resolved placement.
	AppendPlacement(ctx context.Context, record PlacementRecord) error

	// ListPlacements returns a match's placements in play order.
	ListPlacements(ctx context.Context, matchID string) ([]PlacementRecord, error)

	// UpsertScore inserts or updates one player's score row.
	UpsertScore(ctx context.Context, record ScoreRecord) error

	// ListScores returns a match's scores in descending score order.
	ListScores(ctx context.Context, matchID string) ([]ScoreRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
