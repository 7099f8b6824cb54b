// Package sqlite provides a SQLite-backed match storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/beacquired/internal/game/storage"
	"github.com/louisbranch/beacquired/internal/game/storage/sqlite/migrations"
	"github.com/louisbranch/beacquired/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists match records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite match store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateMatch inserts one match record.
func (s *Store) CreateMatch(ctx context.Context, record storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID := strings.TrimSpace(record.ID)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	if record.PlayerCount <= 0 {
		return fmt.Errorf("player count must be greater than zero")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (id, player_count, status, seed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		matchID,
		record.PlayerCount,
		record.Status,
		record.Seed,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// GetMatch returns one match by ID.
func (s *Store) GetMatch(ctx context.Context, matchID string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, player_count, status, seed, created_at, updated_at
		   FROM matches WHERE id = ?`,
		strings.TrimSpace(matchID),
	)
	return scanMatch(row)
}

// ListMatches returns all matches, newest first.
func (s *Store) ListMatches(ctx context.Context) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, player_count, status, seed, created_at, updated_at
		   FROM matches ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var records []storage.MatchRecord
	for rows.Next() {
		record, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return records, nil
}

// UpdateMatchStatus transitions a match's lifecycle status.
func (s *Store) UpdateMatchStatus(ctx context.Context, matchID, status string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE matches SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		toMillis(updatedAt),
		strings.TrimSpace(matchID),
	)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendPlacement records one resolved placement.
func (s *Store) AppendPlacement(ctx context.Context, record storage.PlacementRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID := strings.TrimSpace(record.MatchID)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	if record.Tile == "" {
		return fmt.Errorf("tile is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO placements (match_id, play, player_id, tile, kind, company, points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		matchID,
		record.Play,
		record.PlayerID,
		record.Tile,
		record.Kind,
		record.Company,
		record.Points,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append placement: %w", err)
	}
	return nil
}

// ListPlacements returns a match's placements in play order.
func (s *Store) ListPlacements(ctx context.Context, matchID string) ([]storage.PlacementRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT match_id, play, player_id, tile, kind, company, points, created_at
		   FROM placements WHERE match_id = ? ORDER BY play`,
		strings.TrimSpace(matchID),
	)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	defer rows.Close()

	var records []storage.PlacementRecord
	for rows.Next() {
		var record storage.PlacementRecord
		var createdAt int64
		if err := rows.Scan(
			&record.MatchID,
			&record.Play,
			&record.PlayerID,
			&record.Tile,
			&record.Kind,
			&record.Company,
			&record.Points,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	return records, nil
}

// UpsertScore inserts or updates one player's score row.
func (s *Store) UpsertScore(ctx context.Context, record storage.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID := strings.TrimSpace(record.MatchID)
	playerID := strings.TrimSpace(record.PlayerID)
	if matchID == "" || playerID == "" {
		return fmt.Errorf("match id and player id are required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO scores (match_id, player_id, player_name, score, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (match_id, player_id)
		 DO UPDATE SET player_name = excluded.player_name,
		               score = excluded.score,
		               updated_at = excluded.updated_at`,
		matchID,
		playerID,
		record.PlayerName,
		record.Score,
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// ListScores returns a match's scores in descending score order.
func (s *Store) ListScores(ctx context.Context, matchID string) ([]storage.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT match_id, player_id, player_name, score, updated_at
		   FROM scores WHERE match_id = ? ORDER BY score DESC, player_id`,
		strings.TrimSpace(matchID),
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var records []storage.ScoreRecord
	for rows.Next() {
		var record storage.ScoreRecord
		var updatedAt int64
		if err := rows.Scan(
			&record.MatchID,
			&record.PlayerID,
			&record.PlayerName,
			&record.Score,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (storage.MatchRecord, error) {
	var record storage.MatchRecord
	var createdAt, updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.PlayerCount,
		&record.Status,
		&record.Seed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MatchRecord{}, storage.ErrNotFound
		}
		return storage.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
