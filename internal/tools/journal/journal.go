// Package journal inspects the durable match journal from the command line.
package journal

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/louisbranch/beacquired/internal/game/storage"
	"github.com/louisbranch/beacquired/internal/game/storage/sqlite"
)

// Config holds journal command configuration.
type Config struct {
	DBPath     string `env:"BEACQUIRED_DB_PATH" envDefault:"beacquired.db"`
	MatchID    string
	JSONOutput bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite match database")
	fs.StringVar(&cfg.MatchID, "match", "", "Match ID to dump (empty lists all matches)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "Output JSON instead of a table")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run lists matches, or dumps one match's placements and scores.
func Run(ctx context.Context, cfg Config, stdout io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.MatchID == "" {
		return listMatches(ctx, store, cfg, stdout)
	}
	return dumpMatch(ctx, store, cfg, stdout)
}

func listMatches(ctx context.Context, store storage.MatchStore, cfg Config, stdout io.Writer) error {
	records, err := store.ListMatches(ctx)
	if err != nil {
		return err
	}
	if cfg.JSONOutput {
		return writeJSON(stdout, records)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLAYERS\tSTATUS\tCREATED")
	for _, record := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			record.ID,
			record.PlayerCount,
			record.Status,
			record.CreatedAt.Format(time.RFC3339),
		)
	}
	return tw.Flush()
}

func dumpMatch(ctx context.Context, store storage.MatchStore, cfg Config, stdout io.Writer) error {
	record, err := store.GetMatch(ctx, cfg.MatchID)
	if err != nil {
		return fmt.Errorf("get match %s: %w", cfg.MatchID, err)
	}
	placements, err := store.ListPlacements(ctx, cfg.MatchID)
	if err != nil {
		return fmt.Errorf("list placements: %w", err)
	}
	scores, err := store.ListScores(ctx, cfg.MatchID)
	if err != nil {
		return fmt.Errorf("list scores: %w", err)
	}

	if cfg.JSONOutput {
		return writeJSON(stdout, struct {
			Match      storage.MatchRecord       `json:"match"`
			Placements []storage.PlacementRecord `json:"placements"`
			Scores     []storage.ScoreRecord     `json:"scores"`
		}{record, placements, scores})
	}

	fmt.Fprintf(stdout, "match %s (%s, %d players, seed %d)\n\n",
		record.ID, record.Status, record.PlayerCount, record.Seed)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAY\tPLAYER\tTILE\tKIND\tCOMPANY\tPOINTS")
	for _, placement := range placements {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			placement.Play,
			placement.PlayerID,
			placement.Tile,
			placement.Kind,
			placement.Company,
			placement.Points,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	tw = tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tNAME\tSCORE")
	for _, score := range scores {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", score.PlayerID, score.PlayerName, score.Score)
	}
	return tw.Flush()
}

func writeJSON(stdout io.Writer, payload any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
