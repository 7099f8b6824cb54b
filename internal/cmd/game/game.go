// Package game parses game command flags and starts the match server.
package game

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/beacquired/internal/game/storage/sqlite"
	entrypoint "github.com/louisbranch/beacquired/internal/platform/cmd"
	"github.com/louisbranch/beacquired/internal/server"
)

// Config holds game command configuration.
type Config struct {
	Port   int    `env:"BEACQUIRED_PORT" envDefault:"8080"`
	Addr   string `env:"BEACQUIRED_ADDR"`
	DBPath string `env:"BEACQUIRED_DB_PATH" envDefault:"beacquired.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite match database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the match API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return server.New(store).Run(ctx, addr)
	})
}
