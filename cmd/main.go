package main

import (
	"context"
	"os"

	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/repositories"
	"github.com/tapelist/tlx/internal/session"
	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open local database: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		logger.Warn("failed to run migrations, run 'tlx setup database'", "error", err)
	}

	sessions := repositories.NewSessionRepository(db)
	history := repositories.NewHistoryRepository(db)
	cache := repositories.NewPlaylistCacheRepository(db)

	// The store is the client's token source, so it is built first and
	// the client bound to it afterwards.
	store := session.NewStore(sessions, logger)
	client := api.NewClient(config.API.BaseURL, nil, store, logger)
	store.Bind(client)
	if err := store.Hydrate(); err != nil {
		logger.Debug("no stored session", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		DB:         db,
		Client:     client,
		Store:      store,
		History:    history,
		Cache:      cache,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tlx",
		Usage:    "Browse, curate, and share tapelist playlists from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
