package main

import (
	"context"
	"fmt"

	"itemfinder/internal/config"
	"itemfinder/internal/store"
	"itemfinder/internal/store/postgres"
	"itemfinder/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is not configured")
	}
	driver, err := config.DatabaseDriver(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	switch driver {
	case "postgres":
		return postgres.New(ctx, cfg.Database.DSN)
	default:
		return sqlite.New(ctx, cfg.Database.DSN)
	}
}
