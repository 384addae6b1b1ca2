package main

import (
	"context"
	"log/slog"

	"itemfinder/internal/catalog"
	"itemfinder/internal/config"
	"itemfinder/internal/source"
)

// loadCatalog reads the catalog from the configured source: the record
// dataset, a consolidated document, or an indexed database.
func loadCatalog(ctx context.Context, cfg *config.ProjectConfig, logger *slog.Logger) (*catalog.Catalog, error) {
	if cfg.Source.Kind == config.SourceDatabase {
		db, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		return db.LoadCatalog(ctx)
	}

	src, err := source.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return src.LoadCatalog(ctx)
}

func loadProject(ctx context.Context) (*config.ProjectConfig, *catalog.Catalog, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(ctx, cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return cfg, cat, nil
}
