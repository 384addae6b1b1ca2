package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"itemfinder/internal/catalog"
	"itemfinder/internal/config"
	"itemfinder/internal/parser"
)

type Source interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// New builds the file-backed source cfg names. Database sources are opened
// through the store package instead.
func New(cfg *config.ProjectConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Source.Kind {
	case config.SourceRecords:
		var normalizer *parser.Normalizer
		if cfg.Locations.Normalize {
			normalizer = parser.NewNormalizer(cfg.Locations.Aliases)
		}
		return &Records{
			Fetcher:     fetcherFor(cfg.Source.Dir, cfg.Source.BaseURL),
			Layout:      cfg.Layout(),
			Concurrency: cfg.Source.Concurrency,
			Timeout:     cfg.Source.Timeout,
			Normalizer:  normalizer,
			Logger:      logger,
		}, nil
	case config.SourceConsolidated:
		if strings.TrimSpace(cfg.Source.BaseURL) != "" {
			return &Consolidated{Fetcher: fetcherFor("", cfg.Source.BaseURL), Name: cfg.Source.File}, nil
		}
		dir, name := filepath.Split(cfg.Source.File)
		return &Consolidated{Fetcher: Dir{Root: dir}, Name: name}, nil
	default:
		return nil, fmt.Errorf("source kind %s is not file backed", cfg.Source.Kind)
	}
}

func fetcherFor(dir, baseURL string) Fetcher {
	if strings.TrimSpace(baseURL) != "" {
		return HTTP{BaseURL: baseURL, Client: http.DefaultClient}
	}
	return Dir{Root: dir}
}
