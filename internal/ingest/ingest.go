package ingest

import (
	"context"
	"fmt"

	"itemfinder/internal/catalog"
)

// Store is the part of store.Store indexing needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	CatalogDigest(ctx context.Context) (string, error)
	ReplaceCatalog(ctx context.Context, cat *catalog.Catalog, digest string) error
}

type Source interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

type Options struct {
	Full bool
}

type Result struct {
	Digest     string
	Skipped    bool
	Templates  int
	Placements int
	Warnings   []catalog.Warning
}

// Run loads the catalog from src and writes it to db unless db already
// holds a catalog with the same digest. Full forces the write.
func Run(ctx context.Context, src Source, db Store, options Options) (*Result, error) {
	cat, err := src.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return Index(ctx, cat, db, options)
}

func Index(ctx context.Context, cat *catalog.Catalog, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	result := &Result{
		Digest:     cat.Digest(),
		Templates:  cat.Len(),
		Placements: cat.PlacementCount(),
		Warnings:   cat.Warnings(),
	}

	if !options.Full {
		existing, err := db.CatalogDigest(ctx)
		if err != nil {
			return nil, fmt.Errorf("read catalog digest: %w", err)
		}
		if existing == result.Digest {
			result.Skipped = true
			return result, nil
		}
	}

	if err := db.ReplaceCatalog(ctx, cat, result.Digest); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}
	return result, nil
}
