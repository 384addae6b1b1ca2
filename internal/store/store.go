package store

import (
	"context"

	"itemfinder/internal/catalog"
)

// Store persists one catalog at a time. ReplaceCatalog swaps the whole
// catalog atomically; CatalogDigest returns "" when nothing is indexed.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	CatalogDigest(ctx context.Context) (string, error)
	ReplaceCatalog(ctx context.Context, cat *catalog.Catalog, digest string) error
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}
