package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"itemfinder/internal/catalog"
	"itemfinder/internal/store"
)

func (c *Client) CatalogDigest(ctx context.Context) (string, error) {
	var digest string
	err := c.pool.QueryRow(ctx, `SELECT value FROM catalog_meta WHERE key = $1`, store.MetaDigest).Scan(&digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading catalog digest: %w", err)
	}
	return digest, nil
}

func (c *Client) ReplaceCatalog(ctx context.Context, cat *catalog.Catalog, digest string) error {
	snap := store.NewSnapshot(cat)

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE template_items, templates, placements, location_regions, catalog_warnings`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		n       int
		row     func(i int) []any
	}{
		{"templates", []string{"name", "kind"}, len(snap.Templates), func(i int) []any {
			r := snap.Templates[i]
			return []any{r.Name, r.Kind}
		}},
		{"template_items", []string{"template", "position", "item", "count"}, len(snap.Items), func(i int) []any {
			r := snap.Items[i]
			return []any{r.Template, r.Position, r.Item, r.Count}
		}},
		{"placements", []string{"template", "location", "instances"}, len(snap.Placements), func(i int) []any {
			r := snap.Placements[i]
			return []any{r.Template, r.Location, r.Instances}
		}},
		{"location_regions", []string{"location", "region"}, len(snap.Regions), func(i int) []any {
			r := snap.Regions[i]
			return []any{r.Location, r.Region}
		}},
		{"catalog_warnings", []string{"position", "kind", "subject", "message"}, len(snap.Warnings), func(i int) []any {
			r := snap.Warnings[i]
			return []any{r.Position, r.Kind, r.Subject, r.Message}
		}},
	}
	for _, cp := range copies {
		if cp.n == 0 {
			continue
		}
		src := pgx.CopyFromSlice(cp.n, func(i int) ([]any, error) { return cp.row(i), nil })
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{cp.table}, cp.columns, src); err != nil {
			return fmt.Errorf("copying %s: %w", cp.table, err)
		}
	}

	_, err = tx.Exec(ctx, `
INSERT INTO catalog_meta (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`, store.MetaDigest, digest)
	if err != nil {
		return fmt.Errorf("recording catalog digest: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

func (c *Client) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	digest, err := c.CatalogDigest(ctx)
	if err != nil {
		return nil, err
	}
	if digest == "" {
		return nil, store.ErrNotIndexed
	}

	var snap store.Snapshot

	rows, err := c.pool.Query(ctx, `SELECT name, kind FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	snap.Templates, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.TemplateRow, error) {
		var r store.TemplateRow
		err := row.Scan(&r.Name, &r.Kind)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	rows, err = c.pool.Query(ctx, `SELECT template, position, item, count FROM template_items ORDER BY template, position`)
	if err != nil {
		return nil, fmt.Errorf("loading template items: %w", err)
	}
	snap.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.ItemRow, error) {
		var r store.ItemRow
		err := row.Scan(&r.Template, &r.Position, &r.Item, &r.Count)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading template items: %w", err)
	}

	rows, err = c.pool.Query(ctx, `SELECT template, location, instances FROM placements`)
	if err != nil {
		return nil, fmt.Errorf("loading placements: %w", err)
	}
	snap.Placements, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.PlacementRow, error) {
		var r store.PlacementRow
		err := row.Scan(&r.Template, &r.Location, &r.Instances)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading placements: %w", err)
	}

	rows, err = c.pool.Query(ctx, `SELECT location, region FROM location_regions ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("loading location regions: %w", err)
	}
	snap.Regions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.RegionRow, error) {
		var r store.RegionRow
		err := row.Scan(&r.Location, &r.Region)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading location regions: %w", err)
	}

	rows, err = c.pool.Query(ctx, `SELECT position, kind, subject, message FROM catalog_warnings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("loading catalog warnings: %w", err)
	}
	snap.Warnings, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.WarningRow, error) {
		var r store.WarningRow
		err := row.Scan(&r.Position, &r.Kind, &r.Subject, &r.Message)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog warnings: %w", err)
	}

	return snap.Catalog()
}
