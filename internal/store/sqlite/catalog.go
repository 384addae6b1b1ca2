package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itemfinder/internal/catalog"
	"itemfinder/internal/store"
)

func (c *Client) CatalogDigest(ctx context.Context) (string, error) {
	var digest string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = ?`, store.MetaDigest).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading catalog digest: %w", err)
	}
	return digest, nil
}

func (c *Client) ReplaceCatalog(ctx context.Context, cat *catalog.Catalog, digest string) error {
	snap := store.NewSnapshot(cat)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"template_items", "templates", "placements", "location_regions", "catalog_warnings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	inserts := []struct {
		table string
		query string
		n     int
		args  func(i int) []any
	}{
		{"templates", `INSERT INTO templates (name, kind) VALUES (?, ?)`, len(snap.Templates), func(i int) []any {
			r := snap.Templates[i]
			return []any{r.Name, r.Kind}
		}},
		{"template_items", `INSERT INTO template_items (template, position, item, count) VALUES (?, ?, ?, ?)`, len(snap.Items), func(i int) []any {
			r := snap.Items[i]
			return []any{r.Template, r.Position, r.Item, r.Count}
		}},
		{"placements", `INSERT INTO placements (template, location, instances) VALUES (?, ?, ?)`, len(snap.Placements), func(i int) []any {
			r := snap.Placements[i]
			return []any{r.Template, r.Location, r.Instances}
		}},
		{"location_regions", `INSERT INTO location_regions (location, region) VALUES (?, ?)`, len(snap.Regions), func(i int) []any {
			r := snap.Regions[i]
			return []any{r.Location, r.Region}
		}},
		{"catalog_warnings", `INSERT INTO catalog_warnings (position, kind, subject, message) VALUES (?, ?, ?, ?)`, len(snap.Warnings), func(i int) []any {
			r := snap.Warnings[i]
			return []any{r.Position, r.Kind, r.Subject, r.Message}
		}},
	}
	for _, ins := range inserts {
		if err := insertAll(ctx, tx, ins.query, ins.n, ins.args); err != nil {
			return fmt.Errorf("inserting %s: %w", ins.table, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO catalog_meta (key, value, updated_at) VALUES (?, ?, datetime('now'))
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, store.MetaDigest, digest)
	if err != nil {
		return fmt.Errorf("recording catalog digest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
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

	err = queryRows(ctx, c.db, `SELECT name, kind FROM templates ORDER BY name`, func(rows *sql.Rows) error {
		var r store.TemplateRow
		if err := rows.Scan(&r.Name, &r.Kind); err != nil {
			return err
		}
		snap.Templates = append(snap.Templates, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	err = queryRows(ctx, c.db, `SELECT template, position, item, count FROM template_items ORDER BY template, position`, func(rows *sql.Rows) error {
		var r store.ItemRow
		if err := rows.Scan(&r.Template, &r.Position, &r.Item, &r.Count); err != nil {
			return err
		}
		snap.Items = append(snap.Items, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading template items: %w", err)
	}

	err = queryRows(ctx, c.db, `SELECT template, location, instances FROM placements`, func(rows *sql.Rows) error {
		var r store.PlacementRow
		if err := rows.Scan(&r.Template, &r.Location, &r.Instances); err != nil {
			return err
		}
		snap.Placements = append(snap.Placements, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading placements: %w", err)
	}

	err = queryRows(ctx, c.db, `SELECT location, region FROM location_regions ORDER BY location`, func(rows *sql.Rows) error {
		var r store.RegionRow
		if err := rows.Scan(&r.Location, &r.Region); err != nil {
			return err
		}
		snap.Regions = append(snap.Regions, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading location regions: %w", err)
	}

	err = queryRows(ctx, c.db, `SELECT position, kind, subject, message FROM catalog_warnings ORDER BY position`, func(rows *sql.Rows) error {
		var r store.WarningRow
		if err := rows.Scan(&r.Position, &r.Kind, &r.Subject, &r.Message); err != nil {
			return err
		}
		snap.Warnings = append(snap.Warnings, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog warnings: %w", err)
	}

	return snap.Catalog()
}

func queryRows(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
