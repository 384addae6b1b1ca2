package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// Executed as one implicit transaction; IF NOT EXISTS keeps reruns safe.
	ddl := `
CREATE TABLE IF NOT EXISTS templates (
    name TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('item', 'container', 'npc'))
);

CREATE TABLE IF NOT EXISTS template_items (
    template TEXT NOT NULL REFERENCES templates(name) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    item     TEXT NOT NULL,
    count    INTEGER NOT NULL,
    PRIMARY KEY (template, position)
);

CREATE TABLE IF NOT EXISTS placements (
    template  TEXT NOT NULL,
    location  TEXT NOT NULL,
    instances INTEGER NOT NULL,
    PRIMARY KEY (template, location)
);

CREATE TABLE IF NOT EXISTS location_regions (
    location TEXT PRIMARY KEY,
    region   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_warnings (
    position INTEGER PRIMARY KEY,
    kind     TEXT NOT NULL,
    subject  TEXT NOT NULL,
    message  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS catalog_meta (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_template_items_item ON template_items (lower(item));
CREATE INDEX IF NOT EXISTS idx_placements_location ON placements (location);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
