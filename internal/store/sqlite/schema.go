package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
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
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	-- item lookups are case-insensitive
	CREATE INDEX IF NOT EXISTS idx_template_items_item ON template_items (item COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_placements_location ON placements (location);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements breaks a DDL script on statement-ending semicolons and
// drops comment lines.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
