package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Source.Concurrency != 4 {
			t.Fatalf("expected concurrency 4, got %d", cfg.Source.Concurrency)
		}
		if cfg.Source.Timeout != 2*time.Second {
			t.Fatalf("expected 2s timeout, got %v", cfg.Source.Timeout)
		}
		if cfg.Locations.Aliases["13, -1"] != "Erabenimsun Camp" {
			t.Fatalf("expected alias, got %#v", cfg.Locations.Aliases)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  dir: ./data\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Source.Kind != SourceRecords {
			t.Fatalf("expected records source, got %q", cfg.Source.Kind)
		}
		if cfg.Source.Concurrency != defaultConcurrency || cfg.Source.Timeout != defaultTimeout {
			t.Fatalf("expected defaults, got %+v", cfg.Source)
		}
		if cfg.Layout() != DefaultLayout() {
			t.Fatalf("expected default layout, got %+v", cfg.Layout())
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsource:\n  dir: ./data\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 2\nsource:\n  dir: ./data\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("records source without location", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  kind: records\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown source kind", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  kind: ftp\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("database source needs dsn", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  kind: database\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported dsn scheme", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  kind: database\ndatabase:\n  dsn: mysql://localhost/db\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("negative concurrency", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  dir: ./data\n  concurrency: -2\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("records layout override", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  dir: ./data\nrecords:\n  cells:\n    dir: cells\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		layout := cfg.Layout()
		if layout.Cells.Dir != "cells" || layout.Cells.List != "list/cell.json" {
			t.Fatalf("unexpected cells layout: %+v", layout.Cells)
		}
		if layout.Containers != DefaultLayout().Containers {
			t.Fatalf("expected default containers layout, got %+v", layout.Containers)
		}
	})

	t.Run("records layout duplicate dirs", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nsource:\n  dir: ./data\nrecords:\n  cells:\n    dir: CONT\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestDatabaseDriver(t *testing.T) {
	tests := map[string]string{
		"postgres://localhost/items":   "postgres",
		"postgresql://localhost/items": "postgres",
		"sqlite://./items.db":          "sqlite",
	}
	for dsn, want := range tests {
		got, err := DatabaseDriver(dsn)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", dsn, err)
		}
		if got != want {
			t.Fatalf("%s: expected %s, got %s", dsn, want, got)
		}
	}
	if _, err := DatabaseDriver("redis://localhost"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRecordPath(t *testing.T) {
	if got := DefaultLayout().Containers.RecordPath("chest_small_01"); got != "CONT/chest_small_01.json" {
		t.Fatalf("unexpected record path %q", got)
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
