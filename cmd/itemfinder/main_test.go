package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"itemfinder/internal/catalog"
	"itemfinder/internal/config"
	"itemfinder/internal/search"
)

func TestWriteResults(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddTemplate("Torch", catalog.KindItem, nil)
	b.Place("Torch", "Hall", 3)
	b.AddTemplate("Crate_1", catalog.KindContainer, []catalog.ItemRef{{Name: "Torch", Count: -1}})
	b.Place("Crate_1", "Hall", 2)
	b.Place("Crate_1", "Cellar", 1)
	b.AddTemplate("Guard_A", catalog.KindNPC, []catalog.ItemRef{{Name: "Torch", Count: 4}})
	b.Place("Guard_A", "Hall", 1)

	rs, err := search.Search(context.Background(), "torch", b.Build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	writeResults(&out, "torch", rs)

	want := strings.Join([]string{
		"Count by location for 'torch':",
		"Hall - count: 9",
		"\tplaced: 3",
		"\tCrate_1: 2 (2 placed)",
		"\tGuard_A: 4",
		"Cellar - count: 1",
		"\tCrate_1: 1 (1 placed)",
		"",
		"Total occurrences: 10",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestWriteResults_NotFound(t *testing.T) {
	rs, err := search.Search(context.Background(), "lantern", catalog.NewBuilder().Build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	writeResults(&out, "lantern", rs)
	if out.String() != "The item 'lantern' was not found in any location.\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itemfinder.yaml")
	if err := runInit(path, "vvardenfell", "./data", "sqlite://items.db"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Project != "vvardenfell" || cfg.Source.Kind != config.SourceRecords || cfg.Layout() != config.DefaultLayout() {
		t.Fatalf("unexpected scaffolded config: %+v", cfg)
	}

	if err := runInit(path, "again", "./data", "sqlite://items.db"); err == nil {
		t.Fatalf("expected error when config exists")
	}
}

func TestRunInit_BadDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itemfinder.yaml")
	if err := runInit(path, "x", "./data", "mysql://items"); err == nil {
		t.Fatalf("expected error for unsupported dsn")
	}
}
