package ingest

import (
	"context"
	"errors"
	"testing"

	"itemfinder/internal/catalog"
)

type mockStore struct {
	digest       string
	ensureCalled bool
	replaced     []*catalog.Catalog
	failEnsure   bool
	failReplace  bool
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	if m.failEnsure {
		return errors.New("forced error")
	}
	return nil
}

func (m *mockStore) CatalogDigest(ctx context.Context) (string, error) {
	return m.digest, nil
}

func (m *mockStore) ReplaceCatalog(ctx context.Context, cat *catalog.Catalog, digest string) error {
	if m.failReplace {
		return errors.New("forced error")
	}
	m.replaced = append(m.replaced, cat)
	m.digest = digest
	return nil
}

type staticSource struct {
	cat *catalog.Catalog
	err error
}

func (s staticSource) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return s.cat, s.err
}

func testCatalog() *catalog.Catalog {
	b := catalog.NewBuilder()
	b.AddTemplate("Torch", catalog.KindItem, nil)
	b.Place("Torch", "Hall", 3)
	b.AddTemplate("Crate_1", catalog.KindContainer, []catalog.ItemRef{{Name: "Torch", Count: 1}})
	b.Place("Crate_1", "Hall", 1)
	b.Place("Crate_1", "Cellar", 1)
	b.Warn(catalog.WarnMissingRecord, "CELL/Attic.json", "record not found")
	return b.Build()
}

func TestRun_IndexesCatalog(t *testing.T) {
	db := &mockStore{}
	cat := testCatalog()

	result, err := Run(context.Background(), staticSource{cat: cat}, db, Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !db.ensureCalled {
		t.Fatalf("expected EnsureSchema to be called")
	}
	if len(db.replaced) != 1 {
		t.Fatalf("expected one replace, got %d", len(db.replaced))
	}
	if result.Skipped {
		t.Fatalf("expected catalog to be written")
	}
	if result.Digest != cat.Digest() || db.digest != cat.Digest() {
		t.Fatalf("digest not recorded: %q", db.digest)
	}
	if result.Templates != 2 || result.Placements != 3 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected warnings to be reported, got %v", result.Warnings)
	}
}

func TestRun_SkipsUnchanged(t *testing.T) {
	cat := testCatalog()
	db := &mockStore{digest: cat.Digest()}

	result, err := Run(context.Background(), staticSource{cat: cat}, db, Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Skipped {
		t.Fatalf("expected unchanged catalog to be skipped")
	}
	if len(db.replaced) != 0 {
		t.Fatalf("expected no replace, got %d", len(db.replaced))
	}
}

func TestRun_WarningsChangeReindexes(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddTemplate("Torch", catalog.KindItem, nil)
	b.Place("Torch", "Hall", 3)
	b.AddTemplate("Crate_1", catalog.KindContainer, []catalog.ItemRef{{Name: "Torch", Count: 1}})
	b.Place("Crate_1", "Hall", 1)
	b.Place("Crate_1", "Cellar", 1)
	db := &mockStore{digest: b.Build().Digest()}

	cat := testCatalog()
	result, err := Run(context.Background(), staticSource{cat: cat}, db, Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Skipped || len(db.replaced) != 1 {
		t.Fatalf("expected warnings-only change to rewrite, got %+v", result)
	}
	if db.digest != cat.Digest() {
		t.Fatalf("digest not recorded: %q", db.digest)
	}
}

func TestRun_FullRewrites(t *testing.T) {
	cat := testCatalog()
	db := &mockStore{digest: cat.Digest()}

	result, err := Run(context.Background(), staticSource{cat: cat}, db, Options{Full: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Skipped || len(db.replaced) != 1 {
		t.Fatalf("expected full run to rewrite, got %+v", result)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("source failure", func(t *testing.T) {
		db := &mockStore{}
		_, err := Run(context.Background(), staticSource{err: errors.New("list missing")}, db, Options{})
		if err == nil {
			t.Fatalf("expected error")
		}
		if db.ensureCalled {
			t.Fatalf("store should not be touched")
		}
	})

	t.Run("schema failure", func(t *testing.T) {
		_, err := Run(context.Background(), staticSource{cat: testCatalog()}, &mockStore{failEnsure: true}, Options{})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("replace failure", func(t *testing.T) {
		_, err := Run(context.Background(), staticSource{cat: testCatalog()}, &mockStore{failReplace: true}, Options{})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}
