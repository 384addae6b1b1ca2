package source

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"itemfinder/internal/catalog"
	"itemfinder/internal/config"
	"itemfinder/internal/parser"
)

type recordKind int

const (
	kindCell recordKind = iota
	kindContainer
	kindNPC
)

type fetched struct {
	kind recordKind
	name string
	path string
	data []byte
	err  error
}

// Records assembles a catalog from the many-small-files dataset: three list
// files naming every cell, container and NPC record, and one JSON file per
// record. Unreadable records become missing_record warnings on the catalog
// and are treated as empty.
type Records struct {
	Fetcher     Fetcher
	Layout      config.Layout
	Concurrency int
	Timeout     time.Duration
	Normalizer  *parser.Normalizer
	Logger      *slog.Logger
}

func (r *Records) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kinds := []struct {
		kind   recordKind
		layout config.RecordKind
	}{
		{kindContainer, r.Layout.Containers},
		{kindNPC, r.Layout.NPCs},
		{kindCell, r.Layout.Cells},
	}

	var jobs []*fetched
	for _, k := range kinds {
		names, err := r.readList(ctx, k.layout.List)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			jobs = append(jobs, &fetched{kind: k.kind, name: name, path: k.layout.RecordPath(name)})
		}
	}

	if err := r.fetchAll(ctx, jobs); err != nil {
		return nil, err
	}

	b := catalog.NewBuilder()
	names := newCanonicalNames()
	missing := func(job *fetched, err error) {
		logger.Warn("record unreadable", "record", job.path, "err", err)
		b.Warn(catalog.WarnMissingRecord, job.path, err.Error())
	}

	type inventory struct {
		owner string
		kind  catalog.Kind
		items []catalog.ItemRef
	}
	var inventories []inventory
	for _, job := range jobs {
		if job.kind == kindCell {
			continue
		}
		kind := catalog.KindContainer
		if job.kind == kindNPC {
			kind = catalog.KindNPC
		}
		name := names.resolve(job.name)
		b.AddTemplate(name, kind, nil)
		if job.err != nil {
			missing(job, job.err)
			continue
		}

		var inv *parser.Inventory
		var err error
		if job.kind == kindContainer {
			inv, err = parser.ParseContainer(job.data, name)
		} else {
			inv, err = parser.ParseNPC(job.data, name)
		}
		if err != nil {
			missing(job, fmt.Errorf("parsing: %w", err))
			continue
		}
		inventories = append(inventories, inventory{owner: name, kind: kind, items: inv.Items})
	}

	for _, inv := range inventories {
		items := make([]catalog.ItemRef, 0, len(inv.items))
		for _, item := range inv.items {
			name := names.resolve(item.Name)
			if !b.Has(name) {
				b.AddTemplate(name, catalog.KindItem, nil)
			}
			items = append(items, catalog.ItemRef{Name: name, Count: item.Count})
		}
		b.AddTemplate(inv.owner, inv.kind, items)
	}

	cells := 0
	for _, job := range jobs {
		if job.kind != kindCell {
			continue
		}
		if job.err != nil {
			missing(job, job.err)
			continue
		}
		cell, err := parser.ParseCell(job.data, job.name)
		if err != nil {
			missing(job, fmt.Errorf("parsing: %w", err))
			continue
		}
		location := cell.Name
		if r.Normalizer != nil {
			location = r.Normalizer.Normalize(location)
		}
		b.SetRegion(location, cell.Region)
		for _, ref := range slices.Sorted(maps.Keys(cell.Refs)) {
			count := cell.Refs[ref]
			name := names.resolve(ref)
			if !b.Has(name) {
				b.AddTemplate(name, catalog.KindItem, nil)
			}
			b.Place(name, location, count)
		}
		cells++
	}

	cat := b.Build()
	logger.Info("loaded catalog",
		"templates", cat.Len(),
		"placements", cat.PlacementCount(),
		"cells", cells,
		"missing", len(cat.Warnings()),
	)
	return cat, nil
}

func (r *Records) readList(ctx context.Context, name string) ([]string, error) {
	data, err := r.fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading list %s: %w", name, err)
	}
	names, err := parser.ParseList(data)
	if err != nil {
		return nil, fmt.Errorf("reading list %s: %w", name, err)
	}
	return names, nil
}

// fetchAll reads every record with bounded fan-out. Per-record failures are
// kept on the job; only cancellation of ctx aborts the whole load.
func (r *Records) fetchAll(ctx context.Context, jobs []*fetched) error {
	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job.data, job.err = r.fetch(gctx, job.path)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}
	return nil
}

func (r *Records) fetch(ctx context.Context, name string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Fetcher.Fetch(ctx, name)
}

// canonicalNames folds record ids case-insensitively onto the first
// spelling seen. Containers and NPCs are resolved first so cell references
// and inventory entries land on their templates.
type canonicalNames struct {
	byLower map[string]string
}

func newCanonicalNames() *canonicalNames {
	return &canonicalNames{byLower: make(map[string]string)}
}

func (c *canonicalNames) resolve(name string) string {
	key := strings.ToLower(name)
	if canonical, ok := c.byLower[key]; ok {
		return canonical
	}
	c.byLower[key] = name
	return name
}
