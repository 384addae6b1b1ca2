package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"itemfinder/internal/catalog"
)

type phase func(ctx context.Context, m *Matcher, cat *catalog.Catalog, loc *catalog.Locator) (*ResultSet, error)

// Search finds every occurrence of term in cat. The direct, container and
// NPC phases run concurrently into private partial results that are merged
// in a fixed order once all three finish. An empty term yields an empty
// result without touching the catalog.
func Search(ctx context.Context, term string, cat *catalog.Catalog) (*ResultSet, error) {
	m, ok := NewMatcher(term)
	if !ok {
		return newResultSet(""), nil
	}

	loc := catalog.NewLocator(cat)
	phases := []phase{directPhase, containerPhase, npcPhase}
	partials := make([]*ResultSet, len(phases))

	g, gctx := errgroup.WithContext(ctx)
	for i, run := range phases {
		g.Go(func() error {
			partial, err := run(gctx, m, cat, loc)
			if err != nil {
				return err
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rs := newResultSet(m.Term())
	rs.Warnings = append(rs.Warnings, cat.Warnings()...)
	for _, partial := range partials {
		rs.merge(partial)
	}
	return rs, nil
}

func directPhase(ctx context.Context, m *Matcher, cat *catalog.Catalog, loc *catalog.Locator) (*ResultSet, error) {
	rs := newResultSet(m.Term())
	var err error
	cat.EachTemplate(catalog.KindItem, func(name string, _ []catalog.ItemRef) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		if !m.Match(name) {
			return true
		}
		loc.Each(name, func(location string, instances int) {
			rs.addStatic(location, instances)
		})
		return true
	})
	return rs, err
}

func containerPhase(ctx context.Context, m *Matcher, cat *catalog.Catalog, loc *catalog.Locator) (*ResultSet, error) {
	rs := newResultSet(m.Term())
	var err error
	cat.EachTemplate(catalog.KindContainer, func(name string, items []catalog.ItemRef) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		unit := unitMagnitude(rs, m, cat, name, items)
		if unit == 0 {
			return true
		}
		loc.Each(name, func(location string, instances int) {
			rs.addContainer(location, name, unit*instances, instances)
		})
		return true
	})
	return rs, err
}

func npcPhase(ctx context.Context, m *Matcher, cat *catalog.Catalog, loc *catalog.Locator) (*ResultSet, error) {
	rs := newResultSet(m.Term())
	var err error
	cat.EachTemplate(catalog.KindNPC, func(name string, items []catalog.ItemRef) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		unit := unitMagnitude(rs, m, cat, name, items)
		if unit == 0 {
			return true
		}
		loc.Each(name, func(location string, instances int) {
			rs.addNPC(location, name, unit*instances)
		})
		return true
	})
	return rs, err
}

// unitMagnitude sums the magnitudes of every matching entry in one
// template's item list. Matching entries that do not name an item template
// are still counted but flagged once per template and name.
func unitMagnitude(rs *ResultSet, m *Matcher, cat *catalog.Catalog, owner string, items []catalog.ItemRef) int {
	unit := 0
	var flagged map[string]struct{}
	for _, item := range items {
		if !m.Match(item.Name) {
			continue
		}
		unit += item.Magnitude()
		if cat.IsItem(item.Name) {
			continue
		}
		if _, seen := flagged[item.Name]; seen {
			continue
		}
		if flagged == nil {
			flagged = make(map[string]struct{})
		}
		flagged[item.Name] = struct{}{}
		rs.warn(catalog.WarnCatalogInconsistency, owner, fmt.Sprintf("references %q which is not an item template", item.Name))
	}
	return unit
}
