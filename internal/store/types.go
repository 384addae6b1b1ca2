package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"itemfinder/internal/catalog"
)

var ErrNotIndexed = errors.New("no catalog indexed")

const MetaDigest = "digest"

type TemplateRow struct {
	Name string
	Kind string
}

type ItemRow struct {
	Template string
	Position int
	Item     string
	Count    int
}

type PlacementRow struct {
	Template  string
	Location  string
	Instances int
}

type RegionRow struct {
	Location string
	Region   string
}

type WarningRow struct {
	Position int
	catalog.Warning
}

// Snapshot is a catalog flattened into table rows, in a stable order.
type Snapshot struct {
	Templates  []TemplateRow
	Items      []ItemRow
	Placements []PlacementRow
	Regions    []RegionRow
	Warnings   []WarningRow
}

func NewSnapshot(cat *catalog.Catalog) *Snapshot {
	s := &Snapshot{}
	for _, kind := range []catalog.Kind{catalog.KindItem, catalog.KindContainer, catalog.KindNPC} {
		for _, tmpl := range cat.Templates(kind) {
			s.Templates = append(s.Templates, TemplateRow{Name: tmpl.Name, Kind: string(tmpl.Kind)})
			for i, item := range tmpl.Items {
				s.Items = append(s.Items, ItemRow{Template: tmpl.Name, Position: i, Item: item.Name, Count: item.Count})
			}
		}
	}
	loc := catalog.NewLocator(cat)
	for _, name := range cat.PlacedTemplates() {
		loc.Each(name, func(location string, instances int) {
			s.Placements = append(s.Placements, PlacementRow{Template: name, Location: location, Instances: instances})
		})
	}
	regions := cat.Regions()
	for _, location := range slices.Sorted(maps.Keys(regions)) {
		s.Regions = append(s.Regions, RegionRow{Location: location, Region: regions[location]})
	}
	for i, w := range cat.Warnings() {
		s.Warnings = append(s.Warnings, WarningRow{Position: i, Warning: w})
	}
	return s
}

// Catalog rebuilds a catalog from rows. Items must be ordered by template
// and position, warnings by position.
func (s *Snapshot) Catalog() (*catalog.Catalog, error) {
	items := make(map[string][]catalog.ItemRef)
	for _, row := range s.Items {
		items[row.Template] = append(items[row.Template], catalog.ItemRef{Name: row.Item, Count: row.Count})
	}

	b := catalog.NewBuilder()
	for _, row := range s.Templates {
		kind, err := catalog.ParseKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", row.Name, err)
		}
		b.AddTemplate(row.Name, kind, items[row.Name])
	}
	for _, row := range s.Placements {
		b.Place(row.Template, row.Location, row.Instances)
	}
	for _, row := range s.Regions {
		b.SetRegion(row.Location, row.Region)
	}
	for _, row := range s.Warnings {
		b.Warn(row.Kind, row.Subject, row.Message)
	}
	return b.Build(), nil
}
