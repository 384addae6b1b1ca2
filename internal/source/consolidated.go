package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"itemfinder/internal/catalog"
)

const documentVersion = 1

// Document is the single-file form of a catalog written by merge.
type Document struct {
	Version    int                       `json:"version"`
	Templates  []TemplateDoc             `json:"templates"`
	Placements map[string]map[string]int `json:"placements"`
	Regions    map[string]string         `json:"regions,omitempty"`
	Warnings   []catalog.Warning         `json:"warnings,omitempty"`
}

type TemplateDoc struct {
	Name  string            `json:"name"`
	Kind  string            `json:"kind"`
	Items []catalog.ItemRef `json:"items,omitempty"`
}

func NewDocument(cat *catalog.Catalog) *Document {
	doc := &Document{
		Version:    documentVersion,
		Placements: make(map[string]map[string]int),
		Regions:    cat.Regions(),
		Warnings:   cat.Warnings(),
	}
	for _, kind := range []catalog.Kind{catalog.KindItem, catalog.KindContainer, catalog.KindNPC} {
		for _, tmpl := range cat.Templates(kind) {
			doc.Templates = append(doc.Templates, TemplateDoc{Name: tmpl.Name, Kind: string(tmpl.Kind), Items: tmpl.Items})
		}
	}
	loc := catalog.NewLocator(cat)
	for _, name := range cat.PlacedTemplates() {
		doc.Placements[name] = loc.Locate(name)
	}
	return doc
}

// Catalog rebuilds the catalog the document describes.
func (d *Document) Catalog() (*catalog.Catalog, error) {
	if d.Version != documentVersion {
		return nil, fmt.Errorf("unsupported catalog document version: %d", d.Version)
	}
	b := catalog.NewBuilder()
	for _, tmpl := range d.Templates {
		if tmpl.Name == "" {
			return nil, fmt.Errorf("catalog document: template without name")
		}
		kind, err := catalog.ParseKind(tmpl.Kind)
		if err != nil {
			return nil, fmt.Errorf("catalog document: template %s: %w", tmpl.Name, err)
		}
		b.AddTemplate(tmpl.Name, kind, tmpl.Items)
	}
	for name, locs := range d.Placements {
		for loc, n := range locs {
			b.Place(name, loc, n)
		}
	}
	for loc, region := range d.Regions {
		b.SetRegion(loc, region)
	}
	for _, w := range d.Warnings {
		b.Warn(w.Kind, w.Subject, w.Message)
	}
	return b.Build(), nil
}

// Consolidated loads a catalog from one document fetched by name.
type Consolidated struct {
	Fetcher Fetcher
	Name    string
}

func (c *Consolidated) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	data, err := c.Fetcher.Fetch(ctx, c.Name)
	if err != nil {
		return nil, fmt.Errorf("reading catalog document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog document: %w", err)
	}
	return doc.Catalog()
}

func WriteFile(path string, cat *catalog.Catalog) error {
	data, err := json.MarshalIndent(NewDocument(cat), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog document: %w", err)
	}
	return nil
}
