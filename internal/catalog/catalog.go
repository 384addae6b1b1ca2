package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindItem      Kind = "item"
	KindContainer Kind = "container"
	KindNPC       Kind = "npc"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindItem:
		return KindItem, nil
	case KindContainer:
		return KindContainer, nil
	case KindNPC:
		return KindNPC, nil
	default:
		return "", fmt.Errorf("unknown template kind: %q", value)
	}
}

// ItemRef is one entry of a container's contents or an NPC's inventory.
// A count of -1 marks an entry of unspecified size and counts as one unit.
type ItemRef struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (r ItemRef) Magnitude() int {
	switch {
	case r.Count == -1:
		return 1
	case r.Count < 0:
		return -r.Count
	default:
		return r.Count
	}
}

type Template struct {
	Name  string
	Kind  Kind
	Items []ItemRef
}

const (
	WarnMissingRecord        = "missing_record"
	WarnCatalogInconsistency = "catalog_inconsistency"
)

type Warning struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Catalog is read-only once built. All accessors return copies or values
// so callers cannot reach the internal indexes.
type Catalog struct {
	templates  map[string]*Template
	byKind     map[Kind][]string
	placements map[string]map[string]int
	regions    map[string]string
	warnings   []Warning
}

func (c *Catalog) Template(name string) (Template, bool) {
	if c == nil {
		return Template{}, false
	}
	t, ok := c.templates[name]
	if !ok {
		return Template{}, false
	}
	return Template{Name: t.Name, Kind: t.Kind, Items: append([]ItemRef(nil), t.Items...)}, true
}

func (c *Catalog) IsItem(name string) bool {
	if c == nil {
		return false
	}
	t, ok := c.templates[name]
	return ok && t.Kind == KindItem
}

// Templates returns every template of the given kind in name order.
func (c *Catalog) Templates(kind Kind) []Template {
	if c == nil {
		return []Template{}
	}
	names := c.byKind[kind]
	out := make([]Template, 0, len(names))
	for _, name := range names {
		t := c.templates[name]
		out = append(out, Template{Name: t.Name, Kind: t.Kind, Items: append([]ItemRef(nil), t.Items...)})
	}
	return out
}

// EachTemplate walks templates of one kind in name order without copying
// their item lists. fn must not modify the slice it receives.
func (c *Catalog) EachTemplate(kind Kind, fn func(name string, items []ItemRef) bool) {
	if c == nil {
		return
	}
	for _, name := range c.byKind[kind] {
		if !fn(name, c.templates[name].Items) {
			return
		}
	}
}

func (c *Catalog) PlacedTemplates() []string {
	if c == nil {
		return []string{}
	}
	names := make([]string, 0, len(c.placements))
	for name := range c.placements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Region names the region a location belongs to, or "" when unknown.
func (c *Catalog) Region(location string) string {
	if c == nil {
		return ""
	}
	return c.regions[location]
}

func (c *Catalog) Regions() map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	for loc, region := range c.regions {
		out[loc] = region
	}
	return out
}

func (c *Catalog) Warnings() []Warning {
	if c == nil {
		return nil
	}
	return append([]Warning(nil), c.warnings...)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

func (c *Catalog) PlacementCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, locs := range c.placements {
		total += len(locs)
	}
	return total
}

// Digest identifies the catalog's content independent of build order.
// Warnings are hashed in their recorded order.
func (c *Catalog) Digest() string {
	if c == nil {
		c = &Catalog{}
	}
	h := sha256.New()
	for _, kind := range []Kind{KindItem, KindContainer, KindNPC} {
		c.EachTemplate(kind, func(name string, items []ItemRef) bool {
			fmt.Fprintf(h, "T\x00%s\x00%s\n", kind, name)
			for _, item := range items {
				fmt.Fprintf(h, "I\x00%s\x00%d\n", item.Name, item.Count)
			}
			return true
		})
	}
	loc := NewLocator(c)
	for _, name := range c.PlacedTemplates() {
		loc.Each(name, func(location string, instances int) {
			fmt.Fprintf(h, "P\x00%s\x00%s\x00%d\n", name, location, instances)
		})
	}
	regions := make([]string, 0, len(c.regions))
	for loc := range c.regions {
		regions = append(regions, loc)
	}
	sort.Strings(regions)
	for _, loc := range regions {
		fmt.Fprintf(h, "R\x00%s\x00%s\n", loc, c.regions[loc])
	}
	for _, w := range c.warnings {
		fmt.Fprintf(h, "W\x00%s\x00%s\x00%s\n", w.Kind, w.Subject, w.Message)
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Builder struct {
	templates  map[string]*Template
	placements map[string]map[string]int
	regions    map[string]string
	warnings   []Warning
}

func NewBuilder() *Builder {
	return &Builder{
		templates:  make(map[string]*Template),
		placements: make(map[string]map[string]int),
		regions:    make(map[string]string),
	}
}

// AddTemplate registers a template. Re-adding a name replaces its kind and
// items, except that an item never downgrades an existing container or NPC.
func (b *Builder) AddTemplate(name string, kind Kind, items []ItemRef) {
	if name == "" {
		return
	}
	if existing, ok := b.templates[name]; ok && kind == KindItem && existing.Kind != KindItem {
		return
	}
	b.templates[name] = &Template{Name: name, Kind: kind, Items: append([]ItemRef(nil), items...)}
}

func (b *Builder) Has(name string) bool {
	_, ok := b.templates[name]
	return ok
}

// Place adds instances of a template to a location. Repeated calls accumulate.
func (b *Builder) Place(name, location string, instances int) {
	if name == "" || location == "" || instances == 0 {
		return
	}
	locs, ok := b.placements[name]
	if !ok {
		locs = make(map[string]int)
		b.placements[name] = locs
	}
	locs[location] += instances
}

// SetRegion records the region of a location. Empty values are ignored and
// the last non-empty region wins.
func (b *Builder) SetRegion(location, region string) {
	if location == "" || region == "" {
		return
	}
	b.regions[location] = region
}

func (b *Builder) Warn(kind, subject, message string) {
	b.warnings = append(b.warnings, Warning{Kind: kind, Subject: subject, Message: message})
}

func (b *Builder) Build() *Catalog {
	c := &Catalog{
		templates:  make(map[string]*Template, len(b.templates)),
		byKind:     make(map[Kind][]string),
		placements: make(map[string]map[string]int, len(b.placements)),
		regions:    make(map[string]string, len(b.regions)),
		warnings:   append([]Warning(nil), b.warnings...),
	}
	for loc, region := range b.regions {
		c.regions[loc] = region
	}
	for name, t := range b.templates {
		c.templates[name] = &Template{Name: t.Name, Kind: t.Kind, Items: append([]ItemRef(nil), t.Items...)}
		c.byKind[t.Kind] = append(c.byKind[t.Kind], name)
	}
	for kind := range c.byKind {
		sort.Strings(c.byKind[kind])
	}
	for name, locs := range b.placements {
		copied := make(map[string]int, len(locs))
		for loc, n := range locs {
			copied[loc] = n
		}
		c.placements[name] = copied
	}
	return c
}
