package catalog

import "sort"

// Locator answers where a template is physically placed. Lookups are exact
// on the canonical template name; the placement table is already indexed
// by template so no location is ever scanned.
type Locator struct {
	placements map[string]map[string]int
}

func NewLocator(c *Catalog) *Locator {
	if c == nil {
		return &Locator{}
	}
	return &Locator{placements: c.placements}
}

// Locate returns location -> instance count for name. The map is a copy and
// empty when the template has no placements.
func (l *Locator) Locate(name string) map[string]int {
	locs := l.placements[name]
	out := make(map[string]int, len(locs))
	for loc, n := range locs {
		out[loc] = n
	}
	return out
}

func (l *Locator) Placed(name string) bool {
	return len(l.placements[name]) > 0
}

// Each calls fn for every placement of name in location order.
func (l *Locator) Each(name string, fn func(location string, instances int)) {
	locs := l.placements[name]
	if len(locs) == 0 {
		return
	}
	keys := make([]string, 0, len(locs))
	for loc := range locs {
		keys = append(keys, loc)
	}
	sort.Strings(keys)
	for _, loc := range keys {
		fn(loc, locs[loc])
	}
}
