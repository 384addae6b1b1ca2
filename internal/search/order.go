package search

import (
	"sort"
	"strings"

	"itemfinder/internal/catalog"
)

type Entry struct {
	Location string          `json:"location"`
	Result   *LocationResult `json:"result"`
}

type Source struct {
	Kind      catalog.Kind `json:"kind"`
	Name      string       `json:"name"`
	Count     int          `json:"count"`
	Instances int          `json:"instances,omitempty"`
}

// Order lists the locations of rs by total descending, then by location
// name ignoring case. The exact name breaks any remaining tie.
func Order(rs *ResultSet) []Entry {
	if rs == nil {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(rs.Locations))
	for name, result := range rs.Locations {
		entries = append(entries, Entry{Location: name, Result: result})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Result.TotalCount != b.Result.TotalCount {
			return a.Result.TotalCount > b.Result.TotalCount
		}
		la, lb := strings.ToLower(a.Location), strings.ToLower(b.Location)
		if la != lb {
			return la < lb
		}
		return a.Location < b.Location
	})
	return entries
}

// Sources lists the container contributions of the entry followed by the
// NPC contributions, each in name order.
func (e Entry) Sources() []Source {
	if e.Result == nil {
		return []Source{}
	}
	sources := make([]Source, 0, len(e.Result.Containers)+len(e.Result.NPCs))
	for _, name := range sortedKeys(e.Result.Containers) {
		tally := e.Result.Containers[name]
		sources = append(sources, Source{
			Kind:      catalog.KindContainer,
			Name:      name,
			Count:     tally.ItemCount,
			Instances: tally.InstanceCount,
		})
	}
	for _, name := range sortedKeys(e.Result.NPCs) {
		sources = append(sources, Source{Kind: catalog.KindNPC, Name: name, Count: e.Result.NPCs[name]})
	}
	return sources
}
