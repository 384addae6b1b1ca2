package search

import (
	"sort"

	"itemfinder/internal/catalog"
)

type ContainerTally struct {
	ItemCount     int `json:"item_count"`
	InstanceCount int `json:"container_instance_count"`
}

type LocationResult struct {
	TotalCount  int                       `json:"total_count"`
	StaticCount int                       `json:"static_count"`
	Containers  map[string]ContainerTally `json:"containers"`
	NPCs        map[string]int            `json:"npcs"`
}

// ResultSet is the aggregated answer to one query. It is treated as
// immutable once returned; cached sets are shared between callers.
type ResultSet struct {
	Term       string                     `json:"term"`
	TotalCount int                        `json:"total_count"`
	Locations  map[string]*LocationResult `json:"locations"`
	Warnings   []catalog.Warning          `json:"warnings,omitempty"`
}

func newResultSet(term string) *ResultSet {
	return &ResultSet{Term: term, Locations: make(map[string]*LocationResult)}
}

func (rs *ResultSet) location(name string) *LocationResult {
	loc, ok := rs.Locations[name]
	if !ok {
		loc = &LocationResult{
			Containers: make(map[string]ContainerTally),
			NPCs:       make(map[string]int),
		}
		rs.Locations[name] = loc
	}
	return loc
}

func (rs *ResultSet) addStatic(location string, count int) {
	loc := rs.location(location)
	loc.StaticCount += count
	loc.TotalCount += count
	rs.TotalCount += count
}

func (rs *ResultSet) addContainer(location, container string, items, instances int) {
	loc := rs.location(location)
	tally := loc.Containers[container]
	tally.ItemCount += items
	tally.InstanceCount += instances
	loc.Containers[container] = tally
	loc.TotalCount += items
	rs.TotalCount += items
}

func (rs *ResultSet) addNPC(location, npc string, count int) {
	loc := rs.location(location)
	loc.NPCs[npc] += count
	loc.TotalCount += count
	rs.TotalCount += count
}

func (rs *ResultSet) warn(kind, subject, message string) {
	rs.Warnings = append(rs.Warnings, catalog.Warning{Kind: kind, Subject: subject, Message: message})
}

// merge folds other into rs through the same add operations the phases use,
// so the per-location and grand totals stay consistent without a recount.
func (rs *ResultSet) merge(other *ResultSet) {
	if other == nil {
		return
	}
	for _, name := range sortedKeys(other.Locations) {
		src := other.Locations[name]
		if src.StaticCount != 0 {
			rs.addStatic(name, src.StaticCount)
		}
		for _, container := range sortedKeys(src.Containers) {
			tally := src.Containers[container]
			rs.addContainer(name, container, tally.ItemCount, tally.InstanceCount)
		}
		for _, npc := range sortedKeys(src.NPCs) {
			rs.addNPC(name, npc, src.NPCs[npc])
		}
	}
	rs.Warnings = append(rs.Warnings, other.Warnings...)
}

func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Locations) == 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
