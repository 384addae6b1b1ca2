package config

import (
	"fmt"
	"path"
	"strings"
)

// Layout describes where each kind of record lives under the dataset root:
// a list file naming every record and a directory holding one JSON file
// per record.
type Layout struct {
	Cells      RecordKind `yaml:"cells"`
	Containers RecordKind `yaml:"containers"`
	NPCs       RecordKind `yaml:"npcs"`
}

type RecordKind struct {
	Dir  string `yaml:"dir"`
	List string `yaml:"list"`
}

func DefaultLayout() Layout {
	return Layout{
		Cells:      RecordKind{Dir: "CELL", List: "list/cell.json"},
		Containers: RecordKind{Dir: "CONT", List: "list/cont.json"},
		NPCs:       RecordKind{Dir: "NPC_", List: "list/npc_.json"},
	}
}

// RecordPath is the dataset-relative path of one record.
func (k RecordKind) RecordPath(name string) string {
	return path.Join(k.Dir, name+".json")
}

func (l *Layout) fillDefaults() {
	def := DefaultLayout()
	fill := func(kind *RecordKind, fallback RecordKind) {
		if strings.TrimSpace(kind.Dir) == "" {
			kind.Dir = fallback.Dir
		}
		if strings.TrimSpace(kind.List) == "" {
			kind.List = fallback.List
		}
	}
	fill(&l.Cells, def.Cells)
	fill(&l.Containers, def.Containers)
	fill(&l.NPCs, def.NPCs)
}

func validateLayout(l *Layout) error {
	kinds := []struct {
		name string
		kind RecordKind
	}{
		{"cells", l.Cells},
		{"containers", l.Containers},
		{"npcs", l.NPCs},
	}

	dirs := make(map[string]string)
	for _, k := range kinds {
		if strings.TrimSpace(k.kind.Dir) == "" {
			return fmt.Errorf("records %s dir is required", k.name)
		}
		if strings.TrimSpace(k.kind.List) == "" {
			return fmt.Errorf("records %s list is required", k.name)
		}
		key := strings.ToLower(path.Clean(k.kind.Dir))
		if other, exists := dirs[key]; exists {
			return fmt.Errorf("records %s and %s share dir %s", other, k.name, k.kind.Dir)
		}
		dirs[key] = k.name
	}
	return nil
}
