package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/charmap"

	"itemfinder/internal/catalog"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrMissingName     = errors.New("record has no usable name")
)

// Cell is one location record. Refs maps each referenced object name to the
// number of references, i.e. the number of placed instances.
type Cell struct {
	Name   string
	Region string
	Refs   map[string]int
}

// Inventory is a container's contents or an NPC's carried items.
type Inventory struct {
	Name  string
	Items []catalog.ItemRef
}

// Decode returns data as UTF-8. Records exported by older tools are
// Windows-1252; anything that is not valid UTF-8 is treated as such.
func Decode(data []byte) ([]byte, error) {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding windows-1252: %w", err)
	}
	return decoded, nil
}

func parse(data []byte) (gjson.Result, error) {
	decoded, err := Decode(data)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(decoded) {
		return gjson.Result{}, ErrMalformedRecord
	}
	root := gjson.ParseBytes(decoded)
	if !root.IsObject() {
		return gjson.Result{}, ErrMalformedRecord
	}
	return root, nil
}

// ParseCell reads a cell record. The cell is named by NAME, else by its
// grid coordinates, else by fallback (usually the record's file stem).
func ParseCell(data []byte, fallback string) (*Cell, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(root.Get("NAME").String())
	if name == "" {
		if grid := root.Get("DATA.grid"); grid.IsArray() && len(grid.Array()) >= 2 {
			coords := grid.Array()
			name = fmt.Sprintf("%d, %d", coords[0].Int(), coords[1].Int())
		}
	}
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		return nil, ErrMissingName
	}

	cell := &Cell{
		Name:   name,
		Region: root.Get("RGNN").String(),
		Refs:   make(map[string]int),
	}
	root.Get("FRMR").ForEach(func(_, ref gjson.Result) bool {
		if !ref.IsObject() {
			return true
		}
		if obj := strings.TrimSpace(ref.Get("NAME").String()); obj != "" {
			cell.Refs[obj]++
		}
		return true
	})
	return cell, nil
}

// ParseContainer reads a container record's CNTO list, falling back to NPCO.
func ParseContainer(data []byte, name string) (*Inventory, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}
	list := root.Get("CNTO")
	if !list.IsArray() {
		list = root.Get("NPCO")
	}
	return &Inventory{Name: name, Items: parseItems(list)}, nil
}

func ParseNPC(data []byte, name string) (*Inventory, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}
	return &Inventory{Name: name, Items: parseItems(root.Get("NPCO"))}, nil
}

// ParseList reads a list file: a JSON array of record names.
func ParseList(data []byte) ([]string, error) {
	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(decoded) {
		return nil, ErrMalformedRecord
	}
	root := gjson.ParseBytes(decoded)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: list must be an array", ErrMalformedRecord)
	}
	names := make([]string, 0, len(root.Array()))
	for _, item := range root.Array() {
		if item.Type != gjson.String {
			continue
		}
		if name := strings.TrimSpace(item.String()); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func parseItems(list gjson.Result) []catalog.ItemRef {
	if !list.IsArray() {
		return nil
	}
	var items []catalog.ItemRef
	list.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		name := entry.Get("name")
		count := entry.Get("count")
		if !name.Exists() || !count.Exists() {
			return true
		}
		if n := strings.TrimSpace(name.String()); n != "" {
			items = append(items, catalog.ItemRef{Name: n, Count: int(count.Int())})
		}
		return true
	})
	return items
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
