package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRefMagnitude(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{name: "positive", count: 4, want: 4},
		{name: "zero", count: 0, want: 0},
		{name: "unspecified sentinel", count: -1, want: 1},
		{name: "randomised negative", count: -5, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemRef{Name: "Torch", Count: tt.count}.Magnitude())
		})
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Container ")
	require.NoError(t, err)
	assert.Equal(t, KindContainer, kind)

	_, err = ParseKind("door")
	assert.Error(t, err)
}

func TestBuilder(t *testing.T) {
	t.Run("item never downgrades a container", func(t *testing.T) {
		b := NewBuilder()
		b.AddTemplate("Crate_1", KindContainer, []ItemRef{{Name: "Torch", Count: 1}})
		b.AddTemplate("Crate_1", KindItem, nil)
		cat := b.Build()

		tmpl, ok := cat.Template("Crate_1")
		require.True(t, ok)
		assert.Equal(t, KindContainer, tmpl.Kind)
		assert.Len(t, tmpl.Items, 1)
	})

	t.Run("placements accumulate", func(t *testing.T) {
		b := NewBuilder()
		b.AddTemplate("Torch", KindItem, nil)
		b.Place("Torch", "Hall", 2)
		b.Place("Torch", "Hall", 1)
		b.Place("Torch", "", 5)
		cat := b.Build()

		assert.Equal(t, map[string]int{"Hall": 3}, NewLocator(cat).Locate("Torch"))
		assert.Equal(t, 1, cat.PlacementCount())
	})

	t.Run("built catalog is detached from builder", func(t *testing.T) {
		b := NewBuilder()
		b.AddTemplate("Torch", KindItem, nil)
		b.Place("Torch", "Hall", 1)
		cat := b.Build()
		b.Place("Torch", "Hall", 10)

		assert.Equal(t, map[string]int{"Hall": 1}, NewLocator(cat).Locate("Torch"))
	})

	t.Run("templates sorted by name", func(t *testing.T) {
		b := NewBuilder()
		b.AddTemplate("b", KindNPC, nil)
		b.AddTemplate("a", KindNPC, nil)
		b.AddTemplate("c", KindItem, nil)
		cat := b.Build()

		npcs := cat.Templates(KindNPC)
		require.Len(t, npcs, 2)
		assert.Equal(t, "a", npcs[0].Name)
		assert.Equal(t, "b", npcs[1].Name)
		assert.True(t, cat.IsItem("c"))
		assert.False(t, cat.IsItem("a"))
	})
}

func TestDigest(t *testing.T) {
	build := func(order []string) *Catalog {
		b := NewBuilder()
		for _, name := range order {
			b.AddTemplate(name, KindItem, nil)
			b.Place(name, "Hall", 1)
		}
		return b.Build()
	}

	first := build([]string{"Torch", "Gold"})
	second := build([]string{"Gold", "Torch"})
	assert.Equal(t, first.Digest(), second.Digest())

	b := NewBuilder()
	b.AddTemplate("Torch", KindItem, nil)
	b.Place("Torch", "Hall", 2)
	assert.NotEqual(t, first.Digest(), b.Build().Digest())
}

func TestDigest_WarningsAndRegions(t *testing.T) {
	build := func(configure func(b *Builder)) *Catalog {
		b := NewBuilder()
		b.AddTemplate("Torch", KindItem, nil)
		b.Place("Torch", "Hall", 1)
		configure(b)
		return b.Build()
	}

	plain := build(func(*Builder) {})
	warned := build(func(b *Builder) { b.Warn(WarnMissingRecord, "CELL/Attic.json", "record not found") })
	regioned := build(func(b *Builder) { b.SetRegion("Hall", "Ascadian Isles Region") })

	assert.NotEqual(t, plain.Digest(), warned.Digest())
	assert.NotEqual(t, plain.Digest(), regioned.Digest())
	assert.Equal(t, warned.Digest(), build(func(b *Builder) { b.Warn(WarnMissingRecord, "CELL/Attic.json", "record not found") }).Digest())
}

func TestRegions(t *testing.T) {
	b := NewBuilder()
	b.SetRegion("Hall", "West Gash Region")
	b.SetRegion("Hall", "")
	b.SetRegion("", "Nowhere")
	cat := b.Build()
	b.SetRegion("Hall", "Changed")

	assert.Equal(t, "West Gash Region", cat.Region("Hall"))
	assert.Equal(t, "", cat.Region("Cellar"))

	regions := cat.Regions()
	assert.Equal(t, map[string]string{"Hall": "West Gash Region"}, regions)
	regions["Hall"] = "x"
	assert.Equal(t, "West Gash Region", cat.Region("Hall"))

	var nilCat *Catalog
	assert.Empty(t, nilCat.Regions())
}
