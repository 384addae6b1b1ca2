package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemfinder/internal/catalog"
)

func TestOrder(t *testing.T) {
	rs := newResultSet("x")
	rs.addStatic("balmora", 2)
	rs.addStatic("Ald-ruhn", 2)
	rs.addStatic("Caldera", 5)
	rs.addStatic("Balmora", 2)

	entries := Order(rs)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Location)
	}
	assert.Equal(t, []string{"Caldera", "Ald-ruhn", "Balmora", "balmora"}, names)
}

func TestOrder_Nil(t *testing.T) {
	assert.Empty(t, Order(nil))
}

func TestEntrySources(t *testing.T) {
	rs, err := Search(context.Background(), "torch", torchCatalog())
	require.NoError(t, err)

	entries := Order(rs)
	require.Len(t, entries, 2)
	assert.Equal(t, "Hall", entries[0].Location)
	assert.Equal(t, "Cellar", entries[1].Location)

	assert.Equal(t, []Source{
		{Kind: catalog.KindContainer, Name: "Crate_1", Count: 2, Instances: 2},
		{Kind: catalog.KindNPC, Name: "Guard_A", Count: 4},
	}, entries[0].Sources())
}
