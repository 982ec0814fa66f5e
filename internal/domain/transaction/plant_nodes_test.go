package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(v float64) *float64 { return &v }

func TestGroupByPlant_RoundsAndMerges(t *testing.T) {
	a := &Transaction{ID: "a", Name: "A", PlantName: "Alpha", CapacityMW: 100, Latitude: coord(-6.10004), Longitude: coord(106.8)}
	b := &Transaction{ID: "b", Name: "B", Plants: []PlantRef{
		{PlantName: " alpha", CapacityMW: 50, Latitude: coord(-6.1), Longitude: coord(106.80001)},
		{PlantName: "Beta", CapacityMW: 70, Latitude: coord(21), Longitude: coord(105.8)},
	}}
	c := &Transaction{ID: "c", Name: "C", PlantName: "Nowhere"}

	nodes := GroupByPlant([]*Transaction{a, b, c})

	require.Len(t, nodes, 2)
	assert.Equal(t, "alpha_-6.100_106.800", nodes[0].Key)
	assert.Equal(t, "Alpha", nodes[0].PlantName)
	assert.Len(t, nodes[0].Members, 2)
	assert.Equal(t, 150.0, nodes[0].CapacityMW)
	assert.Equal(t, "b", nodes[1].Members[0].Transaction.ID)
}

func TestGroupByPlant_DealCountedOncePerNode(t *testing.T) {
	tx := &Transaction{ID: "a", Name: "A", Plants: []PlantRef{
		{PlantName: "Alpha", UnitName: "U1", CapacityMW: 10, Latitude: coord(1), Longitude: coord(2)},
		{PlantName: "Alpha", UnitName: "U2", CapacityMW: 20, Latitude: coord(1), Longitude: coord(2)},
	}}

	nodes := GroupByPlant([]*Transaction{tx})
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Members, 1)
	assert.Equal(t, 30.0, nodes[0].CapacityMW)
}

func TestGroupByPlant_Empty(t *testing.T) {
	assert.Empty(t, GroupByPlant(nil))
}

//Personal.AI order the ending
