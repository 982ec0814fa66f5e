package transaction

import "github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"

// Member is one deal touching a PlantNode, with the plant reference it used.
type Member struct {
	Transaction *Transaction `json:"transaction"`
	Plant       PlantRef     `json:"plant"`
}

// PlantNode is one map location referenced by deals. Plants with matching
// TransactionPlantKey share a node.
type PlantNode struct {
	Key        string   `json:"key"`
	PlantName  string   `json:"plant_name"`
	Country    string   `json:"country,omitempty"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	CapacityMW float64  `json:"capacity_mw"`
	Members    []Member `json:"members"`
}

// GroupByPlant folds the effective plants of txs into nodes keyed by
// plant.TransactionPlantKey. Plants without coordinates are skipped. A deal
// referencing the same location twice appears once in that node, while
// capacity sums every reference.
func GroupByPlant(txs []*Transaction) []PlantNode {
	type entry struct {
		key string
		m   Member
	}
	var entries []entry
	for _, t := range txs {
		for _, p := range t.EffectivePlants() {
			if !p.HasCoordinates() {
				continue
			}
			entries = append(entries, entry{
				key: plant.TransactionPlantKey(p.PlantName, *p.Latitude, *p.Longitude),
				m:   Member{Transaction: t, Plant: p},
			})
		}
	}

	groups := plant.GroupBy(entries, func(e entry) (string, bool) { return e.key, true })
	nodes := make([]PlantNode, 0, groups.Len())
	for _, g := range groups.All() {
		rep := g.Representative.m.Plant
		n := PlantNode{
			Key:       g.Key,
			PlantName: rep.PlantName,
			Country:   rep.Country,
			Latitude:  *rep.Latitude,
			Longitude: *rep.Longitude,
		}
		seen := make(map[*Transaction]bool)
		for _, e := range g.Members {
			n.CapacityMW += e.m.Plant.CapacityMW
			if seen[e.m.Transaction] {
				continue
			}
			seen[e.m.Transaction] = true
			n.Members = append(n.Members, e.m)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

//Personal.AI order the ending
