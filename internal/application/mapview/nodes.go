package mapview

import (
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
)

// NodeID identifies a node across kinds, e.g. "global:<plant key>".
type NodeID string

// NewNodeID prefixes key with the node kind.
func NewNodeID(kind NodeKind, key string) NodeID {
	return NodeID(string(kind) + ":" + key)
}

// Node is one drawable map item.
type Node struct {
	ID         NodeID   `json:"id"`
	Kind       NodeKind `json:"kind"`
	Name       string   `json:"name"`
	Position   LngLat   `json:"position"`
	Status     string   `json:"status,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country,omitempty"`
	Style      Style    `json:"style"`
	// Children are the deal nodes shown when the node is expanded.
	Children []Node `json:"children,omitempty"`
}

// Marker returns the marker drawn for n.
func (n Node) Marker() Marker {
	return Marker{NodeID: n.ID, Title: n.Name, Style: n.Style}
}

// GlobalNodes turns aggregated catalog plants into nodes.
func GlobalNodes(plants []plant.Plant) []Node {
	out := make([]Node, 0, len(plants))
	for _, p := range plants {
		n := Node{
			ID:         NewNodeID(KindGlobal, p.Key),
			Kind:       KindGlobal,
			Name:       p.Name,
			Position:   LngLat{Lng: p.Longitude, Lat: p.Latitude},
			Status:     string(p.Status),
			CapacityMW: p.CapacityMW,
			Country:    p.Country,
			Style:      NodeStyle(KindGlobal, string(p.Status)),
		}
		n.Style.Size = SizeForCapacity(p.CapacityMW)
		out = append(out, n)
	}
	return out
}

// ProjectNodes turns curated projects into nodes, folding units of one plant
// together the same way the catalog does.
func ProjectNodes(units []plant.PlantUnit) []Node {
	plants := plant.BuildPlants(units)
	out := make([]Node, 0, len(plants))
	for _, p := range plants {
		n := Node{
			ID:         NewNodeID(KindProject, p.Key),
			Kind:       KindProject,
			Name:       p.Name,
			Position:   LngLat{Lng: p.Longitude, Lat: p.Latitude},
			Status:     p.StatusLabel,
			CapacityMW: p.CapacityMW,
			Country:    p.Country,
			Style:      NodeStyle(KindProject, p.StatusLabel),
		}
		n.Style.Size = SizeForCapacity(p.CapacityMW)
		out = append(out, n)
	}
	return out
}

// TransactionNodes turns grouped deal plants into expandable nodes. The
// parent is drawn as a global-style circle; each member deal is a child.
func TransactionNodes(groups []transaction.PlantNode) []Node {
	out := make([]Node, 0, len(groups))
	for _, g := range groups {
		parent := Node{
			ID:         NewNodeID(KindGlobal, "deal:"+g.Key),
			Kind:       KindGlobal,
			Name:       g.PlantName,
			Position:   LngLat{Lng: g.Longitude, Lat: g.Latitude},
			CapacityMW: g.CapacityMW,
			Country:    g.Country,
			Style:      NodeStyle(KindGlobal, ""),
		}
		parent.Style.Size = SizeForCapacity(g.CapacityMW)
		for _, m := range g.Members {
			parent.Children = append(parent.Children, Node{
				ID:         NewNodeID(KindTransaction, m.Transaction.ID+"@"+g.Key),
				Kind:       KindTransaction,
				Name:       m.Transaction.Name,
				Position:   parent.Position,
				Status:     m.Plant.Status,
				CapacityMW: m.Plant.CapacityMW,
				Country:    m.Plant.Country,
				Style:      NodeStyle(KindTransaction, m.Plant.Status),
			})
		}
		out = append(out, parent)
	}
	return out
}

//Personal.AI order the ending
