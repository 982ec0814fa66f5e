package mapview

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// PlantSource yields filtered catalog plants. *explorer.Service satisfies it.
type PlantSource interface {
	Plants(ctx context.Context, opts explorer.FilterOptions) (*explorer.PlantsResult, error)
}

// RowSource yields raw table rows. *catalog.Loader satisfies it.
type RowSource interface {
	Rows(ctx context.Context, table string) ([]common.Row, error)
}

// DealSource yields deal plants grouped by location.
type DealSource interface {
	MapNodes(ctx context.Context) ([]transaction.PlantNode, error)
}

// NodeSet is every node of the map, by layer.
type NodeSet struct {
	Global       []Node `json:"global"`
	Projects     []Node `json:"projects"`
	Transactions []Node `json:"transactions"`
}

// All returns the layers concatenated in drawing order.
func (n *NodeSet) All() []Node {
	out := make([]Node, 0, len(n.Global)+len(n.Projects)+len(n.Transactions))
	out = append(out, n.Global...)
	out = append(out, n.Projects...)
	return append(out, n.Transactions...)
}

// Find returns the node with id.
func (n *NodeSet) Find(id NodeID) (Node, bool) {
	for _, node := range n.All() {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

// RenderRequest asks for a rendered scene.
type RenderRequest struct {
	Viewport Viewport              `json:"viewport"`
	Filter   explorer.FilterOptions `json:"filter"`
	// Expand optionally names a node to show expanded.
	Expand NodeID `json:"expand,omitempty"`
}

// LayoutResult is the ring of children around one parent.
type LayoutResult struct {
	Parent ScreenPoint   `json:"parent"`
	Radius float64       `json:"radius"`
	Points []ScreenPoint `json:"points"`
}

// Service builds map nodes and renders scenes.
type Service struct {
	plants    PlantSource
	rows      RowSource
	deals     DealSource
	batchSize int
	yield     time.Duration
	logger    logging.Logger
}

// NewService wires the three node sources. deals may be nil.
func NewService(plants PlantSource, rows RowSource, deals DealSource, batchSize int, yield time.Duration, logger logging.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{plants: plants, rows: rows, deals: deals, batchSize: batchSize, yield: yield, logger: logger}
}

// Nodes loads the three layers concurrently.
func (s *Service) Nodes(ctx context.Context, opts explorer.FilterOptions) (*NodeSet, error) {
	set := &NodeSet{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.plants.Plants(gctx, opts)
		if err != nil {
			return err
		}
		set.Global = GlobalNodes(res.Plants)
		return nil
	})
	g.Go(func() error {
		rows, err := s.rows.Rows(gctx, catalog.TableProjects)
		if err != nil {
			return err
		}
		units := plant.UnitsFromRows(plant.NormalizeAll(plant.KindProject, rows))
		set.Projects = ProjectNodes(units)
		return nil
	})
	if s.deals != nil {
		g.Go(func() error {
			groups, err := s.deals.MapNodes(gctx)
			if err != nil {
				return err
			}
			set.Transactions = TransactionNodes(groups)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// Render draws every node into a Scene for req.Viewport and, when asked,
// expands one node and centers the view on it.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*SceneSnapshot, error) {
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		return nil, errors.NewValidationError("viewport", "width and height must be positive")
	}
	set, err := s.Nodes(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	scene := NewScene(req.Viewport)
	nodes := set.All()
	placements := make([]Placement, len(nodes))
	for i, n := range nodes {
		placements[i] = Placement{Position: n.Position, Marker: n.Marker()}
	}
	inserter := NewBatchInserter(scene, WithBatchSize(s.batchSize), WithBatchYield(s.yield))
	if _, err := inserter.Run(ctx, placements); err != nil {
		return nil, err
	}

	if req.Expand != "" {
		node, ok := set.Find(req.Expand)
		if !ok {
			return nil, errors.New(errors.ErrCodePlantNotFound, "map node not found").WithDetail("id=" + string(req.Expand))
		}
		ctrl := NewController(scene)
		defer ctrl.Close()
		if _, err := ctrl.Toggle(node); err != nil {
			return nil, err
		}
		// Centering on the node moves the ring with it.
		scene.FlyTo(node.Position, req.Viewport.Zoom)
	}

	snap := scene.Snapshot()
	s.logger.Debug("map scene rendered",
		logging.Int("markers", len(snap.Markers)),
		logging.Int("lines", len(snap.Lines)),
		logging.String("expand", string(req.Expand)))
	return &snap, nil
}

// ChildLayout computes the ring for count children around parent.
func ChildLayout(parent ScreenPoint, count int) (*LayoutResult, error) {
	if count < 0 {
		return nil, errors.NewValidationError("count", "count must be >= 0")
	}
	res := &LayoutResult{Parent: parent, Points: Layout(parent, count)}
	if count > 0 {
		res.Radius = Radius(count)
	}
	if res.Points == nil {
		res.Points = []ScreenPoint{}
	}
	return res, nil
}

//Personal.AI order the ending
