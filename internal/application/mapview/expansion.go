package mapview

import (
	"sync"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// expansion is everything drawn for one expanded node.
type expansion struct {
	parent      Node
	markers     []MarkerHandle
	lines       []LineHandle
	unsubscribe func()
}

// Controller owns the single expanded node of a map. At most one node is
// expanded at a time; expanding another collapses the current one.
type Controller struct {
	engine Engine

	mu      sync.Mutex
	current *expansion
	closed  bool
}

// NewController binds a Controller to engine.
func NewController(engine Engine) *Controller {
	return &Controller{engine: engine}
}

// Toggle collapses node if it is expanded and expands it otherwise. It
// reports whether node is expanded afterwards. Nodes without children are
// never expanded.
func (c *Controller) Toggle(node Node) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, errors.New(errors.ErrCodeConflict, "map view closed")
	}
	if c.current != nil && c.current.parent.ID == node.ID {
		c.teardownLocked()
		return false, nil
	}
	c.teardownLocked()
	if len(node.Children) == 0 {
		return false, nil
	}

	exp := &expansion{parent: node}
	parentPt := c.engine.Project(node.Position)
	points := Layout(parentPt, len(node.Children))
	for i, child := range node.Children {
		h, err := c.engine.AddMarker(node.Position, child.Marker())
		if err != nil {
			removeAll(exp)
			return false, errors.Wrap(err, errors.ErrCodeInternal, "add child marker")
		}
		h.SetPosition(points[i])
		exp.markers = append(exp.markers, h)
		exp.lines = append(exp.lines, c.engine.DrawLine(parentPt, points[i], StatusColor(child.Status)))
	}
	exp.unsubscribe = c.engine.OnViewChange(func() { c.reposition(exp) })
	c.current = exp
	return true, nil
}

// reposition recomputes child positions from the parent's projected point.
// It is a no-op once exp is no longer the live expansion.
func (c *Controller) reposition(exp *expansion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != exp {
		return
	}
	parentPt := c.engine.Project(exp.parent.Position)
	points := Layout(parentPt, len(exp.markers))
	for i, p := range points {
		exp.markers[i].SetPosition(p)
		exp.lines[i].SetEndpoints(parentPt, p)
	}
}

// Collapse removes the current expansion, if any.
func (c *Controller) Collapse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// Close collapses and rejects further toggles.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.closed = true
}

// Expanded returns the expanded node.
func (c *Controller) Expanded() (NodeID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return "", false
	}
	return c.current.parent.ID, true
}

func (c *Controller) teardownLocked() {
	if c.current == nil {
		return
	}
	removeAll(c.current)
	c.current = nil
}

func removeAll(exp *expansion) {
	if exp.unsubscribe != nil {
		exp.unsubscribe()
		exp.unsubscribe = nil
	}
	for _, m := range exp.markers {
		m.Remove()
	}
	for _, l := range exp.lines {
		l.Remove()
	}
	exp.markers, exp.lines = nil, nil
}

//Personal.AI order the ending
