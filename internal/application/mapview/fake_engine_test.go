package mapview

import (
	"errors"
	"sync"
)

// fakeEngine projects lng/lat linearly with a pan offset and records every
// call.
type fakeEngine struct {
	mu        sync.Mutex
	offset    ScreenPoint
	markers   map[int]*fakeMarker
	lines     map[int]*fakeLine
	listeners map[int]func()
	captured  []func()
	nextID    int
	added     int
	failAfter int
	onAdd     func(n int)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		markers:   map[int]*fakeMarker{},
		lines:     map[int]*fakeLine{},
		listeners: map[int]func(){},
		failAfter: -1,
	}
}

type fakeMarker struct {
	e      *fakeEngine
	id     int
	pos    ScreenPoint
	marker Marker
	sets   int
}

type fakeLine struct {
	e        *fakeEngine
	id       int
	from, to ScreenPoint
	color    string
}

func (e *fakeEngine) Project(ll LngLat) ScreenPoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ScreenPoint{X: ll.Lng*10 + e.offset.X, Y: -ll.Lat*10 + e.offset.Y}
}

func (e *fakeEngine) AddMarker(ll LngLat, m Marker) (MarkerHandle, error) {
	e.mu.Lock()
	if e.failAfter >= 0 && e.added >= e.failAfter {
		e.mu.Unlock()
		return nil, errors.New("engine full")
	}
	e.nextID++
	e.added++
	n := e.added
	fm := &fakeMarker{e: e, id: e.nextID, marker: m,
		pos: ScreenPoint{X: ll.Lng*10 + e.offset.X, Y: -ll.Lat*10 + e.offset.Y}}
	e.markers[fm.id] = fm
	hook := e.onAdd
	e.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return fm, nil
}

func (e *fakeEngine) DrawLine(from, to ScreenPoint, color string) LineHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	l := &fakeLine{e: e, id: e.nextID, from: from, to: to, color: color}
	e.lines[l.id] = l
	return l
}

func (e *fakeEngine) OnViewChange(fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[id] = fn
	e.captured = append(e.captured, fn)
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// FlyTo pans by the center delta and fires listeners.
func (e *fakeEngine) FlyTo(center LngLat, _ float64) {
	e.pan(ScreenPoint{X: -center.Lng * 10, Y: center.Lat * 10})
}

func (e *fakeEngine) pan(offset ScreenPoint) {
	e.mu.Lock()
	e.offset = offset
	fns := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (e *fakeEngine) counts() (markers, lines, listeners int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.markers), len(e.lines), len(e.listeners)
}

func (e *fakeEngine) sortedMarkers() []*fakeMarker {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*fakeMarker, 0, len(e.markers))
	for id := 1; id <= e.nextID; id++ {
		if m, ok := e.markers[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (m *fakeMarker) SetPosition(p ScreenPoint) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	m.pos = p
	m.sets++
}

func (m *fakeMarker) Remove() {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	delete(m.e.markers, m.id)
}

func (l *fakeLine) SetEndpoints(from, to ScreenPoint) {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	l.from, l.to = from, to
}

func (l *fakeLine) Remove() {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	delete(l.e.lines, l.id)
}

func parentWith(id string, pos LngLat, statuses ...string) Node {
	n := Node{ID: NodeID(id), Kind: KindGlobal, Name: id, Position: pos}
	for i, st := range statuses {
		n.Children = append(n.Children, Node{
			ID:     NodeID(id + "-child-" + string(rune('a'+i))),
			Kind:   KindTransaction,
			Status: st,
			Style:  NodeStyle(KindTransaction, st),
		})
	}
	return n
}

//Personal.AI order the ending
