package mapview

import (
	"math"
	"sort"
	"sync"
)

// TileSize is the Web Mercator world width in pixels at zoom 0.
const TileSize = 256.0

const maxLatitude = 85.05112878

// Viewport is the visible window of a Scene.
type Viewport struct {
	Center LngLat  `json:"center"`
	Zoom   float64 `json:"zoom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MarkerView is a marker as placed on screen.
type MarkerView struct {
	Marker
	Position ScreenPoint `json:"position"`
}

// LineView is a drawn line.
type LineView struct {
	From  ScreenPoint `json:"from"`
	To    ScreenPoint `json:"to"`
	Color string      `json:"color"`
}

// SceneSnapshot is the drawable content of a Scene, in insertion order.
type SceneSnapshot struct {
	Viewport Viewport     `json:"viewport"`
	Markers  []MarkerView `json:"markers"`
	Lines    []LineView   `json:"lines"`
}

// Scene is an in-memory Engine with a Web Mercator projection. Markers
// follow their geographic position until pinned with SetPosition.
type Scene struct {
	mu        sync.Mutex
	vp        Viewport
	nextID    int
	markers   map[int]*sceneMarker
	lines     map[int]*sceneLine
	listeners map[int]func()
}

type sceneMarker struct {
	scene  *Scene
	id     int
	ll     LngLat
	pinned *ScreenPoint
	marker Marker
}

type sceneLine struct {
	scene    *Scene
	id       int
	from, to ScreenPoint
	color    string
}

// NewScene returns an empty scene showing vp.
func NewScene(vp Viewport) *Scene {
	return &Scene{
		vp:        vp,
		markers:   make(map[int]*sceneMarker),
		lines:     make(map[int]*sceneLine),
		listeners: make(map[int]func()),
	}
}

// Project maps ll to screen pixels for the current viewport.
func (s *Scene) Project(ll LngLat) ScreenPoint {
	s.mu.Lock()
	vp := s.vp
	s.mu.Unlock()
	return project(vp, ll)
}

func project(vp Viewport, ll LngLat) ScreenPoint {
	world := TileSize * math.Exp2(vp.Zoom)
	p := mercator(ll, world)
	c := mercator(vp.Center, world)
	return ScreenPoint{
		X: p.X - c.X + vp.Width/2,
		Y: p.Y - c.Y + vp.Height/2,
	}
}

func mercator(ll LngLat, world float64) ScreenPoint {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, ll.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	return ScreenPoint{
		X: (ll.Lng + 180) / 360 * world,
		Y: (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * world,
	}
}

func (s *Scene) AddMarker(ll LngLat, m Marker) (MarkerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sm := &sceneMarker{scene: s, id: s.nextID, ll: ll, marker: m}
	s.markers[sm.id] = sm
	return sm, nil
}

func (s *Scene) DrawLine(from, to ScreenPoint, color string) LineHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := &sceneLine{scene: s, id: s.nextID, from: from, to: to, color: color}
	s.lines[l.id] = l
	return l
}

func (s *Scene) OnViewChange(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// FlyTo moves the viewport and notifies view listeners outside the lock.
func (s *Scene) FlyTo(center LngLat, zoom float64) {
	s.mu.Lock()
	s.vp.Center = center
	s.vp.Zoom = zoom
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Viewport returns the current viewport.
func (s *Scene) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp
}

// ListenerCount returns the number of registered view listeners.
func (s *Scene) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// MarkerCount returns the number of live markers.
func (s *Scene) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// LineCount returns the number of live lines.
func (s *Scene) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Snapshot renders every live marker and line.
func (s *Scene) Snapshot() SceneSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SceneSnapshot{
		Viewport: s.vp,
		Markers:  make([]MarkerView, 0, len(s.markers)),
		Lines:    make([]LineView, 0, len(s.lines)),
	}
	for _, id := range sortedIDs(s.markers) {
		m := s.markers[id]
		pos := project(s.vp, m.ll)
		if m.pinned != nil {
			pos = *m.pinned
		}
		snap.Markers = append(snap.Markers, MarkerView{Marker: m.marker, Position: pos})
	}
	for _, id := range sortedIDs(s.lines) {
		l := s.lines[id]
		snap.Lines = append(snap.Lines, LineView{From: l.from, To: l.to, Color: l.color})
	}
	return snap
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (m *sceneMarker) SetPosition(p ScreenPoint) {
	m.scene.mu.Lock()
	defer m.scene.mu.Unlock()
	m.pinned = &p
}

func (m *sceneMarker) Remove() {
	m.scene.mu.Lock()
	defer m.scene.mu.Unlock()
	delete(m.scene.markers, m.id)
}

func (l *sceneLine) SetEndpoints(from, to ScreenPoint) {
	l.scene.mu.Lock()
	defer l.scene.mu.Unlock()
	l.from, l.to = from, to
}

func (l *sceneLine) Remove() {
	l.scene.mu.Lock()
	defer l.scene.mu.Unlock()
	delete(l.scene.lines, l.id)
}

var _ Engine = (*Scene)(nil)

//Personal.AI order the ending
