// Package mapview places plant, project and deal nodes on a map and expands
// one plant at a time into a ring of its deals. It drives any map engine
// through the Engine interface; Scene is the in-process engine used by the
// API to render layouts for thin clients.
package mapview

// ScreenPoint is a position in screen pixels, y growing downwards.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LngLat is a geographic position in degrees.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Marker describes what to draw for a node.
type Marker struct {
	NodeID NodeID `json:"node_id"`
	Title  string `json:"title,omitempty"`
	Style  Style  `json:"style"`
}

// MarkerHandle controls a marker added to an Engine.
type MarkerHandle interface {
	// SetPosition pins the marker to a screen position.
	SetPosition(p ScreenPoint)
	Remove()
}

// LineHandle controls a line drawn on an Engine.
type LineHandle interface {
	SetEndpoints(from, to ScreenPoint)
	Remove()
}

// Engine is the set of map capabilities this package uses.
type Engine interface {
	Project(ll LngLat) ScreenPoint
	AddMarker(ll LngLat, m Marker) (MarkerHandle, error)
	DrawLine(from, to ScreenPoint, color string) LineHandle
	// OnViewChange registers fn for move and zoom events.
	OnViewChange(fn func()) (unsubscribe func())
	FlyTo(center LngLat, zoom float64)
}

//Personal.AI order the ending
