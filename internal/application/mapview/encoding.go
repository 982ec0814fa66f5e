package mapview

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Status palette.
const (
	ColorOperating = "#22c55e"
	ColorRetired   = "#f59e0b"
	ColorPlanning  = "#3b82f6"
	ColorDefault   = "#9ca3af"
)

// Shapes.
const (
	ShapeCircle     = "circle"
	ShapeTriangleUp = "triangle-up"
)

// TransactionNodeSize is the diameter of deal nodes in pixels.
const TransactionNodeSize = 14.0

// NodeKind is the source of a node.
type NodeKind string

const (
	KindGlobal      NodeKind = "global"
	KindProject     NodeKind = "project"
	KindTransaction NodeKind = "transaction"
)

// Style is the visual encoding of one node.
type Style struct {
	Shape   string  `json:"shape"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Size    float64 `json:"size"`
	Label   string  `json:"label,omitempty"`
}

// StatusColor maps an operating status onto the palette, case-insensitively.
func StatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "operating":
		return ColorOperating
	case "retired":
		return ColorRetired
	case "planning", "planned":
		return ColorPlanning
	default:
		return ColorDefault
	}
}

// NodeStyle returns the encoding for a node of kind with status. Sizes of
// global and project nodes are set by SizeForCapacity.
func NodeStyle(kind NodeKind, status string) Style {
	s := Style{Color: StatusColor(status)}
	switch kind {
	case KindProject:
		s.Shape = ShapeTriangleUp
		s.Opacity = 1.0
		s.Size = SizeForCapacity(0)
	case KindTransaction:
		s.Shape = ShapeCircle
		s.Opacity = 1.0
		s.Size = TransactionNodeSize
		s.Label = StatusInitial(status)
	default:
		s.Shape = ShapeCircle
		s.Opacity = 0.6
		s.Size = SizeForCapacity(0)
	}
	return s
}

// StatusInitial is the upper-cased first letter of status, "?" when empty.
func StatusInitial(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(status)
	return string(unicode.ToUpper(r))
}

// SizeForCapacity scales node diameter with the square root of capacity,
// between 6 and 30 pixels.
func SizeForCapacity(mw float64) float64 {
	if mw <= 0 {
		return 6
	}
	return math.Min(30, 6+math.Sqrt(mw)/2)
}

//Personal.AI order the ending
