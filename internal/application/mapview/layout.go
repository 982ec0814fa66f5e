package mapview

import "math"

const (
	// BaseRadius and RadiusStep give the ring radius: BaseRadius + RadiusStep*count.
	BaseRadius = 80.0
	RadiusStep = 10.0
)

// Radius returns the ring radius for count children.
func Radius(count int) float64 {
	return BaseRadius + RadiusStep*float64(count)
}

// Layout places count children evenly on a circle around parent. Child 0 sits
// straight above the parent and the rest follow clockwise on screen.
func Layout(parent ScreenPoint, count int) []ScreenPoint {
	if count <= 0 {
		return nil
	}
	r := Radius(count)
	out := make([]ScreenPoint, count)
	for i := range out {
		theta := 2*math.Pi*float64(i)/float64(count) - math.Pi/2
		out[i] = ScreenPoint{
			X: parent.X + r*math.Cos(theta),
			Y: parent.Y + r*math.Sin(theta),
		}
	}
	return out
}

//Personal.AI order the ending
