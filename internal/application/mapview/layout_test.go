package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_FourChildren(t *testing.T) {
	pts := Layout(ScreenPoint{X: 100, Y: 100}, 4)

	require.Len(t, pts, 4)
	assert.InDelta(t, 100, pts[0].X, 1e-9)
	assert.InDelta(t, -20, pts[0].Y, 1e-9)
	assert.InDelta(t, 220, pts[1].X, 1e-9)
	assert.InDelta(t, 100, pts[1].Y, 1e-9)
	assert.InDelta(t, 100, pts[2].X, 1e-9)
	assert.InDelta(t, 220, pts[2].Y, 1e-9)
	assert.InDelta(t, -20, pts[3].X, 1e-9)
	assert.InDelta(t, 100, pts[3].Y, 1e-9)
}

func TestLayout_TranslationInvariant(t *testing.T) {
	a := Layout(ScreenPoint{X: 0, Y: 0}, 7)
	b := Layout(ScreenPoint{X: 35.5, Y: -12}, 7)

	for i := range a {
		assert.InDelta(t, a[i].X+35.5, b[i].X, 1e-9)
		assert.InDelta(t, a[i].Y-12, b[i].Y, 1e-9)
	}
}

func TestLayout_AllOnRadius(t *testing.T) {
	for _, count := range []int{1, 2, 3, 10, 25} {
		for _, p := range Layout(ScreenPoint{}, count) {
			assert.InDelta(t, Radius(count)*Radius(count), p.X*p.X+p.Y*p.Y, 1e-6)
		}
	}
}

func TestLayout_NonPositiveCount(t *testing.T) {
	assert.Nil(t, Layout(ScreenPoint{X: 1, Y: 1}, 0))
	assert.Nil(t, Layout(ScreenPoint{X: 1, Y: 1}, -3))
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 90.0, Radius(1))
	assert.Equal(t, 120.0, Radius(4))
}

func TestChildLayout(t *testing.T) {
	res, err := ChildLayout(ScreenPoint{X: 100, Y: 100}, 4)
	require.NoError(t, err)
	assert.Equal(t, 120.0, res.Radius)
	assert.Len(t, res.Points, 4)

	res, err = ChildLayout(ScreenPoint{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, res.Points)
	assert.Zero(t, res.Radius)

	_, err = ChildLayout(ScreenPoint{}, -1)
	assert.Error(t, err)
}

//Personal.AI order the ending
