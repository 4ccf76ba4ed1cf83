package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mironco/scenecore/internal/render"
)

func TestShapeForEveryPhysicsKind(t *testing.T) {
	cases := []render.Geometry{
		render.Box(1, 2, 3),
		{Kind: render.KindRoundedBox, Width: 1, Height: 1, Depth: 1, Radius: 0.1},
		render.Sphere(1),
		render.Capsule(0.5, 1),
		{Kind: render.KindConvex, Points: []render.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: -1, Y: -1, Z: -1}}},
		{Kind: render.KindHeightfield, Width: 4, Depth: 4, Rows: 2, Cols: 2, Heights: []float32{0, 1, 2, 3}},
	}
	for _, g := range cases {
		s, err := ShapeFor(g)
		require.NoError(t, err, g.Kind)
		assert.Equal(t, g.Kind, s.Kind)
		assert.False(t, s.LocalBounds().IsEmpty(), g.Kind)
	}
}

func TestShapeForRejects(t *testing.T) {
	for _, g := range []render.Geometry{
		{Kind: render.KindPlane, Width: 1, Depth: 1},
		{Kind: render.KindTorus, Radius: 1, Tube: 0.1},
		{Kind: render.KindNone},
		{Kind: "teapot"},
		render.Box(0, 1, 1),
		{Kind: render.KindHeightfield, Rows: 2, Cols: 2, Heights: []float32{1}},
	} {
		_, err := ShapeFor(g)
		assert.ErrorIs(t, err, ErrUnsupportedGeometry, g.Kind)
	}
}

func TestHeightfieldSampling(t *testing.T) {
	s, err := ShapeFor(render.Geometry{Kind: render.KindHeightfield, Width: 2, Depth: 2, Rows: 2, Cols: 2, Heights: []float32{0, 2, 0, 2}})
	require.NoError(t, err)

	h, ok := s.HeightAt(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 1, h, 1e-5)

	h, _ = s.HeightAt(1, -1)
	assert.InDelta(t, 2, h, 1e-5)

	_, ok = s.HeightAt(5, 0)
	assert.False(t, ok)
}

func TestVolume(t *testing.T) {
	s, _ := ShapeFor(render.Box(2, 3, 4))
	assert.InDelta(t, 24, s.Volume(), 1e-5)
	c, _ := ShapeFor(render.Capsule(1, 0))
	assert.InDelta(t, 4.18879, c.Volume(), 1e-4)
}
