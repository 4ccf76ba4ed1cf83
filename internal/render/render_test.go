package render

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBakeScaleBox(t *testing.T) {
	g := Box(2, 1, 3).BakeScale(rl.Vector3{X: 2, Y: 1, Z: 1})
	assert.Equal(t, float32(4), g.Width)
	assert.Equal(t, float32(1), g.Height)
	assert.Equal(t, float32(3), g.Depth)

	again := g.BakeScale(rl.Vector3One())
	assert.Equal(t, g, again)
}

func TestBakeScaleRound(t *testing.T) {
	s := Sphere(1).BakeScale(rl.Vector3{X: 1, Y: 3, Z: 2})
	assert.Equal(t, float32(3), s.Radius)

	c := Capsule(0.5, 2).BakeScale(rl.Vector3{X: 2, Y: 3, Z: 1})
	assert.Equal(t, float32(1), c.Radius)
	assert.Equal(t, float32(6), c.Height)
}

func TestBakeScaleHeightfieldCopies(t *testing.T) {
	g := Geometry{Kind: KindHeightfield, Width: 10, Depth: 10, Rows: 2, Cols: 2, Heights: []float32{0, 1, 2, 3}}
	baked := g.BakeScale(rl.Vector3{X: 1, Y: 2, Z: 1})
	assert.Equal(t, []float32{0, 2, 4, 6}, baked.Heights)
	assert.Equal(t, float32(1), g.Heights[1], "source must not be mutated")
	assert.Equal(t, float32(6), baked.HeightAt(1, 1))
	assert.Zero(t, baked.HeightAt(5, 0))
}

func TestNodeWorldBounds(t *testing.T) {
	tree := NewTree()
	parent := NewNode("parent", Geometry{Kind: KindNone})
	parent.Position = rl.Vector3{X: 10}
	child := NewNode("child", Box(2, 2, 2))
	child.Position = rl.Vector3{Y: 5}

	tree.Attach(parent, nil)
	tree.Attach(child, parent)

	b := child.WorldBounds()
	assert.InDelta(t, 9, b.Min.X, 1e-5)
	assert.InDelta(t, 11, b.Max.X, 1e-5)
	assert.InDelta(t, 4, b.Min.Y, 1e-5)
	assert.True(t, parent.WorldBounds().IsEmpty())
}

func TestInstancedBoundsUnion(t *testing.T) {
	n := NewNode("batch", Box(1, 1, 1))
	n.Instances = []Instance{NewInstance(rl.Vector3{X: -5}), NewInstance(rl.Vector3{X: 5})}

	b := n.WorldBounds()
	assert.InDelta(t, -5.5, b.Min.X, 1e-5)
	assert.InDelta(t, 5.5, b.Max.X, 1e-5)
	assert.InDelta(t, 4.5, n.InstanceBounds(1).Min.X, 1e-5)
}

func TestTreeAttachDetach(t *testing.T) {
	tree := NewTree()
	a := NewNode("a", Box(1, 1, 1))
	b := NewNode("b", Box(1, 1, 1))

	tree.Attach(a, nil)
	tree.Attach(b, a)
	require.Equal(t, 2, tree.Len())
	assert.Same(t, a, b.Parent())

	// moving reparents
	tree.Attach(b, nil)
	assert.Empty(t, a.Children())
	assert.Same(t, tree.Root, b.Parent())

	tree.Detach(b, nil)
	assert.Nil(t, b.Parent())
	assert.Equal(t, 1, tree.Len())

	tree.Detach(b, nil)
	tree.Detach(a, b)
	assert.Equal(t, 1, tree.Len())

	tree.SetVisible(a, false)
	assert.False(t, a.Visible)
}

func TestWorldRotationComposes(t *testing.T) {
	tree := NewTree()
	quarter := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 90*rl.Deg2rad)
	parent := NewNode("p", Geometry{})
	parent.Rotation = quarter
	child := NewNode("c", Geometry{})
	child.Rotation = quarter
	child.Position = rl.Vector3{X: 1}
	tree.Attach(parent, nil)
	tree.Attach(child, parent)

	pos := child.WorldPosition()
	assert.InDelta(t, 0, pos.X, 1e-5)
	assert.InDelta(t, -1, pos.Z, 1e-5)

	fwd := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, child.WorldRotation())
	assert.InDelta(t, -1, fwd.X, 1e-5)
}

func TestQuatZeroIsIdentity(t *testing.T) {
	assert.Equal(t, rl.QuaternionIdentity(), Quat{}.RL())
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, V3(rl.Vector3{X: 1, Y: 2, Z: 3}))
}
