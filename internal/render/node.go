package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
)

// Instance is one element of a batched node's instance buffer, in the
// node's local space.
type Instance struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

func NewInstance(pos rl.Vector3) Instance {
	return Instance{Position: pos, Rotation: rl.QuaternionIdentity(), Scale: rl.Vector3One()}
}

func (i Instance) Matrix() rl.Matrix {
	return trs(i.Position, i.Rotation, i.Scale)
}

// Node is a headless render-graph node. EntityID is the back-reference to
// the owning entity (0 when the node belongs to none).
type Node struct {
	Name      string
	Position  rl.Vector3
	Rotation  rl.Quaternion
	Scale     rl.Vector3
	Geometry  Geometry
	Visible   bool
	EntityID  uint64
	Instances []Instance

	parent   *Node
	children []*Node
}

func NewNode(name string, geom Geometry) *Node {
	return &Node{
		Name:     name,
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3One(),
		Geometry: geom,
		Visible:  true,
	}
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// IsInstanced reports whether the node draws from an instance buffer.
func (n *Node) IsInstanced() bool { return len(n.Instances) > 0 }

// LocalMatrix is scale, then rotation, then translation.
func (n *Node) LocalMatrix() rl.Matrix {
	return trs(n.Position, n.Rotation, n.Scale)
}

func (n *Node) WorldMatrix() rl.Matrix {
	m := n.LocalMatrix()
	if n.parent != nil {
		m = rl.MatrixMultiply(m, n.parent.WorldMatrix())
	}
	return m
}

func (n *Node) WorldPosition() rl.Vector3 {
	if n.parent == nil {
		return n.Position
	}
	return rl.Vector3Transform(n.Position, n.parent.WorldMatrix())
}

func (n *Node) WorldRotation() rl.Quaternion {
	if n.parent == nil {
		return n.Rotation
	}
	return rl.QuaternionMultiply(n.parent.WorldRotation(), n.Rotation)
}

// InstanceWorldMatrix returns the world transform of instance i.
func (n *Node) InstanceWorldMatrix(i int) rl.Matrix {
	return rl.MatrixMultiply(n.Instances[i].Matrix(), n.WorldMatrix())
}

// InstanceWorldPosition returns the world position of instance i.
func (n *Node) InstanceWorldPosition(i int) rl.Vector3 {
	return rl.Vector3Transform(n.Instances[i].Position, n.WorldMatrix())
}

// WorldBounds returns the AABB of the node geometry in world space.
// Instanced nodes return the union over every instance.
func (n *Node) WorldBounds() bounds.AABB {
	local := n.Geometry.LocalBounds()
	if local.IsEmpty() {
		return local
	}
	if !n.IsInstanced() {
		return local.Transform(n.WorldMatrix())
	}
	out := bounds.Empty()
	for i := range n.Instances {
		out = out.Union(local.Transform(n.InstanceWorldMatrix(i)))
	}
	return out
}

// InstanceBounds returns the world AABB of a single instance.
func (n *Node) InstanceBounds(i int) bounds.AABB {
	local := n.Geometry.LocalBounds()
	if local.IsEmpty() {
		return local
	}
	return local.Transform(n.InstanceWorldMatrix(i))
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func trs(pos rl.Vector3, rot rl.Quaternion, scale rl.Vector3) rl.Matrix {
	s := rl.MatrixScale(scale.X, scale.Y, scale.Z)
	r := rl.QuaternionToMatrix(rot)
	t := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(s, r), t)
}
