package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
)

// Built-in entity types.
const (
	TypeMesh      = "mesh"
	TypeInstanced = "instanced"
	TypeCharacter = "character"
	TypeMarker    = "marker"
)

// Character defaults.
const (
	CharacterRadius = 0.4
	CharacterHeight = 1.0
)

func RegisterTypes(r *engine.EntityTypeRegistry) {
	r.Register(TypeMesh, engine.EntityType{Setup: setupMesh})
	r.Register(TypeInstanced, engine.EntityType{Setup: setupInstanced})
	r.Register(TypeCharacter, engine.EntityType{Setup: setupCharacter})
	r.Register(TypeMarker, engine.EntityType{Setup: setupMarker})
}

// setupMesh folds the node scale into the geometry so the stored document
// always carries unit scale and reloading does not scale twice.
func setupMesh(e *engine.Entity) error {
	n := e.Node()
	if n.Scale == rl.Vector3One() || n.Geometry.IsNone() {
		return nil
	}
	n.Geometry = n.Geometry.BakeScale(n.Scale)
	n.Scale = rl.Vector3One()
	e.UserData.Geometry = n.Geometry
	e.UserData.Transform.Scale = render.V3(n.Scale)
	return nil
}

// setupInstanced rebuilds the instance buffer from user data. Instance
// scale stays per instance; the physics layer bakes it per body.
func setupInstanced(e *engine.Entity) error {
	n := e.Node()
	n.Instances = n.Instances[:0]
	for _, tr := range e.UserData.Instances {
		in := render.NewInstance(tr.Position.RL())
		in.Rotation = tr.Quaternion()
		in.Scale = tr.ScaleOrOne()
		n.Instances = append(n.Instances, in)
	}
	return nil
}

// setupCharacter gives characters a capsule and a kinematic body unless
// the document says otherwise.
func setupCharacter(e *engine.Entity) error {
	if e.UserData.Geometry.IsNone() {
		e.UserData.Geometry = render.Capsule(CharacterRadius, CharacterHeight)
		e.Node().Geometry = e.UserData.Geometry
	}
	if e.UserData.Physics.Mass == nil {
		e.UserData.Physics.Mass = engine.F(-1)
	}
	return setupMesh(e)
}

func setupMarker(e *engine.Entity) error {
	e.UserData.Geometry = render.Geometry{Kind: render.KindNone}
	e.UserData.Physics.Enabled = false
	e.Node().Geometry = e.UserData.Geometry
	return nil
}
