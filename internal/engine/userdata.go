package engine

import (
	"maps"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/render"
)

// TransformState is a node transform as stored in documents.
type TransformState struct {
	Position render.Vec3 `json:"position"`
	Rotation render.Quat `json:"rotation"`
	Scale    render.Vec3 `json:"scale"`
	// Euler, in degrees, is only read when Rotation is absent.
	Euler *render.Vec3 `json:"euler,omitempty"`
}

func CaptureTransform(pos rl.Vector3, rot rl.Quaternion, scale rl.Vector3) TransformState {
	return TransformState{Position: render.V3(pos), Rotation: render.Q(rot), Scale: render.V3(scale)}
}

func (t TransformState) Quaternion() rl.Quaternion {
	if t.Rotation == (render.Quat{}) && t.Euler != nil {
		return rl.QuaternionFromEuler(t.Euler.X*rl.Deg2rad, t.Euler.Y*rl.Deg2rad, t.Euler.Z*rl.Deg2rad)
	}
	return t.Rotation.RL()
}

// ScaleOrOne treats a missing scale as unit scale.
func (t TransformState) ScaleOrOne() rl.Vector3 {
	if t.Scale == (render.Vec3{}) {
		return rl.Vector3One()
	}
	return t.Scale.RL()
}

// PhysicsParams are the per-entity simulation parameters. Nil fields take
// the defaults below.
type PhysicsParams struct {
	Enabled     bool     `json:"enabled"`
	Mass        *float32 `json:"mass,omitempty"`
	Friction    *float32 `json:"friction,omitempty"`
	Density     *float32 `json:"density,omitempty"`
	Restitution *float32 `json:"restitution,omitempty"`
}

const (
	DefaultMass        = 1
	DefaultFriction    = 0.5
	DefaultDensity     = 1
	DefaultRestitution = 0
)

func (p PhysicsParams) MassValue() float32     { return orDefault(p.Mass, DefaultMass) }
func (p PhysicsParams) FrictionValue() float32 { return orDefault(p.Friction, DefaultFriction) }
func (p PhysicsParams) DensityValue() float32  { return orDefault(p.Density, DefaultDensity) }
func (p PhysicsParams) RestitutionValue() float32 {
	return orDefault(p.Restitution, DefaultRestitution)
}

func orDefault(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}

// F returns a pointer to v, for filling PhysicsParams.
func F(v float32) *float32 { return &v }

type Material struct {
	Color     string  `json:"color,omitempty"`
	Roughness float32 `json:"roughness,omitempty"`
	Metalness float32 `json:"metalness,omitempty"`
	Texture   string  `json:"texture,omitempty"`
}

// UserData is the bag of per-entity parameters that survives save/load.
type UserData struct {
	Geometry  render.Geometry  `json:"geometry"`
	Material  Material         `json:"material"`
	Physics   PhysicsParams    `json:"physics"`
	Transform TransformState   `json:"transform"`
	Instances []TransformState `json:"instances,omitempty"`
	Extra     map[string]any   `json:"extra,omitempty"`
}

// Clone returns a copy that shares no slices or maps with u.
func (u UserData) Clone() UserData {
	out := u
	out.Geometry.Points = slices.Clone(u.Geometry.Points)
	out.Geometry.Heights = slices.Clone(u.Geometry.Heights)
	out.Instances = slices.Clone(u.Instances)
	out.Extra = maps.Clone(u.Extra)
	if u.Transform.Euler != nil {
		e := *u.Transform.Euler
		out.Transform.Euler = &e
	}
	p := u.Physics
	out.Physics.Mass = clonePtr(p.Mass)
	out.Physics.Friction = clonePtr(p.Friction)
	out.Physics.Density = clonePtr(p.Density)
	out.Physics.Restitution = clonePtr(p.Restitution)
	return out
}

func clonePtr(v *float32) *float32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
