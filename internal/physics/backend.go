package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// BodyID is a backend body handle. Zero is never a valid body.
type BodyID uint32

type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Static
	Kinematic
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

// KindForMass classifies a body: positive mass simulates, zero is fixed,
// negative is driven explicitly.
func KindForMass(mass float32) BodyKind {
	switch {
	case mass > 0:
		return Dynamic
	case mass == 0:
		return Static
	default:
		return Kinematic
	}
}

// BodyDesc describes one body and its collider.
type BodyDesc struct {
	Kind        BodyKind
	Shape       Shape
	Position    rl.Vector3
	Rotation    rl.Quaternion
	Mass        float32
	Friction    float32
	Restitution float32
}

// ContactEvent is a begin or end of contact between two bodies.
type ContactEvent struct {
	A, B    BodyID
	Started bool
}

// Backend is the rigid-body simulator the layer drives. Implementations own
// every native resource; nothing outside the layer holds a BodyID past the
// call that returned it.
type Backend interface {
	Name() string
	CreateBody(desc BodyDesc) (BodyID, error)
	RemoveBody(id BodyID)
	BodyCount() int

	Step(dt float32)
	// DrainEvents returns contact events queued since the last drain.
	DrainEvents() []ContactEvent

	SetGravity(g rl.Vector3)
	Transform(id BodyID) (rl.Vector3, rl.Quaternion, bool)
	SetTransform(id BodyID, pos rl.Vector3, rot rl.Quaternion)
	// MoveKinematic sets the position a kinematic body reaches on the next step.
	MoveKinematic(id BodyID, pos rl.Vector3)
	Velocity(id BodyID) (rl.Vector3, bool)
	SetVelocity(id BodyID, v rl.Vector3)
	ApplyImpulse(id BodyID, impulse, point rl.Vector3)
	// MoveCharacter computes how far a body can move by desired before
	// hitting something. It does not move the body.
	MoveCharacter(id BodyID, desired rl.Vector3) (rl.Vector3, bool)

	Close()
}
