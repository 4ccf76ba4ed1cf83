// Package rigid is a small 3D rigid-body backend: semi-implicit Euler
// integration, OBB/sphere/capsule/heightfield contacts with impulse
// resolution, and begin/end contact tracking.
package rigid

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/physics"
)

const (
	angularDamping = 0.98
	sleepSpeed     = 0.05
	maxSpeed       = 200
)

type body struct {
	id          physics.BodyID
	kind        physics.BodyKind
	shape       physics.Shape
	pos         rl.Vector3
	rot         rl.Quaternion
	vel         rl.Vector3
	angVel      rl.Vector3 // radians/s
	invMass     float32
	friction    float32
	restitution float32
	target      *rl.Vector3
}

func (b *body) bounds() bounds.AABB {
	return b.shape.LocalBounds().Transform(b.matrix())
}

func (b *body) matrix() rl.Matrix {
	return rl.MatrixMultiply(rl.QuaternionToMatrix(b.rot), rl.MatrixTranslate(b.pos.X, b.pos.Y, b.pos.Z))
}

// pair is a body pair with the smaller id first.
type pair struct {
	A, B physics.BodyID
}

func makePair(a, b physics.BodyID) pair {
	if a > b {
		return pair{A: b, B: a}
	}
	return pair{A: a, B: b}
}

var _ physics.Backend = (*World)(nil)

// World implements physics.Backend.
type World struct {
	gravity rl.Vector3
	bodies  map[physics.BodyID]*body
	order   []*body
	nextID  physics.BodyID

	// contacts from the last step and the one in progress
	activeContacts  map[pair]bool
	currentContacts map[pair]bool
	events          []physics.ContactEvent

	grid map[cellKey][]int

	log *zap.Logger
}

func New(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		bodies:          make(map[physics.BodyID]*body),
		grid:            make(map[cellKey][]int),
		activeContacts:  make(map[pair]bool),
		currentContacts: make(map[pair]bool),
		log:             log.Named("rigid"),
	}
}

func (w *World) Name() string { return "rigid" }

func (w *World) CreateBody(d physics.BodyDesc) (physics.BodyID, error) {
	if d.Kind == physics.Dynamic && d.Mass <= 0 {
		return 0, fmt.Errorf("dynamic body needs positive mass, got %v", d.Mass)
	}
	rot := d.Rotation
	if rot == (rl.Quaternion{}) {
		rot = rl.QuaternionIdentity()
	}
	w.nextID++
	b := &body{
		id:          w.nextID,
		kind:        d.Kind,
		shape:       d.Shape,
		pos:         d.Position,
		rot:         rot,
		friction:    d.Friction,
		restitution: d.Restitution,
	}
	if d.Kind == physics.Dynamic {
		b.invMass = 1 / d.Mass
	}
	w.bodies[b.id] = b
	w.order = append(w.order, b)
	return b.id, nil
}

// RemoveBody drops the body and any contact it was part of without
// emitting end events.
func (w *World) RemoveBody(id physics.BodyID) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	delete(w.bodies, id)
	for i, o := range w.order {
		if o == b {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for p := range w.activeContacts {
		if p.A == id || p.B == id {
			delete(w.activeContacts, p)
		}
	}
}

func (w *World) BodyCount() int { return len(w.bodies) }

func (w *World) SetGravity(g rl.Vector3) { w.gravity = g }

func (w *World) Transform(id physics.BodyID) (rl.Vector3, rl.Quaternion, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return rl.Vector3{}, rl.Quaternion{}, false
	}
	return b.pos, b.rot, true
}

func (w *World) SetTransform(id physics.BodyID, pos rl.Vector3, rot rl.Quaternion) {
	if b, ok := w.bodies[id]; ok {
		b.pos = pos
		b.rot = rl.QuaternionNormalize(rot)
		b.target = nil
	}
}

func (w *World) MoveKinematic(id physics.BodyID, pos rl.Vector3) {
	if b, ok := w.bodies[id]; ok && b.kind == physics.Kinematic {
		b.target = &pos
	}
}

func (w *World) Velocity(id physics.BodyID) (rl.Vector3, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	return b.vel, true
}

func (w *World) SetVelocity(id physics.BodyID, v rl.Vector3) {
	if b, ok := w.bodies[id]; ok && b.kind != physics.Static {
		b.vel = v
	}
}

// ApplyImpulse changes linear velocity and adds spin from the lever arm.
func (w *World) ApplyImpulse(id physics.BodyID, impulse, point rl.Vector3) {
	b, ok := w.bodies[id]
	if !ok || b.kind != physics.Dynamic {
		return
	}
	b.vel = rl.Vector3Add(b.vel, rl.Vector3Scale(impulse, b.invMass))
	r := rl.Vector3Subtract(point, b.pos)
	torque := rl.Vector3CrossProduct(r, impulse)
	b.angVel = rl.Vector3Add(b.angVel, rl.Vector3Scale(torque, b.invMass))
}

func (w *World) DrainEvents() []physics.ContactEvent {
	out := w.events
	w.events = nil
	return out
}

func (w *World) Close() {
	w.bodies = make(map[physics.BodyID]*body)
	w.order = nil
	w.activeContacts = make(map[pair]bool)
	w.currentContacts = make(map[pair]bool)
	w.events = nil
}

func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.currentContacts = make(map[pair]bool)

	// 1. Integrate
	for _, b := range w.order {
		switch b.kind {
		case physics.Kinematic:
			if b.target != nil {
				b.vel = rl.Vector3Scale(rl.Vector3Subtract(*b.target, b.pos), 1/dt)
				b.pos = *b.target
				b.target = nil
			} else {
				b.vel = rl.Vector3{}
			}
		case physics.Dynamic:
			b.vel = rl.Vector3Add(b.vel, rl.Vector3Scale(w.gravity, dt))
			if s := rl.Vector3Length(b.vel); s > maxSpeed {
				b.vel = rl.Vector3Scale(b.vel, maxSpeed/s)
			}
			b.pos = rl.Vector3Add(b.pos, rl.Vector3Scale(b.vel, dt))
			b.rot = integrateRotation(b.rot, b.angVel, dt)
			b.angVel = rl.Vector3Scale(b.angVel, angularDamping)
		}
	}

	// 2. Contacts, broad phase on the spatial grid
	boxes := make([]bounds.AABB, len(w.order))
	for i, b := range w.order {
		boxes[i] = b.bounds()
	}
	for _, ij := range w.broadPhase(boxes) {
		a, b := w.order[ij[0]], w.order[ij[1]]
		c, ok := contact(a, b)
		if !ok {
			continue
		}
		w.currentContacts[makePair(a.id, b.id)] = true
		resolve(a, b, c)
	}

	// 3. Begin/end events
	w.dispatchContacts()
}

// dispatchContacts queues begin events for new pairs and end events for
// pairs that stopped touching, in id order.
func (w *World) dispatchContacts() {
	var begun, ended []pair
	for p := range w.currentContacts {
		if !w.activeContacts[p] {
			begun = append(begun, p)
		}
	}
	for p := range w.activeContacts {
		if !w.currentContacts[p] {
			ended = append(ended, p)
		}
	}
	sortPairs(begun)
	sortPairs(ended)
	for _, p := range begun {
		w.events = append(w.events, physics.ContactEvent{A: p.A, B: p.B, Started: true})
	}
	for _, p := range ended {
		w.events = append(w.events, physics.ContactEvent{A: p.A, B: p.B, Started: false})
	}
	w.activeContacts = w.currentContacts
}

func sortPairs(ps []pair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].A != ps[j].A {
			return ps[i].A < ps[j].A
		}
		return ps[i].B < ps[j].B
	})
}

func integrateRotation(q rl.Quaternion, w rl.Vector3, dt float32) rl.Quaternion {
	if w == (rl.Vector3{}) {
		return q
	}
	spin := rl.QuaternionMultiply(rl.Quaternion{X: w.X, Y: w.Y, Z: w.Z}, q)
	q.X += 0.5 * dt * spin.X
	q.Y += 0.5 * dt * spin.Y
	q.Z += 0.5 * dt * spin.Z
	q.W += 0.5 * dt * spin.W
	return rl.QuaternionNormalize(q)
}
