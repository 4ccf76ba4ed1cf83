package physics

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// fakeBackend integrates gravity only and emits whatever events the test
// queues.
type fakeBackend struct {
	next    BodyID
	bodies  map[BodyID]*fakeBody
	gravity rl.Vector3
	queued  []ContactEvent
	steps   []float32
	created int
	removed int
	failAt  int
	closed  bool
}

type fakeBody struct {
	desc    BodyDesc
	pos     rl.Vector3
	rot     rl.Quaternion
	vel     rl.Vector3
	target  *rl.Vector3
	impulse rl.Vector3
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{bodies: make(map[BodyID]*fakeBody)}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) CreateBody(d BodyDesc) (BodyID, error) {
	if f.failAt > 0 && f.created+1 == f.failAt {
		return 0, errors.New("backend refused")
	}
	f.created++
	f.next++
	f.bodies[f.next] = &fakeBody{desc: d, pos: d.Position, rot: d.Rotation}
	return f.next, nil
}

func (f *fakeBackend) RemoveBody(id BodyID) {
	if _, ok := f.bodies[id]; ok {
		f.removed++
		delete(f.bodies, id)
	}
}

func (f *fakeBackend) BodyCount() int { return len(f.bodies) }

func (f *fakeBackend) Step(dt float32) {
	f.steps = append(f.steps, dt)
	for _, b := range f.bodies {
		switch b.desc.Kind {
		case Dynamic:
			b.vel = rl.Vector3Add(b.vel, rl.Vector3Scale(f.gravity, dt))
			b.pos = rl.Vector3Add(b.pos, rl.Vector3Scale(b.vel, dt))
		case Kinematic:
			if b.target != nil {
				b.pos = *b.target
				b.target = nil
			}
		}
	}
}

func (f *fakeBackend) DrainEvents() []ContactEvent {
	out := f.queued
	f.queued = nil
	return out
}

func (f *fakeBackend) SetGravity(g rl.Vector3) { f.gravity = g }

func (f *fakeBackend) Transform(id BodyID) (rl.Vector3, rl.Quaternion, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return rl.Vector3{}, rl.Quaternion{}, false
	}
	return b.pos, b.rot, true
}

func (f *fakeBackend) SetTransform(id BodyID, pos rl.Vector3, rot rl.Quaternion) {
	if b, ok := f.bodies[id]; ok {
		b.pos, b.rot = pos, rot
	}
}

func (f *fakeBackend) MoveKinematic(id BodyID, pos rl.Vector3) {
	if b, ok := f.bodies[id]; ok {
		b.target = &pos
	}
}

func (f *fakeBackend) Velocity(id BodyID) (rl.Vector3, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	return b.vel, true
}

func (f *fakeBackend) SetVelocity(id BodyID, v rl.Vector3) {
	if b, ok := f.bodies[id]; ok {
		b.vel = v
	}
}

func (f *fakeBackend) ApplyImpulse(id BodyID, impulse, point rl.Vector3) {
	if b, ok := f.bodies[id]; ok {
		b.impulse = rl.Vector3Add(b.impulse, impulse)
	}
}

// MoveCharacter stops at y = 0.
func (f *fakeBackend) MoveCharacter(id BodyID, desired rl.Vector3) (rl.Vector3, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	if b.pos.Y+desired.Y < 0 {
		desired.Y = -b.pos.Y
		return desired, true
	}
	return desired, false
}

func (f *fakeBackend) Close() { f.closed = true }
