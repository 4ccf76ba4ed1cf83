package planar

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/render"
)

func shape(t *testing.T, g render.Geometry) physics.Shape {
	t.Helper()
	s, err := physics.ShapeFor(g)
	require.NoError(t, err)
	return s
}

func newSpace(t *testing.T) (*Space, physics.BodyID) {
	t.Helper()
	s := New(nil)
	s.SetGravity(rl.Vector3{Y: -9.81})
	floor, err := s.CreateBody(physics.BodyDesc{
		Kind:     physics.Static,
		Shape:    shape(t, render.Box(20, 1, 20)),
		Position: rl.Vector3{Y: -0.5},
		Friction: 0.5,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, floor
}

func simulate(s *Space, seconds float32) []physics.ContactEvent {
	var events []physics.ContactEvent
	for t := float32(0); t < seconds; t += 1.0 / 120 {
		s.Step(1.0 / 120)
		events = append(events, s.DrainEvents()...)
	}
	return events
}

func TestBallLandsOnFloor(t *testing.T) {
	s, floor := newSpace(t)
	ball, err := s.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    shape(t, render.Sphere(0.5)),
		Position: rl.Vector3{Y: 3, Z: 7},
		Mass:     1,
		Friction: 0.5,
	})
	require.NoError(t, err)

	s.Step(1.0 / 60)
	pos, _, ok := s.Transform(ball)
	require.True(t, ok)
	assert.Less(t, pos.Y, float32(3))
	assert.Equal(t, float32(7), pos.Z, "z is carried through")

	events := simulate(s, 2)
	require.NotEmpty(t, events)
	assert.Equal(t, physics.ContactEvent{A: floor, B: ball, Started: true}, events[0])

	pos, _, _ = s.Transform(ball)
	assert.InDelta(t, 0.5, pos.Y, 0.15)

	s.SetTransform(ball, rl.Vector3{Y: 20, Z: 7}, rl.QuaternionIdentity())
	s.Step(1.0 / 120)
	end := s.DrainEvents()
	require.NotEmpty(t, end)
	assert.Equal(t, physics.ContactEvent{A: floor, B: ball, Started: false}, end[len(end)-1])
}

func TestRemoveBodyEndsSilently(t *testing.T) {
	s, _ := newSpace(t)
	box, _ := s.CreateBody(physics.BodyDesc{
		Kind: physics.Dynamic, Shape: shape(t, render.Box(1, 1, 1)), Position: rl.Vector3{Y: 0.5}, Mass: 1,
	})
	simulate(s, 0.5)

	s.RemoveBody(box)
	s.RemoveBody(box)
	assert.Equal(t, 1, s.BodyCount())
	assert.Empty(t, s.DrainEvents())
	_, ok := s.Velocity(box)
	assert.False(t, ok)
}

func TestRotationAboutZ(t *testing.T) {
	s, _ := newSpace(t)
	s.SetGravity(rl.Vector3{})
	id, _ := s.CreateBody(physics.BodyDesc{Kind: physics.Dynamic, Shape: shape(t, render.Box(1, 1, 1)), Mass: 1, Position: rl.Vector3{Y: 5}})

	q := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/3)
	s.SetTransform(id, rl.Vector3{Y: 5, Z: -2}, q)
	pos, rot, _ := s.Transform(id)
	assert.Equal(t, float32(-2), pos.Z)
	assert.InDelta(t, q.Z, rot.Z, 1e-5)
	assert.InDelta(t, q.W, rot.W, 1e-5)
}

func TestKinematicReachesTarget(t *testing.T) {
	s, _ := newSpace(t)
	id, _ := s.CreateBody(physics.BodyDesc{Kind: physics.Kinematic, Shape: shape(t, render.Box(1, 1, 1)), Position: rl.Vector3{Y: 3}})

	s.MoveKinematic(id, rl.Vector3{X: 2, Y: 3, Z: 1})
	s.Step(1.0 / 60)
	pos, _, _ := s.Transform(id)
	assert.Equal(t, rl.Vector3{X: 2, Y: 3, Z: 1}, pos)

	s.Step(1.0 / 60)
	v, _ := s.Velocity(id)
	assert.Zero(t, v.X, "no target, no motion")
}

func TestImpulse(t *testing.T) {
	s, _ := newSpace(t)
	s.SetGravity(rl.Vector3{})
	id, _ := s.CreateBody(physics.BodyDesc{Kind: physics.Dynamic, Shape: shape(t, render.Sphere(0.5)), Mass: 2, Position: rl.Vector3{Y: 5}})
	s.ApplyImpulse(id, rl.Vector3{X: 4}, rl.Vector3{Y: 5})
	v, _ := s.Velocity(id)
	assert.InDelta(t, 2, v.X, 1e-5)
}

func TestDynamicHeightfieldRejected(t *testing.T) {
	s, _ := newSpace(t)
	hf := shape(t, render.Geometry{Kind: render.KindHeightfield, Width: 4, Depth: 4, Rows: 2, Cols: 2, Heights: []float32{0, 0, 0, 0}})
	_, err := s.CreateBody(physics.BodyDesc{Kind: physics.Dynamic, Shape: hf, Mass: 1})
	assert.ErrorIs(t, err, physics.ErrUnsupportedGeometry)

	_, err = s.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: hf, Position: rl.Vector3{X: 30}})
	assert.NoError(t, err)
}

func TestCharacterLandsAndIsBlocked(t *testing.T) {
	s, _ := newSpace(t)
	s.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: shape(t, render.Box(1, 4, 1)), Position: rl.Vector3{X: 3, Y: 2}})
	hero, _ := s.CreateBody(physics.BodyDesc{Kind: physics.Kinematic, Shape: shape(t, render.Capsule(0.4, 1)), Position: rl.Vector3{Y: 3}})

	applied, grounded := s.MoveCharacter(hero, rl.Vector3{Y: -5})
	assert.True(t, grounded)
	assert.InDelta(t, -2.09, applied.Y, 0.02)

	applied, grounded = s.MoveCharacter(hero, rl.Vector3{X: 5})
	assert.False(t, grounded)
	assert.InDelta(t, 2.09, applied.X, 0.02, "stops at the wall face at x = 2.5")

	applied, _ = s.MoveCharacter(hero, rl.Vector3{X: -1})
	assert.InDelta(t, -1, applied.X, 1e-6)
}
