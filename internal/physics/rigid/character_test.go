package rigid

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/render"
)

func addCharacter(t *testing.T, w *World, pos rl.Vector3) physics.BodyID {
	id, err := w.CreateBody(physics.BodyDesc{
		Kind:     physics.Kinematic,
		Shape:    mustShape(t, render.Capsule(0.4, 1)),
		Position: pos,
	})
	require.NoError(t, err)
	return id
}

func TestCharacterLandsOnFloor(t *testing.T) {
	w := newWorld(t)
	addFloor(t, w)
	hero := addCharacter(t, w, rl.Vector3{Y: 3})

	applied, grounded := w.MoveCharacter(hero, rl.Vector3{Y: -5})
	assert.True(t, grounded)
	// capsule half height 0.9 rests on y = 0
	assert.InDelta(t, -2.1, applied.Y, 1e-4)

	pos, _, _ := w.Transform(hero)
	assert.Equal(t, float32(3), pos.Y, "MoveCharacter does not move the body")
}

func TestCharacterBlockedByWall(t *testing.T) {
	w := newWorld(t)
	w.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: mustShape(t, render.Box(1, 4, 4)), Position: rl.Vector3{X: 2, Y: 2}})
	hero := addCharacter(t, w, rl.Vector3{Y: 0.9})

	applied, _ := w.MoveCharacter(hero, rl.Vector3{X: 3})
	assert.InDelta(t, 1.1, applied.X, 1e-4, "stops against the wall face at x = 1.5")
}

func TestCharacterClimbsStep(t *testing.T) {
	w := newWorld(t)
	addFloor(t, w)
	w.CreateBody(physics.BodyDesc{Kind: physics.Static, Shape: mustShape(t, render.Box(2, 0.2, 2)), Position: rl.Vector3{X: 1.5, Y: 0.1}})
	hero := addCharacter(t, w, rl.Vector3{Y: 0.9})

	applied, grounded := w.MoveCharacter(hero, rl.Vector3{X: 0.5})
	assert.True(t, grounded)
	assert.InDelta(t, 0.5, applied.X, 1e-4)
	assert.Greater(t, applied.Y, float32(0.2))
}

func TestCharacterUsesPendingTarget(t *testing.T) {
	w := newWorld(t)
	hero := addCharacter(t, w, rl.Vector3{})
	w.MoveKinematic(hero, rl.Vector3{X: 5})

	applied, grounded := w.MoveCharacter(hero, rl.Vector3{X: 1})
	assert.False(t, grounded)
	assert.InDelta(t, 1, applied.X, 1e-4)
	assert.Zero(t, applied.Y)
}
