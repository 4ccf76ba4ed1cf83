package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
)

// Spawn constructs an entity at runtime through the same path as loading.
// Unnamed entities get the type plus a short random suffix.
func (w *World) Spawn(state engine.EntityState) (*engine.Entity, error) {
	if state.Name == "" {
		state.Name = state.Type + "-" + uuid.NewString()[:8]
	}
	e, err := w.Scene.Spawn(state)
	if err != nil {
		w.log.Warn("spawn failed", zap.String("entity", state.Name), zap.String("type", state.Type), zap.Error(err))
		return nil, err
	}
	return e, nil
}

// Destroy kills e. Dead or foreign entities are ignored.
func (w *World) Destroy(e *engine.Entity) {
	w.Scene.Remove(e)
}

func (w *World) MoveCharacter(e *engine.Entity, desired rl.Vector3) (rl.Vector3, bool) {
	return w.Physics.MoveCharacter(e, desired)
}

func (w *World) PlaySoundAtPosition(key string, position rl.Vector3) {
	w.Audio.PlaySoundAtPosition(key, position)
}

// AddScore adds points to the scene counter and returns the new total.
func (w *World) AddScore(points int) int {
	w.score += points
	return w.score
}

func (w *World) Score() int { return w.score }
