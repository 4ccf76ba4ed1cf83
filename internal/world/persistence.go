package world

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/scene"
)

// SaveSceneState snapshots the running scene. Saving writes each entity's
// current transform into its user data.
func (w *World) SaveSceneState() *scene.Document {
	d := &scene.Document{
		Version: scene.Version,
		ID:      w.ID,
		Name:    w.Name,
		Paused:  w.Paused,
		Camera:  w.Camera,
		Weather: w.Weather,
		Physics: scene.Physics{
			Enabled: w.Physics.Enabled(),
			Gravity: render.V3(w.Physics.Gravity()),
		},
	}
	for _, e := range w.Scene.Entities() {
		d.Entities = append(d.Entities, e.SaveState())
	}
	return d
}

// LoadSceneState replaces the running scene with d. An entity that fails
// to construct is skipped; its error is returned joined with the others
// after every remaining entity has been loaded.
func (w *World) LoadSceneState(d *scene.Document) error {
	if d == nil {
		return fmt.Errorf("%w: nil document", scene.ErrInvalidDocument)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	w.Scene.Dispose()
	w.selected = 0
	w.score = 0

	w.ID = d.ID
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.Name = d.Name
	w.Scene.Name = d.Name
	w.Paused = d.Paused
	w.Camera = d.Camera
	w.Weather = d.Weather

	w.Physics.SetGravity(d.Physics.Gravity.RL())
	if d.Physics.Enabled != w.Physics.Enabled() {
		// Nothing is bound yet, so the toggle only flips the flag.
		if err := w.Physics.ToggleEnabled(d.Physics.Enabled, nil); err != nil {
			return err
		}
	}

	var errs []error
	for i, state := range d.Entities {
		if _, err := w.Scene.Spawn(state); err != nil {
			w.log.Warn("entity not loaded",
				zap.Int("index", i),
				zap.String("entity", state.Name),
				zap.String("type", state.Type),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("entity %d (%q): %w", i, state.Name, err))
		}
	}
	w.log.Info("scene loaded",
		zap.String("name", w.Name),
		zap.Int("entities", w.Scene.Len()),
		zap.Int("failed", len(errs)),
		zap.Int("bodies", w.Physics.BodyCount()))
	w.Loaded.Invoke()
	return errors.Join(errs...)
}

// SaveSceneToFile writes the current scene through the store. It reports
// false when the stored file was already identical.
func (w *World) SaveSceneToFile(name string) (bool, error) {
	return w.Store.Save(name, w.SaveSceneState())
}

func (w *World) LoadSceneFromFile(name string) error {
	d, err := w.Store.Load(name)
	if err != nil {
		return err
	}
	return w.LoadSceneState(d)
}

// SetGravity changes gravity for the running scene and future saves.
func (w *World) SetGravity(g rl.Vector3) {
	w.Physics.SetGravity(g)
}

// EntityState exposes one entity's saved form for the editor surface.
func (w *World) EntityState(id engine.ID) (engine.EntityState, bool) {
	e := w.Scene.Lookup(id)
	if e == nil {
		return engine.EntityState{}, false
	}
	return e.SaveState(), true
}

// ApplyEntityState reloads one entity in place from an edited state.
func (w *World) ApplyEntityState(id engine.ID, state engine.EntityState) error {
	e := w.Scene.Lookup(id)
	if e == nil {
		return engine.ErrEntityDead
	}
	return e.LoadState(state)
}
