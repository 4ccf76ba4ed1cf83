// Package world drives a scene: it owns the entity arena, the physics
// layer, the collision manager and the state blocks that only pass through
// documents (camera, weather).
package world

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/audio"
	"github.com/mironco/scenecore/internal/collision"
	"github.com/mironco/scenecore/internal/components"
	"github.com/mironco/scenecore/internal/config"
	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/physics/planar"
	"github.com/mironco/scenecore/internal/physics/rigid"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/scene"
)

type World struct {
	Scene     *engine.Scene
	Physics   *physics.Layer
	Collision *collision.Manager
	Tree      *render.Tree
	Store     *scene.Store
	Audio     audio.Player

	ID      uuid.UUID
	Name    string
	Paused  bool
	Camera  scene.Camera
	Weather scene.Weather

	// Loaded fires after LoadSceneState replaced the scene, even when some
	// entities failed. Entity ids from before the load are meaningless.
	Loaded engine.Event

	frames   uint64
	score    int
	selected engine.ID
	disposed bool
	log      *zap.Logger
}

var _ engine.WorldAccess = (*World)(nil)

// NewBackend builds the physics backend named in configuration.
func NewBackend(name string, log *zap.Logger) (physics.Backend, error) {
	switch name {
	case config.BackendRigid:
		return rigid.New(log), nil
	case config.BackendPlanar:
		return planar.New(log), nil
	}
	return nil, fmt.Errorf("%w %q", physics.ErrUnknownBackend, name)
}

// New wires an empty world. A nil player discards sounds.
func New(cfg config.Config, player audio.Player, log *zap.Logger) (*World, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if player == nil {
		player = audio.Nop{}
	}
	backend, err := NewBackend(cfg.Physics.Backend, log)
	if err != nil {
		return nil, err
	}

	comps := engine.NewComponentRegistry(!cfg.Strict(), log)
	components.Register(comps)
	types := engine.NewEntityTypeRegistry()
	RegisterTypes(types)

	g := cfg.Physics.Gravity
	w := &World{
		Tree:      render.NewTree(),
		Collision: collision.New(log),
		Store:     scene.NewStore(cfg.Persistence.Dir, log),
		Audio:     player,
		ID:        uuid.New(),
		Name:      "main",
		Camera:    scene.DefaultCamera(),
		Weather:   scene.Weather{TimeOfDay: 12},
		log:       log.Named("world"),
	}
	w.Physics = physics.NewLayer(backend, physics.Options{
		Enabled:     cfg.Physics.Enabled,
		Gravity:     rl.Vector3{X: g[0], Y: g[1], Z: g[2]},
		SubstepHz:   int(cfg.Physics.SubstepHz),
		MaxSubsteps: cfg.Physics.MaxSubsteps,
	}, log)
	w.Scene = engine.NewScene(w.Name, comps, types, w.Tree, log)
	w.Scene.Services = w

	w.Scene.EntityAdded.AddListener(func(e *engine.Entity) {
		w.Physics.AddEntity(e)
	})
	w.Scene.EntityRemoved.AddListener(func(e *engine.Entity) {
		w.Physics.RemoveEntity(e)
		if w.selected == e.ID() {
			w.selected = 0
		}
	})
	// A reload may change geometry or physics parameters, so rebind.
	w.Scene.EntityChanged.AddListener(func(e *engine.Entity) {
		w.Physics.RemoveEntity(e)
		w.Physics.AddEntity(e)
	})

	w.log.Info("world ready",
		zap.String("backend", w.Physics.Backend()),
		zap.Bool("physics", w.Physics.Enabled()),
		zap.Bool("lenient", comps.Lenient()))
	return w, nil
}

// Update advances one frame: physics, then the collision sweep, then every
// live entity (sync from physics first, then its own update).
func (w *World) Update(deltaTime float32) {
	if w.Paused || w.disposed {
		return
	}
	w.Physics.Step(deltaTime)
	w.Collision.Update()
	for _, e := range w.Scene.Entities() {
		if !e.Alive() {
			continue
		}
		w.Physics.SyncEntity(e)
		e.Update(deltaTime)
	}
	w.frames++
}

// Frames counts the updates that ran.
func (w *World) Frames() uint64 { return w.frames }

// TogglePhysics tears every binding down and rebuilds them when enabling.
func (w *World) TogglePhysics(enabled bool) error {
	return w.Physics.ToggleEnabled(enabled, w.Scene.Entities())
}

// Dispose kills every entity and frees the physics backend. Further calls
// are no-ops.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	w.Scene.Dispose()
	w.Physics.Close()
	w.selected = 0
	w.log.Debug("world disposed")
}
