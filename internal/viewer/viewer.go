// Package viewer runs a world in a raylib window: a fly camera, debug
// drawing of every node and a raygui HUD over the editor surface.
package viewer

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/audio"
	"github.com/mironco/scenecore/internal/camera"
	"github.com/mironco/scenecore/internal/components"
	"github.com/mironco/scenecore/internal/config"
	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/world"
)

type Viewer struct {
	World     *world.World
	Camera    *camera.FlyCamera
	History   *world.History
	Audio     *audio.Manager
	SceneName string
	DebugMode bool

	// Debug timing (ms)
	updateMs float64
	drawMs   float64

	message      string
	messageUntil float64
	shotCounter  int
	lastShotTime float64
	cfg          config.ViewerConfig
	log          *zap.Logger
}

// New wraps w. sceneName is the store name used by the save button. player
// may be nil when running without sound.
func New(w *world.World, player *audio.Manager, sceneName string, cfg config.ViewerConfig, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	v := &Viewer{
		World:     w,
		Camera:    camera.FromState(w.Camera),
		History:   world.NewHistory(w),
		Audio:     player,
		SceneName: sceneName,
		cfg:       cfg,
		log:       log.Named("viewer"),
	}
	w.Loaded.AddListener(v.sceneLoaded)
	return v
}

// sceneLoaded drops undo entries, which hold ids from the old scene, and
// jumps to the stored camera.
func (v *Viewer) sceneLoaded() {
	v.History.Clear()
	v.Camera = camera.FromState(v.World.Camera)
}

// Run opens the window and loops until it is closed.
func (v *Viewer) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable)
	rl.InitWindow(v.cfg.Width, v.cfg.Height, v.cfg.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(v.cfg.TargetFPS)
	initRayguiStyle()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

func (v *Viewer) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	v.Camera.Update(deltaTime)
	v.World.Camera = v.Camera.State()
	if v.Audio != nil {
		v.Audio.SetListener(v.Camera.Position, v.Camera.Forward(), rl.Vector3{Y: 1})
	}

	v.World.Update(deltaTime)

	// Toggle debug mode
	if rl.IsKeyPressed(rl.KeyF1) {
		v.DebugMode = !v.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.World.Paused = !v.World.Paused
	}
	if rl.IsKeyDown(rl.KeyLeftControl) && rl.IsKeyPressed(rl.KeyS) {
		v.save()
	}
	if rl.IsKeyDown(rl.KeyLeftControl) && rl.IsKeyPressed(rl.KeyR) {
		v.reload()
	}
	if rl.IsKeyDown(rl.KeyLeftControl) && rl.IsKeyPressed(rl.KeyZ) {
		v.undo()
	}
	if rl.IsKeyPressed(rl.KeyDelete) {
		if e := v.World.Selected(); e != nil {
			v.History.Delete(e)
			v.setMsg("Deleted %s", e.Name)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !overHUD(rl.GetMousePosition()) {
		v.pick(rl.GetMousePosition())
	}

	// Shoot with F (with cooldown)
	const shootCooldown = 0.15
	if rl.IsKeyDown(rl.KeyF) && rl.GetTime()-v.lastShotTime >= shootCooldown {
		v.ShootSphere()
		v.lastShotTime = rl.GetTime()
	}

	v.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (v *Viewer) pick(mouse rl.Vector2) {
	ray := rl.GetScreenToWorldRay(mouse, v.Camera.GetRaylibCamera())
	e := v.World.Pick(ray.Position, ray.Direction)
	if e == nil {
		v.World.SelectEntity(0)
		return
	}
	v.World.SelectEntity(e.ID())
}

func (v *Viewer) save() {
	written, err := v.World.SaveSceneToFile(v.SceneName)
	switch {
	case err != nil:
		v.log.Error("save failed", zap.String("scene", v.SceneName), zap.Error(err))
		v.setMsg("Save failed: %v", err)
	case written:
		v.setMsg("Saved %s", v.SceneName)
	default:
		v.setMsg("%s unchanged", v.SceneName)
	}
}

// reload discards unsaved changes and reads the scene back from the store.
func (v *Viewer) reload() {
	err := v.World.LoadSceneFromFile(v.SceneName)
	switch {
	case err != nil && v.World.Scene.Len() == 0:
		v.setMsg("Reload failed: %v", err)
	case err != nil:
		v.log.Warn("scene reloaded with errors", zap.String("scene", v.SceneName), zap.Error(err))
		v.setMsg("Reloaded %s with errors", v.SceneName)
	default:
		v.setMsg("Reloaded %s", v.SceneName)
	}
}

func (v *Viewer) undo() {
	e, ok, err := v.History.Undo()
	switch {
	case err != nil:
		v.setMsg("Undo failed: %v", err)
	case !ok:
		v.setMsg("Nothing to undo")
	case e != nil:
		v.setMsg("Restored %s", e.Name)
	}
}

func (v *Viewer) setMsg(format string, args ...any) {
	v.message = fmt.Sprintf(format, args...)
	v.messageUntil = rl.GetTime() + 3
}

// ShootSphere launches a short-lived damaging ball from the camera.
func (v *Viewer) ShootSphere() {
	v.shotCounter++
	state := shotState(v.shotCounter, v.Camera.Position, v.Camera.Forward())
	e, err := v.World.Spawn(state)
	if err != nil {
		v.log.Warn("shot failed", zap.Error(err))
		return
	}
	v.World.Physics.SetEntityVelocity(e, rl.Vector3Scale(v.Camera.Forward(), shotSpeed))
}

const shotSpeed = 30

// shotState describes a projectile three units in front of pos.
func shotState(n int, pos, forward rl.Vector3) engine.EntityState {
	spawnPos := rl.Vector3Add(pos, rl.Vector3Scale(forward, 3))
	return engine.EntityState{
		Name:         fmt.Sprintf("Shot_%d", n),
		Type:         world.TypeMesh,
		GameplayTags: []string{engine.TagProjectile.String()},
		Components: []engine.ComponentState{
			{Type: components.TypeContactDamage, Props: map[string]any{"amount": 25, "target": engine.TagEnemy.String(), "dieOnHit": true}},
			{Type: components.TypeCollisionSound, Props: map[string]any{"sound": "hit"}},
			{Type: components.TypeLifetime, Props: map[string]any{"seconds": 8}},
		},
		UserData: engine.UserData{
			Geometry: render.Sphere(0.3),
			Material: engine.Material{Color: "Orange"},
			Physics: engine.PhysicsParams{
				Enabled:     true,
				Mass:        engine.F(1),
				Friction:    engine.F(0.1),
				Restitution: engine.F(0.6),
			},
			Transform: engine.CaptureTransform(spawnPos, rl.QuaternionIdentity(), rl.Vector3One()),
		},
	}
}
