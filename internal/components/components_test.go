package components

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
)

type sound struct {
	key string
	at  rl.Vector3
}

// fakeWorld is a floor at y = 0 and nothing else.
type fakeWorld struct {
	scene     *engine.Scene
	sounds    []sound
	score     int
	destroyed []string
}

func (w *fakeWorld) Spawn(state engine.EntityState) (*engine.Entity, error) {
	return w.scene.Spawn(state)
}

func (w *fakeWorld) Destroy(e *engine.Entity) {
	w.destroyed = append(w.destroyed, e.Name)
	e.Kill()
}

func (w *fakeWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (engine.RaycastResult, bool) {
	return engine.RaycastResult{}, false
}

func (w *fakeWorld) MoveCharacter(e *engine.Entity, desired rl.Vector3) (rl.Vector3, bool) {
	n := e.Node()
	next := rl.Vector3Add(n.Position, desired)
	grounded := false
	if next.Y <= 0 {
		next.Y = 0
		grounded = true
	}
	applied := rl.Vector3Subtract(next, n.Position)
	n.Position = next
	return applied, grounded
}

func (w *fakeWorld) PlaySoundAtPosition(key string, position rl.Vector3) {
	w.sounds = append(w.sounds, sound{key, position})
}

func (w *fakeWorld) AddScore(points int) int {
	w.score += points
	return w.score
}

func newScene(t *testing.T, withWorld bool) (*engine.Scene, *fakeWorld) {
	t.Helper()
	reg := engine.NewComponentRegistry(false, nil)
	Register(reg)
	types := engine.NewEntityTypeRegistry()
	types.Register("thing", engine.EntityType{})
	s := engine.NewScene("components", reg, types, render.NewTree(), nil)
	w := &fakeWorld{scene: s}
	if withWorld {
		s.Services = w
	}
	return s, w
}

func spawn(t *testing.T, s *engine.Scene, name string, pos rl.Vector3, comps ...engine.ComponentState) *engine.Entity {
	t.Helper()
	e, err := s.Spawn(engine.EntityState{
		Name:       name,
		Type:       "thing",
		Components: comps,
		UserData: engine.UserData{
			Geometry:  render.Box(1, 1, 1),
			Transform: engine.TransformState{Position: render.V3(pos)},
		},
	})
	require.NoError(t, err)
	return e
}

func comp(typ string, props map[string]any) engine.ComponentState {
	return engine.ComponentState{Type: typ, Props: props}
}

func TestHealthKillsAtZero(t *testing.T) {
	s, _ := newScene(t, false)
	e := spawn(t, s, "crate", rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": 100}))

	h, ok := engine.GetComponent[*Health](e)
	require.True(t, ok)
	assert.Equal(t, float32(100), h.Health)

	e.Damage(100, nil)
	assert.False(t, e.Alive())
	assert.Empty(t, e.Components())
	assert.Zero(t, s.Len())
}

func TestHealthDiesThroughWorld(t *testing.T) {
	s, w := newScene(t, true)
	e := spawn(t, s, "crate", rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": 50, "health": 20}))
	h, _ := engine.GetComponent[*Health](e)

	var killer *engine.Entity
	died := 0
	h.Died.AddListener(func(src *engine.Entity) { died++; killer = src })

	source := spawn(t, s, "spike", rl.Vector3{X: 5})
	e.Damage(5, source)
	assert.Equal(t, float32(15), h.Health)
	h.Heal(100)
	assert.Equal(t, float32(50), h.Health)

	e.Damage(80, source)
	e.Damage(80, source)
	assert.Equal(t, 1, died)
	assert.Same(t, source, killer)
	assert.Equal(t, []string{"crate"}, w.destroyed)
	assert.False(t, e.Alive())
}

func TestContactDamageHitsTargetsOnly(t *testing.T) {
	s, _ := newScene(t, false)
	bullet := spawn(t, s, "bullet", rl.Vector3{},
		comp(TypeContactDamage, map[string]any{"amount": 30, "target": "enemy", "dieOnHit": true}))
	wall := spawn(t, s, "wall", rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": 100}))
	enemy := spawn(t, s, "enemy", rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": 100}))
	enemy.AddGameplayTag(engine.TagEnemy)

	bullet.Collide(wall, true)
	wh, _ := engine.GetComponent[*Health](wall)
	assert.Equal(t, float32(100), wh.Health)
	assert.True(t, bullet.Alive())

	bullet.Collide(enemy, false)
	bullet.Collide(enemy, true)
	eh, _ := engine.GetComponent[*Health](enemy)
	assert.Equal(t, float32(70), eh.Health)
	assert.False(t, bullet.Alive())
}

func TestUnknownTargetTagFailsConstruction(t *testing.T) {
	s, _ := newScene(t, false)
	_, err := s.Spawn(engine.EntityState{
		Name:       "bad",
		Type:       "thing",
		Components: []engine.ComponentState{comp(TypeContactDamage, map[string]any{"target": "dragon"})},
	})
	assert.ErrorContains(t, err, "dragon")
}

func TestRotatorWraps(t *testing.T) {
	s, _ := newScene(t, false)
	e := spawn(t, s, "fan", rl.Vector3{}, comp(TypeRotator, map[string]any{"speed": 90}))
	r, _ := engine.GetComponent[*Rotator](e)

	for i := 0; i < 5; i++ {
		e.Update(1)
	}
	assert.InDelta(t, 90, r.Angle(), 1e-3)

	want := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 90*rl.Deg2rad)
	got := e.Node().Rotation
	assert.InDelta(t, 1, absf(rl.QuaternionDot(want, got)), 1e-4)

	st := r.SaveState()
	assert.Equal(t, float32(90), st.Props["speed"])
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestLifetimeExpires(t *testing.T) {
	s, w := newScene(t, true)
	e := spawn(t, s, "spark", rl.Vector3{}, comp(TypeLifetime, map[string]any{"seconds": 1}))
	l, _ := engine.GetComponent[*Lifetime](e)

	e.Update(0.6)
	assert.True(t, e.Alive())
	assert.InDelta(t, 0.4, l.Remaining(), 1e-6)
	e.Update(0.6)
	assert.False(t, e.Alive())
	assert.Equal(t, []string{"spark"}, w.destroyed)
}

func TestLifetimeResumesFromSavedElapsed(t *testing.T) {
	s, _ := newScene(t, false)
	e := spawn(t, s, "spark", rl.Vector3{}, comp(TypeLifetime, map[string]any{"seconds": 1, "elapsed": 0.9}))
	e.Update(0.2)
	assert.False(t, e.Alive())
}

func TestCollisionSoundCooldown(t *testing.T) {
	s, w := newScene(t, true)
	ball := spawn(t, s, "ball", rl.Vector3{X: 2}, comp(TypeCollisionSound, map[string]any{"sound": "thud", "cooldown": 0.5}))
	floor := spawn(t, s, "floor", rl.Vector3{})

	ball.Collide(floor, true)
	ball.Collide(floor, true)
	require.Len(t, w.sounds, 1)
	assert.Equal(t, sound{"thud", rl.Vector3{X: 1}}, w.sounds[0])

	ball.Update(0.5)
	ball.Collide(floor, false)
	ball.Collide(floor, true)
	assert.Len(t, w.sounds, 2)
}

func TestCollectibleScoresOnce(t *testing.T) {
	s, w := newScene(t, true)
	coin := spawn(t, s, "coin", rl.Vector3{}, comp(TypeCollectible, map[string]any{"points": 10, "sound": "ding"}))
	enemy := spawn(t, s, "enemy", rl.Vector3{})
	enemy.AddGameplayTag(engine.TagEnemy)
	player := spawn(t, s, "player", rl.Vector3{})
	player.AddGameplayTag(engine.TagPlayer)

	c, _ := engine.GetComponent[*Collectible](coin)
	assert.False(t, c.Collect(enemy))
	coin.Collide(player, true)
	assert.Equal(t, 10, w.score)
	assert.False(t, coin.Alive())
	assert.False(t, c.Collect(player))
	assert.Equal(t, 10, w.score)
	require.Len(t, w.sounds, 1)
	assert.Equal(t, "ding", w.sounds[0].key)
}

func TestCollectibleWithEmptyTarget(t *testing.T) {
	s, w := newScene(t, true)
	coin := spawn(t, s, "coin", rl.Vector3{}, comp(TypeCollectible, map[string]any{"points": 3, "target": ""}))
	c, _ := engine.GetComponent[*Collectible](coin)
	assert.False(t, c.HasTarget)

	st := c.SaveState()
	assert.Equal(t, "", st.Props["target"])
	reloaded, err := collectibleFromState(st)
	require.NoError(t, err)
	assert.False(t, reloaded.HasTarget)

	crate := spawn(t, s, "crate", rl.Vector3{})
	coin.Collide(crate, true)
	assert.Equal(t, 3, w.score)
	assert.False(t, coin.Alive())

	def, err := collectibleFromState(comp(TypeCollectible, nil))
	require.NoError(t, err)
	assert.True(t, def.HasTarget)
	assert.Equal(t, engine.TagPlayer, def.Target)
}

func TestContactDamageCreditsSource(t *testing.T) {
	s, _ := newScene(t, true)
	turret := spawn(t, s, "turret", rl.Vector3{})
	killers := map[string]*engine.Entity{}
	target := func(name string, hp int) *engine.Entity {
		e := spawn(t, s, name, rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": hp}))
		h, _ := engine.GetComponent[*Health](e)
		h.Died.AddListener(func(src *engine.Entity) { killers[name] = src })
		return e
	}
	enemy := target("enemy", 10)
	dummy := target("dummy", 5)
	shot := func() *engine.Entity {
		return spawn(t, s, "shot", rl.Vector3{},
			comp(TypeContactDamage, map[string]any{"amount": 5, "source": "turret", "dieOnHit": true}))
	}

	first := shot()
	dmg, _ := engine.GetComponent[*ContactDamage](first)
	assert.Equal(t, "turret", dmg.SaveState().Props["source"])
	first.Collide(enemy, true)
	first = shot()
	first.Collide(dummy, true)
	assert.Same(t, turret, killers["dummy"])

	// Reloading the turret gives it a new id; the name still resolves.
	state := turret.SaveState()
	turret.Kill()
	reborn, err := s.Spawn(state)
	require.NoError(t, err)
	require.NotEqual(t, turret.ID(), reborn.ID())
	shot().Collide(enemy, true)
	assert.Same(t, reborn, killers["enemy"])
	assert.False(t, enemy.Alive())
}

func TestContactDamageWithoutSourceCreditsOwner(t *testing.T) {
	s, _ := newScene(t, true)
	enemy := spawn(t, s, "enemy", rl.Vector3{}, comp(TypeHealth, map[string]any{"maxHealth": 1}))
	h, _ := engine.GetComponent[*Health](enemy)
	var killer *engine.Entity
	h.Died.AddListener(func(src *engine.Entity) { killer = src })

	spike := spawn(t, s, "spike", rl.Vector3{},
		comp(TypeContactDamage, map[string]any{"amount": 5, "source": "nobody"}))
	spike.Collide(enemy, true)
	assert.Same(t, spike, killer)
}

func TestCharacterControllerFallsLandsAndJumps(t *testing.T) {
	s, _ := newScene(t, true)
	hero := spawn(t, s, "hero", rl.Vector3{Y: 2}, comp(TypeCharacterController, map[string]any{"speed": 4}))
	cc, _ := engine.GetComponent[*CharacterController](hero)

	cc.SetInput(rl.Vector3{X: 3})
	for i := 0; i < 60 && !cc.IsGrounded(); i++ {
		hero.Update(1.0 / 30)
	}
	require.True(t, cc.IsGrounded())
	assert.Zero(t, hero.Node().Position.Y)
	assert.Greater(t, hero.Node().Position.X, float32(0))
	assert.Equal(t, float32(4), cc.Velocity().X, "input is clamped to unit length")

	cc.Jump()
	hero.Update(1.0 / 30)
	assert.False(t, cc.IsGrounded())
	assert.Greater(t, hero.Node().Position.Y, float32(0))
}

func TestCharacterControllerWithoutWorld(t *testing.T) {
	s, _ := newScene(t, false)
	hero := spawn(t, s, "hero", rl.Vector3{}, comp(TypeCharacterController, map[string]any{"useGravity": false}))
	cc, _ := engine.GetComponent[*CharacterController](hero)
	applied := cc.Move(rl.Vector3{X: 1, Y: -1})
	assert.Equal(t, rl.Vector3{X: 1, Y: -1}, applied)
	assert.Equal(t, rl.Vector3{X: 1, Y: -1}, hero.Node().Position)
}

func TestSaveStateRoundTrip(t *testing.T) {
	s, _ := newScene(t, false)
	e := spawn(t, s, "all", rl.Vector3{},
		comp(TypeHealth, map[string]any{"maxHealth": 80, "health": 40}),
		comp(TypeContactDamage, map[string]any{"amount": 5, "target": "player"}),
		comp(TypeCharacterController, nil),
		comp(TypeRotator, nil),
		comp(TypeLifetime, map[string]any{"seconds": 3}),
		comp(TypeCollisionSound, map[string]any{"sound": "hit"}),
		comp(TypeCollectible, nil),
	)
	state := e.SaveState()

	clone, err := s.Spawn(state)
	require.NoError(t, err)
	again := clone.SaveState()
	require.Len(t, again.Components, 7)
	for i := range state.Components {
		assert.Equal(t, state.Components[i], again.Components[i])
	}
	h, _ := engine.GetComponent[*Health](clone)
	assert.Equal(t, float32(40), h.Health)
}
