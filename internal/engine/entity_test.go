package engine

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mironco/scenecore/internal/render"
)

func TestUpdateRunsInInsertionOrder(t *testing.T) {
	s, log := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("first"), trackerState("second")))
	require.NoError(t, err)

	e.Update(0.016)
	assert.Equal(t, []string{"first", "second"}, *log)
}

func TestRemoveComponentDisposesOnce(t *testing.T) {
	s, _ := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("x"), trackerState("x"), trackerState("y")))
	require.NoError(t, err)

	comps := e.Components()
	assert.Equal(t, 2, e.RemoveComponent("x"))
	assert.Equal(t, 0, e.RemoveComponent("x"))
	assert.Len(t, e.Components(), 1)

	for _, c := range comps[:2] {
		p := c.(*tracker)
		assert.Equal(t, 1, p.disposals)
		assert.Nil(t, p.Entity(), "no owner reference after dispose")
	}

	e.Kill()
	e.Kill()
	s.Dispose()
	for _, c := range comps {
		assert.Equal(t, 1, c.(*tracker).disposals)
	}
}

func TestRemoveComponentDisposesWhileAttached(t *testing.T) {
	s, _ := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("x"), trackerState("y")))
	require.NoError(t, err)

	var seen []string
	x := e.Components()[0].(*tracker)
	x.onDispose = func(p *tracker) {
		owner := p.Entity()
		require.Same(t, e, owner)
		for _, c := range owner.Components() {
			seen = append(seen, c.Name())
		}
	}
	assert.Equal(t, 1, e.RemoveComponent("x"))
	assert.Equal(t, []string{"x", "y"}, seen)
	assert.Len(t, e.Components(), 1)
	assert.Nil(t, x.Entity())
}

func TestAddComponent(t *testing.T) {
	s, _ := newTestScene(false)
	a, _ := s.Spawn(thing("a"))
	b, _ := s.Spawn(thing("b"))

	assert.ErrorIs(t, a.AddComponent(nil), ErrNilComponent)

	p := &tracker{log: new([]string)}
	p.Identify("", "tracker")
	require.NoError(t, a.AddComponent(p))
	assert.Equal(t, "tracker", p.Name())
	assert.Same(t, a, p.Entity())

	assert.ErrorIs(t, b.AddComponent(p), ErrComponentOwned)

	got, ok := a.GetComponent("tracker")
	require.True(t, ok)
	assert.Same(t, p, got)
	typed, ok := GetComponent[*tracker](a)
	require.True(t, ok)
	assert.Same(t, p, typed)

	_, ok = a.GetComponent("missing")
	assert.False(t, ok)
}

func TestKillTearsDown(t *testing.T) {
	s, _ := newTestScene(false)
	var destroyed int
	s.Types.Register("doomed", EntityType{Destroy: func(*Entity) { destroyed++ }})

	st := thing("a", trackerState("p"))
	st.Type = "doomed"
	st.Tags = []string{"crate"}
	e, err := s.Spawn(st)
	require.NoError(t, err)
	node := e.Node()
	p := e.Components()[0].(*tracker)

	var removed []*Entity
	s.EntityRemoved.AddListener(func(r *Entity) {
		// the node is still attached while listeners run
		assert.NotNil(t, r.Node())
		removed = append(removed, r)
	})

	e.Kill()
	assert.False(t, e.Alive())
	assert.Nil(t, e.Node())
	assert.Empty(t, e.Components())
	assert.Empty(t, e.Tags())
	assert.Nil(t, node.Parent())
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 1, p.disposals)
	assert.Equal(t, []*Entity{e}, removed)
	assert.Nil(t, s.Lookup(e.ID()))
	assert.Zero(t, s.Len())

	e.Kill()
	e.Update(1)
	assert.Equal(t, 1, destroyed)
	assert.Len(t, removed, 1)
}

func TestSaveStateCapturesTransform(t *testing.T) {
	s, _ := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("p")))
	require.NoError(t, err)

	e.Node().Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	e.AddGameplayTag(TagEnemy)
	e.AddTag("boss")
	e.Damage(7, nil)

	st := e.SaveState()
	assert.Equal(t, render.Vec3{X: 1, Y: 2, Z: 3}, st.UserData.Transform.Position)
	assert.Equal(t, render.Vec3{X: 1, Y: 2, Z: 3}, e.UserData.Transform.Position, "saving mutates user data")
	assert.Equal(t, []string{"enemy"}, st.GameplayTags)
	assert.Equal(t, []string{"boss"}, st.Tags)
	require.Len(t, st.Components, 1)
	assert.Equal(t, float32(7), st.Components[0].Props["damage"])

	st.Tags[0] = "changed"
	assert.True(t, e.HasTag("boss"), "state must not alias entity")
}

func TestLoadStateReplacesComponents(t *testing.T) {
	s, _ := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("old")))
	require.NoError(t, err)
	old := e.Components()[0].(*tracker)

	var changed int
	s.EntityChanged.AddListener(func(*Entity) { changed++ })

	st := thing("b", trackerState("n1"), trackerState("n2"))
	st.GameplayTags = []string{"pickup", "bogus"}
	require.NoError(t, e.LoadState(st))

	assert.Equal(t, "b", e.Name)
	assert.Equal(t, 1, old.disposals)
	names := []string{}
	for _, c := range e.Components() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"n1", "n2"}, names)
	assert.True(t, e.Is(TagPickup))
	assert.Equal(t, 1, changed)
}

func TestLoadStateStrictKeepsOldComponents(t *testing.T) {
	s, _ := newTestScene(false)
	e, err := s.Spawn(thing("a", trackerState("keep")))
	require.NoError(t, err)

	before := e.SaveState()
	err = e.LoadState(thing("b", trackerState("n"), ComponentState{Type: "legacy"}))
	require.ErrorIs(t, err, ErrUnknownComponentType)
	assert.Contains(t, err.Error(), "legacy")
	assert.Equal(t, before, e.SaveState())

	require.Len(t, e.Components(), 1)
	assert.Equal(t, "keep", e.Components()[0].Name())
	assert.Zero(t, e.Components()[0].(*tracker).disposals)
}

func TestLoadStateSetupFailureRestores(t *testing.T) {
	s, _ := newTestScene(false)
	s.Types.Register("fragile", EntityType{Setup: func(e *Entity) error {
		e.Node().Scale = rl.Vector3{X: 9, Y: 9, Z: 9}
		e.UserData.Material.Color = "Red"
		return errors.New("no mesh")
	}})
	e, err := s.Spawn(thing("a", trackerState("keep")))
	require.NoError(t, err)
	e.AddTag("loot")
	before := e.SaveState()

	next := thing("b", trackerState("n"))
	next.Type = "fragile"
	next.Tags = []string{"other"}
	err = e.LoadState(next)
	require.ErrorContains(t, err, "no mesh")

	assert.Equal(t, before, e.SaveState())
	assert.Equal(t, "thing", e.Type())
	assert.Equal(t, rl.Vector3One(), e.Node().Scale)
	assert.Equal(t, []string{"loot"}, e.Tags())
	assert.Zero(t, e.Components()[0].(*tracker).disposals)
}

func TestCollideAndDamageFanOut(t *testing.T) {
	s, _ := newTestScene(false)
	a, _ := s.Spawn(thing("a", trackerState("p")))
	b, _ := s.Spawn(thing("b"))

	a.Collide(b, true)
	a.Collide(b, false)
	a.Damage(3, b)
	p := a.Components()[0].(*tracker)
	assert.Equal(t, []string{"begin:b", "end:b"}, p.hits)
	assert.Equal(t, float32(3), p.damage)

	a.Kill()
	a.Collide(b, true)
	assert.Len(t, p.hits, 2)
}

func TestGameplayTags(t *testing.T) {
	var set GameplayTags
	set = set.With(TagHazard).With(TagPlayer)
	assert.True(t, set.Has(TagPlayer))
	assert.False(t, set.Has(TagEnemy))
	assert.Equal(t, []string{"player", "hazard"}, set.Names())
	assert.False(t, set.Without(TagHazard).Has(TagHazard))

	tag, ok := ParseGameplayTag("interactive")
	assert.True(t, ok)
	assert.Equal(t, TagInteractive, tag)
	_, ok = ParseGameplayTag("Player")
	assert.False(t, ok)
}
