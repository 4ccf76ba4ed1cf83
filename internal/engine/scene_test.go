package engine

import (
	"testing"

	"github.com/mironco/scenecore/internal/render"
)

func TestSceneIDsAreNotReused(t *testing.T) {
	s, _ := newTestScene(false)
	a, _ := s.Spawn(thing("a"))
	a.Kill()
	b, _ := s.Spawn(thing("b"))

	if a.ID() == b.ID() {
		t.Errorf("expected fresh id, both are %d", a.ID())
	}
	if s.Lookup(a.ID()) != nil {
		t.Error("killed entity should not resolve")
	}
}

func TestSceneNodeBackReference(t *testing.T) {
	s, _ := newTestScene(false)
	e, _ := s.Spawn(thing("a"))

	if got := s.EntityForNode(e.Node()); got != e {
		t.Errorf("EntityForNode = %v, want %v", got, e)
	}
	if s.EntityForNode(render.NewNode("loose", render.Geometry{})) != nil {
		t.Error("node without back-reference should not resolve")
	}
	tree := s.Graph.(*render.Tree)
	if tree.Len() != 1 {
		t.Errorf("expected 1 attached node, got %d", tree.Len())
	}
}

func TestSceneFind(t *testing.T) {
	s, _ := newTestScene(false)
	st := thing("player")
	st.Tags = []string{"hero"}
	st.GameplayTags = []string{"player"}
	s.Spawn(st)
	s.Spawn(thing("rock"))

	if s.FindByName("rock") == nil {
		t.Error("FindByName should find rock")
	}
	if s.FindByName("nobody") != nil {
		t.Error("FindByName should return nil for missing names")
	}
	if got := s.FindByTag("hero"); len(got) != 1 {
		t.Errorf("FindByTag: expected 1, got %d", len(got))
	}
	if got := s.FindByGameplayTag(TagPlayer); len(got) != 1 || got[0].Name != "player" {
		t.Errorf("FindByGameplayTag: unexpected %v", got)
	}
}

func TestSceneUpdateSurvivesKillDuringUpdate(t *testing.T) {
	s, log := newTestScene(false)
	var victim *Entity
	s.Types.Register("killer", EntityType{Update: func(e *Entity, dt float32) { victim.Kill() }})

	killer := thing("killer")
	killer.Type = "killer"
	s.Spawn(killer)
	victim, _ = s.Spawn(thing("victim", trackerState("v")))

	s.Update(0.1)
	if len(*log) != 0 {
		t.Errorf("killed entity should not update, got %v", *log)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entity left, got %d", s.Len())
	}
}

func TestSceneDispose(t *testing.T) {
	s, _ := newTestScene(false)
	var comps []Component
	for _, n := range []string{"a", "b", "c"} {
		e, _ := s.Spawn(thing(n, trackerState("p")))
		comps = append(comps, e.Components()...)
	}
	s.Dispose()
	s.Dispose()

	if s.Len() != 0 {
		t.Errorf("expected empty scene, got %d", s.Len())
	}
	for _, c := range comps {
		if d := c.(*tracker).disposals; d != 1 {
			t.Errorf("component disposed %d times", d)
		}
	}
}
