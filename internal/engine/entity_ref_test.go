package engine

import "testing"

func TestEntityRefResolves(t *testing.T) {
	s, _ := newTestScene(false)
	e, _ := s.Spawn(thing("target"))

	ref := RefTo(e)
	if !ref.IsValid() || ref.Name != "target" {
		t.Fatalf("ref = %+v", ref)
	}
	if ref.Get(s) != e {
		t.Error("ref should resolve to target")
	}

	e.Kill()
	if ref.Get(s) != nil {
		t.Error("ref to dead entity should resolve to nil")
	}
	if !ref.IsValid() {
		t.Error("IsValid does not check liveness")
	}

	// A respawn gets a fresh id but keeps the name.
	again, _ := s.Spawn(thing("target"))
	if again.ID() == e.ID() {
		t.Fatal("respawn reused the id")
	}
	if ref.Get(s) != again {
		t.Error("ref should follow the name to the respawned entity")
	}
}

func TestEntityRefFollowsRename(t *testing.T) {
	s, _ := newTestScene(false)
	a, _ := s.Spawn(thing("a"))
	b, _ := s.Spawn(thing("b"))

	ref := RefTo(a)
	a.Name = "b2"
	b.Name = "a"
	if ref.Get(s) != b {
		t.Error("cached id must not win over a rename")
	}
}

func TestEntityRefEmpty(t *testing.T) {
	var ref EntityRef
	if ref.IsValid() || ref.Get(nil) != nil {
		t.Error("zero ref should be empty")
	}
	ref.Set(nil)
	if ref.Name != "" {
		t.Error("Set(nil) should clear")
	}
	ref.Name = "x"
	ref.Clear()
	if ref.IsValid() {
		t.Error("Clear should reset")
	}
}

func TestEventListeners(t *testing.T) {
	var ev EventWithArg[int]
	var got []int
	first := ev.AddListener(func(v int) { got = append(got, v) })
	ev.AddListener(func(v int) { got = append(got, v*10) })
	if ev.AddListener(nil) != 0 {
		t.Error("nil listener should not register")
	}

	ev.Invoke(1)
	ev.RemoveListener(first)
	ev.Invoke(2)

	want := []int{1, 10, 20}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}

	var plain Event
	n := 0
	plain.AddListener(func() { n++ })
	plain.Invoke()
	plain.RemoveAllListeners()
	plain.Invoke()
	if n != 1 || plain.GetListenerCount() != 0 {
		t.Errorf("plain event: n=%d listeners=%d", n, plain.GetListenerCount())
	}
}
