package engine

import (
	"github.com/mironco/scenecore/internal/render"
)

// tracker records what happens to it.
type tracker struct {
	BaseComponent
	log       *[]string
	disposals int
	hits      []string
	damage    float32
	onDispose func(p *tracker)
}

func (p *tracker) Update(deltaTime float32) {
	*p.log = append(*p.log, p.Name())
}

func (p *tracker) Dispose() {
	p.disposals++
	if p.onDispose != nil {
		p.onDispose(p)
	}
}

func (p *tracker) OnCollision(other *Entity, started bool) {
	if started {
		p.hits = append(p.hits, "begin:"+other.Name)
	} else {
		p.hits = append(p.hits, "end:"+other.Name)
	}
}

func (p *tracker) OnDamage(amount float32, source *Entity) { p.damage += amount }

func (p *tracker) SaveState() ComponentState {
	return p.State(map[string]any{"damage": p.damage})
}

func newTestScene(lenient bool) (*Scene, *[]string) {
	var log []string
	reg := NewComponentRegistry(lenient, nil)
	reg.Register("tracker", func(owner *Entity, st ComponentState) (Component, error) {
		return &tracker{log: &log, damage: st.Float("damage", 0)}, nil
	})
	types := NewEntityTypeRegistry()
	types.Register("thing", EntityType{})
	return NewScene("test", reg, types, render.NewTree(), nil), &log
}

func trackerState(name string) ComponentState {
	return ComponentState{Type: "tracker", Name: name}
}

func thing(name string, comps ...ComponentState) EntityState {
	return EntityState{
		Name:       name,
		Type:       "thing",
		Components: comps,
		UserData:   UserData{Geometry: render.Box(1, 1, 1)},
	}
}
