package engine

import (
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/render"
)

// Scene is the entity arena. Entities are addressed by ID; render nodes
// carry that ID instead of a pointer back to the entity.
type Scene struct {
	Name       string
	Components *ComponentRegistry
	Types      *EntityTypeRegistry
	Graph      render.Graph
	Services   WorldAccess

	EntityAdded   EventWithArg[*Entity]
	EntityRemoved EventWithArg[*Entity]
	EntityChanged EventWithArg[*Entity]

	byID   *intmap.Map[ID, *Entity]
	order  []*Entity
	nextID ID
	log    *zap.Logger
}

func NewScene(name string, components *ComponentRegistry, types *EntityTypeRegistry, graph render.Graph, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		Name:       name,
		Components: components,
		Types:      types,
		Graph:      graph,
		byID:       intmap.New[ID, *Entity](256),
		log:        log.Named("scene"),
	}
}

// Spawn constructs an entity from state and adds it to the scene. A
// construction error discards the entity and leaves the scene untouched.
func (s *Scene) Spawn(state EntityState) (*Entity, error) {
	s.nextID++
	e := &Entity{id: s.nextID, scene: s}
	if err := e.LoadState(state); err != nil {
		for _, c := range e.components {
			dispose(c)
		}
		return nil, err
	}
	s.byID.Put(e.id, e)
	s.order = append(s.order, e)
	if s.Graph != nil {
		s.Graph.Attach(e.node, nil)
	}
	s.EntityAdded.Invoke(e)
	return e, nil
}

// Remove kills e if it belongs to this scene.
func (s *Scene) Remove(e *Entity) {
	if e != nil && s.contains(e) {
		e.Kill()
	}
}

func (s *Scene) forget(e *Entity) {
	if !s.contains(e) {
		return
	}
	s.byID.Del(e.id)
	if i := slices.Index(s.order, e); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.EntityRemoved.Invoke(e)
}

func (s *Scene) contains(e *Entity) bool {
	got, ok := s.byID.Get(e.id)
	return ok && got == e
}

// Lookup resolves an ID. Killed entities are not found.
func (s *Scene) Lookup(id ID) *Entity {
	e, _ := s.byID.Get(id)
	return e
}

// EntityForNode resolves a render node back-reference.
func (s *Scene) EntityForNode(n *render.Node) *Entity {
	if n == nil || n.EntityID == 0 {
		return nil
	}
	return s.Lookup(ID(n.EntityID))
}

// Entities returns the live entities in insertion order.
func (s *Scene) Entities() []*Entity {
	return slices.Clone(s.order)
}

func (s *Scene) Len() int { return len(s.order) }

func (s *Scene) FindByName(name string) *Entity {
	for _, e := range s.order {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*Entity {
	var result []*Entity
	for _, e := range s.order {
		if e.HasTag(tag) {
			result = append(result, e)
		}
	}
	return result
}

func (s *Scene) FindByGameplayTag(t GameplayTag) []*Entity {
	var result []*Entity
	for _, e := range s.order {
		if e.Is(t) {
			result = append(result, e)
		}
	}
	return result
}

// Update ticks every entity alive at the start of the call.
func (s *Scene) Update(deltaTime float32) {
	for _, e := range s.Entities() {
		e.Update(deltaTime)
	}
}

// Dispose kills every entity. Only call it between frames.
func (s *Scene) Dispose() {
	for _, e := range s.Entities() {
		e.Kill()
	}
	s.byID.Clear()
	s.order = nil
}
