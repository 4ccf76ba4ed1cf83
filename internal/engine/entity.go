package engine

import (
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/render"
)

// ID identifies an entity within its scene. IDs are never reused.
type ID uint64

// BindingHandle indexes the physics layer's binding table. Zero means unbound.
type BindingHandle uint32

// Entity is one render node plus an ordered list of components plus an
// optional physics binding. Entities are created through Scene.Spawn.
type Entity struct {
	Name     string
	UserData UserData

	id         ID
	entityType string
	node       *render.Node
	components []Component
	tags       []string
	gameplay   GameplayTags
	alive      bool
	scene      *Scene
	binding    BindingHandle
}

func (e *Entity) ID() ID { return e.id }

func (e *Entity) Type() string { return e.entityType }

// Node returns the render node. It is non-nil while the entity is alive.
func (e *Entity) Node() *render.Node { return e.node }

func (e *Entity) Scene() *Scene { return e.scene }

func (e *Entity) Alive() bool { return e.alive }

func (e *Entity) Binding() BindingHandle { return e.binding }

// SetBinding is called by the physics layer only.
func (e *Entity) SetBinding(h BindingHandle) { e.binding = h }

// World returns the scene services, or nil.
func (e *Entity) World() WorldAccess {
	if e.scene == nil {
		return nil
	}
	return e.scene.Services
}

// Position is the world position of the render node.
func (e *Entity) Position() rl.Vector3 {
	if e.node == nil {
		return rl.Vector3{}
	}
	return e.node.WorldPosition()
}

func (e *Entity) AddComponent(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if !e.alive && e.node == nil {
		return ErrEntityDead
	}
	b := c.base()
	if b.disposed || (b.entity != nil && b.entity != e) {
		return fmt.Errorf("%w: %q", ErrComponentOwned, b.name)
	}
	if b.name == "" {
		b.name = b.typeTag
	}
	b.entity = e
	e.components = append(e.components, c)
	return nil
}

// RemoveComponent disposes and detaches every component named name and
// returns how many were removed. Each dispose hook runs while its component
// is still attached.
func (e *Entity) RemoveComponent(name string) int {
	removed := 0
	for _, c := range slices.Clone(e.components) {
		if c.Name() != name {
			continue
		}
		dispose(c)
		if i := slices.Index(e.components, c); i >= 0 {
			e.components = slices.Delete(e.components, i, i+1)
		}
		removed++
	}
	return removed
}

// GetComponent returns the first component named name.
func (e *Entity) GetComponent(name string) (Component, bool) {
	for _, c := range e.components {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// GetComponent returns the first component of type T.
func GetComponent[T Component](e *Entity) (T, bool) {
	var zero T
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// Components returns the components in dispatch order.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

func (e *Entity) Tags() []string { return slices.Clone(e.tags) }

func (e *Entity) HasTag(tag string) bool { return slices.Contains(e.tags, tag) }

func (e *Entity) AddTag(tag string) {
	if !e.HasTag(tag) {
		e.tags = append(e.tags, tag)
	}
}

func (e *Entity) RemoveTag(tag string) {
	e.tags = slices.DeleteFunc(e.tags, func(t string) bool { return t == tag })
}

func (e *Entity) GameplayTags() GameplayTags { return e.gameplay }

func (e *Entity) Is(t GameplayTag) bool { return e.gameplay.Has(t) }

func (e *Entity) AddGameplayTag(t GameplayTag) { e.gameplay = e.gameplay.With(t) }

func (e *Entity) RemoveGameplayTag(t GameplayTag) { e.gameplay = e.gameplay.Without(t) }

// Update runs the entity type hook, then every component in insertion order.
func (e *Entity) Update(deltaTime float32) {
	if !e.alive {
		return
	}
	if t := e.typeHooks(); t.Update != nil {
		t.Update(e, deltaTime)
	}
	for _, c := range slices.Clone(e.components) {
		if !e.alive {
			return
		}
		if c.base().disposed {
			continue
		}
		c.Update(deltaTime)
	}
}

// Damage forwards to every DamageHandler component.
func (e *Entity) Damage(amount float32, source *Entity) {
	for _, c := range slices.Clone(e.components) {
		if !e.alive {
			return
		}
		if h, ok := c.(DamageHandler); ok && !c.base().disposed {
			h.OnDamage(amount, source)
		}
	}
}

// Collide forwards a contact notification to every CollisionHandler component.
func (e *Entity) Collide(other *Entity, started bool) {
	for _, c := range slices.Clone(e.components) {
		if !e.alive {
			return
		}
		if h, ok := c.(CollisionHandler); ok && !c.base().disposed {
			h.OnCollision(other, started)
		}
	}
}

// Kill tears the entity down. Calling it again is a no-op, and the entity
// must not be used afterwards.
func (e *Entity) Kill() {
	if e.node == nil {
		return
	}
	e.alive = false
	if t := e.typeHooks(); t.Destroy != nil {
		t.Destroy(e)
	}
	scene := e.scene
	if scene != nil {
		scene.forget(e)
		if scene.Graph != nil {
			scene.Graph.Detach(e.node, nil)
		}
	}
	for _, c := range e.components {
		dispose(c)
	}
	e.components = nil
	e.tags = nil
	e.gameplay = 0
	e.node = nil
	e.scene = nil
	e.UserData = UserData{}
}

// SaveState snapshots the node transform into UserData and returns the
// entity as a document record.
func (e *Entity) SaveState() EntityState {
	if e.node != nil {
		n := e.node
		e.UserData.Transform = CaptureTransform(n.Position, n.Rotation, n.Scale)
		if n.IsInstanced() {
			e.UserData.Instances = make([]TransformState, len(n.Instances))
			for i, in := range n.Instances {
				e.UserData.Instances[i] = CaptureTransform(in.Position, in.Rotation, in.Scale)
			}
		}
	}
	states := make([]ComponentState, 0, len(e.components))
	for _, c := range e.components {
		states = append(states, c.SaveState().clone())
	}
	return EntityState{
		Name:         e.Name,
		Type:         e.entityType,
		Tags:         e.Tags(),
		GameplayTags: e.gameplay.Names(),
		Components:   states,
		UserData:     e.UserData.Clone(),
	}
}

// LoadState replaces identity, tags, user data and the whole component list.
// On error the entity is left exactly as it was.
func (e *Entity) LoadState(state EntityState) error {
	if e.scene == nil {
		return ErrEntityDead
	}
	hooks, err := e.scene.Types.Lookup(state.Type)
	if err != nil {
		return err
	}

	prev := e.snapshot()
	old := e.components
	e.components = nil
	built, err := e.apply(state, hooks)
	if err != nil {
		for _, c := range built {
			dispose(c)
		}
		prev.restore(e)
		e.components = old
		return err
	}
	for _, c := range old {
		dispose(c)
	}
	e.components = built
	e.alive = true
	if e.scene.contains(e) {
		e.scene.EntityChanged.Invoke(e)
	}
	return nil
}

// apply writes state onto the entity and node, runs the type setup and
// builds the new component list. The caller restores on error.
func (e *Entity) apply(state EntityState, hooks EntityType) ([]Component, error) {
	e.Name = state.Name
	e.entityType = state.Type
	e.tags = nil
	for _, t := range state.Tags {
		e.AddTag(t)
	}
	e.gameplay = 0
	for _, name := range state.GameplayTags {
		t, ok := ParseGameplayTag(name)
		if !ok {
			e.scene.log.Warn("unknown gameplay tag", zap.String("entity", state.Name), zap.String("tag", name))
			continue
		}
		e.gameplay = e.gameplay.With(t)
	}
	e.UserData = state.UserData.Clone()

	if e.node == nil {
		e.node = render.NewNode(state.Name, e.UserData.Geometry)
		e.node.EntityID = uint64(e.id)
	}
	e.node.Name = state.Name
	e.node.Geometry = e.UserData.Geometry
	tr := e.UserData.Transform
	e.node.Position = tr.Position.RL()
	e.node.Rotation = tr.Quaternion()
	e.node.Scale = tr.ScaleOrOne()

	if hooks.Setup != nil {
		if err := hooks.Setup(e); err != nil {
			return nil, fmt.Errorf("setup %q: %w", state.Type, err)
		}
	}
	return e.scene.Components.CreateMany(e, state.Components)
}

// entitySnapshot is everything LoadState may overwrite besides components.
type entitySnapshot struct {
	name       string
	entityType string
	tags       []string
	gameplay   GameplayTags
	userData   UserData
	hadNode    bool
	node       render.Node
}

func (e *Entity) snapshot() entitySnapshot {
	s := entitySnapshot{
		name:       e.Name,
		entityType: e.entityType,
		tags:       slices.Clone(e.tags),
		gameplay:   e.gameplay,
		userData:   e.UserData.Clone(),
		hadNode:    e.node != nil,
	}
	if e.node != nil {
		s.node = render.Node{
			Name:      e.node.Name,
			Position:  e.node.Position,
			Rotation:  e.node.Rotation,
			Scale:     e.node.Scale,
			Geometry:  e.node.Geometry,
			Instances: slices.Clone(e.node.Instances),
		}
	}
	return s
}

func (s entitySnapshot) restore(e *Entity) {
	e.Name = s.name
	e.entityType = s.entityType
	e.tags = s.tags
	e.gameplay = s.gameplay
	e.UserData = s.userData
	if !s.hadNode {
		e.node = nil
		return
	}
	n := e.node
	n.Name = s.node.Name
	n.Position = s.node.Position
	n.Rotation = s.node.Rotation
	n.Scale = s.node.Scale
	n.Geometry = s.node.Geometry
	n.Instances = s.node.Instances
}

func (e *Entity) typeHooks() EntityType {
	if e.scene == nil || e.scene.Types == nil {
		return EntityType{}
	}
	t, _ := e.scene.Types.Lookup(e.entityType)
	return t
}
