package engine

// Component is a unit of behavior owned by exactly one Entity.
// Implementations embed BaseComponent and override what they need.
type Component interface {
	Name() string
	TypeTag() string
	Entity() *Entity
	Update(deltaTime float32)
	SaveState() ComponentState
	// Dispose is the teardown hook. The owning entity guarantees it runs
	// exactly once; call Entity.RemoveComponent instead of invoking it.
	Dispose()

	base() *BaseComponent
}

// CollisionHandler is implemented by components that want physics
// contact begin/end notifications.
type CollisionHandler interface {
	OnCollision(other *Entity, started bool)
}

// DamageHandler is implemented by components that react to Entity.Damage.
type DamageHandler interface {
	OnDamage(amount float32, source *Entity)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	name     string
	typeTag  string
	entity   *Entity
	disposed bool
}

// Identify sets the instance name and the serialization type tag.
func (b *BaseComponent) Identify(name, typeTag string) {
	b.name = name
	b.typeTag = typeTag
}

func (b *BaseComponent) Name() string { return b.name }

func (b *BaseComponent) TypeTag() string { return b.typeTag }

// Entity returns the owner, or nil once the component is disposed.
func (b *BaseComponent) Entity() *Entity { return b.entity }

func (b *BaseComponent) Disposed() bool { return b.disposed }

// World returns the services of the owner's scene, or nil.
func (b *BaseComponent) World() WorldAccess {
	if b.entity == nil || b.entity.scene == nil {
		return nil
	}
	return b.entity.scene.Services
}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) Dispose() {}

// SaveState returns a state without props. Components with fields
// override it and build on State.
func (b *BaseComponent) SaveState() ComponentState {
	return b.State(nil)
}

// State builds a ComponentState carrying this component's identity.
func (b *BaseComponent) State(props map[string]any) ComponentState {
	return ComponentState{Type: b.typeTag, Name: b.name, Props: props}
}

func (b *BaseComponent) base() *BaseComponent { return b }

// dispose runs c's hook once and severs the owner reference.
func dispose(c Component) {
	b := c.base()
	if b.disposed {
		return
	}
	b.disposed = true
	c.Dispose()
	b.entity = nil
}
