package engine

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ComponentFactory builds a component for owner from its serialized state.
type ComponentFactory func(owner *Entity, state ComponentState) (Component, error)

// ComponentRegistry maps component type tags to factories.
type ComponentRegistry struct {
	factories map[string]ComponentFactory
	lenient   bool
	log       *zap.Logger
}

// NewComponentRegistry creates a registry. In lenient mode unknown type tags
// are logged and skipped instead of failing construction.
func NewComponentRegistry(lenient bool, log *zap.Logger) *ComponentRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &ComponentRegistry{
		factories: make(map[string]ComponentFactory),
		lenient:   lenient,
		log:       log.Named("registry"),
	}
}

// Register associates typeTag with factory. A later registration for the
// same tag replaces the earlier one.
func (r *ComponentRegistry) Register(typeTag string, factory ComponentFactory) {
	r.factories[typeTag] = factory
}

func (r *ComponentRegistry) Has(typeTag string) bool {
	_, ok := r.factories[typeTag]
	return ok
}

func (r *ComponentRegistry) Lenient() bool { return r.lenient }

// Types returns the registered tags sorted.
func (r *ComponentRegistry) Types() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Create builds one component. A nil component with a nil error means the
// tag was unknown and the registry is lenient.
func (r *ComponentRegistry) Create(owner *Entity, state ComponentState) (Component, error) {
	factory, ok := r.factories[state.Type]
	if !ok {
		if r.lenient {
			r.log.Warn("skipping unknown component",
				zap.String("entity", owner.Name), zap.String("type", state.Type))
			return nil, nil
		}
		return nil, fmt.Errorf("%w %q on entity %q", ErrUnknownComponentType, state.Type, owner.Name)
	}
	c, err := factory(owner, state)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", state.Type, err)
	}
	if c == nil {
		return nil, fmt.Errorf("component %q: %w", state.Type, ErrNilComponent)
	}
	b := c.base()
	b.typeTag = state.Type
	switch {
	case state.Name != "":
		b.name = state.Name
	case b.name == "":
		b.name = state.Type
	}
	b.entity = owner
	return c, nil
}

// CreateMany builds components in order, dropping lenient skips. On the
// first error it returns the components built so far with the error.
func (r *ComponentRegistry) CreateMany(owner *Entity, states []ComponentState) ([]Component, error) {
	out := make([]Component, 0, len(states))
	for _, st := range states {
		c, err := r.Create(owner, st)
		if err != nil {
			return out, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// EntityType holds the per-type hooks. Setup runs on every load after the
// node exists and its transform is applied.
type EntityType struct {
	Setup   func(e *Entity) error
	Update  func(e *Entity, deltaTime float32)
	Destroy func(e *Entity)
}

type EntityTypeRegistry struct {
	types map[string]EntityType
}

func NewEntityTypeRegistry() *EntityTypeRegistry {
	return &EntityTypeRegistry{types: make(map[string]EntityType)}
}

func (r *EntityTypeRegistry) Register(name string, t EntityType) {
	r.types[name] = t
}

func (r *EntityTypeRegistry) Lookup(name string) (EntityType, error) {
	t, ok := r.types[name]
	if !ok {
		return EntityType{}, fmt.Errorf("%w %q", ErrUnknownEntityType, name)
	}
	return t, nil
}

func (r *EntityTypeRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.types))
}
