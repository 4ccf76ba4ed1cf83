// Package collision tests gameplay pairs ("enemies vs projectiles") by
// world-space AABB overlap, independent of the physics layer. Overlapping
// pairs report on every Update, not just on entry.
package collision

import (
	"slices"

	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
)

// Callback receives one overlapping pair, a from the A side.
type Callback func(a, b *engine.Entity)

type handler struct {
	a, b     []*engine.Entity
	callback Callback
}

// Manager holds named handlers, each an A set, a B set and a callback.
type Manager struct {
	handlers map[string]*handler
	order    []string
	log      *zap.Logger
}

func New(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		handlers: make(map[string]*handler),
		log:      log.Named("collision"),
	}
}

// AddHandler registers a handler, or replaces the callback of an existing
// one while keeping its sets. A nil callback is ignored.
func (m *Manager) AddHandler(name string, cb Callback) {
	if cb == nil {
		m.log.Warn("nil collision callback ignored", zap.String("handler", name))
		return
	}
	if h, ok := m.handlers[name]; ok {
		h.callback = cb
		return
	}
	m.handlers[name] = &handler{callback: cb}
	m.order = append(m.order, name)
}

func (m *Manager) RemoveHandler(name string) {
	if _, ok := m.handlers[name]; !ok {
		return
	}
	delete(m.handlers, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
}

// Handlers returns handler names in registration order.
func (m *Manager) Handlers() []string {
	return slices.Clone(m.order)
}

// AddA puts e on the A side of the named handler. It reports false when
// the handler does not exist.
func (m *Manager) AddA(name string, e *engine.Entity) bool {
	h := m.lookup(name)
	if h == nil || e == nil {
		return false
	}
	if !slices.Contains(h.a, e) {
		h.a = append(h.a, e)
	}
	return true
}

// AddB puts e on the B side of the named handler.
func (m *Manager) AddB(name string, e *engine.Entity) bool {
	h := m.lookup(name)
	if h == nil || e == nil {
		return false
	}
	if !slices.Contains(h.b, e) {
		h.b = append(h.b, e)
	}
	return true
}

// Remove takes e off both sides of the named handler.
func (m *Manager) Remove(name string, e *engine.Entity) {
	h, ok := m.handlers[name]
	if !ok {
		return
	}
	h.a = slices.DeleteFunc(h.a, func(x *engine.Entity) bool { return x == e })
	h.b = slices.DeleteFunc(h.b, func(x *engine.Entity) bool { return x == e })
}

// Sides returns how many entities each side of the named handler holds.
func (m *Manager) Sides(name string) (a, b int) {
	h, ok := m.handlers[name]
	if !ok {
		return 0, 0
	}
	return len(h.a), len(h.b)
}

func (m *Manager) lookup(name string) *handler {
	h, ok := m.handlers[name]
	if !ok {
		m.log.Warn("unknown collision handler", zap.String("handler", name))
		return nil
	}
	return h
}

// Update sweeps every handler once. Bounds are computed from the current
// world transforms, and dead entities are dropped from both sides.
func (m *Manager) Update() {
	for _, name := range slices.Clone(m.order) {
		h, ok := m.handlers[name]
		if !ok {
			continue
		}
		h.a = slices.DeleteFunc(h.a, dead)
		h.b = slices.DeleteFunc(h.b, dead)

		// callbacks may kill entities or edit the sets
		as, bs := slices.Clone(h.a), slices.Clone(h.b)
		for _, a := range as {
			for _, b := range bs {
				if a == b || !a.Alive() || !b.Alive() {
					continue
				}
				if overlaps(a, b) {
					h.callback(a, b)
				}
			}
		}
	}
}

func dead(e *engine.Entity) bool { return !e.Alive() || e.Node() == nil }

func overlaps(a, b *engine.Entity) bool {
	ba, bb := a.Node().WorldBounds(), b.Node().WorldBounds()
	if ba.IsEmpty() || bb.IsEmpty() {
		return false
	}
	return ba.Intersects(bb)
}
