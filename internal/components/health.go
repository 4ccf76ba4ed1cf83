package components

import (
	"github.com/mironco/scenecore/internal/engine"
)

// Health kills its owner when it drops to zero.
type Health struct {
	engine.BaseComponent
	MaxHealth float32
	Health    float32

	// Died fires once, before the owner is killed, with the final source.
	Died engine.EventWithArg[*engine.Entity]
}

func NewHealth(maxHealth float32) *Health {
	return &Health{MaxHealth: maxHealth, Health: maxHealth}
}

func healthFromState(s engine.ComponentState) *Health {
	h := NewHealth(s.Float("maxHealth", 100))
	h.Health = min(s.Float("health", h.MaxHealth), h.MaxHealth)
	return h
}

func (h *Health) IsDead() bool { return h.Health <= 0 }

func (h *Health) OnDamage(amount float32, source *engine.Entity) {
	owner := h.Entity()
	if owner == nil || h.IsDead() || amount <= 0 {
		return
	}
	h.Health -= amount
	if h.Health > 0 {
		return
	}
	h.Health = 0
	h.Died.Invoke(source)
	if w := owner.World(); w != nil {
		w.Destroy(owner)
		return
	}
	owner.Kill()
}

// Heal restores up to MaxHealth. The dead stay dead.
func (h *Health) Heal(amount float32) {
	if h.IsDead() || amount <= 0 {
		return
	}
	h.Health = min(h.Health+amount, h.MaxHealth)
}

func (h *Health) SaveState() engine.ComponentState {
	return h.State(map[string]any{
		"maxHealth": h.MaxHealth,
		"health":    h.Health,
	})
}
