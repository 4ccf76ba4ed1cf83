package components

import (
	"github.com/mironco/scenecore/internal/engine"
)

// ContactDamage hurts whatever its owner starts touching.
type ContactDamage struct {
	engine.BaseComponent
	Amount float32
	// Target restricts victims to one gameplay tag when HasTarget is set.
	Target    engine.GameplayTag
	HasTarget bool
	// DieOnHit kills the owner after it deals damage, like a projectile.
	DieOnHit bool
	// Source is credited with the damage instead of the owner, so a shot
	// can be traced back to whatever fired it.
	Source engine.EntityRef
}

func contactDamageFromState(s engine.ComponentState) (*ContactDamage, error) {
	tag, ok, err := gameplayTag(s, "target", "")
	if err != nil {
		return nil, err
	}
	return &ContactDamage{
		Amount:    s.Float("amount", 10),
		Target:    tag,
		HasTarget: ok,
		DieOnHit:  s.Bool("dieOnHit", false),
		Source:    engine.EntityRef{Name: s.String("source", "")},
	}, nil
}

func (c *ContactDamage) OnCollision(other *engine.Entity, started bool) {
	owner := c.Entity()
	if !started || owner == nil || other == nil || !other.Alive() {
		return
	}
	if c.HasTarget && !other.Is(c.Target) {
		return
	}
	source := owner
	if src := c.Source.Get(owner.Scene()); src != nil {
		source = src
	}
	other.Damage(c.Amount, source)
	if c.DieOnHit && owner.Alive() {
		owner.Kill()
	}
}

func (c *ContactDamage) SaveState() engine.ComponentState {
	props := map[string]any{"amount": c.Amount}
	if c.HasTarget {
		props["target"] = c.Target.String()
	}
	if c.DieOnHit {
		props["dieOnHit"] = true
	}
	if c.Source.IsValid() {
		props["source"] = c.Source.Name
	}
	return c.State(props)
}
