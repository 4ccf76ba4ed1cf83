// Package components holds the gameplay components scenes are built from.
package components

import (
	"fmt"

	"github.com/mironco/scenecore/internal/engine"
)

// Type tags as they appear in scene documents.
const (
	TypeHealth              = "health"
	TypeContactDamage       = "contact_damage"
	TypeCharacterController = "character_controller"
	TypeRotator             = "rotator"
	TypeLifetime            = "lifetime"
	TypeCollisionSound      = "collision_sound"
	TypeCollectible         = "collectible"
)

// Register adds every built-in component factory to r.
func Register(r *engine.ComponentRegistry) {
	r.Register(TypeHealth, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return healthFromState(s), nil
	})
	r.Register(TypeContactDamage, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return contactDamageFromState(s)
	})
	r.Register(TypeCharacterController, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return characterControllerFromState(s), nil
	})
	r.Register(TypeRotator, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return &Rotator{Speed: s.Float("speed", 90), angle: s.Float("angle", 0)}, nil
	})
	r.Register(TypeLifetime, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return &Lifetime{Seconds: s.Float("seconds", 5), elapsed: s.Float("elapsed", 0)}, nil
	})
	r.Register(TypeCollisionSound, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return collisionSoundFromState(s), nil
	})
	r.Register(TypeCollectible, func(_ *engine.Entity, s engine.ComponentState) (engine.Component, error) {
		return collectibleFromState(s)
	})
}

// gameplayTag parses an optional tag prop. An empty value means any entity.
func gameplayTag(s engine.ComponentState, key, def string) (engine.GameplayTag, bool, error) {
	name := s.String(key, def)
	if name == "" {
		return 0, false, nil
	}
	t, ok := engine.ParseGameplayTag(name)
	if !ok {
		return 0, false, fmt.Errorf("%s: unknown gameplay tag %q", s.Type, name)
	}
	return t, true, nil
}
