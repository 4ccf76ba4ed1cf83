package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/engine"
)

// CollisionSound plays a sound where its owner starts touching something.
type CollisionSound struct {
	engine.BaseComponent
	Sound string
	// Cooldown is the minimum time in seconds between two plays.
	Cooldown float32
	since    float32
}

func collisionSoundFromState(s engine.ComponentState) *CollisionSound {
	c := &CollisionSound{
		Sound:    s.String("sound", ""),
		Cooldown: s.Float("cooldown", 0.1),
	}
	c.since = c.Cooldown
	return c
}

func (c *CollisionSound) Update(deltaTime float32) {
	c.since += deltaTime
}

func (c *CollisionSound) OnCollision(other *engine.Entity, started bool) {
	owner := c.Entity()
	if !started || owner == nil || c.Sound == "" || c.since < c.Cooldown {
		return
	}
	w := owner.World()
	if w == nil {
		return
	}
	at := owner.Position()
	if other != nil && other.Node() != nil {
		at = rl.Vector3Lerp(at, other.Position(), 0.5)
	}
	w.PlaySoundAtPosition(c.Sound, at)
	c.since = 0
}

func (c *CollisionSound) SaveState() engine.ComponentState {
	return c.State(map[string]any{"sound": c.Sound, "cooldown": c.Cooldown})
}
