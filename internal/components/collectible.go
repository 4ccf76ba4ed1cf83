package components

import (
	"github.com/mironco/scenecore/internal/engine"
)

// Collectible scores Points and disappears when an entity carrying Target
// touches it. With HasTarget unset any live entity collects it.
type Collectible struct {
	engine.BaseComponent
	Points    int
	Target    engine.GameplayTag
	HasTarget bool
	Sound     string

	collected bool
}

func collectibleFromState(s engine.ComponentState) (*Collectible, error) {
	tag, ok, err := gameplayTag(s, "target", engine.TagPlayer.String())
	if err != nil {
		return nil, err
	}
	return &Collectible{
		Points:    s.Int("points", 1),
		Target:    tag,
		HasTarget: ok,
		Sound:     s.String("sound", ""),
	}, nil
}

func (c *Collectible) OnCollision(other *engine.Entity, started bool) {
	if started {
		c.Collect(other)
	}
}

// Collect awards the points once if by qualifies. It reports whether the
// pickup happened.
func (c *Collectible) Collect(by *engine.Entity) bool {
	owner := c.Entity()
	if c.collected || owner == nil || by == nil || !by.Alive() {
		return false
	}
	if c.HasTarget && !by.Is(c.Target) {
		return false
	}
	c.collected = true
	w := owner.World()
	if w == nil {
		owner.Kill()
		return true
	}
	w.AddScore(c.Points)
	if c.Sound != "" {
		w.PlaySoundAtPosition(c.Sound, owner.Position())
	}
	w.Destroy(owner)
	return true
}

func (c *Collectible) SaveState() engine.ComponentState {
	// An empty target is kept so a reload does not fall back to player.
	props := map[string]any{"points": c.Points, "target": ""}
	if c.HasTarget {
		props["target"] = c.Target.String()
	}
	if c.Sound != "" {
		props["sound"] = c.Sound
	}
	return c.State(props)
}
