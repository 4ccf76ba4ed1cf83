package components

import (
	"github.com/mironco/scenecore/internal/engine"
)

// Lifetime kills its owner after Seconds.
type Lifetime struct {
	engine.BaseComponent
	Seconds float32
	elapsed float32
}

func NewLifetime(seconds float32) *Lifetime {
	return &Lifetime{Seconds: seconds}
}

func (l *Lifetime) Update(deltaTime float32) {
	owner := l.Entity()
	if owner == nil {
		return
	}
	l.elapsed += deltaTime
	if l.elapsed < l.Seconds {
		return
	}
	if w := owner.World(); w != nil {
		w.Destroy(owner)
		return
	}
	owner.Kill()
}

func (l *Lifetime) Remaining() float32 { return max(l.Seconds-l.elapsed, 0) }

func (l *Lifetime) SaveState() engine.ComponentState {
	return l.State(map[string]any{"seconds": l.Seconds, "elapsed": l.elapsed})
}
