package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/engine"
)

// Rotator spins its owner about the world Y axis.
type Rotator struct {
	engine.BaseComponent
	Speed float32 // degrees per second
	angle float32
}

func NewRotator(speed float32) *Rotator {
	return &Rotator{Speed: speed}
}

func (r *Rotator) Update(deltaTime float32) {
	owner := r.Entity()
	if owner == nil || owner.Node() == nil {
		return
	}
	step := r.Speed * deltaTime
	r.angle += step
	if r.angle >= 360 {
		r.angle -= 360
	} else if r.angle < 0 {
		r.angle += 360
	}
	n := owner.Node()
	spin := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, step*rl.Deg2rad)
	n.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(spin, n.Rotation))
}

// Angle is the accumulated rotation in [0, 360).
func (r *Rotator) Angle() float32 { return r.angle }

func (r *Rotator) SaveState() engine.ComponentState {
	return r.State(map[string]any{"speed": r.Speed, "angle": r.angle})
}
