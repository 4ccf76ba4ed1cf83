package planar

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"

	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/render"
)

// skin keeps a resting character just off the surface it stands on.
const skin = 0.01

// MoveCharacter sweeps the body's foot circle along X, then along Y, and
// stops short of the first shape hit.
func (s *Space) MoveCharacter(id physics.BodyID, desired rl.Vector3) (rl.Vector3, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	p := b.body.Position()
	if b.target != nil {
		p = cp.Vector{X: float64(b.target.X), Y: float64(b.target.Y)}
	}
	start := p
	radius, reach := footprint(b.desc.Shape)
	filter := cp.NewShapeFilter(uint(id), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	grounded := false

	if dx := float64(desired.X); dx != 0 {
		p.X += s.cast(p, cp.Vector{X: dx}, radius, filter)
	}
	if dy := float64(desired.Y); dy != 0 {
		foot := cp.Vector{X: p.X, Y: p.Y + math.Copysign(reach, dy)}
		moved := s.cast(foot, cp.Vector{Y: dy}, radius, filter)
		if dy < 0 && moved > dy {
			grounded = true
		}
		p.Y += moved
	}
	return rl.Vector3{X: float32(p.X - start.X), Y: float32(p.Y - start.Y), Z: desired.Z}, grounded
}

// cast returns how far along motion a circle of radius r at from can go.
func (s *Space) cast(from, motion cp.Vector, r float64, filter cp.ShapeFilter) float64 {
	dist := motion.Length()
	to := from.Add(motion)
	info := s.space.SegmentQueryFirst(from, to, r, filter)
	if info.Shape == nil {
		return component(motion)
	}
	travel := math.Max(info.Alpha*dist-skin, 0)
	return math.Copysign(travel, component(motion))
}

func component(v cp.Vector) float64 {
	if v.X != 0 {
		return v.X
	}
	return v.Y
}

// footprint is the swept circle radius and the distance from the body
// center to the circle at either end.
func footprint(sh physics.Shape) (radius, reach float64) {
	switch sh.Kind {
	case render.KindSphere:
		return float64(sh.Radius), 0
	case render.KindCapsule:
		return float64(sh.Radius), float64(sh.HalfHeight)
	}
	b := sh.LocalBounds()
	hx, hy := float64(b.Max.X-b.Min.X)/2, float64(b.Max.Y-b.Min.Y)/2
	r := math.Min(hx, hy)
	return r, hy - r
}
