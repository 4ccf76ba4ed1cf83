package rigid

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/render"
)

// StepHeight is the tallest ledge a character climbs without jumping.
const StepHeight = 0.35

// MoveCharacter moves horizontally first, then vertically, pushing the
// body's box out of everything non-kinematic it touches.
func (w *World) MoveCharacter(id physics.BodyID, desired rl.Vector3) (rl.Vector3, bool) {
	self, ok := w.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	start := self.pos
	if self.target != nil {
		start = *self.target
	}
	pos := start
	grounded := false

	// Short substeps keep a fast move from tunnelling through thin colliders.
	size := self.shape.LocalBounds().Size()
	stride := max(0.05, min(size.X, size.Y, size.Z)/4)

	move := func(motion rl.Vector3, horizontal bool) {
		n := int(math.Ceil(float64(rl.Vector3Length(motion) / stride)))
		if n == 0 {
			return
		}
		step := rl.Vector3Scale(motion, 1/float32(n))
		for i := 0; i < n; i++ {
			var g bool
			pos, g = w.sweep(self, pos, step, horizontal)
			grounded = grounded || g
		}
	}
	move(rl.Vector3{X: desired.X, Z: desired.Z}, true)
	move(rl.Vector3{Y: desired.Y}, false)
	return rl.Vector3Subtract(pos, start), grounded
}

func (w *World) boxAt(self *body, pos rl.Vector3) bounds.AABB {
	return self.shape.LocalBounds().Transform(
		rl.MatrixMultiply(rl.QuaternionToMatrix(self.rot), rl.MatrixTranslate(pos.X, pos.Y, pos.Z)))
}

func (w *World) sweep(self *body, pos, motion rl.Vector3, horizontal bool) (rl.Vector3, bool) {
	pos = rl.Vector3Add(pos, motion)
	grounded := false

	for _, other := range w.order {
		if other == self || other.kind == physics.Kinematic {
			continue
		}
		box := w.boxAt(self, pos)

		if other.shape.Kind == render.KindHeightfield {
			c := box.Center()
			h, ok := other.shape.HeightAt(c.X-other.pos.X, c.Z-other.pos.Z)
			if ok && box.Min.Y < other.pos.Y+h {
				pos.Y += other.pos.Y + h - box.Min.Y
				grounded = true
			}
			continue
		}

		ob := other.bounds()
		if !box.Intersects(ob) {
			continue
		}
		push := box.Resolve(ob)

		if horizontal && push.Y == 0 {
			rise := ob.Max.Y - box.Min.Y
			if rise > 0 && rise <= StepHeight {
				lifted := box
				lifted.Min.Y += rise + 0.01
				lifted.Max.Y += rise + 0.01
				if !lifted.Intersects(ob) {
					pos.Y += rise + 0.01
					grounded = true
					continue
				}
			}
		}

		pos = rl.Vector3Add(pos, push)
		if push.Y > 0 {
			grounded = true
		}
	}
	return pos, grounded
}
