package bounds

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// Empty returns a box that any Extend call will replace.
func Empty() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: rl.Vector3{X: inf, Y: inf, Z: inf},
		Max: rl.Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// FromCenter creates an AABB from a center point and full size dimensions.
func FromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: absf(size.X) / 2, Y: absf(size.Y) / 2, Z: absf(size.Z) / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// IsEmpty reports whether the box contains no point.
func (a AABB) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// Extend grows the box to contain p.
func (a AABB) Extend(p rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3{X: minf(a.Min.X, p.X), Y: minf(a.Min.Y, p.Y), Z: minf(a.Min.Z, p.Z)},
		Max: rl.Vector3{X: maxf(a.Max.X, p.X), Y: maxf(a.Max.Y, p.Y), Z: maxf(a.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	if b.IsEmpty() {
		return a
	}
	return a.Extend(b.Min).Extend(b.Max)
}

// Inflate grows every face outwards by r.
func (a AABB) Inflate(r float32) AABB {
	d := rl.Vector3{X: r, Y: r, Z: r}
	return AABB{Min: rl.Vector3Subtract(a.Min, d), Max: rl.Vector3Add(a.Max, d)}
}

func (a AABB) Intersects(b AABB) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	// Penetration depth in each direction
	dx1 := b.Max.X - a.Min.X // push a in +X
	dx2 := a.Max.X - b.Min.X // push a in -X
	dy1 := b.Max.Y - a.Min.Y // push a in +Y
	dy2 := a.Max.Y - b.Min.Y // push a in -Y
	dz1 := b.Max.Z - a.Min.Z // push a in +Z
	dz2 := a.Max.Z - b.Min.Z // push a in -Z

	min := dx1
	result := rl.Vector3{X: dx1}

	if dx2 < min {
		min = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < min {
		min = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < min {
		min = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < min {
		min = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < min {
		result = rl.Vector3{Z: -dz2}
	}

	return result
}

// Transform returns the world AABB of a local box after applying m.
func (a AABB) Transform(m rl.Matrix) AABB {
	if a.IsEmpty() {
		return a
	}
	out := Empty()
	for i := 0; i < 8; i++ {
		corner := rl.Vector3{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z}
		if i&1 != 0 {
			corner.X = a.Max.X
		}
		if i&2 != 0 {
			corner.Y = a.Max.Y
		}
		if i&4 != 0 {
			corner.Z = a.Max.Z
		}
		out = out.Extend(rl.Vector3Transform(corner, m))
	}
	return out
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
