package physics

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/render"
)

// Shape is a collider in body-local space.
type Shape struct {
	Kind render.GeometryKind
	// HalfExtents is used by box and rounded_box.
	HalfExtents rl.Vector3
	// Radius is the sphere/capsule radius, or the rounded_box corner.
	Radius float32
	// HalfHeight is half the distance between capsule cap centers.
	HalfHeight float32
	Points     []rl.Vector3

	// Heightfield samples, row-major, spanning Width x Depth centered on the body.
	Rows, Cols   int
	Heights      []float32
	Width, Depth float32
}

// ShapeFor maps render geometry to its collider. Each physics-capable kind
// has exactly one mapping.
func ShapeFor(g render.Geometry) (Shape, error) {
	switch g.Kind {
	case render.KindBox, render.KindRoundedBox:
		if g.Width <= 0 || g.Height <= 0 || g.Depth <= 0 {
			return Shape{}, fmt.Errorf("%w: %s with non-positive size", ErrUnsupportedGeometry, g.Kind)
		}
		return Shape{
			Kind:        g.Kind,
			HalfExtents: rl.Vector3{X: g.Width / 2, Y: g.Height / 2, Z: g.Depth / 2},
			Radius:      g.Radius,
		}, nil
	case render.KindSphere:
		if g.Radius <= 0 {
			return Shape{}, fmt.Errorf("%w: sphere with non-positive radius", ErrUnsupportedGeometry)
		}
		return Shape{Kind: g.Kind, Radius: g.Radius}, nil
	case render.KindCapsule:
		if g.Radius <= 0 || g.Height < 0 {
			return Shape{}, fmt.Errorf("%w: capsule with invalid size", ErrUnsupportedGeometry)
		}
		return Shape{Kind: g.Kind, Radius: g.Radius, HalfHeight: g.Height / 2}, nil
	case render.KindConvex:
		if len(g.Points) < 4 {
			return Shape{}, fmt.Errorf("%w: convex hull needs at least 4 points, got %d", ErrUnsupportedGeometry, len(g.Points))
		}
		pts := make([]rl.Vector3, len(g.Points))
		for i, p := range g.Points {
			pts[i] = p.RL()
		}
		return Shape{Kind: g.Kind, Points: pts}, nil
	case render.KindHeightfield:
		if g.Rows < 2 || g.Cols < 2 || len(g.Heights) != g.Rows*g.Cols {
			return Shape{}, fmt.Errorf("%w: heightfield %dx%d with %d samples", ErrUnsupportedGeometry, g.Rows, g.Cols, len(g.Heights))
		}
		return Shape{
			Kind:    g.Kind,
			Rows:    g.Rows,
			Cols:    g.Cols,
			Heights: append([]float32(nil), g.Heights...),
			Width:   g.Width,
			Depth:   g.Depth,
		}, nil
	}
	return Shape{}, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, g.Kind)
}

// LocalBounds is the collider AABB in body space.
func (s Shape) LocalBounds() bounds.AABB {
	switch s.Kind {
	case render.KindBox, render.KindRoundedBox:
		return bounds.AABB{Min: rl.Vector3Negate(s.HalfExtents), Max: s.HalfExtents}
	case render.KindSphere:
		r := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
		return bounds.AABB{Min: rl.Vector3Negate(r), Max: r}
	case render.KindCapsule:
		h := rl.Vector3{X: s.Radius, Y: s.HalfHeight + s.Radius, Z: s.Radius}
		return bounds.AABB{Min: rl.Vector3Negate(h), Max: h}
	case render.KindConvex:
		b := bounds.Empty()
		for _, p := range s.Points {
			b = b.Extend(p)
		}
		return b
	case render.KindHeightfield:
		lo, hi := s.Heights[0], s.Heights[0]
		for _, h := range s.Heights {
			lo = min(lo, h)
			hi = max(hi, h)
		}
		return bounds.AABB{
			Min: rl.Vector3{X: -s.Width / 2, Y: lo, Z: -s.Depth / 2},
			Max: rl.Vector3{X: s.Width / 2, Y: hi, Z: s.Depth / 2},
		}
	}
	return bounds.Empty()
}

// Volume approximates the collider volume, used to turn density into mass.
func (s Shape) Volume() float32 {
	switch s.Kind {
	case render.KindBox, render.KindRoundedBox:
		return 8 * s.HalfExtents.X * s.HalfExtents.Y * s.HalfExtents.Z
	case render.KindSphere:
		return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	case render.KindCapsule:
		r := s.Radius
		return math.Pi*r*r*2*s.HalfHeight + 4.0/3.0*math.Pi*r*r*r
	case render.KindConvex:
		sz := s.LocalBounds().Size()
		return sz.X * sz.Y * sz.Z
	}
	return 0
}

// HeightAt samples the heightfield at local (x, z) with bilinear filtering.
// ok is false outside the field.
func (s Shape) HeightAt(x, z float32) (float32, bool) {
	if s.Kind != render.KindHeightfield || s.Width <= 0 || s.Depth <= 0 {
		return 0, false
	}
	u := (x/s.Width + 0.5) * float32(s.Cols-1)
	v := (z/s.Depth + 0.5) * float32(s.Rows-1)
	if u < 0 || v < 0 || u > float32(s.Cols-1) || v > float32(s.Rows-1) {
		return 0, false
	}
	c0, r0 := int(u), int(v)
	c1, r1 := min(c0+1, s.Cols-1), min(r0+1, s.Rows-1)
	fu, fv := u-float32(c0), v-float32(r0)
	at := func(r, c int) float32 { return s.Heights[r*s.Cols+c] }
	top := at(r0, c0)*(1-fu) + at(r0, c1)*fu
	bottom := at(r1, c0)*(1-fu) + at(r1, c1)*fu
	return top*(1-fv) + bottom*fv, true
}
