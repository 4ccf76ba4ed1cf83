package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
)

type GeometryKind string

const (
	KindNone        GeometryKind = "none"
	KindBox         GeometryKind = "box"
	KindSphere      GeometryKind = "sphere"
	KindCapsule     GeometryKind = "capsule"
	KindRoundedBox  GeometryKind = "rounded_box"
	KindConvex      GeometryKind = "convex"
	KindHeightfield GeometryKind = "heightfield"
	KindPlane       GeometryKind = "plane"
	KindTorus       GeometryKind = "torus"
)

// Geometry holds the shape parameters of a node. Which fields matter
// depends on Kind:
//
//	box, rounded_box  Width, Height, Depth (+ Radius for the corner)
//	sphere            Radius
//	capsule           Radius, Height (distance between cap centers)
//	convex            Points
//	heightfield       Width, Depth, Rows, Cols, Heights (row-major)
//	plane             Width, Depth
//	torus             Radius, Tube
type Geometry struct {
	Kind    GeometryKind `json:"kind"`
	Width   float32      `json:"width,omitempty"`
	Height  float32      `json:"height,omitempty"`
	Depth   float32      `json:"depth,omitempty"`
	Radius  float32      `json:"radius,omitempty"`
	Tube    float32      `json:"tube,omitempty"`
	Points  []Vec3       `json:"points,omitempty"`
	Rows    int          `json:"rows,omitempty"`
	Cols    int          `json:"cols,omitempty"`
	Heights []float32    `json:"heights,omitempty"`
}

func Box(w, h, d float32) Geometry {
	return Geometry{Kind: KindBox, Width: w, Height: h, Depth: d}
}

func Sphere(r float32) Geometry {
	return Geometry{Kind: KindSphere, Radius: r}
}

func Capsule(r, h float32) Geometry {
	return Geometry{Kind: KindCapsule, Radius: r, Height: h}
}

// IsNone reports whether g describes nothing drawable.
func (g Geometry) IsNone() bool {
	return g.Kind == "" || g.Kind == KindNone
}

// BakeScale folds scale into the geometry dimensions. The caller is expected
// to reset the node scale to (1,1,1) afterwards, otherwise scale is applied twice.
func (g Geometry) BakeScale(s rl.Vector3) Geometry {
	ax, ay, az := absf(s.X), absf(s.Y), absf(s.Z)
	out := g
	switch g.Kind {
	case KindBox, KindRoundedBox:
		out.Width = g.Width * ax
		out.Height = g.Height * ay
		out.Depth = g.Depth * az
		out.Radius = g.Radius * minf(ax, minf(ay, az))
	case KindSphere:
		out.Radius = g.Radius * maxf(ax, maxf(ay, az))
	case KindCapsule:
		out.Radius = g.Radius * maxf(ax, az)
		out.Height = g.Height * ay
	case KindConvex:
		out.Points = make([]Vec3, len(g.Points))
		for i, p := range g.Points {
			out.Points[i] = Vec3{X: p.X * s.X, Y: p.Y * s.Y, Z: p.Z * s.Z}
		}
	case KindHeightfield:
		out.Width = g.Width * ax
		out.Depth = g.Depth * az
		out.Heights = make([]float32, len(g.Heights))
		for i, h := range g.Heights {
			out.Heights[i] = h * s.Y
		}
	case KindPlane:
		out.Width = g.Width * ax
		out.Depth = g.Depth * az
	case KindTorus:
		m := maxf(ax, az)
		out.Radius = g.Radius * m
		out.Tube = g.Tube * m
	}
	return out
}

// LocalBounds returns the untransformed bounds of the geometry.
func (g Geometry) LocalBounds() bounds.AABB {
	switch g.Kind {
	case KindBox, KindRoundedBox:
		return bounds.FromCenter(rl.Vector3{}, rl.Vector3{X: g.Width, Y: g.Height, Z: g.Depth})
	case KindSphere:
		d := 2 * g.Radius
		return bounds.FromCenter(rl.Vector3{}, rl.Vector3{X: d, Y: d, Z: d})
	case KindCapsule:
		d := 2 * g.Radius
		return bounds.FromCenter(rl.Vector3{}, rl.Vector3{X: d, Y: g.Height + d, Z: d})
	case KindConvex:
		b := bounds.Empty()
		for _, p := range g.Points {
			b = b.Extend(p.RL())
		}
		return b
	case KindHeightfield:
		lo, hi := float32(0), float32(0)
		for i, h := range g.Heights {
			if i == 0 || h < lo {
				lo = h
			}
			if i == 0 || h > hi {
				hi = h
			}
		}
		return bounds.AABB{
			Min: rl.Vector3{X: -g.Width / 2, Y: lo, Z: -g.Depth / 2},
			Max: rl.Vector3{X: g.Width / 2, Y: hi, Z: g.Depth / 2},
		}
	case KindPlane:
		return bounds.FromCenter(rl.Vector3{}, rl.Vector3{X: g.Width, Z: g.Depth})
	case KindTorus:
		r := g.Radius + g.Tube
		return bounds.FromCenter(rl.Vector3{}, rl.Vector3{X: 2 * r, Y: 2 * g.Tube, Z: 2 * r})
	}
	return bounds.Empty()
}

// HeightAt returns the heightfield sample at (row, col).
func (g Geometry) HeightAt(row, col int) float32 {
	if row < 0 || col < 0 || row >= g.Rows || col >= g.Cols {
		return 0
	}
	i := row*g.Cols + col
	if i >= len(g.Heights) {
		return 0
	}
	return g.Heights[i]
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
