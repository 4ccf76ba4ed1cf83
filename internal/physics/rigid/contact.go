package rigid

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/render"
)

// manifold is a single contact. normal points from b towards a, i.e. the
// direction a must move to separate.
type manifold struct {
	normal rl.Vector3
	depth  float32
}

var up = rl.Vector3{Y: 1}

func isRound(b *body) bool {
	return b.shape.Kind == render.KindSphere || b.shape.Kind == render.KindCapsule
}

// segment returns the core segment of a round body. Spheres are degenerate.
func (b *body) segment() (rl.Vector3, rl.Vector3) {
	if b.shape.Kind != render.KindCapsule {
		return b.pos, b.pos
	}
	axis := rl.Vector3Scale(rl.Vector3RotateByQuaternion(up, b.rot), b.shape.HalfHeight)
	return rl.Vector3Subtract(b.pos, axis), rl.Vector3Add(b.pos, axis)
}

// obb returns the oriented box around box, rounded_box and convex colliders.
// Convex hulls collide as their local bounding box.
func (b *body) obb() bounds.OBB {
	local := b.shape.LocalBounds()
	center := rl.Vector3Add(b.pos, rl.Vector3RotateByQuaternion(local.Center(), b.rot))
	return bounds.NewOBB(center, local.Size(), b.rot)
}

func contact(a, b *body) (manifold, bool) {
	switch {
	case b.shape.Kind == render.KindHeightfield && a.shape.Kind == render.KindHeightfield:
		return manifold{}, false
	case b.shape.Kind == render.KindHeightfield:
		return terrainContact(a, b)
	case a.shape.Kind == render.KindHeightfield:
		return flip(terrainContact(b, a))
	case isRound(a) && isRound(b):
		return roundContact(a, b)
	case isRound(a):
		return roundBoxContact(a, b.obb())
	case isRound(b):
		return flip(roundBoxContact(b, a.obb()))
	}
	mtv := a.obb().Resolve(b.obb())
	depth := rl.Vector3Length(mtv)
	if depth < 1e-6 {
		return manifold{}, false
	}
	return manifold{normal: rl.Vector3Scale(mtv, 1/depth), depth: depth}, true
}

func flip(m manifold, ok bool) (manifold, bool) {
	m.normal = rl.Vector3Negate(m.normal)
	return m, ok
}

func roundContact(a, b *body) (manifold, bool) {
	a0, a1 := a.segment()
	b0, b1 := b.segment()
	pa, pb := closestSegmentSegment(a0, a1, b0, b1)
	return sphereSphere(pa, a.shape.Radius, pb, b.shape.Radius)
}

func sphereSphere(pa rl.Vector3, ra float32, pb rl.Vector3, rb float32) (manifold, bool) {
	diff := rl.Vector3Subtract(pa, pb)
	dist := rl.Vector3Length(diff)
	minDist := ra + rb
	if dist >= minDist {
		return manifold{}, false
	}
	if dist < 1e-6 {
		return manifold{normal: up, depth: minDist}, true
	}
	return manifold{normal: rl.Vector3Scale(diff, 1/dist), depth: minDist - dist}, true
}

func roundBoxContact(a *body, box bounds.OBB) (manifold, bool) {
	s0, s1 := a.segment()
	s := closestOnSegment(s0, s1, box.Center)
	c := box.ClosestPoint(s)
	s = closestOnSegment(s0, s1, c)
	c = box.ClosestPoint(s)

	diff := rl.Vector3Subtract(s, c)
	dist := rl.Vector3Length(diff)
	r := a.shape.Radius
	if dist >= r {
		return manifold{}, false
	}
	if dist > 1e-6 {
		return manifold{normal: rl.Vector3Scale(diff, 1/dist), depth: r - dist}, true
	}

	// core inside the box: leave through the nearest face
	local := rl.Vector3Subtract(s, box.Center)
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}
	best := float32(math.MaxFloat32)
	var m manifold
	for i, axis := range box.Axes {
		d := rl.Vector3DotProduct(local, axis)
		pen := half[i] - float32(math.Abs(float64(d)))
		if pen < best {
			best = pen
			n := axis
			if d < 0 {
				n = rl.Vector3Negate(axis)
			}
			m = manifold{normal: n, depth: pen + r}
		}
	}
	return m, true
}

// terrainContact tests a against heightfield t, ignoring t's rotation.
func terrainContact(a, t *body) (manifold, bool) {
	box := a.bounds()
	c := box.Center()
	h, ok := t.shape.HeightAt(c.X-t.pos.X, c.Z-t.pos.Z)
	if !ok {
		return manifold{}, false
	}
	ground := t.pos.Y + h
	if box.Min.Y >= ground {
		return manifold{}, false
	}
	return manifold{normal: up, depth: ground - box.Min.Y}, true
}

// resolve separates a and b by inverse mass and applies restitution and
// friction impulses along the contact.
func resolve(a, b *body, m manifold) {
	total := a.invMass + b.invMass
	if total == 0 {
		return
	}
	n := m.normal
	a.pos = rl.Vector3Add(a.pos, rl.Vector3Scale(n, m.depth*a.invMass/total))
	b.pos = rl.Vector3Subtract(b.pos, rl.Vector3Scale(n, m.depth*b.invMass/total))

	rel := rl.Vector3Subtract(a.vel, b.vel)
	vn := rl.Vector3DotProduct(rel, n)
	if vn >= 0 {
		return
	}

	e := (a.restitution + b.restitution) / 2
	j := -(1 + e) * vn / total
	impulse := rl.Vector3Scale(n, j)
	a.vel = rl.Vector3Add(a.vel, rl.Vector3Scale(impulse, a.invMass))
	b.vel = rl.Vector3Subtract(b.vel, rl.Vector3Scale(impulse, b.invMass))

	tangent := rl.Vector3Subtract(rel, rl.Vector3Scale(n, vn))
	if tl := rl.Vector3Length(tangent); tl > 1e-6 {
		mu := (a.friction + b.friction) / 2
		jt := min(mu*j, tl/total)
		dir := rl.Vector3Scale(tangent, 1/tl)
		a.vel = rl.Vector3Subtract(a.vel, rl.Vector3Scale(dir, jt*a.invMass))
		b.vel = rl.Vector3Add(b.vel, rl.Vector3Scale(dir, jt*b.invMass))
	}

	// settle resting contacts so stacks do not jitter
	if a.invMass > 0 && n.Y > 0.5 && rl.Vector3Length(a.vel) < sleepSpeed {
		a.vel = rl.Vector3{}
	}
	if b.invMass > 0 && n.Y < -0.5 && rl.Vector3Length(b.vel) < sleepSpeed {
		b.vel = rl.Vector3{}
	}
}

func closestOnSegment(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	l2 := rl.Vector3DotProduct(ab, ab)
	if l2 < 1e-12 {
		return a
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab) / l2
	t = max(0, min(1, t))
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestSegmentSegment returns the closest points between segments p1q1
// and p2q2.
func closestSegmentSegment(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	const eps = 1e-9
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = max(0, min(1, f/e))
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= eps {
			s = max(0, min(1, -c/a))
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = max(0, min(1, (b*f-c*e)/denom))
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = max(0, min(1, -c/a))
			} else if t > 1 {
				t = 1
				s = max(0, min(1, (b-c)/a))
			}
		}
	}
	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}
