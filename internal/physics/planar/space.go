// Package planar runs bodies through a Chipmunk2D space in the XY plane.
// Z positions are carried through unchanged and rotation is only about Z.
package planar

import (
	"fmt"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/physics"
	"github.com/mironco/scenecore/internal/render"
)

const collisionType cp.CollisionType = 1

type body struct {
	id     physics.BodyID
	kind   physics.BodyKind
	desc   physics.BodyDesc
	body   *cp.Body
	shapes []*cp.Shape
	z      float32
	target *rl.Vector3
}

type pair struct {
	A, B physics.BodyID
}

func makePair(a, b physics.BodyID) pair {
	if a > b {
		return pair{A: b, B: a}
	}
	return pair{A: a, B: b}
}

var _ physics.Backend = (*Space)(nil)

// Space implements physics.Backend on top of cp.Space.
type Space struct {
	space  *cp.Space
	bodies map[physics.BodyID]*body
	nextID physics.BodyID

	// shape contacts per body pair; a pair begins at 1 and ends at 0
	touching map[pair]int
	events   []physics.ContactEvent

	log *zap.Logger
}

func New(log *zap.Logger) *Space {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Space{
		space:    cp.NewSpace(),
		bodies:   make(map[physics.BodyID]*body),
		touching: make(map[pair]int),
		log:      log.Named("planar"),
	}
	h := s.space.NewCollisionHandler(collisionType, collisionType)
	h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		if p, ok := s.pairOf(arb); ok {
			s.touching[p]++
			if s.touching[p] == 1 {
				s.events = append(s.events, physics.ContactEvent{A: p.A, B: p.B, Started: true})
			}
		}
		return true
	}
	h.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		p, ok := s.pairOf(arb)
		if !ok || s.touching[p] == 0 {
			return
		}
		s.touching[p]--
		if s.touching[p] == 0 {
			delete(s.touching, p)
			s.events = append(s.events, physics.ContactEvent{A: p.A, B: p.B, Started: false})
		}
	}
	return s
}

// pairOf maps an arbiter to a pair of live bodies.
func (s *Space) pairOf(arb *cp.Arbiter) (pair, bool) {
	a, b := arb.Bodies()
	ida, oka := a.UserData.(physics.BodyID)
	idb, okb := b.UserData.(physics.BodyID)
	if !oka || !okb || ida == idb {
		return pair{}, false
	}
	if _, ok := s.bodies[ida]; !ok {
		return pair{}, false
	}
	if _, ok := s.bodies[idb]; !ok {
		return pair{}, false
	}
	return makePair(ida, idb), true
}

func (s *Space) Name() string { return "planar" }

func (s *Space) CreateBody(d physics.BodyDesc) (physics.BodyID, error) {
	if d.Kind == physics.Dynamic && d.Mass <= 0 {
		return 0, fmt.Errorf("dynamic body needs positive mass, got %v", d.Mass)
	}

	var cb *cp.Body
	switch d.Kind {
	case physics.Static:
		cb = cp.NewStaticBody()
	case physics.Kinematic:
		cb = cp.NewKinematicBody()
	default:
		moment, err := momentFor(d.Shape, float64(d.Mass))
		if err != nil {
			return 0, err
		}
		cb = cp.NewBody(float64(d.Mass), moment)
	}

	shapes, err := shapesFor(cb, d.Shape)
	if err != nil {
		return 0, err
	}

	s.nextID++
	id := s.nextID
	cb.UserData = id
	cb.SetPosition(cp.Vector{X: float64(d.Position.X), Y: float64(d.Position.Y)})
	cb.SetAngle(angleOf(d.Rotation))
	s.space.AddBody(cb)
	for _, sh := range shapes {
		sh.SetFriction(float64(d.Friction))
		sh.SetElasticity(float64(d.Restitution))
		sh.SetCollisionType(collisionType)
		sh.SetFilter(cp.NewShapeFilter(uint(id), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
		s.space.AddShape(sh)
	}

	s.bodies[id] = &body{id: id, kind: d.Kind, desc: d, body: cb, shapes: shapes, z: d.Position.Z}
	return id, nil
}

// RemoveBody drops the body. Its open contacts end silently.
func (s *Space) RemoveBody(id physics.BodyID) {
	b, ok := s.bodies[id]
	if !ok {
		return
	}
	delete(s.bodies, id)
	for p := range s.touching {
		if p.A == id || p.B == id {
			delete(s.touching, p)
		}
	}
	for _, sh := range b.shapes {
		s.space.RemoveShape(sh)
	}
	s.space.RemoveBody(b.body)
}

func (s *Space) BodyCount() int { return len(s.bodies) }

func (s *Space) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range s.bodies {
		if b.kind != physics.Kinematic {
			continue
		}
		if b.target == nil {
			b.body.SetVelocity(0, 0)
			continue
		}
		p := b.body.Position()
		b.body.SetVelocity(
			(float64(b.target.X)-p.X)/float64(dt),
			(float64(b.target.Y)-p.Y)/float64(dt))
	}

	s.space.Step(float64(dt))

	for _, b := range s.bodies {
		if b.kind == physics.Kinematic && b.target != nil {
			b.body.SetPosition(cp.Vector{X: float64(b.target.X), Y: float64(b.target.Y)})
			b.z = b.target.Z
			b.target = nil
		}
	}
}

// DrainEvents returns queued events, begins before ends, each in id order.
func (s *Space) DrainEvents() []physics.ContactEvent {
	out := s.events
	s.events = nil
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Started != out[j].Started {
			return out[i].Started
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func (s *Space) SetGravity(g rl.Vector3) {
	s.space.SetGravity(cp.Vector{X: float64(g.X), Y: float64(g.Y)})
}

func (s *Space) Transform(id physics.BodyID) (rl.Vector3, rl.Quaternion, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return rl.Vector3{}, rl.Quaternion{}, false
	}
	p := b.body.Position()
	return rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: b.z}, rotationOf(b.body.Angle()), true
}

func (s *Space) SetTransform(id physics.BodyID, pos rl.Vector3, rot rl.Quaternion) {
	b, ok := s.bodies[id]
	if !ok {
		return
	}
	b.body.SetPosition(cp.Vector{X: float64(pos.X), Y: float64(pos.Y)})
	b.body.SetAngle(angleOf(rot))
	b.z = pos.Z
	b.target = nil
	if b.kind == physics.Static {
		s.space.ReindexShapesForBody(b.body)
	}
}

func (s *Space) MoveKinematic(id physics.BodyID, pos rl.Vector3) {
	if b, ok := s.bodies[id]; ok && b.kind == physics.Kinematic {
		b.target = &pos
	}
}

func (s *Space) Velocity(id physics.BodyID) (rl.Vector3, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return rl.Vector3{}, false
	}
	v := b.body.Velocity()
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y)}, true
}

func (s *Space) SetVelocity(id physics.BodyID, v rl.Vector3) {
	if b, ok := s.bodies[id]; ok && b.kind != physics.Static {
		b.body.SetVelocityVector(cp.Vector{X: float64(v.X), Y: float64(v.Y)})
	}
}

func (s *Space) ApplyImpulse(id physics.BodyID, impulse, point rl.Vector3) {
	b, ok := s.bodies[id]
	if !ok || b.kind != physics.Dynamic {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(
		cp.Vector{X: float64(impulse.X), Y: float64(impulse.Y)},
		cp.Vector{X: float64(point.X), Y: float64(point.Y)})
}

func (s *Space) Close() {
	for id := range s.bodies {
		s.RemoveBody(id)
	}
	s.events = nil
}

// angleOf extracts the rotation about Z.
func angleOf(q rl.Quaternion) float64 {
	if q == (rl.Quaternion{}) {
		return 0
	}
	return 2 * math.Atan2(float64(q.Z), float64(q.W))
}

func rotationOf(angle float64) rl.Quaternion {
	sin, cos := math.Sincos(angle / 2)
	return rl.Quaternion{Z: float32(sin), W: float32(cos)}
}

func momentFor(s physics.Shape, mass float64) (float64, error) {
	switch s.Kind {
	case render.KindBox, render.KindRoundedBox:
		return cp.MomentForBox(mass, 2*float64(s.HalfExtents.X), 2*float64(s.HalfExtents.Y)), nil
	case render.KindSphere:
		return cp.MomentForCircle(mass, 0, float64(s.Radius), cp.Vector{}), nil
	case render.KindCapsule:
		a, b := capsuleEnds(s)
		return cp.MomentForSegment(mass, a, b, float64(s.Radius)), nil
	case render.KindConvex:
		verts := flatten(s.Points)
		return cp.MomentForPoly(mass, len(verts), verts, cp.Vector{}, 0), nil
	}
	return 0, fmt.Errorf("%w: %s cannot be dynamic in the plane", physics.ErrUnsupportedGeometry, s.Kind)
}

func shapesFor(b *cp.Body, s physics.Shape) ([]*cp.Shape, error) {
	switch s.Kind {
	case render.KindBox, render.KindRoundedBox:
		w, h, r := 2*float64(s.HalfExtents.X), 2*float64(s.HalfExtents.Y), float64(s.Radius)
		// the corner radius grows the box, so shrink the core to keep its size
		if r > 0 {
			w, h = math.Max(w-2*r, 0.01), math.Max(h-2*r, 0.01)
		}
		return []*cp.Shape{cp.NewBox(b, w, h, r)}, nil
	case render.KindSphere:
		return []*cp.Shape{cp.NewCircle(b, float64(s.Radius), cp.Vector{})}, nil
	case render.KindCapsule:
		a, e := capsuleEnds(s)
		return []*cp.Shape{cp.NewSegment(b, a, e, float64(s.Radius))}, nil
	case render.KindConvex:
		verts := flatten(s.Points)
		return []*cp.Shape{cp.NewPolyShape(b, len(verts), verts, cp.NewTransformIdentity(), 0)}, nil
	case render.KindHeightfield:
		// the terrain profile along X at z = 0
		var out []*cp.Shape
		step := s.Width / float32(s.Cols-1)
		prev := cp.Vector{}
		for c := 0; c < s.Cols; c++ {
			x := -s.Width/2 + float32(c)*step
			h, _ := s.HeightAt(x, 0)
			cur := cp.Vector{X: float64(x), Y: float64(h)}
			if c > 0 {
				out = append(out, cp.NewSegment(b, prev, cur, 0))
			}
			prev = cur
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", physics.ErrUnsupportedGeometry, s.Kind)
}

func capsuleEnds(s physics.Shape) (cp.Vector, cp.Vector) {
	hh := float64(s.HalfHeight)
	return cp.Vector{Y: -hh}, cp.Vector{Y: hh}
}

func flatten(points []rl.Vector3) []cp.Vector {
	out := make([]cp.Vector, len(points))
	for i, p := range points {
		out[i] = cp.Vector{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}
