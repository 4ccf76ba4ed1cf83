package physics

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
)

// DefaultSubstepHz is the target substep rate.
const DefaultSubstepHz = 120

// binding is the layer-side record of one entity's bodies. Instanced nodes
// get one body per instance, in instance order.
type binding struct {
	entity    *engine.Entity
	kind      BodyKind
	bodies    []BodyID
	instanced bool
}

// Layer keeps entities and backend bodies in sync. It is the only owner of
// backend bodies; entities hold a BindingHandle into its table.
type Layer struct {
	backend     Backend
	bindings    map[engine.BindingHandle]*binding
	owners      *intmap.Map[BodyID, engine.BindingHandle]
	nextHandle  engine.BindingHandle
	enabled     bool
	gravity     rl.Vector3
	substep     float32
	maxSubsteps int
	log         *zap.Logger
}

type Options struct {
	Enabled     bool
	Gravity     rl.Vector3
	SubstepHz   int
	MaxSubsteps int
}

func NewLayer(backend Backend, opts Options, log *zap.Logger) *Layer {
	if log == nil {
		log = zap.NewNop()
	}
	hz := opts.SubstepHz
	if hz <= 0 {
		hz = DefaultSubstepHz
	}
	l := &Layer{
		backend:     backend,
		bindings:    make(map[engine.BindingHandle]*binding),
		owners:      intmap.New[BodyID, engine.BindingHandle](256),
		enabled:     opts.Enabled,
		gravity:     opts.Gravity,
		substep:     1 / float32(hz),
		maxSubsteps: opts.MaxSubsteps,
		log:         log.Named("physics"),
	}
	backend.SetGravity(opts.Gravity)
	return l
}

func (l *Layer) Enabled() bool { return l.enabled }

func (l *Layer) Gravity() rl.Vector3 { return l.gravity }

func (l *Layer) Backend() string { return l.backend.Name() }

// BodyCount is the number of live backend bodies.
func (l *Layer) BodyCount() int { return l.backend.BodyCount() }

// Bound reports whether e currently has bodies.
func (l *Layer) Bound(e *engine.Entity) bool {
	_, ok := l.bindings[e.Binding()]
	return ok
}

// Bodies returns the number of bodies bound to e.
func (l *Layer) Bodies(e *engine.Entity) int {
	if b, ok := l.bindings[e.Binding()]; ok {
		return len(b.bodies)
	}
	return 0
}

// KindOf returns the body kind of a bound entity.
func (l *Layer) KindOf(e *engine.Entity) (BodyKind, bool) {
	if b, ok := l.bindings[e.Binding()]; ok {
		return b.kind, true
	}
	return 0, false
}

// AddEntity binds e when physics is enabled and e asks for it. Geometry the
// backend cannot represent is logged and skipped; e keeps working without
// physics. It reports whether e ended up bound.
func (l *Layer) AddEntity(e *engine.Entity) bool {
	if !l.enabled || e == nil || !e.Alive() || !e.UserData.Physics.Enabled {
		return false
	}
	if l.Bound(e) {
		return true
	}
	node := e.Node()
	params := e.UserData.Physics

	geom := node.Geometry
	if !instanceScaled(node) {
		geom = geom.BakeScale(node.Scale)
	}
	shape, err := ShapeFor(geom)
	if err != nil {
		l.log.Warn("skipping physics binding",
			zap.String("entity", e.Name),
			zap.String("geometry", string(node.Geometry.Kind)),
			zap.Error(err))
		return false
	}

	kind := KindForMass(params.MassValue())
	if shape.Kind == render.KindHeightfield && kind != Static {
		l.log.Debug("heightfield forced static", zap.String("entity", e.Name))
		kind = Static
	}
	mass := params.MassValue()
	if params.Mass == nil {
		if v := shape.Volume(); v > 0 {
			mass = params.DensityValue() * v
		}
	}

	desc := BodyDesc{
		Kind:        kind,
		Shape:       shape,
		Mass:        mass,
		Friction:    params.FrictionValue(),
		Restitution: params.RestitutionValue(),
	}

	b := &binding{entity: e, kind: kind, instanced: node.IsInstanced()}
	if b.instanced {
		for i, inst := range node.Instances {
			d := desc
			if instanceScaled(node) {
				s := rl.Vector3Multiply(node.Scale, inst.Scale)
				sh, err := ShapeFor(node.Geometry.BakeScale(s))
				if err != nil {
					l.log.Warn("skipping physics binding", zap.String("entity", e.Name), zap.Int("instance", i), zap.Error(err))
					l.release(b)
					return false
				}
				d.Shape = sh
			}
			d.Position = node.InstanceWorldPosition(i)
			d.Rotation = rl.QuaternionMultiply(node.WorldRotation(), inst.Rotation)
			if !l.create(b, d) {
				return false
			}
		}
	} else {
		desc.Position = node.WorldPosition()
		desc.Rotation = node.WorldRotation()
		if !l.create(b, desc) {
			return false
		}
	}

	l.nextHandle++
	h := l.nextHandle
	l.bindings[h] = b
	for _, id := range b.bodies {
		l.owners.Put(id, h)
	}
	e.SetBinding(h)
	l.log.Debug("bound entity",
		zap.String("entity", e.Name),
		zap.Stringer("kind", kind),
		zap.Int("bodies", len(b.bodies)))
	return true
}

func (l *Layer) create(b *binding, d BodyDesc) bool {
	id, err := l.backend.CreateBody(d)
	if err != nil {
		l.log.Warn("skipping physics binding",
			zap.String("entity", b.entity.Name),
			zap.String("geometry", string(d.Shape.Kind)),
			zap.Error(err))
		l.release(b)
		return false
	}
	b.bodies = append(b.bodies, id)
	return true
}

// release frees bodies of a binding that never made it into the table.
func (l *Layer) release(b *binding) {
	for _, id := range b.bodies {
		l.backend.RemoveBody(id)
	}
	b.bodies = nil
}

func instanceScaled(n *render.Node) bool {
	for _, in := range n.Instances {
		if in.Scale != rl.Vector3One() {
			return true
		}
	}
	return false
}

// RemoveEntity frees every body bound to e. Unbound entities are a no-op.
func (l *Layer) RemoveEntity(e *engine.Entity) {
	if e == nil {
		return
	}
	h := e.Binding()
	b, ok := l.bindings[h]
	if !ok {
		return
	}
	for _, id := range b.bodies {
		l.owners.Del(id)
		l.backend.RemoveBody(id)
	}
	delete(l.bindings, h)
	e.SetBinding(0)
}

// Step advances the simulation by deltaTime in fixed substeps of at most
// 1/SubstepHz, then routes contact events to both participants.
func (l *Layer) Step(deltaTime float32) {
	if !l.enabled || deltaTime <= 0 {
		return
	}
	// the epsilon keeps exact multiples of the substep from rounding up
	n := int(math.Ceil(float64(deltaTime/l.substep) - 1e-4))
	if l.maxSubsteps > 0 && n > l.maxSubsteps {
		n = l.maxSubsteps
	}
	if n < 1 {
		n = 1
	}
	h := deltaTime / float32(n)
	for i := 0; i < n; i++ {
		l.backend.Step(h)
	}
	l.dispatch(l.backend.DrainEvents())
}

func (l *Layer) dispatch(events []ContactEvent) {
	for _, ev := range events {
		a := l.ownerOf(ev.A)
		b := l.ownerOf(ev.B)
		if a == nil || b == nil || a == b {
			continue
		}
		a.Collide(b, ev.Started)
		b.Collide(a, ev.Started)
	}
}

func (l *Layer) ownerOf(id BodyID) *engine.Entity {
	h, ok := l.owners.Get(id)
	if !ok {
		return nil
	}
	if b, ok := l.bindings[h]; ok {
		return b.entity
	}
	return nil
}

// SyncEntity reconciles e's node with its bodies. Dynamic bodies write into
// the node (per instance for instanced nodes); kinematic bodies are driven
// from the node.
func (l *Layer) SyncEntity(e *engine.Entity) {
	b, ok := l.bindings[e.Binding()]
	if !ok || e.Node() == nil {
		return
	}
	node := e.Node()
	switch b.kind {
	case Dynamic:
		if b.instanced {
			for i, id := range b.bodies {
				if i >= len(node.Instances) {
					break
				}
				pos, rot, ok := l.backend.Transform(id)
				if !ok {
					continue
				}
				setInstanceWorld(node, i, pos, rot)
			}
			return
		}
		pos, rot, ok := l.backend.Transform(b.bodies[0])
		if ok {
			setNodeWorld(node, pos, rot)
		}
	case Kinematic:
		if b.instanced {
			for i, id := range b.bodies {
				if i < len(node.Instances) {
					l.backend.MoveKinematic(id, node.InstanceWorldPosition(i))
				}
			}
			return
		}
		l.backend.MoveKinematic(b.bodies[0], node.WorldPosition())
	}
}

// MoveCharacter moves e by desired, stopping at colliders when e has a
// kinematic binding. Unbound entities move freely.
func (l *Layer) MoveCharacter(e *engine.Entity, desired rl.Vector3) (rl.Vector3, bool) {
	node := e.Node()
	if node == nil {
		return rl.Vector3{}, false
	}
	b, ok := l.bindings[e.Binding()]
	if !ok || b.kind != Kinematic || b.instanced {
		node.Position = rl.Vector3Add(node.Position, desired)
		return desired, false
	}
	applied, grounded := l.backend.MoveCharacter(b.bodies[0], desired)
	world := rl.Vector3Add(node.WorldPosition(), applied)
	setNodeWorld(node, world, node.WorldRotation())
	l.backend.MoveKinematic(b.bodies[0], world)
	return applied, grounded
}

// ToggleEnabled tears down every binding and, when enabling, rebinds every
// entity in entities. The result of Check is returned.
func (l *Layer) ToggleEnabled(enabled bool, entities []*engine.Entity) error {
	for _, b := range l.bindingsInOrder() {
		l.RemoveEntity(b.entity)
	}
	l.enabled = enabled
	if enabled {
		for _, e := range entities {
			l.AddEntity(e)
		}
	}
	l.log.Info("physics toggled", zap.Bool("enabled", enabled), zap.Int("bodies", l.BodyCount()))
	return l.Check()
}

func (l *Layer) bindingsInOrder() []*binding {
	out := make([]*binding, 0, len(l.bindings))
	for h := engine.BindingHandle(1); h <= l.nextHandle && len(out) < len(l.bindings); h++ {
		if b, ok := l.bindings[h]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Check verifies that the binding table, the reverse index and the backend
// agree. It returns nil when no stale handle exists.
func (l *Layer) Check() error {
	var errs []error
	total := 0
	for h, b := range l.bindings {
		if b.entity.Binding() != h {
			errs = append(errs, fmt.Errorf("entity %q holds handle %d, table says %d", b.entity.Name, b.entity.Binding(), h))
		}
		if !b.entity.Alive() {
			errs = append(errs, fmt.Errorf("entity %q is dead but bound", b.entity.Name))
		}
		for _, id := range b.bodies {
			owner, ok := l.owners.Get(id)
			if !ok || owner != h {
				errs = append(errs, fmt.Errorf("body %d of %q missing from reverse index", id, b.entity.Name))
			}
		}
		total += len(b.bodies)
	}
	if n := l.owners.Len(); n != total {
		errs = append(errs, fmt.Errorf("reverse index has %d bodies, bindings have %d", n, total))
	}
	if n := l.backend.BodyCount(); n != total {
		errs = append(errs, fmt.Errorf("backend has %d bodies, bindings have %d", n, total))
	}
	return errors.Join(errs...)
}

func (l *Layer) SetGravity(g rl.Vector3) {
	l.gravity = g
	l.backend.SetGravity(g)
}

// AddImpulse applies impulse at the center of every body bound to e.
func (l *Layer) AddImpulse(e *engine.Entity, impulse rl.Vector3) {
	b, ok := l.bindings[e.Binding()]
	if !ok || b.kind != Dynamic {
		return
	}
	for _, id := range b.bodies {
		if pos, _, ok := l.backend.Transform(id); ok {
			l.backend.ApplyImpulse(id, impulse, pos)
		}
	}
}

// AddImpulseAtPoint pushes e's bodies away from point. The impulse falls off
// linearly to zero at radius; bodies beyond radius are untouched.
func (l *Layer) AddImpulseAtPoint(e *engine.Entity, point rl.Vector3, strength, radius float32) {
	b, ok := l.bindings[e.Binding()]
	if !ok || b.kind != Dynamic || radius <= 0 {
		return
	}
	for _, id := range b.bodies {
		pos, _, ok := l.backend.Transform(id)
		if !ok {
			continue
		}
		d := rl.Vector3Subtract(pos, point)
		dist := rl.Vector3Length(d)
		if dist > radius {
			continue
		}
		dir := rl.Vector3{Y: 1}
		if dist > 1e-6 {
			dir = rl.Vector3Scale(d, 1/dist)
		}
		falloff := 1 - dist/radius
		l.backend.ApplyImpulse(id, rl.Vector3Scale(dir, strength*falloff), point)
	}
}

// SetEntityTransform moves e's node and teleports its bodies to match.
func (l *Layer) SetEntityTransform(e *engine.Entity, pos rl.Vector3, rot rl.Quaternion) {
	node := e.Node()
	if node == nil {
		return
	}
	setNodeWorld(node, pos, rot)
	b, ok := l.bindings[e.Binding()]
	if !ok {
		return
	}
	if b.instanced {
		for i, id := range b.bodies {
			if i < len(node.Instances) {
				l.backend.SetTransform(id, node.InstanceWorldPosition(i),
					rl.QuaternionMultiply(rot, node.Instances[i].Rotation))
			}
		}
		return
	}
	l.backend.SetTransform(b.bodies[0], pos, rot)
}

func (l *Layer) SetEntityVelocity(e *engine.Entity, v rl.Vector3) {
	b, ok := l.bindings[e.Binding()]
	if !ok {
		return
	}
	for _, id := range b.bodies {
		l.backend.SetVelocity(id, v)
	}
}

// EntityVelocity returns the velocity of e's first body.
func (l *Layer) EntityVelocity(e *engine.Entity) (rl.Vector3, bool) {
	b, ok := l.bindings[e.Binding()]
	if !ok {
		return rl.Vector3{}, false
	}
	return l.backend.Velocity(b.bodies[0])
}

// Close removes every body and closes the backend.
func (l *Layer) Close() {
	for _, b := range l.bindingsInOrder() {
		l.RemoveEntity(b.entity)
	}
	l.backend.Close()
}

func setNodeWorld(n *render.Node, pos rl.Vector3, rot rl.Quaternion) {
	p := n.Parent()
	if p == nil {
		n.Position = pos
		n.Rotation = rot
		return
	}
	n.Position = rl.Vector3Transform(pos, rl.MatrixInvert(p.WorldMatrix()))
	n.Rotation = rl.QuaternionMultiply(rl.QuaternionInvert(p.WorldRotation()), rot)
}

func setInstanceWorld(n *render.Node, i int, pos rl.Vector3, rot rl.Quaternion) {
	n.Instances[i].Position = rl.Vector3Transform(pos, rl.MatrixInvert(n.WorldMatrix()))
	n.Instances[i].Rotation = rl.QuaternionMultiply(rl.QuaternionInvert(n.WorldRotation()), rot)
}
