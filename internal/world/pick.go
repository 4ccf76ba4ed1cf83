package world

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
)

// Raycast returns the nearest visible entity node hit by the ray. Nodes
// without an entity back-reference are ignored.
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (engine.RaycastResult, bool) {
	if rl.Vector3Length(direction) == 0 {
		return engine.RaycastResult{}, false
	}
	dir := rl.Vector3Normalize(direction)

	var best engine.RaycastResult
	found := false
	w.Tree.Walk(func(n *render.Node) bool {
		if !n.Visible {
			return true
		}
		e := w.Scene.EntityForNode(n)
		if e == nil {
			return true
		}
		hit, ok := rayNode(n, origin, dir, maxDistance)
		if ok && (!found || hit.Distance < best.Distance) {
			best = engine.RaycastResult{Entity: e, Point: hit.Point, Normal: hit.Normal, Distance: hit.Distance}
			found = true
		}
		return true
	})
	return best, found
}

func rayNode(n *render.Node, origin, dir rl.Vector3, maxDistance float32) (bounds.Hit, bool) {
	if n.Geometry.IsNone() {
		return bounds.Hit{}, false
	}
	if n.IsInstanced() {
		var best bounds.Hit
		found := false
		for i := range n.Instances {
			hit, ok := bounds.RayBox(origin, dir, n.InstanceBounds(i), maxDistance)
			if ok && (!found || hit.Distance < best.Distance) {
				best, found = hit, true
			}
		}
		return best, found
	}
	if n.Geometry.Kind == render.KindSphere {
		s := n.Scale
		r := n.Geometry.Radius * max(abs(s.X), abs(s.Y), abs(s.Z))
		return bounds.RaySphere(origin, dir, n.WorldPosition(), r, maxDistance)
	}
	return bounds.RayBox(origin, dir, n.WorldBounds(), maxDistance)
}

// Pick is an unbounded Raycast that returns only the entity.
func (w *World) Pick(origin, direction rl.Vector3) *engine.Entity {
	hit, ok := w.Raycast(origin, direction, math.MaxFloat32)
	if !ok {
		return nil
	}
	return hit.Entity
}

// SelectEntity marks id as the editor selection. An unknown id clears it.
func (w *World) SelectEntity(id engine.ID) bool {
	if w.Scene.Lookup(id) == nil {
		w.selected = 0
		return false
	}
	w.selected = id
	return true
}

// Selected returns the selected entity, or nil once it has been killed.
func (w *World) Selected() *engine.Entity {
	if w.selected == 0 {
		return nil
	}
	return w.Scene.Lookup(w.selected)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
