package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// RaycastResult holds information about a raycast hit.
// Defined here to avoid circular imports with the world package.
type RaycastResult struct {
	Entity   *Entity
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// WorldAccess provides components with access to world-level operations
// without creating circular import dependencies.
type WorldAccess interface {
	Spawn(state EntityState) (*Entity, error)
	Destroy(e *Entity)
	Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastResult, bool)
	// MoveCharacter moves a kinematic entity by desired, stopping at
	// obstacles. It returns the movement applied and whether the entity
	// ended up standing on something.
	MoveCharacter(e *Entity, desired rl.Vector3) (rl.Vector3, bool)
	PlaySoundAtPosition(key string, position rl.Vector3)
	AddScore(points int) int
}
