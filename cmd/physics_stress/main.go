// Stress test comparing the rigid and planar physics backends
package main

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/config"
	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/world"
)

const (
	frameDt = float32(1.0 / 60)
	frames  = 120
)

func main() {
	// Test various body counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		rigid, rigidSettled := stress(config.BackendRigid, count)
		planar, planarSettled := stress(config.BackendPlanar, count)
		speedup := float64(rigid) / float64(planar)

		fmt.Printf("%5d bodies: rigid %8v/frame (%5d settled) | planar %8v/frame (%5d settled) | %.1fx\n",
			count, rigid.Round(time.Microsecond), rigidSettled,
			planar.Round(time.Microsecond), planarSettled, speedup)
	}
}

// stress drops count spheres onto a floor and returns the mean frame time
// and how many spheres ended up resting near the floor.
func stress(backend string, count int) (time.Duration, int) {
	cfg := config.Default()
	cfg.Physics.Backend = backend
	w, err := world.New(cfg, nil, zap.NewNop())
	if err != nil {
		panic(fmt.Sprintf("Failed to create world: %v", err))
	}
	defer w.Dispose()

	w.Spawn(engine.EntityState{
		Name: "floor",
		Type: world.TypeMesh,
		UserData: engine.UserData{
			Geometry:  render.Box(200, 1, 200),
			Physics:   engine.PhysicsParams{Enabled: true, Mass: engine.F(0)},
			Transform: engine.TransformState{Position: render.Vec3{Y: -0.5}},
		},
	})

	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0
	instances := make([]engine.TransformState, count)
	for i := range instances {
		instances[i].Position = render.Vec3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: 1 + rng.Float32()*spawnSize,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
	}
	balls, err := w.Spawn(engine.EntityState{
		Name: "balls",
		Type: world.TypeInstanced,
		UserData: engine.UserData{
			Geometry:  render.Sphere(0.5),
			Physics:   engine.PhysicsParams{Enabled: true, Mass: engine.F(1)},
			Instances: instances,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to spawn: %v", err))
	}

	// Warm up
	w.Update(frameDt)

	start := time.Now()
	for i := 0; i < frames; i++ {
		w.Update(frameDt)
	}
	elapsed := time.Since(start) / frames

	settled := 0
	node := balls.Node()
	for i := range node.Instances {
		if node.InstanceWorldPosition(i).Y < 1 {
			settled++
		}
	}
	return elapsed, settled
}
