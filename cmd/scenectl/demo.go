package main

import (
	"github.com/mironco/scenecore/internal/components"
	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/world"
)

func at(x, y, z float32) engine.TransformState {
	return engine.TransformState{Position: render.Vec3{X: x, Y: y, Z: z}}
}

// demoScene is the scene written when the requested one does not exist yet.
func demoScene() []engine.EntityState {
	var crates []engine.TransformState
	for i := 0; i < 4; i++ {
		crates = append(crates, at(4, 0.5+float32(i)*1.05, -2))
	}

	return []engine.EntityState{
		{
			Name:         "ground",
			Type:         world.TypeMesh,
			GameplayTags: []string{engine.TagStatic.String()},
			UserData: engine.UserData{
				Geometry:  render.Box(40, 1, 40),
				Material:  engine.Material{Color: "DarkGray"},
				Physics:   engine.PhysicsParams{Enabled: true, Mass: engine.F(0)},
				Transform: at(0, -0.5, 0),
			},
		},
		{
			Name: "crates",
			Type: world.TypeInstanced,
			UserData: engine.UserData{
				Geometry:  render.Box(1, 1, 1),
				Material:  engine.Material{Color: "Brown"},
				Physics:   engine.PhysicsParams{Enabled: true, Mass: engine.F(2), Friction: engine.F(0.8)},
				Instances: crates,
			},
		},
		{
			Name:         "player",
			Type:         world.TypeCharacter,
			GameplayTags: []string{engine.TagPlayer.String()},
			Components: []engine.ComponentState{
				{Type: components.TypeCharacterController, Props: map[string]any{"speed": 5}},
				{Type: components.TypeHealth, Props: map[string]any{"maxHealth": 100}},
			},
			UserData: engine.UserData{
				Material:  engine.Material{Color: "SkyBlue"},
				Physics:   engine.PhysicsParams{Enabled: true},
				Transform: at(0, 1, 4),
			},
		},
		{
			Name:         "coin",
			Type:         world.TypeMesh,
			GameplayTags: []string{engine.TagPickup.String()},
			Components: []engine.ComponentState{
				{Type: components.TypeRotator, Props: map[string]any{"speed": 120}},
				{Type: components.TypeCollectible, Props: map[string]any{"points": 10, "sound": "coin"}},
			},
			UserData: engine.UserData{
				Geometry:  render.Sphere(0.3),
				Material:  engine.Material{Color: "Gold"},
				Transform: at(-3, 1, 0),
			},
		},
		{
			Name:         "spikes",
			Type:         world.TypeMesh,
			GameplayTags: []string{engine.TagHazard.String()},
			Components: []engine.ComponentState{
				{Type: components.TypeContactDamage, Props: map[string]any{"amount": 15, "target": engine.TagPlayer.String()}},
			},
			UserData: engine.UserData{
				Geometry:  render.Box(2, 0.2, 2),
				Material:  engine.Material{Color: "Maroon"},
				Physics:   engine.PhysicsParams{Enabled: true, Mass: engine.F(0)},
				Transform: at(3, 0.1, 3),
			},
		},
		{
			Name:     "spawn",
			Type:     world.TypeMarker,
			UserData: engine.UserData{Transform: at(0, 1, 4)},
		},
	}
}
