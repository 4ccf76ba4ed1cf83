package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/engine"
)

// CharacterController drives a kinematic owner from an input direction,
// with gravity and jumping. Collision and stair stepping happen in the
// physics layer through WorldAccess.MoveCharacter.
type CharacterController struct {
	engine.BaseComponent

	Speed      float32 // units per second at full input
	JumpSpeed  float32
	UseGravity bool
	Gravity    float32 // positive = down

	// Runtime state (not serialized)
	input      rl.Vector3
	jump       bool
	velocity   rl.Vector3
	isGrounded bool
}

// NewCharacterController creates a new character controller with defaults
func NewCharacterController() *CharacterController {
	return &CharacterController{
		Speed:      5,
		JumpSpeed:  8,
		UseGravity: true,
		Gravity:    20,
	}
}

func characterControllerFromState(s engine.ComponentState) *CharacterController {
	c := NewCharacterController()
	c.Speed = s.Float("speed", c.Speed)
	c.JumpSpeed = s.Float("jumpSpeed", c.JumpSpeed)
	c.UseGravity = s.Bool("useGravity", c.UseGravity)
	c.Gravity = s.Float("gravity", c.Gravity)
	return c
}

// SetInput sets the horizontal move direction for the next updates. Y is
// ignored and longer vectors are clamped to unit length.
func (c *CharacterController) SetInput(dir rl.Vector3) {
	dir.Y = 0
	if l := rl.Vector3Length(dir); l > 1 {
		dir = rl.Vector3Scale(dir, 1/l)
	}
	c.input = dir
}

// Jump requests a jump, taken on the next update if grounded.
func (c *CharacterController) Jump() { c.jump = true }

func (c *CharacterController) Update(deltaTime float32) {
	owner := c.Entity()
	if owner == nil || deltaTime <= 0 {
		return
	}

	if c.jump && c.isGrounded {
		c.velocity.Y = c.JumpSpeed
	}
	c.jump = false

	// Apply gravity (only if not grounded, or if we have upward velocity like a jump)
	if c.UseGravity {
		if !c.isGrounded || c.velocity.Y > 0 {
			c.velocity.Y -= c.Gravity * deltaTime
		} else {
			// keep a small downward velocity so the ground is still detected
			c.velocity.Y = -0.1
		}
	}
	c.velocity.X = c.input.X * c.Speed
	c.velocity.Z = c.input.Z * c.Speed

	c.Move(rl.Vector3Scale(c.velocity, deltaTime))
}

// Move moves the owner by motion and returns the displacement that was
// actually applied.
func (c *CharacterController) Move(motion rl.Vector3) rl.Vector3 {
	owner := c.Entity()
	if owner == nil || owner.Node() == nil {
		return rl.Vector3{}
	}
	w := owner.World()
	if w == nil {
		// No world, just move directly
		n := owner.Node()
		n.Position = rl.Vector3Add(n.Position, motion)
		c.isGrounded = false
		return motion
	}
	applied, grounded := w.MoveCharacter(owner, motion)
	c.isGrounded = grounded
	if grounded && c.velocity.Y < 0 {
		c.velocity.Y = 0
	}
	// hit a ceiling
	if motion.Y > 0 && applied.Y < motion.Y*0.5 {
		c.velocity.Y = 0
	}
	return applied
}

// IsGrounded returns whether the character is on the ground
func (c *CharacterController) IsGrounded() bool {
	return c.isGrounded
}

// Velocity returns the current velocity
func (c *CharacterController) Velocity() rl.Vector3 {
	return c.velocity
}

func (c *CharacterController) SaveState() engine.ComponentState {
	return c.State(map[string]any{
		"speed":      c.Speed,
		"jumpSpeed":  c.JumpSpeed,
		"useGravity": c.UseGravity,
		"gravity":    c.Gravity,
	})
}
