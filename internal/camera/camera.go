package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/scene"
)

// FlyCamera is the editor camera: free flight, no gravity. Yaw and Pitch
// are in degrees; yaw 0 looks down +X.
type FlyCamera struct {
	Position  rl.Vector3
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32

	FOV        float32
	Near       float32
	Far        float32
	Projection scene.Projection
}

func New(pos rl.Vector3) *FlyCamera {
	return &FlyCamera{
		Position:   pos,
		Yaw:        -135.0,
		Pitch:      -30.0,
		MoveSpeed:  8.0, // Units per second
		LookSpeed:  0.1,
		FOV:        60,
		Near:       0.1,
		Far:        1000,
		Projection: scene.Perspective,
	}
}

// FromState rebuilds a camera from a document camera block. Roll is lost.
func FromState(s scene.Camera) *FlyCamera {
	c := New(s.Position.RL())
	rot := s.Rotation.RL()
	if s.Rotation == (render.Quat{}) {
		rot = rl.QuaternionIdentity()
	}
	f := rl.Vector3RotateByQuaternion(rl.Vector3{Z: -1}, rot)
	c.Yaw = float32(math.Atan2(float64(f.Z), float64(f.X))) * rl.Rad2deg
	c.Pitch = float32(math.Asin(float64(clamp(f.Y, -1, 1)))) * rl.Rad2deg
	if s.FOV > 0 {
		c.FOV = s.FOV
	}
	if s.Near > 0 {
		c.Near = s.Near
	}
	if s.Far > 0 {
		c.Far = s.Far
	}
	if s.Projection != "" {
		c.Projection = s.Projection
	}
	return c
}

// State is the document form of the camera.
func (c *FlyCamera) State() scene.Camera {
	return scene.Camera{
		Position:   render.V3(c.Position),
		Rotation:   render.Q(c.Rotation()),
		Target:     render.V3(rl.Vector3Add(c.Position, c.Forward())),
		FOV:        c.FOV,
		Near:       c.Near,
		Far:        c.Far,
		Projection: c.Projection,
	}
}

// Rotation maps -Z onto Forward: pitch about X, then yaw about Y.
func (c *FlyCamera) Rotation() rl.Quaternion {
	yaw := -(c.Yaw*rl.Deg2rad + math.Pi/2)
	return rl.QuaternionMultiply(
		rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, yaw),
		rl.QuaternionFromAxisAngle(rl.Vector3{X: 1}, c.Pitch*rl.Deg2rad),
	)
}

func (c *FlyCamera) Forward() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
}

// Input is one frame of movement intent. Forward, Right and Up are in
// [-1, 1]; Look is the mouse delta in pixels.
type Input struct {
	Forward, Right, Up float32
	Look               rl.Vector2
	Fast               bool
}

// ReadInput samples the keyboard and mouse. Looking needs the right button held.
func ReadInput() Input {
	var in Input
	if rl.IsKeyDown(rl.KeyW) {
		in.Forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Right++
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Right--
	}
	if rl.IsKeyDown(rl.KeyE) {
		in.Up++
	}
	if rl.IsKeyDown(rl.KeyQ) {
		in.Up--
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		in.Look = rl.GetMouseDelta()
	}
	in.Fast = rl.IsKeyDown(rl.KeyLeftShift)
	return in
}

func (c *FlyCamera) Update(deltaTime float32) {
	c.Apply(ReadInput(), deltaTime)
}

// Apply moves and turns the camera by one frame of input.
func (c *FlyCamera) Apply(in Input, deltaTime float32) {
	c.Yaw += in.Look.X * c.LookSpeed
	c.Pitch -= in.Look.Y * c.LookSpeed

	// Clamp pitch
	c.Pitch = clamp(c.Pitch, -89, 89)

	forward := c.Forward()
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, rl.Vector3{Y: 1}))

	move := rl.Vector3Scale(forward, in.Forward)
	move = rl.Vector3Add(move, rl.Vector3Scale(right, in.Right))
	move.Y += in.Up

	// Normalize diagonal movement so you don't go faster diagonally
	if l := rl.Vector3Length(move); l > 1 {
		move = rl.Vector3Scale(move, 1/l)
	}
	speed := c.MoveSpeed
	if in.Fast {
		speed *= 3
	}
	c.Position = rl.Vector3Add(c.Position, rl.Vector3Scale(move, speed*deltaTime))
}

func (c *FlyCamera) GetRaylibCamera() rl.Camera3D {
	cam := rl.Camera3D{
		Position:   c.Position,
		Target:     rl.Vector3Add(c.Position, c.Forward()),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
	if c.Projection == scene.Orthographic {
		cam.Projection = rl.CameraOrthographic
	}
	return cam
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
