package render

import rl "github.com/gen2brain/raylib-go/raylib"

// Vec3 is the plain {x,y,z} form vectors take in scene documents.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Quat is the plain {x,y,z,w} form rotations take in scene documents.
type Quat struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

func V3(v rl.Vector3) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vec3) RL() rl.Vector3 { return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z} }

func Q(q rl.Quaternion) Quat { return Quat{X: q.X, Y: q.Y, Z: q.Z, W: q.W} }

// RL converts to a raylib quaternion. The zero Quat maps to identity so that
// documents which omit a rotation still load.
func (q Quat) RL() rl.Quaternion {
	if q == (Quat{}) {
		return rl.QuaternionIdentity()
	}
	return rl.Quaternion{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
}
