package audio

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestListenerDefaults(t *testing.T) {
	l := NewListener(rl.Vector3{}, rl.Vector3{}, rl.Vector3{Y: 1})
	assert.Equal(t, rl.Vector3{Z: -1}, l.Forward)
	// up x forward with forward -Z
	assert.InDelta(t, -1, l.Right.X, 1e-6)

	l = NewListener(rl.Vector3{}, rl.Vector3{Y: 2}, rl.Vector3{Y: 1})
	assert.Equal(t, rl.Vector3{X: 1}, l.Right, "degenerate up falls back to +X")
}

func TestSpatializeFalloffAndPan(t *testing.T) {
	l := Listener{Forward: rl.Vector3{Z: -1}, Right: rl.Vector3{X: 1}}

	vol, pan := Spatialize(l, rl.Vector3{}, 1, 10)
	assert.Equal(t, float32(1), vol)
	assert.Equal(t, float32(0.5), pan)

	vol, pan = Spatialize(l, rl.Vector3{X: 5}, 1, 10)
	assert.InDelta(t, 0.5, vol, 1e-6)
	assert.Equal(t, float32(1), pan)

	_, pan = Spatialize(l, rl.Vector3{X: -5}, 1, 10)
	assert.Equal(t, float32(0), pan)

	vol, _ = Spatialize(l, rl.Vector3{X: 20}, 1, 10)
	assert.Zero(t, vol)

	front, _ := Spatialize(l, rl.Vector3{Z: -5}, 1, 10)
	behind, _ := Spatialize(l, rl.Vector3{Z: 5}, 1, 10)
	assert.InDelta(t, 0.5, front, 1e-6)
	assert.InDelta(t, 0.5, behind, 1e-6, "directly behind: 0.7 + 0.3")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Player = &r
	p.PlaySoundAtPosition("thud", rl.Vector3{X: 1})
	Nop{}.PlaySoundAtPosition("ignored", rl.Vector3{})

	got := r.Played()
	assert.Equal(t, []Played{{Key: "thud", Position: rl.Vector3{X: 1}}}, got)
	got[0].Key = "changed"
	assert.Equal(t, "thud", r.Played()[0].Key)
}
