// Package audio is the positional sound collaborator. The engine only ever
// asks it to play a named sound at a world position.
package audio

import (
	"math"
	"path/filepath"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// Player plays one-shot sounds in the world.
type Player interface {
	PlaySoundAtPosition(key string, position rl.Vector3)
}

// Listener represents the audio listener position and orientation
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// NewListener builds a listener, normalizing forward (default -Z) and
// deriving right from up x forward.
func NewListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos}

	// Normalize forward, default to -Z if zero
	if fwdLen := rl.Vector3Length(forward); fwdLen > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1.0/fwdLen)
	} else {
		l.Forward = rl.Vector3{X: 0, Y: 0, Z: -1}
	}

	right := rl.Vector3CrossProduct(up, l.Forward)
	if rightLen := rl.Vector3Length(right); rightLen > 0.001 {
		l.Right = rl.Vector3Scale(right, 1.0/rightLen)
	} else {
		l.Right = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	return l
}

// Spatialize returns the volume and pan (0 left, 0.5 center, 1 right) for a
// sound at pos heard by l.
func Spatialize(l Listener, pos rl.Vector3, volume, maxDistance float32) (float32, float32) {
	toSource := rl.Vector3Subtract(pos, l.Position)
	distance := rl.Vector3Length(toSource)

	// Distance attenuation, linear falloff
	var out float32
	if distance < maxDistance {
		out = volume * (1.0 - distance/maxDistance)
	}

	pan := float32(0.5)
	if distance > 0.001 {
		direction := rl.Vector3Scale(toSource, 1.0/distance)
		rightDot := rl.Vector3DotProduct(direction, l.Right)
		pan = min(max(0.5+rightDot*0.5, 0), 1)

		// sounds behind are slightly quieter
		if frontDot := rl.Vector3DotProduct(direction, l.Forward); frontDot < 0 {
			out *= 0.7 + 0.3*float32(math.Abs(float64(frontDot)))
		}
	}
	return out, pan
}

// Manager plays sounds through the raylib audio device. Sounds are loaded
// on first use from Dir/<key>.wav.
type Manager struct {
	Dir         string
	Volume      float32
	MaxDistance float32

	mu       sync.Mutex
	listener Listener
	sounds   map[string]rl.Sound
	missing  map[string]bool
	log      *zap.Logger
}

// NewManager opens the audio device.
func NewManager(dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	rl.InitAudioDevice()
	return &Manager{
		Dir:         dir,
		Volume:      1,
		MaxDistance: 50,
		listener:    NewListener(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1}),
		sounds:      make(map[string]rl.Sound),
		missing:     make(map[string]bool),
		log:         log.Named("audio"),
	}
}

// SetListener updates the listener position and orientation
func (m *Manager) SetListener(pos, forward, up rl.Vector3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = NewListener(pos, forward, up)
}

func (m *Manager) PlaySoundAtPosition(key string, position rl.Vector3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snd, ok := m.load(key)
	if !ok {
		return
	}
	volume, pan := Spatialize(m.listener, position, m.Volume, m.MaxDistance)
	if volume <= 0 {
		return
	}
	rl.SetSoundVolume(snd, volume)
	rl.SetSoundPan(snd, pan)
	rl.PlaySound(snd)
}

func (m *Manager) load(key string) (rl.Sound, bool) {
	if snd, ok := m.sounds[key]; ok {
		return snd, true
	}
	if m.missing[key] {
		return rl.Sound{}, false
	}
	path := filepath.Join(m.Dir, key+".wav")
	snd := rl.LoadSound(path)
	if !rl.IsSoundValid(snd) {
		m.log.Warn("sound not found", zap.String("key", key), zap.String("path", path))
		m.missing[key] = true
		return rl.Sound{}, false
	}
	m.sounds[key] = snd
	return snd, true
}

// Close unloads every sound and shuts the device down.
func (m *Manager) Close() {
	m.mu.Lock()
	for _, snd := range m.sounds {
		rl.UnloadSound(snd)
	}
	m.sounds = nil
	m.mu.Unlock()
	rl.CloseAudioDevice()
}

// Nop discards every sound.
type Nop struct{}

func (Nop) PlaySoundAtPosition(string, rl.Vector3) {}

// Played is one call recorded by Recorder.
type Played struct {
	Key      string
	Position rl.Vector3
}

// Recorder keeps every request, for headless runs and tests.
type Recorder struct {
	mu     sync.Mutex
	played []Played
}

func (r *Recorder) PlaySoundAtPosition(key string, position rl.Vector3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, Played{Key: key, Position: position})
}

// Played returns a copy of what has been requested so far.
func (r *Recorder) Played() []Played {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Played(nil), r.played...)
}
