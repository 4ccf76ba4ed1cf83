// Package scene defines the scene state document and stores it as JSON.
package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
)

// Version is the document format written by this package.
const Version = 1

var (
	ErrSceneNotFound   = errors.New("scene not found")
	ErrInvalidDocument = errors.New("invalid scene document")
)

type Projection string

const (
	Perspective  Projection = "perspective"
	Orthographic Projection = "orthographic"
)

type Camera struct {
	Position   render.Vec3 `json:"position"`
	Rotation   render.Quat `json:"rotation"`
	Target     render.Vec3 `json:"target"`
	FOV        float32     `json:"fov"`
	Near       float32     `json:"near"`
	Far        float32     `json:"far"`
	Projection Projection  `json:"projection"`
}

// Weather is carried through documents untouched; nothing in this module
// simulates it.
type Weather struct {
	TimeOfDay  float32     `json:"timeOfDay"` // hours, [0, 24)
	Cloudiness float32     `json:"cloudiness"`
	Rain       float32     `json:"rain"`
	FogDensity float32     `json:"fogDensity"`
	Wind       render.Vec3 `json:"wind"`
}

type Physics struct {
	Enabled bool        `json:"enabled"`
	Gravity render.Vec3 `json:"gravity"`
}

// Document is a full snapshot of a running scene.
type Document struct {
	Version  int                  `json:"version"`
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Paused   bool                 `json:"paused"`
	Camera   Camera               `json:"camera"`
	Weather  Weather              `json:"weather"`
	Physics  Physics              `json:"physics"`
	Entities []engine.EntityState `json:"entities"`
}

func DefaultCamera() Camera {
	return Camera{
		Position:   render.Vec3{Y: 5, Z: 10},
		Rotation:   render.Quat{W: 1},
		FOV:        60,
		Near:       0.1,
		Far:        1000,
		Projection: Perspective,
	}
}

// New returns an empty document with a fresh id.
func New(name string) *Document {
	return &Document{
		Version: Version,
		ID:      uuid.New(),
		Name:    name,
		Camera:  DefaultCamera(),
		Weather: Weather{TimeOfDay: 12},
		Physics: Physics{Enabled: true, Gravity: render.Vec3{Y: -9.81}},
	}
}

// Validate checks the version, the entity records and every transform.
func (d *Document) Validate() error {
	if d.Version < 1 || d.Version > Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	if d.Camera.Projection != "" && d.Camera.Projection != Perspective && d.Camera.Projection != Orthographic {
		return fmt.Errorf("%w: camera projection %q", ErrInvalidDocument, d.Camera.Projection)
	}
	for i, e := range d.Entities {
		if e.Type == "" {
			return fmt.Errorf("%w: entity %d (%q) has no type", ErrInvalidDocument, i, e.Name)
		}
		tr := e.UserData.Transform
		if !finite(tr.Position.X, tr.Position.Y, tr.Position.Z,
			tr.Rotation.X, tr.Rotation.Y, tr.Rotation.Z, tr.Rotation.W,
			tr.Scale.X, tr.Scale.Y, tr.Scale.Z) {
			return fmt.Errorf("%w: entity %q has a non-finite transform", ErrInvalidDocument, e.Name)
		}
	}
	return nil
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Marshal encodes d as indented JSON.
func Marshal(d *Document) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes and validates a document. A document without a
// version is read as version 1.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Digest is the hash the store uses to detect unchanged documents.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
