package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Unknown component policies.
const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Physics backends.
const (
	BackendRigid  = "rigid"
	BackendPlanar = "planar"
)

type Config struct {
	Log         LogConfig         `yaml:"log"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Registry    RegistryConfig    `yaml:"registry"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Viewer      ViewerConfig      `yaml:"viewer"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type PhysicsConfig struct {
	Backend     string     `yaml:"backend"`
	Enabled     bool       `yaml:"enabled"`
	Gravity     [3]float32 `yaml:"gravity"`
	SubstepHz   float32    `yaml:"substep_hz"`
	MaxSubsteps int        `yaml:"max_substeps"`
}

type RegistryConfig struct {
	UnknownComponents string `yaml:"unknown_components"`
}

type PersistenceConfig struct {
	Dir string `yaml:"dir"`
}

type ViewerConfig struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Physics: PhysicsConfig{
			Backend:     BackendRigid,
			Enabled:     true,
			Gravity:     [3]float32{0, -9.81, 0},
			SubstepHz:   120,
			MaxSubsteps: 16,
		},
		Registry: RegistryConfig{
			UnknownComponents: PolicyStrict,
		},
		Persistence: PersistenceConfig{
			Dir: "scenes",
		},
		Viewer: ViewerConfig{
			Width:     1280,
			Height:    720,
			Title:     "scenecore",
			TargetFPS: 60,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// Parse decodes YAML bytes on top of Default.
func Parse(data []byte) (Config, error) {
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and non-positive rates.
func (c Config) Validate() error {
	switch c.Physics.Backend {
	case BackendRigid, BackendPlanar:
	default:
		return fmt.Errorf("config: unknown physics backend %q", c.Physics.Backend)
	}
	if c.Physics.SubstepHz <= 0 {
		return fmt.Errorf("config: physics.substep_hz must be positive, got %v", c.Physics.SubstepHz)
	}
	if c.Physics.MaxSubsteps <= 0 {
		return fmt.Errorf("config: physics.max_substeps must be positive, got %d", c.Physics.MaxSubsteps)
	}
	switch c.Registry.UnknownComponents {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("config: unknown registry.unknown_components policy %q", c.Registry.UnknownComponents)
	}
	if c.Persistence.Dir == "" {
		return errors.New("config: persistence.dir is empty")
	}
	return nil
}

// Strict reports whether unknown component types fail construction.
func (c Config) Strict() bool {
	return c.Registry.UnknownComponents == PolicyStrict
}
