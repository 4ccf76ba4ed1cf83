package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Strict())
	assert.Equal(t, float32(120), cfg.Physics.SubstepHz)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
physics:
  backend: planar
  gravity: [0, -20, 0]
registry:
  unknown_components: lenient
`))
	require.NoError(t, err)

	assert.Equal(t, BackendPlanar, cfg.Physics.Backend)
	assert.Equal(t, [3]float32{0, -20, 0}, cfg.Physics.Gravity)
	assert.False(t, cfg.Strict())
	// untouched sections keep their defaults
	assert.Equal(t, "scenes", cfg.Persistence.Dir)
	assert.Equal(t, float32(120), cfg.Physics.SubstepHz)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsBadValues(t *testing.T) {
	for name, doc := range map[string]string{
		"backend":  "physics:\n  backend: bullet\n",
		"substeps": "physics:\n  substep_hz: 0\n",
		"policy":   "registry:\n  unknown_components: maybe\n",
		"unknown":  "nonsense: true\n",
	} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("persistence:\n  dir: /tmp/saves\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/saves", cfg.Persistence.Dir)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
