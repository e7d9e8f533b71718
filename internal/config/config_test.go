package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesBuiltInScene(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, [3]float32{10, 15, 10}, cfg.Camera.Position)
	assert.Equal(t, 512, cfg.Terrain.Size)
	require.Len(t, cfg.Lights, 2)

	var kinds []string
	for _, d := range cfg.Drawables {
		kinds = append(kinds, d.Kind)
	}
	// Paint order: terrain first, then the sky, overlay on top
	assert.Equal(t, []string{KindTerrain, KindTerrain, KindModel, KindSkybox, KindStats}, kinds)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
log_level: debug
window:
  width: 1024
  height: 768
camera:
  position: [1, 2, 3]
  fov: 90
drawables:
  - name: ground
    kind: terrain
    shader:
      vertex: a.vert
      fragment: a.frag
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, "lowpoly", cfg.Window.Title, "unset keys keep their defaults")
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(45), cfg.Camera.Fov, "fov is clamped")
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Len(t, cfg.Drawables, 1)
	assert.Equal(t, "ground", cfg.Drawables[0].Name)
}

func TestValidateRejectsBadScenes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }},
		{"too many lights", func(c *Config) { c.Lights = append(c.Lights, [3]float32{0, -1, 0}) }},
		{"tiny terrain", func(c *Config) { c.Terrain.Size = 1 }},
		{"unknown kind", func(c *Config) { c.Drawables[0].Kind = "water" }},
		{"model without path", func(c *Config) { c.Drawables[2].Path = "" }},
		{"duplicate name", func(c *Config) { c.Drawables[1].Name = c.Drawables[0].Name }},
		{"missing fragment", func(c *Config) { c.Drawables[0].Shader.Fragment = "" }},
		{"unknown instances", func(c *Config) { c.Drawables[2].Instances = "rocks" }},
		{"huge font", func(c *Config) { c.Drawables[4].FontSize = 500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRestoresNonPositiveCameraControls(t *testing.T) {
	cfg := Default()
	cfg.Camera.Speed = -3
	cfg.Camera.Sensitivity = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(10), cfg.Camera.Speed)
	assert.Equal(t, float32(0.1), cfg.Camera.Sensitivity)

	cfg.Camera.Speed = 2.5
	cfg.Camera.Sensitivity = 0.3
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(2.5), cfg.Camera.Speed, "positive values are kept")
	assert.Equal(t, float32(0.3), cfg.Camera.Sensitivity)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	err := Parse([]byte("window: [1, 2"), Default())
	assert.Error(t, err)
}

func TestShippedSceneMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)

	want := Default()
	want.HotReload = true
	assert.Equal(t, want, cfg)
}
