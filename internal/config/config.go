package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the scene description is looked up relative to the working directory.
const DefaultPath = "assets/scene.yaml"

// Drawable kinds understood by the scene builder
const (
	KindTerrain = "terrain"
	KindModel   = "model"
	KindSkybox  = "skybox"
	KindStats   = "stats"
)

// InstancesTerrainTrees places a model at every tree transform produced by the terrain
const InstancesTerrainTrees = "terrain-trees"

// Config is the complete application configuration
type Config struct {
	LogLevel  string         `yaml:"log_level"`
	FPSLimit  int            `yaml:"fps_limit"`
	HotReload bool           `yaml:"hot_reload"`
	Window    WindowConfig   `yaml:"window"`
	Camera    CameraConfig   `yaml:"camera"`
	Lights    [][3]float32   `yaml:"lights"`
	Terrain   TerrainConfig  `yaml:"terrain"`
	Drawables []DrawableSpec `yaml:"drawables"`
}

// WindowConfig holds window and context settings
type WindowConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Title         string `yaml:"title"`
	Multisampling bool   `yaml:"multisampling"`
	Samples       int    `yaml:"samples"`
	VSync         bool   `yaml:"vsync"`
}

// CameraConfig holds the initial camera state
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// TerrainConfig holds the procedural terrain parameters
type TerrainConfig struct {
	Size          int     `yaml:"size"`
	Scale         float32 `yaml:"scale"`
	Amplitude     float32 `yaml:"amplitude"`
	Octaves       int     `yaml:"octaves"`
	Persistence   float64 `yaml:"persistence"`
	Lacunarity    float64 `yaml:"lacunarity"`
	Seed          int64   `yaml:"seed"`
	TreeCount     int     `yaml:"tree_count"`
	TreeMinHeight float32 `yaml:"tree_min_height"`
	TreeMaxHeight float32 `yaml:"tree_max_height"`
	TreeScale     float32 `yaml:"tree_scale"`
}

// ShaderSpec names the source files of a program's stages
type ShaderSpec struct {
	Vertex   string `yaml:"vertex"`
	Geometry string `yaml:"geometry,omitempty"`
	Fragment string `yaml:"fragment"`
}

// DrawableSpec describes one entry of the ordered draw list
type DrawableSpec struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Shader    ShaderSpec `yaml:"shader"`
	Path      string     `yaml:"path,omitempty"`
	Format    string     `yaml:"format,omitempty"`
	Instances string     `yaml:"instances,omitempty"`
	Debug     bool       `yaml:"debug,omitempty"`
	FontSize  int        `yaml:"font_size,omitempty"`
}

// Default returns the built-in scene: terrain, instanced trees, the fantasy skybox and
// a debug statistics overlay
func Default() *Config {
	return &Config{
		LogLevel: "info",
		FPSLimit: 0,
		Window: WindowConfig{
			Width:         800,
			Height:        600,
			Title:         "lowpoly",
			Multisampling: true,
			Samples:       4,
			VSync:         true,
		},
		Camera: CameraConfig{
			Position:    [3]float32{10, 15, 10},
			Yaw:         -90,
			Pitch:       0,
			Speed:       10,
			Sensitivity: 0.1,
			Fov:         45,
			Near:        0.1,
			Far:         2000,
		},
		Lights: [][3]float32{
			{-1, -1, 0},
			{1, -1, 0},
		},
		Terrain: TerrainConfig{
			Size:          512,
			Scale:         0.02,
			Amplitude:     40,
			Octaves:       5,
			Persistence:   0.5,
			Lacunarity:    2.0,
			Seed:          1337,
			TreeCount:     400,
			TreeMinHeight: 4,
			TreeMaxHeight: 22,
			TreeScale:     1,
		},
		Drawables: []DrawableSpec{
			{
				Name: "terrain",
				Kind: KindTerrain,
				Shader: ShaderSpec{
					Vertex:   "assets/shaders/terrain/lowPolyTerrain.vert",
					Fragment: "assets/shaders/terrain/lowPolyTerrain.frag",
				},
			},
			{
				Name: "terrain-normals",
				Kind: KindTerrain,
				Shader: ShaderSpec{
					Vertex:   "assets/shaders/debug/normals.vert",
					Geometry: "assets/shaders/debug/normals.geom",
					Fragment: "assets/shaders/debug/normals.frag",
				},
				Debug: true,
			},
			{
				Name:      "trees",
				Kind:      KindModel,
				Path:      "assets/models/tree_1/tree_1.obj",
				Instances: InstancesTerrainTrees,
				Shader: ShaderSpec{
					Vertex:   "assets/shaders/model/lowPolyTree.vert",
					Fragment: "assets/shaders/model/lowPolyTree.frag",
				},
			},
			{
				Name:   "sky",
				Kind:   KindSkybox,
				Path:   "assets/skyboxes/fantasy_01",
				Format: "png",
				Shader: ShaderSpec{
					Vertex:   "assets/shaders/skybox/fantasySkybox.vert",
					Fragment: "assets/shaders/skybox/fantasySkybox.frag",
				},
			},
			{
				Name:     "stats",
				Kind:     KindStats,
				FontSize: 16,
				Shader: ShaderSpec{
					Vertex:   "assets/shaders/hud/text.vert",
					Fragment: "assets/shaders/hud/text.frag",
				},
				Debug: true,
			},
		},
	}
}

// Load reads a YAML scene description over the defaults.
// A missing file is not an error: the defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate clamps numeric settings to usable ranges and rejects malformed draw entries
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.FPSLimit < 0 {
		c.FPSLimit = 0
	}
	if c.Window.Samples < 0 {
		c.Window.Samples = 0
	}

	// Clamp to the camera's own limits
	c.Camera.Fov = clamp(c.Camera.Fov, 1, 45)
	c.Camera.Pitch = clamp(c.Camera.Pitch, -89, 89)
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	// A non-positive speed or sensitivity would freeze or invert the controls
	if c.Camera.Speed <= 0 {
		c.Camera.Speed = 10
	}
	if c.Camera.Sensitivity <= 0 {
		c.Camera.Sensitivity = 0.1
	}
	if c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera far plane %.2f must exceed near plane %.2f", c.Camera.Far, c.Camera.Near)
	}

	if len(c.Lights) > 2 {
		return fmt.Errorf("at most 2 world lights are supported, got %d", len(c.Lights))
	}

	if c.Terrain.Size < 2 {
		return fmt.Errorf("terrain size must be at least 2, got %d", c.Terrain.Size)
	}
	if c.Terrain.Octaves < 1 {
		c.Terrain.Octaves = 1
	}
	if c.Terrain.TreeCount < 0 {
		c.Terrain.TreeCount = 0
	}

	names := make(map[string]bool, len(c.Drawables))
	for i, d := range c.Drawables {
		if d.Name == "" {
			return fmt.Errorf("drawable %d has no name", i)
		}
		if names[d.Name] {
			return fmt.Errorf("duplicate drawable name %q", d.Name)
		}
		names[d.Name] = true

		switch d.Kind {
		case KindTerrain:
		case KindStats:
			if d.FontSize < 0 || d.FontSize > 128 {
				return fmt.Errorf("drawable %q has invalid font size %d", d.Name, d.FontSize)
			}
		case KindModel, KindSkybox:
			if d.Path == "" {
				return fmt.Errorf("drawable %q of kind %s needs a path", d.Name, d.Kind)
			}
		default:
			return fmt.Errorf("drawable %q has unknown kind %q", d.Name, d.Kind)
		}
		if d.Instances != "" && d.Instances != InstancesTerrainTrees {
			return fmt.Errorf("drawable %q has unknown instance source %q", d.Name, d.Instances)
		}
		if d.Shader.Vertex == "" || d.Shader.Fragment == "" {
			return fmt.Errorf("drawable %q needs vertex and fragment shaders", d.Name)
		}
	}
	return nil
}

// SlogLevel maps the configured log level name to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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
