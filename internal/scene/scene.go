// Package scene turns the configured drawables into the renderer's ordered draw list.
package scene

import (
	"fmt"
	"log/slog"

	"lowpoly/internal/camera"
	"lowpoly/internal/config"
	"lowpoly/internal/graphics"
	"lowpoly/internal/graphics/renderables/hud"
	"lowpoly/internal/graphics/renderables/model"
	"lowpoly/internal/graphics/renderables/skybox"
	"lowpoly/internal/graphics/renderer"
	"lowpoly/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

// Resource is a drawable owning GPU state
type Resource interface {
	renderer.Drawable
	Dispose()
}

// TerrainResource is an uploaded terrain that also provides tree placements
type TerrainResource interface {
	Resource
	TreeModelMats() []mgl32.Mat4
}

// ModelResource is an imported model that can be drawn at many transforms
type ModelResource interface {
	Resource
	SetInstances(transforms []mgl32.Mat4)
	DrawInstanced(p graphics.Program, transforms []mgl32.Mat4)
}

// OverlayResource is screen-space content that refreshes itself from the frame context
type OverlayResource interface {
	Resource
	Bind(p graphics.Program, ctx renderer.FrameContext)
}

// Loaders create the GPU resources. Every loader error aborts the scene.
type Loaders struct {
	Terrain func(p terrain.Params) (TerrainResource, error)
	Model   func(path string, textures *graphics.TextureCache) (ModelResource, error)
	Skybox  func(dir, format string) (Resource, error)
	Stats   func(fontSize int) (OverlayResource, error)
}

// GLLoaders returns the loaders backed by OpenGL
func GLLoaders() Loaders {
	return Loaders{
		Terrain: func(p terrain.Params) (TerrainResource, error) {
			return terrain.New(p), nil
		},
		Model: func(path string, textures *graphics.TextureCache) (ModelResource, error) {
			return model.Load(path, textures)
		},
		Skybox: func(dir, format string) (Resource, error) {
			return skybox.New(dir, format)
		},
		Stats: func(fontSize int) (OverlayResource, error) {
			return hud.NewStats(fontSize)
		},
	}
}

// Scene owns the programs and resources behind a draw list
type Scene struct {
	Entries []renderer.Entry
	Shaders []*graphics.Shader

	terrain   TerrainResource
	models    map[string]ModelResource
	resources []Resource
	textures  *graphics.TextureCache
}

// instanced draws a model at a fixed set of transforms
type instanced struct {
	model      ModelResource
	transforms []mgl32.Mat4
}

func (i *instanced) Draw(p graphics.Program) {
	i.model.DrawInstanced(p, i.transforms)
}

// Build creates every program and resource named by cfg, in draw order.
// Programs with identical sources are shared; a terrain and each model file are loaded once.
func Build(cfg *config.Config, dev graphics.Device, logger *slog.Logger, loaders Loaders) (*Scene, error) {
	s := &Scene{
		models:   make(map[string]ModelResource),
		textures: graphics.NewTextureCache(logger),
	}
	shaders := make(map[graphics.ShaderSources]*graphics.Shader)

	for _, d := range cfg.Drawables {
		src := graphics.ShaderSources{
			Vertex:   d.Shader.Vertex,
			Geometry: d.Shader.Geometry,
			Fragment: d.Shader.Fragment,
		}
		prog, ok := shaders[src]
		if !ok {
			prog = graphics.NewShader(dev, logger, src)
			shaders[src] = prog
			s.Shaders = append(s.Shaders, prog)
		}

		drawable, bind, err := s.resource(cfg, d, loaders)
		if err != nil {
			s.Dispose()
			return nil, fmt.Errorf("drawable %q: %w", d.Name, err)
		}

		s.Entries = append(s.Entries, renderer.Entry{
			Name:     d.Name,
			Program:  prog,
			Drawable: drawable,
			Bind:     bind,
			Debug:    d.Debug,
		})
		logger.Debug("drawable ready", "name", d.Name, "kind", d.Kind, "linked", prog.Linked())
	}
	return s, nil
}

func (s *Scene) resource(cfg *config.Config, d config.DrawableSpec, loaders Loaders) (renderer.Drawable, renderer.Binder, error) {
	switch d.Kind {
	case config.KindTerrain:
		t, err := s.loadTerrain(cfg, loaders)
		if err != nil {
			return nil, nil, err
		}
		return t, renderer.ModelIdentity, nil

	case config.KindModel:
		m, ok := s.models[d.Path]
		if !ok {
			var err error
			m, err = loaders.Model(d.Path, s.textures)
			if err != nil {
				return nil, nil, err
			}
			s.models[d.Path] = m
			s.resources = append(s.resources, m)
		}
		if d.Instances != config.InstancesTerrainTrees {
			return m, renderer.ModelIdentity, nil
		}

		t, err := s.loadTerrain(cfg, loaders)
		if err != nil {
			return nil, nil, err
		}
		trees := t.TreeModelMats()
		m.SetInstances(trees)
		return &instanced{model: m, transforms: trees}, nil, nil

	case config.KindSkybox:
		sky, err := loaders.Skybox(d.Path, d.Format)
		if err != nil {
			return nil, nil, err
		}
		s.resources = append(s.resources, sky)
		return sky, renderer.SkyboxBinder, nil

	case config.KindStats:
		o, err := loaders.Stats(d.FontSize)
		if err != nil {
			return nil, nil, err
		}
		s.resources = append(s.resources, o)
		return o, o.Bind, nil
	}
	return nil, nil, fmt.Errorf("unknown kind %q", d.Kind)
}

func (s *Scene) loadTerrain(cfg *config.Config, loaders Loaders) (TerrainResource, error) {
	if s.terrain != nil {
		return s.terrain, nil
	}
	t, err := loaders.Terrain(TerrainParams(cfg.Terrain))
	if err != nil {
		return nil, err
	}
	s.terrain = t
	s.resources = append(s.resources, t)
	return t, nil
}

// ShaderPaths lists every source file used by the scene's programs
func (s *Scene) ShaderPaths() []string {
	var paths []string
	for _, sh := range s.Shaders {
		paths = append(paths, sh.Paths()...)
	}
	return paths
}

// Dispose releases resources in reverse creation order, then programs and textures
func (s *Scene) Dispose() {
	for i := len(s.resources) - 1; i >= 0; i-- {
		s.resources[i].Dispose()
	}
	s.resources = nil
	for _, sh := range s.Shaders {
		sh.Delete()
	}
	s.Shaders = nil
	s.textures.Dispose()
}

// TerrainParams converts the terrain configuration
func TerrainParams(c config.TerrainConfig) terrain.Params {
	return terrain.Params{
		Size:          c.Size,
		Scale:         c.Scale,
		Amplitude:     c.Amplitude,
		Octaves:       c.Octaves,
		Persistence:   c.Persistence,
		Lacunarity:    c.Lacunarity,
		Seed:          c.Seed,
		TreeCount:     c.TreeCount,
		TreeMinHeight: c.TreeMinHeight,
		TreeMaxHeight: c.TreeMaxHeight,
		TreeScale:     c.TreeScale,
	}
}

// CameraOptions converts the camera configuration
func CameraOptions(c config.CameraConfig) camera.Options {
	return camera.Options{
		Position:    mgl32.Vec3(c.Position),
		Yaw:         c.Yaw,
		Pitch:       c.Pitch,
		Speed:       c.Speed,
		Sensitivity: c.Sensitivity,
		Fov:         c.Fov,
		Near:        c.Near,
		Far:         c.Far,
	}
}

// Lights converts the configured light directions
func Lights(cfg *config.Config) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(cfg.Lights))
	for i, l := range cfg.Lights {
		out[i] = mgl32.Vec3(l)
	}
	return out
}
