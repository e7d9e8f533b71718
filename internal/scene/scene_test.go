package scene

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"lowpoly/internal/config"
	"lowpoly/internal/graphics"
	"lowpoly/internal/graphics/graphicstest"
	"lowpoly/internal/graphics/renderer"
	"lowpoly/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	name     string
	draws    int
	disposed *[]string
}

func (f *fakeResource) Draw(graphics.Program) { f.draws++ }
func (f *fakeResource) Dispose()              { *f.disposed = append(*f.disposed, f.name) }

type fakeTerrain struct {
	fakeResource
	trees []mgl32.Mat4
}

func (f *fakeTerrain) TreeModelMats() []mgl32.Mat4 { return f.trees }

type fakeModel struct {
	fakeResource
	instances []mgl32.Mat4
	drawnWith int
}

func (f *fakeModel) SetInstances(t []mgl32.Mat4) { f.instances = t }
func (f *fakeModel) DrawInstanced(_ graphics.Program, t []mgl32.Mat4) {
	f.drawnWith = len(t)
}

type fakeOverlay struct {
	fakeResource
	bound []renderer.FrameContext
}

func (f *fakeOverlay) Bind(_ graphics.Program, ctx renderer.FrameContext) {
	f.bound = append(f.bound, ctx)
}

type loaderLog struct {
	terrains []terrain.Params
	models   []string
	skyboxes []string
	fonts    []int
	disposed []string
	model    *fakeModel
	overlay  *fakeOverlay
}

func (l *loaderLog) loaders() Loaders {
	return Loaders{
		Terrain: func(p terrain.Params) (TerrainResource, error) {
			l.terrains = append(l.terrains, p)
			return &fakeTerrain{
				fakeResource: fakeResource{name: "terrain", disposed: &l.disposed},
				trees:        []mgl32.Mat4{mgl32.Translate3D(1, 2, 3), mgl32.Translate3D(4, 5, 6)},
			}, nil
		},
		Model: func(path string, _ *graphics.TextureCache) (ModelResource, error) {
			l.models = append(l.models, path)
			l.model = &fakeModel{fakeResource: fakeResource{name: "model", disposed: &l.disposed}}
			return l.model, nil
		},
		Skybox: func(dir, format string) (Resource, error) {
			l.skyboxes = append(l.skyboxes, dir+":"+format)
			return &fakeResource{name: "sky", disposed: &l.disposed}, nil
		},
		Stats: func(fontSize int) (OverlayResource, error) {
			l.fonts = append(l.fonts, fontSize)
			l.overlay = &fakeOverlay{fakeResource: fakeResource{name: "stats", disposed: &l.disposed}}
			return l.overlay, nil
		},
	}
}

func shaderSpec(t *testing.T, dir, name string) config.ShaderSpec {
	t.Helper()
	vert := filepath.Join(dir, name+".vert")
	frag := filepath.Join(dir, name+".frag")
	require.NoError(t, os.WriteFile(vert, []byte("void main() {}"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("void main() {}"), 0o644))
	return config.ShaderSpec{Vertex: vert, Fragment: frag}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Drawables = []config.DrawableSpec{
		{Name: "terrain", Kind: config.KindTerrain, Shader: shaderSpec(t, dir, "terrain")},
		{Name: "terrain-debug", Kind: config.KindTerrain, Shader: shaderSpec(t, dir, "terrain"), Debug: true},
		{Name: "trees", Kind: config.KindModel, Path: "tree.obj", Instances: config.InstancesTerrainTrees, Shader: shaderSpec(t, dir, "tree")},
		{Name: "sky", Kind: config.KindSkybox, Path: "skies/fantasy", Format: "png", Shader: shaderSpec(t, dir, "sky")},
		{Name: "stats", Kind: config.KindStats, FontSize: 12, Shader: shaderSpec(t, dir, "text"), Debug: true},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildOrdersEntriesAndSharesResources(t *testing.T) {
	cfg := testConfig(t)
	l := &loaderLog{}

	s, err := Build(cfg, graphicstest.NewDevice(), discard(), l.loaders())
	require.NoError(t, err)

	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
		assert.True(t, e.Program.Linked(), e.Name)
	}
	assert.Equal(t, []string{"terrain", "terrain-debug", "trees", "sky", "stats"}, names)

	assert.Len(t, l.terrains, 1, "terrain is generated once")
	assert.Equal(t, TerrainParams(cfg.Terrain), l.terrains[0])
	assert.Equal(t, []string{"tree.obj"}, l.models)
	assert.Equal(t, []string{"skies/fantasy:png"}, l.skyboxes)
	assert.Equal(t, []int{12}, l.fonts)

	assert.Len(t, s.Shaders, 4, "identical sources share one program")
	assert.Same(t, s.Entries[0].Program, s.Entries[1].Program)
	assert.Len(t, s.ShaderPaths(), 8)

	assert.False(t, s.Entries[0].Debug)
	assert.True(t, s.Entries[1].Debug)
}

func TestBuildWiresInstancesAndBinders(t *testing.T) {
	cfg := testConfig(t)
	l := &loaderLog{}

	s, err := Build(cfg, graphicstest.NewDevice(), discard(), l.loaders())
	require.NoError(t, err)

	require.Len(t, l.model.instances, 2, "tree transforms are uploaded at build time")
	s.Entries[2].Drawable.Draw(s.Entries[2].Program)
	assert.Equal(t, 2, l.model.drawnWith)
	assert.Nil(t, s.Entries[2].Bind, "instanced models carry their transforms")

	prog := &recordingProgram{mats: make(map[string]mgl32.Mat4)}
	ctx := renderer.FrameContext{
		View: mgl32.Translate3D(1, 2, 3),
		Proj: mgl32.Perspective(1, 1, 0.1, 10),
	}
	s.Entries[0].Bind(prog, ctx)
	assert.Equal(t, mgl32.Ident4(), prog.mats["model"])

	s.Entries[3].Bind(prog, ctx)
	assert.Equal(t, ctx.Proj, prog.mats["projection"])
	assert.Equal(t, mgl32.Ident4(), prog.mats["view"])

	ctx.Width, ctx.Height = 640, 480
	s.Entries[4].Bind(prog, ctx)
	require.Len(t, l.overlay.bound, 1, "overlays refresh through their own binder")
	assert.Equal(t, 640, l.overlay.bound[0].Width)
}

func TestBuildFailsFastAndReleasesPartialScene(t *testing.T) {
	cfg := testConfig(t)
	l := &loaderLog{}
	loaders := l.loaders()
	loaders.Skybox = func(string, string) (Resource, error) {
		return nil, errors.New("cubemap face right: no such file")
	}

	_, err := Build(cfg, graphicstest.NewDevice(), discard(), loaders)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `drawable "sky"`)
	assert.Equal(t, []string{"model", "terrain"}, l.disposed, "built resources are released in reverse order")
}

func TestBuildKeepsEntriesWithBrokenShaders(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Drawables[3].Shader.Fragment, []byte("void mian("), 0o644))

	s, err := Build(cfg, graphicstest.NewDevice(), discard(), (&loaderLog{}).loaders())
	require.NoError(t, err)
	assert.False(t, s.Entries[3].Program.Linked())
	assert.True(t, s.Entries[0].Program.Linked())
}

func TestDisposeReleasesEverything(t *testing.T) {
	cfg := testConfig(t)
	l := &loaderLog{}
	dev := graphicstest.NewDevice()

	s, err := Build(cfg, dev, discard(), l.loaders())
	require.NoError(t, err)
	ids := make([]uint32, 0, len(s.Shaders))
	for _, sh := range s.Shaders {
		ids = append(ids, sh.ID)
	}

	s.Dispose()
	assert.Equal(t, []string{"stats", "sky", "model", "terrain"}, l.disposed)
	for _, id := range ids {
		assert.True(t, dev.Deleted[id])
	}
}

func TestConversions(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}}, Lights(cfg))

	opts := CameraOptions(cfg.Camera)
	assert.Equal(t, mgl32.Vec3{10, 15, 10}, opts.Position)
	assert.Equal(t, float32(45), opts.Fov)

	p := TerrainParams(cfg.Terrain)
	assert.Equal(t, 512, p.Size)
	assert.Equal(t, int64(1337), p.Seed)
}

type recordingProgram struct {
	mats map[string]mgl32.Mat4
}

func (p *recordingProgram) Use()                              {}
func (p *recordingProgram) Linked() bool                      { return true }
func (p *recordingProgram) SetMat4(name string, v mgl32.Mat4) { p.mats[name] = v }
func (p *recordingProgram) SetVec3(string, mgl32.Vec3)        {}
func (p *recordingProgram) SetInt(string, int32)              {}
func (p *recordingProgram) SetFloat(string, float32)          {}
