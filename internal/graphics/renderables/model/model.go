package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lowpoly/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Model is a set of meshes imported from one OBJ file, one mesh per material
type Model struct {
	Path   string
	Meshes []*graphics.Mesh

	instanceVBO uint32
	instances   int
}

// Load imports the OBJ file at path together with its sibling MTL file (same base name).
// A missing MTL file leaves every mesh white and untextured; material textures that fail
// to load resolve to the cache placeholder.
func Load(path string, textures *graphics.TextureCache) (*Model, error) {
	objFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer objFile.Close()

	var mtl io.Reader = strings.NewReader("")
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	if mtlFile, err := os.Open(mtlPath); err == nil {
		defer mtlFile.Close()
		mtl = mtlFile
	}

	data, err := Decode(objFile, mtl)
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("model %s has no faces", path)
	}

	dir := filepath.Dir(path)
	m := &Model{Path: path}
	for _, d := range data {
		var texs []graphics.Texture
		if d.DiffuseMap != "" {
			texPath := filepath.Join(dir, d.DiffuseMap)
			texs = append(texs, graphics.Texture{
				ID:   textures.Get(texPath),
				Kind: graphics.TextureDiffuse,
				Path: texPath,
			})
		}
		mesh := graphics.NewMesh(d.Vertices, d.Indices, texs)
		mesh.Diffuse = d.Diffuse
		m.Meshes = append(m.Meshes, mesh)
	}
	return m, nil
}

// Draw draws every mesh once with the currently bound program
func (m *Model) Draw(p graphics.Program) {
	for _, mesh := range m.Meshes {
		mesh.Draw(p)
	}
}

// SetInstances uploads per-instance transforms and attaches them to every mesh.
// Call at startup; the frame loop only draws.
func (m *Model) SetInstances(transforms []mgl32.Mat4) {
	if m.instanceVBO != 0 {
		gl.DeleteBuffers(1, &m.instanceVBO)
		m.instanceVBO = 0
	}
	m.instances = len(transforms)
	if m.instances == 0 {
		return
	}
	m.instanceVBO = graphics.NewInstanceBuffer(transforms)
	for _, mesh := range m.Meshes {
		mesh.AttachInstances(m.instanceVBO)
	}
}

// DrawInstanced draws every mesh once per transform. Transforms are uploaded on first use
// or when their count changes.
func (m *Model) DrawInstanced(p graphics.Program, transforms []mgl32.Mat4) {
	if m.instanceVBO == 0 || m.instances != len(transforms) {
		m.SetInstances(transforms)
	}
	for _, mesh := range m.Meshes {
		mesh.DrawInstanced(p, m.instances)
	}
}

// Dispose cleans up OpenGL resources. Textures belong to the cache.
func (m *Model) Dispose() {
	for _, mesh := range m.Meshes {
		mesh.Dispose()
	}
	if m.instanceVBO != 0 {
		gl.DeleteBuffers(1, &m.instanceVBO)
		m.instanceVBO = 0
	}
}
