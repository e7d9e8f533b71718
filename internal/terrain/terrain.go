package terrain

import (
	"lowpoly/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain is an uploaded heightmap mesh
type Terrain struct {
	*Heightmap
	mesh *graphics.Mesh
}

// New generates the terrain for p and uploads its mesh
func New(p Params) *Terrain {
	hm := Generate(p)
	return &Terrain{
		Heightmap: hm,
		mesh:      graphics.NewMesh(hm.Vertices(), nil, nil),
	}
}

// TreeModelMats returns the tree placement transforms for instanced drawing
func (t *Terrain) TreeModelMats() []mgl32.Mat4 {
	return t.Trees
}

// Draw draws the terrain with the currently bound program
func (t *Terrain) Draw(p graphics.Program) {
	t.mesh.Draw(p)
}

// Dispose cleans up OpenGL resources
func (t *Terrain) Dispose() {
	t.mesh.Dispose()
}
