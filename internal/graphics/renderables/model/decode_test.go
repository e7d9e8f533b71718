package model

import (
	"strings"
	"testing"

	"github.com/g3n/engine/loader/obj"
	"github.com/g3n/engine/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadDecoder() *obj.Decoder {
	return &obj.Decoder{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Uvs:      []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Normals:  []float32{0, 0, 1},
		Objects: []obj.Object{{
			Name: "tree",
			Faces: []obj.Face{{
				Vertices: []int{0, 1, 2, 3},
				Uvs:      []int{0, 1, 2, 3},
				Normals:  []int{0, 0, 0, 0},
				Material: "leaves",
			}},
		}},
		Materials: map[string]*obj.Material{
			"leaves": {Diffuse: math32.Color{R: 0.2, G: 0.6, B: 0.2}, MapKd: "leaves.png"},
		},
	}
}

func TestBuildMeshesFanTriangulatesAndShares(t *testing.T) {
	meshes := buildMeshes(quadDecoder())
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "leaves", m.Material)
	assert.Len(t, m.Vertices, 4, "shared corners are de-duplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, "leaves.png", m.DiffuseMap)
	assert.Equal(t, mgl32.Vec3{0.2, 0.6, 0.2}, m.Diffuse)
	assert.Equal(t, mgl32.Vec2{1, 1}, m.Vertices[2].TexCoords)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Vertices[0].Normal)
}

func TestBuildMeshesGroupsByMaterial(t *testing.T) {
	dec := quadDecoder()
	dec.Objects[0].Faces = append(dec.Objects[0].Faces, obj.Face{
		Vertices: []int{0, 1, 2},
		Uvs:      []int{0, 1, 2},
		Normals:  []int{0, 0, 0},
		Material: "bark",
	})

	meshes := buildMeshes(dec)
	require.Len(t, meshes, 2)
	assert.Equal(t, "bark", meshes[0].Material)
	assert.Equal(t, "leaves", meshes[1].Material)

	// Unknown material falls back to white without a texture
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, meshes[0].Diffuse)
	assert.Empty(t, meshes[0].DiffuseMap)
	assert.Len(t, meshes[0].Vertices, 3)
}

func TestBuildMeshesFlatNormalWhenMissing(t *testing.T) {
	dec := quadDecoder()
	dec.Normals = nil
	dec.Objects[0].Faces[0].Normals = nil

	meshes := buildMeshes(dec)
	require.Len(t, meshes, 1)
	assert.Len(t, meshes[0].Vertices, 6, "vertices without normals are not shared")
	for _, v := range meshes[0].Vertices {
		assert.InDelta(t, 1, v.Normal.Z(), 1e-6)
	}
}

func TestBuildMeshesSkipsOutOfRangeFaces(t *testing.T) {
	dec := quadDecoder()
	dec.Objects[0].Faces[0].Vertices = []int{0, 1, 9}
	assert.Empty(t, buildMeshes(dec))
}

func TestIndexAt(t *testing.T) {
	assert.Equal(t, 2, indexAt([]int{0, 2}, 1, 3))
	assert.Equal(t, -1, indexAt([]int{0, 2}, 2, 3))
	assert.Equal(t, -1, indexAt([]int{0, 5}, 1, 3))
	assert.Equal(t, -1, indexAt([]int{-1}, 0, 3))
}

const testOBJ = `# quad
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl leaves
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const testMTL = `newmtl leaves
Kd 0.2 0.6 0.2
map_Kd leaves.png
`

func TestDecodeParsesObjAndMtl(t *testing.T) {
	meshes, err := Decode(strings.NewReader(testOBJ), strings.NewReader(testMTL))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	assert.Equal(t, "leaves", meshes[0].Material)
	assert.Len(t, meshes[0].Indices, 6)
	assert.Len(t, meshes[0].Vertices, 4)
	assert.Equal(t, "leaves.png", meshes[0].DiffuseMap)
	assert.InDelta(t, 0.6, meshes[0].Diffuse.Y(), 1e-6)
}
