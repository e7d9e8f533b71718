package model

import (
	"io"
	"sort"

	"lowpoly/internal/graphics"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is one material group of an imported model, ready for upload
type MeshData struct {
	Material   string
	Vertices   []graphics.Vertex
	Indices    []uint32
	Diffuse    mgl32.Vec3
	DiffuseMap string // map_Kd relative to the model directory, empty when absent
}

// vertexKey identifies a unique (position, uv, normal) combination; -1 marks a missing index
type vertexKey struct {
	v, uv, n int
}

type meshBuilder struct {
	data   *MeshData
	unique map[vertexKey]uint32
}

// Decode parses OBJ geometry and MTL materials into per-material meshes.
// Polygon faces are triangulated as fans around their first vertex.
func Decode(objReader, mtlReader io.Reader) ([]MeshData, error) {
	dec, err := obj.DecodeReader(objReader, mtlReader)
	if err != nil {
		return nil, err
	}
	return buildMeshes(dec), nil
}

func buildMeshes(dec *obj.Decoder) []MeshData {
	builders := make(map[string]*meshBuilder)
	var order []string

	for _, object := range dec.Objects {
		for _, face := range object.Faces {
			b, ok := builders[face.Material]
			if !ok {
				b = newMeshBuilder(dec, face.Material)
				builders[face.Material] = b
				order = append(order, face.Material)
			}
			for i := 2; i < len(face.Vertices); i++ {
				b.addTriangle(dec, face, 0, i-1, i)
			}
		}
	}

	// Stable output regardless of map iteration
	sort.Strings(order)
	out := make([]MeshData, 0, len(order))
	for _, name := range order {
		if len(builders[name].data.Indices) > 0 {
			out = append(out, *builders[name].data)
		}
	}
	return out
}

func newMeshBuilder(dec *obj.Decoder, material string) *meshBuilder {
	data := &MeshData{Material: material, Diffuse: mgl32.Vec3{1, 1, 1}}
	if mat, ok := dec.Materials[material]; ok && mat != nil {
		data.Diffuse = mgl32.Vec3{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B}
		data.DiffuseMap = mat.MapKd
	}
	return &meshBuilder{data: data, unique: make(map[vertexKey]uint32)}
}

func (b *meshBuilder) addTriangle(dec *obj.Decoder, face obj.Face, i0, i1, i2 int) {
	corners := [3]int{i0, i1, i2}
	var keys [3]vertexKey
	for c, fi := range corners {
		keys[c] = vertexKey{
			v:  indexAt(face.Vertices, fi, len(dec.Vertices)/3),
			uv: indexAt(face.Uvs, fi, len(dec.Uvs)/2),
			n:  indexAt(face.Normals, fi, len(dec.Normals)/3),
		}
	}
	if keys[0].v < 0 || keys[1].v < 0 || keys[2].v < 0 {
		return
	}

	// Faces without normals get their flat face normal
	var flat mgl32.Vec3
	if keys[0].n < 0 || keys[1].n < 0 || keys[2].n < 0 {
		p0 := position(dec, keys[0].v)
		p1 := position(dec, keys[1].v)
		p2 := position(dec, keys[2].v)
		flat = p1.Sub(p0).Cross(p2.Sub(p0))
		if flat.Len() > 0 {
			flat = flat.Normalize()
		}
	}

	for _, k := range keys {
		if k.n >= 0 {
			if idx, ok := b.unique[k]; ok {
				b.data.Indices = append(b.data.Indices, idx)
				continue
			}
		}

		v := graphics.Vertex{
			Position: position(dec, k.v),
			Normal:   flat,
			Color:    b.data.Diffuse,
		}
		if k.n >= 0 {
			v.Normal = mgl32.Vec3{dec.Normals[k.n*3], dec.Normals[k.n*3+1], dec.Normals[k.n*3+2]}
		}
		if k.uv >= 0 {
			v.TexCoords = mgl32.Vec2{dec.Uvs[k.uv*2], dec.Uvs[k.uv*2+1]}
		}

		idx := uint32(len(b.data.Vertices))
		b.data.Vertices = append(b.data.Vertices, v)
		b.data.Indices = append(b.data.Indices, idx)
		if k.n >= 0 {
			b.unique[k] = idx
		}
	}
}

// indexAt returns indices[i] when it refers to one of count elements, otherwise -1
func indexAt(indices []int, i, count int) int {
	if i >= len(indices) {
		return -1
	}
	idx := indices[i]
	if idx < 0 || idx >= count {
		return -1
	}
	return idx
}

func position(dec *obj.Decoder, i int) mgl32.Vec3 {
	return mgl32.Vec3{dec.Vertices[i*3], dec.Vertices[i*3+1], dec.Vertices[i*3+2]}
}
