package graphics

import (
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute locations shared by every mesh shader
const (
	AttribPosition  = 0
	AttribNormal    = 1
	AttribTexCoords = 2
	AttribInstance  = 3 // mat4 spans 3..6
	AttribColor     = 7
)

// VertexFloats is the interleaved size of one Vertex
const VertexFloats = 11

// Vertex is one interleaved mesh vertex
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
	Color     mgl32.Vec3
}

// TextureKind names the sampler family a texture binds to
type TextureKind string

const (
	TextureDiffuse  TextureKind = "texture_diffuse"
	TextureSpecular TextureKind = "texture_specular"
)

// Texture is a texture bound for a draw
type Texture struct {
	ID   uint32
	Kind TextureKind
	Path string
}

// Mesh owns vertex and index data on the GPU and the textures bound when drawing it
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Textures []Texture
	Diffuse  mgl32.Vec3

	vao, vbo, ebo uint32
	instanced     bool
}

// NewMesh uploads the mesh data
func NewMesh(vertices []Vertex, indices []uint32, textures []Texture) *Mesh {
	m := &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Textures: textures,
		Diffuse:  mgl32.Vec3{1, 1, 1},
	}
	m.setup()
	return m
}

// Interleave flattens vertices into the layout described by the Attrib constants
func Interleave(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*VertexFloats)
	for _, v := range vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoords[0], v.TexCoords[1],
			v.Color[0], v.Color[1], v.Color[2],
		)
	}
	return out
}

// SamplerNames returns the uniform name for each texture: texture_diffuse1, texture_diffuse2, texture_specular1...
func SamplerNames(textures []Texture) []string {
	counts := make(map[TextureKind]int)
	names := make([]string, len(textures))
	for i, t := range textures {
		counts[t.Kind]++
		names[i] = string(t.Kind) + strconv.Itoa(counts[t.Kind])
	}
	return names
}

func (m *Mesh) setup() {
	data := Interleave(m.Vertices)
	stride := int32(VertexFloats * 4)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	if len(m.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	gl.EnableVertexAttribArray(AttribPosition)
	gl.VertexAttribPointer(AttribPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(AttribNormal)
	gl.VertexAttribPointer(AttribNormal, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(AttribTexCoords)
	gl.VertexAttribPointer(AttribTexCoords, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(AttribColor)
	gl.VertexAttribPointer(AttribColor, 3, gl.FLOAT, false, stride, gl.PtrOffset(8*4))

	gl.BindVertexArray(0)
}

// AttachInstances wires a buffer of mat4 per-instance transforms into the mesh's vertex array
func (m *Mesh) AttachInstances(buffer uint32) {
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)

	stride := int32(16 * 4)
	for i := uint32(0); i < 4; i++ {
		loc := AttribInstance + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i*4*4)))
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	m.instanced = true
}

func (m *Mesh) bindTextures(p Program) {
	for i, name := range SamplerNames(m.Textures) {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		p.SetInt(name, int32(i))
		gl.BindTexture(gl.TEXTURE_2D, m.Textures[i].ID)
	}
	p.SetVec3("diffuseColor", m.Diffuse)
}

// Draw issues one draw call with the currently bound program
func (m *Mesh) Draw(p Program) {
	m.bindTextures(p)

	gl.BindVertexArray(m.vao)
	if len(m.Indices) > 0 {
		gl.DrawElements(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(m.Vertices)))
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// DrawInstanced draws count copies in one call. The mesh must have instances attached.
func (m *Mesh) DrawInstanced(p Program, count int) {
	if !m.instanced || count == 0 {
		return
	}
	m.bindTextures(p)

	gl.BindVertexArray(m.vao)
	if len(m.Indices) > 0 {
		gl.DrawElementsInstanced(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, nil, int32(count))
	} else {
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(m.Vertices)), int32(count))
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Dispose cleans up OpenGL resources
func (m *Mesh) Dispose() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// NewInstanceBuffer uploads per-instance transforms
func NewInstanceBuffer(transforms []mgl32.Mat4) uint32 {
	data := make([]float32, 0, len(transforms)*16)
	for _, t := range transforms {
		data = append(data, t[:]...)
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vbo
}
