package skybox

import (
	"errors"
	"fmt"
	"strings"

	"lowpoly/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrUnsupportedFormat is returned for a face image extension no decoder handles
var ErrUnsupportedFormat = errors.New("unsupported skybox image format")

var formats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "tiff": true, "webp": true,
}

// NormalizeFormat lowercases format, strips a leading dot and checks it is decodable
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if !formats[f] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f, nil
}

// Unit cube drawn from the inside, positions only
var cubeVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// Skybox is a cube map drawn around the camera behind all other geometry
type Skybox struct {
	Dir    string
	Format string

	texture uint32
	vao     uint32
	vbo     uint32
}

// New loads the six faces right, left, top, bottom, front, back from dir
func New(dir, format string) (*Skybox, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	tex, err := graphics.LoadCubemap(graphics.CubemapPaths(dir, f))
	if err != nil {
		return nil, fmt.Errorf("skybox %s: %w", dir, err)
	}

	s := &Skybox{Dir: dir, Format: f, texture: tex}
	s.setupVAO()
	return s, nil
}

func (s *Skybox) setupVAO() {
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(graphics.AttribPosition)
	gl.VertexAttribPointer(graphics.AttribPosition, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))

	gl.BindVertexArray(0)
}

// Draw renders the cube with depth func LEQUAL so it passes at the far plane
func (s *Skybox) Draw(p graphics.Program) {
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	gl.ActiveTexture(gl.TEXTURE0)
	p.SetInt("skybox", 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, s.texture)

	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(cubeVertices)/3))
	gl.BindVertexArray(0)

	// Restore state expected by the rest of the pipeline
	gl.Enable(gl.CULL_FACE)
	gl.DepthFunc(gl.LESS)
}

// Dispose cleans up OpenGL resources
func (s *Skybox) Dispose() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
	}
	if s.texture != 0 {
		gl.DeleteTextures(1, &s.texture)
	}
}
