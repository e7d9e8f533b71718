package graphics

import "github.com/go-gl/mathgl/mgl32"

// Stage is a programmable pipeline stage
type Stage int

const (
	StageVertex Stage = iota
	StageGeometry
	StageFragment
)

// String returns the stage name used in shader diagnostics
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "VERTEX"
	case StageGeometry:
		return "GEOMETRY"
	case StageFragment:
		return "FRAGMENT"
	default:
		return "UNKNOWN"
	}
}

// Device is the slice of GPU state the frame loop drives: frame clears,
// shared uniform buffers, and shader programs. GLDevice is the OpenGL implementation.
type Device interface {
	EnableDefaults(multisample bool)
	Viewport(width, height int)
	Clear()

	CreateUniformBuffer(size int) uint32
	BindUniformBufferRange(binding, buffer uint32, offset, size int)
	UniformBufferSubData(buffer uint32, offset int, data []byte)
	DeleteBuffer(buffer uint32)

	// CompileShader always returns the shader object, even when compilation failed
	CompileShader(stage Stage, source string) (id uint32, infoLog string, ok bool)
	// LinkProgram always returns the program object, even when linking failed
	LinkProgram(shaders ...uint32) (id uint32, infoLog string, ok bool)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)
	UseProgram(id uint32)

	UniformLocation(program uint32, name string) int32
	UniformBlockBinding(program uint32, block string, binding uint32) bool
	UniformMatrix4(location int32, value mgl32.Mat4)
	UniformVec3(location int32, value mgl32.Vec3)
	UniformInt(location int32, value int32)
	UniformFloat(location int32, value float32)
}
