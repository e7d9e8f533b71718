package graphics

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLDevice issues Device calls against the current OpenGL context
type GLDevice struct {
	ClearColor mgl32.Vec4
}

// NewGLDevice creates a device for the context current on the calling thread.
// gl.Init must have succeeded first.
func NewGLDevice() *GLDevice {
	return &GLDevice{ClearColor: mgl32.Vec4{0.1, 0.1, 0.1, 1.0}}
}

func (d *GLDevice) EnableDefaults(multisample bool) {
	gl.Enable(gl.DEPTH_TEST)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if multisample {
		gl.Enable(gl.MULTISAMPLE)
	}
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *GLDevice) Clear() {
	gl.ClearColor(d.ClearColor[0], d.ClearColor[1], d.ClearColor[2], d.ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) CreateUniformBuffer(size int) uint32 {
	var ubo uint32
	gl.GenBuffers(1, &ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return ubo
}

func (d *GLDevice) BindUniformBufferRange(binding, buffer uint32, offset, size int) {
	gl.BindBufferRange(gl.UNIFORM_BUFFER, binding, buffer, offset, size)
}

func (d *GLDevice) UniformBufferSubData(buffer uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, buffer)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (d *GLDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *GLDevice) CompileShader(stage Stage, source string) (uint32, string, bool) {
	shader := gl.CreateShader(glStage(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return shader, strings.TrimRight(log, "\x00"), false
	}
	return shader, "", true
}

func (d *GLDevice) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return program, strings.TrimRight(log, "\x00"), false
	}
	return program, "", true
}

func (d *GLDevice) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *GLDevice) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *GLDevice) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) UniformBlockBinding(program uint32, block string, binding uint32) bool {
	index := gl.GetUniformBlockIndex(program, gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		return false
	}
	gl.UniformBlockBinding(program, index, binding)
	return true
}

func (d *GLDevice) UniformMatrix4(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (d *GLDevice) UniformVec3(location int32, value mgl32.Vec3) {
	gl.Uniform3f(location, value[0], value[1], value[2])
}

func (d *GLDevice) UniformInt(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (d *GLDevice) UniformFloat(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func glStage(s Stage) uint32 {
	switch s {
	case StageGeometry:
		return gl.GEOMETRY_SHADER
	case StageFragment:
		return gl.FRAGMENT_SHADER
	default:
		return gl.VERTEX_SHADER
	}
}
