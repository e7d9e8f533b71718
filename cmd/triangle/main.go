package main

import (
	"fmt"
	"os"
	"runtime"

	"lowpoly/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "LearnTheGL"
)

const vertexSrc = `#version 410 core
layout (location = 0) in vec3 aPos;
void main()
{
	gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}`

const fragmentSrc = `#version 410 core
out vec4 FragColor;
void main()
{
	FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}`

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := glfw.Init(); err != nil {
		fmt.Println("Failed to initialize GLFW:", err)
		return -1
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		fmt.Println("Failed to create GLFW window:", err)
		return -1
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		fmt.Println("Failed to initialize OpenGL:", err)
		return -1
	}

	// Adjust viewport size when window size is changed
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	fbWidth, fbHeight := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	vertices := []float32{
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
		0.0, 0.5, 0.0,
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	program := newProgram(graphics.NewGLDevice())
	defer gl.DeleteProgram(program)
	gl.UseProgram(program)

	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		gl.ClearColor(0.2, 0.3, 0.3, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)

		window.SwapBuffers()
		glfw.PollEvents()
	}

	gl.DeleteBuffers(1, &vbo)
	gl.DeleteVertexArrays(1, &vao)
	return 0
}

// newProgram compiles and links the triangle program, printing any diagnostics.
// A broken program is still returned; drawing with it renders nothing.
func newProgram(dev graphics.Device) uint32 {
	vs, infoLog, ok := dev.CompileShader(graphics.StageVertex, vertexSrc)
	if !ok {
		fmt.Printf("ERROR::SHADER::%s::COMPILATION_FAILED\n%s\n", graphics.StageVertex, infoLog)
	}
	fs, infoLog, ok := dev.CompileShader(graphics.StageFragment, fragmentSrc)
	if !ok {
		fmt.Printf("ERROR::SHADER::%s::COMPILATION_FAILED\n%s\n", graphics.StageFragment, infoLog)
	}

	program, infoLog, ok := dev.LinkProgram(vs, fs)
	if !ok {
		fmt.Printf("ERROR::SHADER::PROGRAM::LINK_FAILED\n%s\n", infoLog)
	}

	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	return program
}
