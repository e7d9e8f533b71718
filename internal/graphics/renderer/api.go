package renderer

import (
	"lowpoly/internal/camera"
	"lowpoly/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Window is what the frame loop needs from the platform window
type Window interface {
	ShouldClose() bool
	SetShouldClose(bool)
	Width() int
	Height() int
	Title() string
	SetTitle(string)
	MultisamplingEnabled() bool
	SwapBuffers()
	PollEvents()
	Time() float64
}

// FrameContext provides shared per-frame state to uniform binders
type FrameContext struct {
	Camera *camera.Camera
	Clock  *FrameClock
	DT     float32
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	// Framebuffer size in pixels
	Width, Height int
}

// Drawable is anything that can issue its draw calls with a bound program
type Drawable interface {
	Draw(p graphics.Program)
}

// Binder sets the per-object uniforms of an entry after its program is bound
type Binder func(p graphics.Program, ctx FrameContext)

// Reloadable programs can be rebuilt from their source files
type Reloadable interface {
	Reload() bool
	Paths() []string
}

// Entry is one element of the ordered draw list
type Entry struct {
	Name     string
	Program  graphics.Program
	Drawable Drawable
	Bind     Binder
	Debug    bool // drawn only while debug entries are toggled on
}

// ModelIdentity binds an identity "model" matrix
func ModelIdentity(p graphics.Program, _ FrameContext) {
	p.SetMat4("model", mgl32.Ident4())
}

// SkyboxBinder binds the projection and the view with its translation removed,
// so the sky stays centered on the camera
func SkyboxBinder(p graphics.Program, ctx FrameContext) {
	p.SetMat4("projection", ctx.Proj)
	p.SetMat4("view", ctx.View.Mat3().Mat4())
}
