package window

import (
	"fmt"

	"lowpoly/internal/input"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options are the window and context creation settings
type Options struct {
	Width         int
	Height        int
	Title         string
	Multisampling bool
	Samples       int
	VSync         bool
}

// Window owns the GLFW window and its OpenGL 4.1 core context.
// Callbacks only record events into the queue; they never touch renderer state.
type Window struct {
	handle *glfw.Window
	events *input.Queue

	title         string
	width, height int
	multisampling bool
}

// New creates the window, makes its context current and loads the GL function pointers.
// glfw.Init must have been called on the locked main thread.
func New(opts Options, events *input.Queue) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if opts.Multisampling && opts.Samples > 0 {
		glfw.WindowHint(glfw.Samples, opts.Samples)
	}

	handle, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	handle.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		handle.Destroy()
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	w := &Window{
		handle:        handle,
		events:        events,
		title:         opts.Title,
		multisampling: opts.Multisampling,
	}
	w.width, w.height = handle.GetFramebufferSize()
	w.registerCallbacks()
	return w, nil
}

func (w *Window) registerCallbacks() {
	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		w.events.Resize(width, height)
	})
	w.handle.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.events.MouseMove(xpos, ypos)
	})
	w.handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.events.Scroll(xoff, yoff)
	})
	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.events.KeyEvent(key, action)
	})
	w.handle.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.events.Focus(focused)
	})
}

// Handle returns the native GLFW window
func (w *Window) Handle() *glfw.Window {
	return w.handle
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.handle.SetShouldClose(v)
}

// RequestClose flags the window for closing and wakes the event loop. Unlike the
// rest of Window it may be called from any goroutine while the window exists.
func (w *Window) RequestClose() {
	w.handle.SetShouldClose(true)
	glfw.PostEmptyEvent()
}

// Width returns the framebuffer width in pixels
func (w *Window) Width() int {
	return w.width
}

// Height returns the framebuffer height in pixels
func (w *Window) Height() int {
	return w.height
}

// Title returns the title the window was created with
func (w *Window) Title() string {
	return w.title
}

func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}

func (w *Window) MultisamplingEnabled() bool {
	return w.multisampling
}

func (w *Window) SwapBuffers() {
	w.handle.SwapBuffers()
}

// PollEvents processes pending OS events, firing the queued callbacks
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Time returns seconds since GLFW initialization
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// Destroy releases the window and its context
func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}
