package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"lowpoly/internal/camera"
	"lowpoly/internal/graphics"
	"lowpoly/internal/input"
	"lowpoly/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Shared uniform buffer sizes in bytes (std140)
const (
	MatricesSize   = 2 * graphics.SizeMat4
	CameraSize     = graphics.SizeVec4
	WorldLightSize = MaxLights * graphics.SizeVec4
)

// MaxLights is the number of light directions in the WorldLight block
const MaxLights = 2

// State is the renderer lifecycle state
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "TERMINATED"
}

// Options configure a Renderer
type Options struct {
	Camera   *camera.Camera
	Lights   []mgl32.Vec3
	FPSLimit int
	// Reloads delivers shader source paths that changed on disk; may be nil
	Reloads <-chan string
}

// Renderer orchestrates the frame loop: timing, input, shared uniforms and the draw list
type Renderer struct {
	window Window
	dev    graphics.Device
	log    *slog.Logger

	camera  *camera.Camera
	events  *input.Queue
	actions *input.Manager
	mouse   *input.MouseTracker

	matrices   *graphics.UniformBuffer
	cameraBuf  *graphics.UniformBuffer
	worldLight *graphics.UniformBuffer
	lights     []mgl32.Vec3
	width      int
	height     int

	entries    []Entry
	trackNames []string
	reported   map[string]bool
	showDebug  bool

	clock    FrameClock
	state    State
	reporter *profiling.Reporter
	limiter  *FPSLimiter
	reloads  <-chan string
}

// New creates the renderer and its shared uniform buffers. events is the queue the
// window's callbacks feed.
func New(win Window, dev graphics.Device, events *input.Queue, logger *slog.Logger, opts Options) (*Renderer, error) {
	if opts.Camera == nil {
		return nil, errors.New("renderer: camera is required")
	}
	if len(opts.Lights) > MaxLights {
		return nil, fmt.Errorf("renderer: %d lights exceed the %d supported", len(opts.Lights), MaxLights)
	}

	dev.EnableDefaults(win.MultisamplingEnabled())
	if win.Width() > 0 && win.Height() > 0 {
		dev.Viewport(win.Width(), win.Height())
	}
	opts.Camera.SetViewport(win.Width(), win.Height())

	r := &Renderer{
		window:     win,
		dev:        dev,
		log:        logger,
		camera:     opts.Camera,
		events:     events,
		actions:    input.NewManager(),
		mouse:      input.NewMouseTracker(),
		matrices:   graphics.NewUniformBuffer(dev, graphics.BlockMatrices, graphics.BindingMatrices, MatricesSize),
		cameraBuf:  graphics.NewUniformBuffer(dev, graphics.BlockCamera, graphics.BindingCamera, CameraSize),
		worldLight: graphics.NewUniformBuffer(dev, graphics.BlockWorldLight, graphics.BindingWorldLight, WorldLightSize),
		lights:     opts.Lights,
		width:      win.Width(),
		height:     win.Height(),
		reported:   make(map[string]bool),
		state:      Running,
		reporter:   profiling.NewReporter(logger, time.Second, 5),
		limiter:    NewFPSLimiter(opts.FPSLimit),
		reloads:    opts.Reloads,
	}
	return r, nil
}

// SetEntries replaces the draw list. Order is paint order.
func (r *Renderer) SetEntries(entries []Entry) {
	r.entries = entries
	r.trackNames = make([]string, len(entries))
	for i, e := range entries {
		r.trackNames[i] = "draw." + e.Name
	}
	r.reported = make(map[string]bool)
}

// Camera returns the camera owned by the renderer
func (r *Renderer) Camera() *camera.Camera {
	return r.camera
}

// Clock returns the frame clock
func (r *Renderer) Clock() *FrameClock {
	return &r.clock
}

func (r *Renderer) State() State {
	return r.state
}

// DebugVisible reports whether debug entries are drawn
func (r *Renderer) DebugVisible() bool {
	return r.showDebug
}

// Run executes frames until the window is asked to close
func (r *Renderer) Run() {
	r.log.Info("render loop started", "entries", len(r.entries), "fps_limit", r.limiter.Limit())
	for r.state == Running {
		if r.window.ShouldClose() {
			r.state = Terminated
			break
		}
		r.Frame()
		r.limiter.Wait()
	}
	r.log.Info("render loop stopped")
}

// Frame executes one iteration of the loop
func (r *Renderer) Frame() {
	// Timing and diagnostics
	r.clock.Tick(r.window.Time())
	r.window.SetTitle(StatsTitle(r.window.Title(), &r.clock))
	r.reporter.Report(time.Now())
	profiling.ResetFrame()

	func() { defer profiling.Track("renderer.processInput")(); r.processInput() }()

	r.dev.Clear()

	ctx := r.uploadShared()

	r.drawEntries(ctx)

	// Present and pump events
	func() { defer profiling.Track("glfw.SwapBuffers")(); r.window.SwapBuffers() }()
	func() { defer profiling.Track("glfw.PollEvents")(); r.window.PollEvents() }()

	// Clear edge flags at end of frame
	r.actions.PostUpdate()
}

func (r *Renderer) processInput() {
	r.events.Drain(r.handleEvent)

	if r.actions.IsActive(input.ActionClose) {
		r.window.SetShouldClose(true)
	}

	speed := camera.Normal
	if r.actions.IsActive(input.ActionFast) {
		speed = camera.Fast
	}
	dt := float32(r.clock.Delta())
	moves := [...]struct {
		action input.Action
		dir    camera.Movement
	}{
		{input.ActionMoveForward, camera.Forward},
		{input.ActionMoveBackward, camera.Backward},
		{input.ActionMoveLeft, camera.Left},
		{input.ActionMoveRight, camera.Right},
	}
	for _, m := range moves {
		if r.actions.IsActive(m.action) {
			r.camera.ProcessKeyboard(m.dir, speed, dt)
		}
	}

	if r.actions.JustPressed(input.ActionToggleDebug) {
		r.showDebug = !r.showDebug
		r.log.Info("debug entries toggled", "visible", r.showDebug)
	}
	if r.actions.JustPressed(input.ActionReloadShaders) {
		r.reloadPrograms(func(Reloadable) bool { return true })
	}
	r.drainReloads()
}

func (r *Renderer) handleEvent(e input.Event) {
	switch e.Kind {
	case input.EventResize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		r.width, r.height = e.Width, e.Height
		r.dev.Viewport(e.Width, e.Height)
		r.camera.SetViewport(e.Width, e.Height)
	case input.EventMouseMove:
		dx, dy := r.mouse.Move(e.X, e.Y)
		r.camera.ProcessMouseMovement(dx, dy)
	case input.EventScroll:
		r.camera.ProcessMouseScroll(float32(e.Y))
	case input.EventKey:
		r.actions.HandleKeyEvent(e.Key, e.Action)
	case input.EventFocus:
		// The cursor is warped when captured again
		if e.Focused {
			r.mouse.Reset()
		}
	}
}

// drainReloads rebuilds every program that uses a file reported as changed
func (r *Renderer) drainReloads() {
	if r.reloads == nil {
		return
	}
	var changed []string
drain:
	for {
		select {
		case path, ok := <-r.reloads:
			if !ok {
				r.reloads = nil
				break drain
			}
			changed = append(changed, path)
		default:
			break drain
		}
	}
	if len(changed) == 0 {
		return
	}
	r.reloadPrograms(func(p Reloadable) bool {
		for _, path := range p.Paths() {
			if slices.Contains(changed, path) {
				return true
			}
		}
		return false
	})
}

func (r *Renderer) reloadPrograms(match func(Reloadable) bool) {
	done := make(map[Reloadable]bool)
	for _, e := range r.entries {
		p, ok := e.Program.(Reloadable)
		if !ok || !match(p) {
			continue
		}
		if _, seen := done[p]; !seen {
			done[p] = p.Reload()
			r.log.Info("shader program reloaded", "entry", e.Name, "ok", done[p])
		}
		if done[p] {
			delete(r.reported, e.Name)
		}
	}
}

// uploadShared writes the camera matrices, camera position and lights into the shared blocks
func (r *Renderer) uploadShared() FrameContext {
	ctx := FrameContext{
		Camera: r.camera,
		Clock:  &r.clock,
		DT:     float32(r.clock.Delta()),
		View:   r.camera.GetViewMatrix(),
		Proj:   r.camera.GetProjectionMatrix(),
		Width:  r.width,
		Height: r.height,
	}

	r.check(r.matrices.WriteMat4(0, ctx.Proj))
	r.check(r.matrices.WriteMat4(graphics.SizeMat4, ctx.View))
	r.check(r.cameraBuf.WriteVec3(0, r.camera.Position))
	for i, l := range r.lights {
		r.check(r.worldLight.WriteVec3(i*graphics.SizeVec4, l))
	}
	return ctx
}

func (r *Renderer) check(err error) {
	if err != nil {
		r.log.Error("uniform upload skipped", "err", err)
	}
}

func (r *Renderer) drawEntries(ctx FrameContext) {
	for i, e := range r.entries {
		if e.Debug && !r.showDebug {
			continue
		}
		if !e.Program.Linked() {
			if !r.reported[e.Name] {
				r.reported[e.Name] = true
				r.log.Warn("skipping draw entry with unlinked program", "entry", e.Name)
			}
			continue
		}

		func() {
			defer profiling.Track(r.trackNames[i])()
			e.Program.Use()
			if e.Bind != nil {
				e.Bind(e.Program, ctx)
			}
			e.Drawable.Draw(e.Program)
		}()
	}
}

// Close releases the shared uniform buffers and marks the renderer terminated
func (r *Renderer) Close() {
	r.matrices.Delete()
	r.cameraBuf.Delete()
	r.worldLight.Delete()
	r.state = Terminated
}
