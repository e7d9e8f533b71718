package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a keyboard-driven camera direction
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
)

// Speed selects the movement speed multiplier
type Speed int

const (
	Normal Speed = iota
	Fast
)

// FastMultiplier scales MovementSpeed while the speed modifier is held
const FastMultiplier = 2.0

const (
	MinFov   = 1.0
	MaxFov   = 45.0
	MaxPitch = 89.0
)

// Camera is a free-fly camera handling the view and projection matrices
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	Fov              float32

	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

// Options are the construction-time camera settings
type Options struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
	Fov         float32
	Near        float32
	Far         float32
}

// New creates a camera looking along yaw/pitch for a viewport of width x height
func New(width, height int, opts Options) *Camera {
	c := &Camera{
		Position:         opts.Position,
		WorldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              opts.Yaw,
		Pitch:            opts.Pitch,
		MovementSpeed:    opts.Speed,
		MouseSensitivity: opts.Sensitivity,
		Fov:              opts.Fov,
		NearPlane:        opts.Near,
		FarPlane:         opts.Far,
	}
	c.SetViewport(width, height)
	c.updateVectors()
	return c
}

// SetViewport updates the aspect ratio. Degenerate sizes (minimized window) are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProcessKeyboard moves the camera. Displacement is linear in dt so speed does not depend on frame rate.
func (c *Camera) ProcessKeyboard(direction Movement, speed Speed, dt float32) {
	if dt <= 0 {
		return
	}
	velocity := c.MovementSpeed * dt
	if speed == Fast {
		velocity *= FastMultiplier
	}

	switch direction {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera. yOffset is positive when the mouse moves up.
func (c *Camera) ProcessMouseMovement(xOffset, yOffset float32) {
	c.Yaw += xOffset * c.MouseSensitivity
	c.Pitch += yOffset * c.MouseSensitivity

	// Constrain pitch so the view never flips
	if c.Pitch > MaxPitch {
		c.Pitch = MaxPitch
	}
	if c.Pitch < -MaxPitch {
		c.Pitch = -MaxPitch
	}

	c.updateVectors()
}

// ProcessMouseScroll zooms by narrowing or widening the field of view
func (c *Camera) ProcessMouseScroll(yOffset float32) {
	c.Fov -= yOffset
	if c.Fov < MinFov {
		c.Fov = MinFov
	}
	if c.Fov > MaxFov {
		c.Fov = MaxFov
	}
}

func (c *Camera) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
