package board

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultCameraRadius float32 = 2.5
	DefaultCameraHeight float32 = 1.5
	// DefaultSensitivity is the orbit speed in radians per pixel of drag.
	DefaultSensitivity float32 = 0.005
)

// Camera is an orbit camera around the board center, driven by horizontal
// pointer drags. It is idle until PointerDown and dragging until PointerUp.
type Camera struct {
	Angle       float32 // radians around +Y
	Radius      float32
	Height      float32
	Sensitivity float32

	dragging bool
	lastX    float32
}

// NewCamera returns an idle camera at angle 0. Zero arguments take defaults.
func NewCamera(radius, height, sensitivity float32) *Camera {
	if radius == 0 {
		radius = DefaultCameraRadius
	}
	if height == 0 {
		height = DefaultCameraHeight
	}
	if sensitivity == 0 {
		sensitivity = DefaultSensitivity
	}
	return &Camera{Radius: radius, Height: height, Sensitivity: sensitivity}
}

// Dragging reports whether a drag is in progress.
func (c *Camera) Dragging() bool { return c.dragging }

func (c *Camera) PointerDown(x float32) {
	c.dragging = true
	c.lastX = x
}

func (c *Camera) PointerUp() { c.dragging = false }

// PointerMove applies the horizontal delta since the last recorded position
// while dragging. It reports whether the angle changed.
func (c *Camera) PointerMove(x float32) bool {
	if !c.dragging {
		return false
	}
	dx := x - c.lastX
	c.lastX = x
	if dx == 0 {
		return false
	}
	c.Rotate(dx * c.Sensitivity)
	return true
}

func (c *Camera) Rotate(delta float32) { c.Angle += delta }

// Reset returns the camera to angle 0. A drag in progress continues.
func (c *Camera) Reset() { c.Angle = 0 }

// Eye returns the camera position for the current angle.
func (c *Camera) Eye() mgl32.Vec3 {
	a := float64(c.Angle)
	return mgl32.Vec3{
		c.Radius * float32(math.Sin(a)),
		c.Height,
		c.Radius * float32(math.Cos(a)),
	}
}

// View returns the look-at matrix from Eye toward the origin with +Y up.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}
