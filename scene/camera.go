package scene

import "github.com/soypat/geometry/ms3"

const (
	orbitalFriction = 0.01
	orbitalDragLerp = 0.1
	orbitalZoomStep = 0.48
	orbitalMinV     = -0.5
	orbitalMaxV     = 1
	orbitalMinZ     = 2
	orbitalMinY     = 0.1
)

// Orbital is a camera orbiting a center point. Dragging sets the angular
// velocity of the yaw U and pitch V which are integrated on each Update.
type Orbital struct {
	Center   ms3.Vec
	U, V     float32
	DU, DV   float32
	Y, Z     float32
	position ms3.Vec
}

// NewOrbital returns a camera looking at center from center+offset. A zero
// offset is (0,0,10).
func NewOrbital(center, offset ms3.Vec) *Orbital {
	if offset == (ms3.Vec{}) {
		offset = ms3.Vec{Z: 10}
	}
	return &Orbital{
		Center:   center,
		Y:        offset.Y,
		Z:        offset.Z,
		position: ms3.Add(center, offset),
	}
}

// Drag eases the angular velocity towards the pointer movement.
func (c *Orbital) Drag(dx, dy float32) {
	c.DU = lerp(c.DU, dx, orbitalDragLerp)
	c.DV = lerp(c.DV, dy, orbitalDragLerp)
}

// Release stops the orbit.
func (c *Orbital) Release() {
	c.DU = 0
	c.DV = 0
}

// Zoom moves the camera away from the center for positive scroll and closer otherwise.
func (c *Orbital) Zoom(scroll float32) {
	if scroll > 0 {
		c.Z += 2 * orbitalZoomStep
	} else {
		c.Z -= 2 * orbitalZoomStep
	}
}

// Update integrates the orbit velocity, applies the pitch, distance and
// height limits and recomputes the camera position.
func (c *Orbital) Update() {
	c.U += c.DU * orbitalFriction
	c.V += c.DV * orbitalFriction
	c.V = min(max(c.V, orbitalMinV), orbitalMaxV)
	c.Z = max(c.Z, orbitalMinZ)
	rot := Compose(
		Rotate(-c.U, ms3.Vec{Y: 1}),
		Rotate(-c.V, ms3.Vec{X: 1}),
	)
	p := rot.MulPosition(ms3.Vec{Y: c.Y, Z: c.Z})
	p.Y = max(p.Y, orbitalMinY)
	c.position = ms3.Add(p, c.Center)
}

// LookAt changes the orbit center.
func (c *Orbital) LookAt(center ms3.Vec) { c.Center = center }

// Position returns the camera position as of the last Update.
func (c *Orbital) Position() ms3.Vec { return c.position }

// View returns the camera's view matrix.
func (c *Orbital) View() ms3.Mat4 {
	return LookAt(c.position, c.Center, ms3.Vec{Y: 1})
}

func lerp(start, end, amount float32) float32 {
	return (1-amount)*start + amount*end
}
