// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/jewelbox/pkg/math"
)

// Perspective is a pinhole camera looking from Position at a target point.
type Perspective struct {
	Position math.Vec3
	Up       math.Vec3

	FOV    float32 // Vertical field of view in degrees
	Aspect float32 // Width / height
	Near   float32
	Far    float32

	target     math.Vec3
	projection math.Mat4
}

// NewPerspective creates a camera and computes its projection.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		Up:     math.V3(0, 1, 0),
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjection()
	return c
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target math.Vec3) {
	c.target = target
}

// Target returns the point the camera looks at.
func (c *Perspective) Target() math.Vec3 {
	return c.target
}

// UpdateProjection recomputes the projection matrix. Call after changing
// FOV, Aspect, Near or Far.
func (c *Perspective) UpdateProjection() {
	fovY := c.FOV * float32(gomath.Pi) / 180
	c.projection = math.Perspective(fovY, c.Aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the matrix computed by the last UpdateProjection.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return c.projection
}

// ViewMatrix returns the view matrix for the current position and target.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.target, c.Up)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.ViewMatrix())
}
