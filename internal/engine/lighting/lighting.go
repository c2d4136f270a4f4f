// Package lighting provides the light sources used by the showcase scene.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/jewelbox/pkg/math"
)

// Color is an RGB color with components in 0-1. Colors built with Hex are
// sRGB encoded; shaders want Linear.
type Color struct {
	R, G, B float32
}

// Hex converts a 0xRRGGBB value to a Color.
func Hex(h uint32) Color {
	return Color{
		R: float32((h>>16)&0xFF) / 255.0,
		G: float32((h>>8)&0xFF) / 255.0,
		B: float32(h&0xFF) / 255.0,
	}
}

// Array returns the color as a fixed array for GL uniform uploads.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Linear converts an sRGB-encoded color to linear light.
func (c Color) Linear() Color {
	return Color{srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B)}
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(gomath.Pow((float64(v)+0.055)/1.055, 2.4))
}

// Scaled returns the color multiplied by intensity.
func (c Color) Scaled(intensity float32) Color {
	return Color{c.R * intensity, c.G * intensity, c.B * intensity}
}

// Ambient lights every surface uniformly.
type Ambient struct {
	Color     Color
	Intensity float32
}

// Directional is a light infinitely far away, shining from Position towards Target.
type Directional struct {
	Color     Color
	Intensity float32
	Position  math.Vec3
	Target    math.Vec3
}

// Direction returns the normalized vector pointing from the surface towards the light.
func (d Directional) Direction() math.Vec3 {
	return d.Position.Sub(d.Target).Normalize()
}
