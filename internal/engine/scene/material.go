package scene

import (
	"github.com/Faultbox/jewelbox/internal/engine/lighting"
)

// Side selects which triangle faces are rasterized.
type Side int

const (
	FrontSide Side = iota
	DoubleSide
)

// Material describes how a mesh is shaded.
type Material struct {
	Name  string
	Color lighting.Color

	// Unlit materials ignore lights, fog still applies.
	Unlit bool

	Metalness float32
	Roughness float32

	Transparent bool
	Opacity     float32
	Side        Side

	EnvMap          *Texture
	EnvMapIntensity float32
	Reflectivity    float32

	Clearcoat          float32
	ClearcoatRoughness float32
}

// NewStandardMaterial returns a lit material with neutral defaults.
func NewStandardMaterial(name string, color lighting.Color) *Material {
	return &Material{
		Name:            name,
		Color:           color,
		Roughness:       1,
		Opacity:         1,
		EnvMapIntensity: 1,
		Reflectivity:    0.5,
	}
}

// NewBasicMaterial returns an unlit flat-color material.
func NewBasicMaterial(name string, color lighting.Color) *Material {
	m := NewStandardMaterial(name, color)
	m.Unlit = true
	return m
}

// Clone returns a shallow copy; the environment texture is shared.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}
