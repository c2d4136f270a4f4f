package scene

import (
	"github.com/Faultbox/jewelbox/internal/engine/lighting"
)

// Fog fades geometry linearly into Color between Near and Far.
type Fog struct {
	Color lighting.Color
	Near  float32
	Far   float32
}

// Scene is the root of everything the renderer draws for one frame.
type Scene struct {
	Root *Node

	Background      lighting.Color
	BackgroundAlpha float32

	Fog         *Fog
	Environment *Texture

	Ambient lighting.Ambient
	Sun     lighting.Directional

	// Exposure scales linear color before tone mapping.
	Exposure float32
}

// New creates an empty scene with an opaque black background.
func New() *Scene {
	return &Scene{
		Root:            NewGroup("root"),
		BackgroundAlpha: 1,
		Exposure:        1,
	}
}

// Add attaches nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}
