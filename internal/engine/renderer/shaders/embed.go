// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader transforms scene meshes.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader shades scene meshes: lit metal/roughness with an
// environment reflection and clearcoat, or unlit, then linear fog.
//
//go:embed scene.frag
var SceneFragmentShader string

// QuadVertexShader emits a full-screen triangle for post passes.
//
//go:embed quad.vert
var QuadVertexShader string

// ThresholdFragmentShader keeps the part of the image brighter than the bloom threshold.
//
//go:embed threshold.frag
var ThresholdFragmentShader string

// BlurFragmentShader is a separable gaussian blur.
//
//go:embed blur.frag
var BlurFragmentShader string

// CompositeFragmentShader adds bloom, tone maps (ACES filmic) and encodes sRGB.
//
//go:embed composite.frag
var CompositeFragmentShader string
