// Package particles animates the ambient dust floating around the jewel.
package particles

import (
	gomath "math"
	"math/rand/v2"
	"time"

	"github.com/Faultbox/jewelbox/internal/engine/lighting"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/pkg/math"
)

// Config describes how dust is spawned and moved.
type Config struct {
	Count   int
	Spread  float32 // Side of the spawn cube centred on the origin
	MinSize float32
	MaxSize float32
	Color   lighting.Color

	// Amplitude is the per-frame displacement scale of the drift.
	Amplitude float64
	// Spin is the per-frame rotation of the whole field about Y, in radians.
	Spin float32
	// Bound clamps every coordinate to [-Bound, Bound]. Zero leaves drift unbounded.
	Bound float32
}

// DefaultConfig returns the dust settings used by the showcase.
func DefaultConfig() Config {
	return Config{
		Count:     200,
		Spread:    4,
		MinSize:   0.002,
		MaxSize:   0.007,
		Color:     lighting.Hex(0xFF4848),
		Amplitude: 0.0003,
		Spin:      0.001,
	}
}

// Field is a group of dust particles. Each particle is a mesh node under Group
// and its position is the only state it carries.
type Field struct {
	Group *scene.Node
	cfg   Config
}

// Spawn creates count particles at random positions. All particles share one
// unlit material; sizes vary per particle.
func Spawn(cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f := &Field{
		Group: scene.NewGroup("particles"),
		cfg:   cfg,
	}

	material := scene.NewBasicMaterial("dust", cfg.Color)
	for i := 0; i < cfg.Count; i++ {
		size := cfg.MinSize + rng.Float32()*(cfg.MaxSize-cfg.MinSize)
		p := scene.NewMesh("dust", scene.Sphere(size, 6, 6), material)
		p.Position = math.V3(
			(rng.Float32()-0.5)*cfg.Spread,
			(rng.Float32()-0.5)*cfg.Spread,
			(rng.Float32()-0.5)*cfg.Spread,
		)
		f.Group.Add(p)
	}
	return f
}

// Len returns the number of particles.
func (f *Field) Len() int {
	return len(f.Group.Children())
}

// Positions returns a snapshot of particle positions.
func (f *Field) Positions() []math.Vec3 {
	out := make([]math.Vec3, 0, f.Len())
	for _, p := range f.Group.Children() {
		out = append(out, p.Position)
	}
	return out
}

// Advance moves every particle one frame at wall-clock time now.
// Each axis is displaced by a sinusoid whose phase mixes the time with the
// particle's own current coordinate on another axis; the z step sees the
// freshly updated x.
func (f *Field) Advance(now time.Time) {
	t := float64(now.UnixMilli()) * 0.001
	a := f.cfg.Amplitude

	f.Group.Rotation.Y += f.cfg.Spin
	for _, p := range f.Group.Children() {
		pos := p.Position
		pos.X += float32(gomath.Sin(t+float64(pos.Y)) * a)
		pos.Y += float32(gomath.Cos(t+float64(pos.Z)) * a)
		pos.Z += float32(gomath.Sin(t+float64(pos.X)) * a)
		if f.cfg.Bound > 0 {
			pos = clamp(pos, f.cfg.Bound)
		}
		p.Position = pos
	}
}

func clamp(v math.Vec3, bound float32) math.Vec3 {
	c := func(x float32) float32 {
		return max(-bound, min(bound, x))
	}
	return math.V3(c(v.X), c(v.Y), c(v.Z))
}
