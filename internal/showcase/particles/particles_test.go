package particles

import (
	gomath "math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/pkg/math"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSpawnWithinCube(t *testing.T) {
	f := Spawn(DefaultConfig(), seeded())

	require.Equal(t, 200, f.Len())
	for _, p := range f.Group.Children() {
		assert.True(t, p.IsMesh())
		assert.LessOrEqual(t, gomath.Abs(float64(p.Position.X)), 2.0)
		assert.LessOrEqual(t, gomath.Abs(float64(p.Position.Y)), 2.0)
		assert.LessOrEqual(t, gomath.Abs(float64(p.Position.Z)), 2.0)
		assert.True(t, p.Material.Unlit)
	}
}

func TestSpawnIsDeterministicForSeed(t *testing.T) {
	a := Spawn(DefaultConfig(), seeded())
	b := Spawn(DefaultConfig(), seeded())
	assert.Equal(t, a.Positions(), b.Positions())
}

func TestSpawnSharesMaterial(t *testing.T) {
	f := Spawn(DefaultConfig(), seeded())
	children := f.Group.Children()
	assert.Same(t, children[0].Material, children[len(children)-1].Material)
}

func TestAdvanceFollowsDriftLaw(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	f := Spawn(cfg, seeded())
	p := f.Group.Children()[0]
	p.Position = math.V3(0.1, 0.2, 0.3)

	now := time.UnixMilli(1_700_000_000_123)
	f.Advance(now)

	tt := float64(now.UnixMilli()) * 0.001
	x := float32(0.1) + float32(gomath.Sin(tt+float64(float32(0.2)))*cfg.Amplitude)
	y := float32(0.2) + float32(gomath.Cos(tt+float64(float32(0.3)))*cfg.Amplitude)
	z := float32(0.3) + float32(gomath.Sin(tt+float64(x))*cfg.Amplitude)

	assert.Equal(t, math.V3(x, y, z), p.Position)
	assert.InDelta(t, 0.001, f.Group.Rotation.Y, 1e-9)
}

func TestAdvanceIsPerParticle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 2
	f := Spawn(cfg, seeded())
	a, b := f.Group.Children()[0], f.Group.Children()[1]
	a.Position = math.V3(0, 0, 0)
	b.Position = math.V3(1, 1, 1)

	f.Advance(time.UnixMilli(5000))
	da := a.Position
	db := b.Position.Sub(math.V3(1, 1, 1))
	assert.NotEqual(t, da, db, "particles at different positions drift differently")
}

func TestAdvanceUnboundedByDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	cfg.Amplitude = 1
	f := Spawn(cfg, seeded())
	p := f.Group.Children()[0]
	p.Position = math.V3(1.99, 1.99, 1.99)

	start := time.UnixMilli(0)
	moved := false
	for i := 0; i < 50 && !moved; i++ {
		f.Advance(start.Add(time.Duration(i) * 137 * time.Millisecond))
		pos := p.Position
		moved = gomath.Abs(float64(pos.X)) > 2 || gomath.Abs(float64(pos.Y)) > 2 || gomath.Abs(float64(pos.Z)) > 2
	}
	assert.True(t, moved, "drift should be able to leave the spawn cube")
}

func TestAdvanceClampsWhenBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 20
	cfg.Amplitude = 1
	cfg.Bound = 2
	f := Spawn(cfg, seeded())

	for i := 0; i < 200; i++ {
		f.Advance(time.UnixMilli(int64(i) * 16))
	}
	for _, pos := range f.Positions() {
		assert.LessOrEqual(t, gomath.Abs(float64(pos.X)), 2.0)
		assert.LessOrEqual(t, gomath.Abs(float64(pos.Y)), 2.0)
		assert.LessOrEqual(t, gomath.Abs(float64(pos.Z)), 2.0)
	}
}

func TestSpawnNilRand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 3
	assert.Equal(t, 3, Spawn(cfg, nil).Len())
}
