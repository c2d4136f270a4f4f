package clock

import (
	gomath "math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/showcase/particles"
	"github.com/Faultbox/jewelbox/internal/showcase/rotation"
)

type countingRenderer struct {
	renders  int
	rotation []float32
	anchor   *scene.Node
}

func (r *countingRenderer) Render() {
	r.renders++
	r.rotation = append(r.rotation, r.anchor.Rotation.Y)
}

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time {
	f.t = f.t.Add(16 * time.Millisecond)
	return f.t
}

func newClock(opts Options) (*Clock, *rotation.State, *scene.Node, *countingRenderer) {
	state := &rotation.State{}
	anchor := scene.NewGroup("anchor")
	r := &countingRenderer{anchor: anchor}
	if opts.Now == nil {
		ft := &fakeTime{t: time.UnixMilli(0)}
		opts.Now = ft.now
	}
	return New(state, anchor, r, opts), state, anchor, r
}

func TestTickWithoutMessages(t *testing.T) {
	c, state, anchor, r := newClock(Options{})

	for i := 0; i < 100; i++ {
		c.Tick()
	}

	assert.InDelta(t, 100*0.002, state.IdleAngle, 1e-12)
	assert.Equal(t, state.IdleAngle, state.Composed())
	assert.Zero(t, state.ScrollAngle)
	assert.InDelta(t, 0.2, anchor.Rotation.Y, 1e-6)
	assert.Equal(t, 100, r.renders)
	assert.Equal(t, uint64(100), c.Frames())
}

func TestTickAppliesRotationBeforeRender(t *testing.T) {
	c, state, _, r := newClock(Options{})
	state.Sync(0.5)

	c.Tick()

	require.Len(t, r.rotation, 1)
	assert.InDelta(t, gomath.Pi+0.002, r.rotation[0], 1e-6)
}

func TestTickComposesScrollAndIdle(t *testing.T) {
	c, state, anchor, _ := newClock(Options{})
	for i := 0; i < 100; i++ {
		c.Tick()
	}

	state.Sync(0.25)
	scroll := state.ScrollAngle
	c.Tick()
	c.Tick()

	assert.Equal(t, scroll, state.ScrollAngle, "scroll angle holds until the next message")
	assert.InDelta(t, scroll+0.204, state.Composed(), 1e-9)
	assert.InDelta(t, scroll+0.204, anchor.Rotation.Y, 1e-5)
}

func TestTickAdvancesParticles(t *testing.T) {
	cfg := particles.DefaultConfig()
	cfg.Count = 5
	field := particles.Spawn(cfg, rand.New(rand.NewPCG(3, 4)))
	before := field.Positions()

	c, _, _, _ := newClock(Options{Particles: field})
	c.Tick()

	assert.NotEqual(t, before, field.Positions())
	assert.InDelta(t, cfg.Spin, field.Group.Rotation.Y, 1e-9)
}

func TestTickWithoutRenderer(t *testing.T) {
	state := &rotation.State{}
	c := New(state, scene.NewGroup("anchor"), nil, Options{})
	assert.NotPanics(t, c.Tick)
	assert.Same(t, state, c.State())
}

func TestFixedStep(t *testing.T) {
	assert.Equal(t, 0.002, DefaultIdleStep.Step(time.Now()))
	assert.Equal(t, 0.01, FixedStep(0.01).Step(time.Time{}))
}

func TestRateStep(t *testing.T) {
	s := NewRateStep(1.2)
	t0 := time.UnixMilli(1000)

	assert.Zero(t, s.Step(t0), "first tick has no elapsed time")
	assert.InDelta(t, 1.2*0.05, s.Step(t0.Add(50*time.Millisecond)), 1e-12)
	// Capped at MaxDelta.
	assert.InDelta(t, 1.2*0.1, s.Step(t0.Add(5*time.Second)), 1e-12)
	// Clock going backwards never rotates backwards.
	assert.Zero(t, s.Step(t0))
}

func TestRateStepDrivesClock(t *testing.T) {
	ft := &fakeTime{t: time.UnixMilli(0)}
	c, state, _, _ := newClock(Options{Stepper: NewRateStep(1), Now: ft.now})

	for i := 0; i < 11; i++ {
		c.Tick()
	}
	// 10 deltas of 16ms after the first tick.
	assert.InDelta(t, 0.16, state.IdleAngle, 1e-9)
}
