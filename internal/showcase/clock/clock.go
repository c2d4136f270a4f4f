// Package clock drives the per-frame animation of the showcase.
package clock

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/logger"
	"github.com/Faultbox/jewelbox/internal/showcase/particles"
	"github.com/Faultbox/jewelbox/internal/showcase/rotation"
)

// Renderer draws one frame.
type Renderer interface {
	Render()
}

// Options configures a Clock. Zero values pick the defaults.
type Options struct {
	Stepper   Stepper          // DefaultIdleStep when nil
	Particles *particles.Field // optional
	Now       func() time.Time // time.Now when nil
	Logger    *zap.Logger
}

// Clock owns the rotation state and particle field and advances them once
// per display refresh.
type Clock struct {
	state     *rotation.State
	anchor    *scene.Node
	target    Renderer
	stepper   Stepper
	particles *particles.Field
	now       func() time.Time
	log       *zap.Logger

	frames    uint64
	fpsFrames int
	fpsSince  time.Time
}

// New creates a clock rotating anchor and rendering through target.
func New(state *rotation.State, anchor *scene.Node, target Renderer, opts Options) *Clock {
	c := &Clock{
		state:     state,
		anchor:    anchor,
		target:    target,
		stepper:   opts.Stepper,
		particles: opts.Particles,
		now:       opts.Now,
		log:       logger.OrNop(opts.Logger),
	}
	if c.stepper == nil {
		c.stepper = DefaultIdleStep
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Tick advances one frame: idle rotation, particle drift, anchor
// orientation, then render. It is safe to call before any model is loaded.
func (c *Clock) Tick() {
	now := c.now()

	c.state.AdvanceIdle(c.stepper.Step(now))

	if c.particles != nil {
		c.particles.Advance(now)
	}

	c.anchor.Rotation.Y = float32(c.state.Composed())

	if c.target != nil {
		c.target.Render()
	}

	c.frames++
	c.sampleFPS(now)
}

// Frames returns the number of ticks so far.
func (c *Clock) Frames() uint64 {
	return c.frames
}

// State returns the rotation state the clock advances.
func (c *Clock) State() *rotation.State {
	return c.state
}

func (c *Clock) sampleFPS(now time.Time) {
	if c.fpsSince.IsZero() {
		c.fpsSince = now
		return
	}
	c.fpsFrames++
	if elapsed := now.Sub(c.fpsSince); elapsed >= time.Second {
		c.log.Debug("fps",
			zap.Float64("fps", float64(c.fpsFrames)/elapsed.Seconds()),
			zap.Float64("rotation", c.state.Composed()),
		)
		c.fpsFrames = 0
		c.fpsSince = now
	}
}
