// Package pipeline assembles the two-pass render chain (scene, then bloom)
// and keeps it consistent with the window size.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/logger"
	"github.com/Faultbox/jewelbox/internal/showcase/layout"
)

// Bloom parameters. They are fixed for the lifetime of the pipeline.
type Bloom = postfx.Bloom

// DefaultBloom is the subtle glow used by the showcase.
var DefaultBloom = Bloom{Strength: 0.15, Radius: 0.4, Threshold: 0.2}

// PassFactory creates the concrete passes for a backend.
type PassFactory interface {
	ScenePass(s *scene.Scene, cam *camera.Perspective) (postfx.Pass, error)
	BloomPass(width, height int, bloom Bloom) (postfx.Pass, error)
}

// Options configures Build.
type Options struct {
	Width, Height int
	Bloom         Bloom
	Policy        layout.Policy
	// Anchor receives the anchor position on every layout re-evaluation.
	Anchor *scene.Node
	Logger *zap.Logger
}

// Pipeline is the composed render chain plus the objects it resizes.
type Pipeline struct {
	device   postfx.Device
	composer *postfx.Composer
	camera   *camera.Perspective
	anchor   *scene.Node
	policy   layout.Policy
	log      *zap.Logger

	width, height int
}

// Build sizes the device, creates the composer and adds the scene pass
// followed by the bloom pass. The initial layout is applied.
func Build(device postfx.Device, factory PassFactory, s *scene.Scene, cam *camera.Perspective, opts Options) (*Pipeline, error) {
	w, h := clampSize(opts.Width, opts.Height)
	if opts.Policy == (layout.Policy{}) {
		opts.Policy = layout.DefaultPolicy()
	}
	if opts.Bloom == (Bloom{}) {
		opts.Bloom = DefaultBloom
	}

	device.SetSize(w, h)
	composer, err := postfx.NewComposer(device, w, h)
	if err != nil {
		return nil, fmt.Errorf("building render pipeline: %w", err)
	}

	scenePass, err := factory.ScenePass(s, cam)
	if err != nil {
		composer.Release()
		return nil, fmt.Errorf("creating scene pass: %w", err)
	}
	composer.AddPass(scenePass)

	bw, bh := composer.BufferSize()
	bloomPass, err := factory.BloomPass(bw, bh, opts.Bloom)
	if err != nil {
		composer.Release()
		return nil, fmt.Errorf("creating bloom pass: %w", err)
	}
	composer.AddPass(bloomPass)

	p := &Pipeline{
		device:   device,
		composer: composer,
		camera:   cam,
		anchor:   opts.Anchor,
		policy:   opts.Policy,
		log:      logger.OrNop(opts.Logger),
		width:    w,
		height:   h,
	}
	p.applySize()

	p.log.Info("render pipeline ready",
		zap.Strings("passes", composer.Passes()),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("pixelRatio", device.PixelRatio()),
	)
	return p, nil
}

// Render runs the chain once.
func (p *Pipeline) Render() {
	p.composer.Render()
}

// Resize propagates a new logical size to the camera, the device, the chain
// buffers and the layout. Sizes below 1 are clamped; an unchanged size is a
// no-op.
func (p *Pipeline) Resize(width, height int) {
	w, h := clampSize(width, height)
	if w == p.width && h == p.height {
		return
	}
	p.width, p.height = w, h

	p.device.SetSize(w, h)
	p.composer.SetSize(w, h)
	p.applySize()

	p.log.Debug("resized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Stringer("class", p.policy.Classify(float64(w))),
	)
}

// Size returns the current logical size.
func (p *Pipeline) Size() (width, height int) {
	return p.width, p.height
}

// Passes returns the pass names in render order.
func (p *Pipeline) Passes() []string {
	return p.composer.Passes()
}

// Release frees the chain's render targets.
func (p *Pipeline) Release() {
	p.composer.Release()
}

func (p *Pipeline) applySize() {
	p.camera.Aspect = float32(p.width) / float32(p.height)
	p.camera.UpdateProjection()
	layout.Apply(p.policy.Compute(float64(p.width)), p.camera, p.anchor)
}

func clampSize(w, h int) (int, int) {
	return max(w, 1), max(h, 1)
}
