// Package stage assembles the showcase scene and routes host events
// (resize, sync messages, frame ticks, asset completions) to it.
package stage

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/config"
	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/lighting"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/logger"
	"github.com/Faultbox/jewelbox/internal/showcase/clock"
	"github.com/Faultbox/jewelbox/internal/showcase/layout"
	"github.com/Faultbox/jewelbox/internal/showcase/materials"
	"github.com/Faultbox/jewelbox/internal/showcase/particles"
	"github.com/Faultbox/jewelbox/internal/showcase/pipeline"
	"github.com/Faultbox/jewelbox/internal/showcase/rotation"
	"github.com/Faultbox/jewelbox/internal/showcase/scrollsync"
	"github.com/Faultbox/jewelbox/pkg/math"
)

// Lighting used by the showcase.
var (
	AmbientLight = lighting.Ambient{Color: lighting.Hex(0xFFFFFF), Intensity: 0.2}
	SunLight     = lighting.Directional{
		Color:     lighting.Hex(0xFFE5B4),
		Intensity: 0.8,
		Position:  math.V3(3, -4, 2),
	}
)

// Options holds host-provided collaborators. Zero values pick defaults.
type Options struct {
	Width, Height int
	Now           func() time.Time
	Rand          *rand.Rand
	Logger        *zap.Logger
}

// Stage owns every object of the showcase scene.
type Stage struct {
	Scene     *scene.Scene
	Camera    *camera.Perspective
	Anchor    *scene.Node
	Particles *particles.Field
	Rotation  *rotation.State
	Bridge    *scrollsync.Bridge
	Clock     *clock.Clock
	Pipeline  *pipeline.Pipeline

	cfg      config.SceneConfig
	log      *zap.Logger
	env      *scene.Texture
	model    *scene.Node
	resolver *materials.Resolver
}

// New builds the scene, the render pipeline and the animation clock. The
// anchor and particle group exist immediately so Tick is valid before any
// asset has loaded.
func New(cfg config.SceneConfig, device postfx.Device, factory pipeline.PassFactory, opts Options) (*Stage, error) {
	log := logger.OrNop(opts.Logger)

	s := &Stage{
		Scene:    scene.New(),
		Anchor:   scene.NewGroup("anchor"),
		Rotation: &rotation.State{},
		cfg:      cfg,
		log:      log,
	}

	bg := lighting.Hex(cfg.Background)
	s.Scene.Background = bg
	s.Scene.BackgroundAlpha = cfg.BackgroundAlpha
	s.Scene.Fog = &scene.Fog{Color: bg, Near: cfg.FogNear, Far: cfg.FogFar}
	s.Scene.Ambient = AmbientLight
	s.Scene.Sun = SunLight
	s.Scene.Exposure = cfg.Exposure

	s.Camera = camera.NewPerspective(cfg.FOV, 1, cfg.Near, cfg.Far)

	s.Particles = particles.Spawn(ParticleConfig(cfg.Particles), particleRand(cfg.Particles, opts.Rand))
	s.Scene.Add(s.Particles.Group, s.Anchor)

	var err error
	s.Pipeline, err = pipeline.Build(device, factory, s.Scene, s.Camera, pipeline.Options{
		Width:  opts.Width,
		Height: opts.Height,
		Bloom: pipeline.Bloom{
			Strength:  cfg.Bloom.Strength,
			Radius:    cfg.Bloom.Radius,
			Threshold: cfg.Bloom.Threshold,
		},
		Policy: Policy(cfg),
		Anchor: s.Anchor,
		Logger: log.Named("pipeline"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating stage: %w", err)
	}

	s.Bridge = scrollsync.New(s.Rotation, log.Named("scrollsync"))
	s.Clock = clock.New(s.Rotation, s.Anchor, s.Pipeline, clock.Options{
		Stepper:   Stepper(cfg),
		Particles: s.Particles,
		Now:       opts.Now,
		Logger:    log.Named("clock"),
	})

	log.Info("stage ready",
		zap.Int("particles", s.Particles.Len()),
		zap.Float64("breakpoint", cfg.Breakpoint),
	)
	return s, nil
}

// HandleResize reacts to a window size change.
func (s *Stage) HandleResize(width, height int) {
	s.Pipeline.Resize(width, height)
}

// HandleMessage feeds one inbound sync payload to the bridge.
func (s *Stage) HandleMessage(payload any) {
	s.Bridge.OnScrollMessage(payload)
}

// Tick advances and renders one frame.
func (s *Stage) Tick() {
	s.Clock.Tick()
}

// EnvironmentLoaded installs the environment map. A failed load leaves the
// scene without one.
func (s *Stage) EnvironmentLoaded(env *scene.Texture, err error) {
	if err != nil || env == nil {
		return
	}
	s.env = env
	s.Scene.Environment = env
}

// ModelLoaded attaches the model to the anchor, scales the anchor and
// resolves the jewel materials. A failed load leaves the anchor empty.
// Only the first model is accepted.
func (s *Stage) ModelLoaded(model *scene.Node, err error) {
	if err != nil || model == nil {
		return
	}
	if s.model != nil {
		s.log.Warn("model already loaded, ignoring another", zap.String("name", model.Name))
		return
	}

	s.model = model
	s.Anchor.Add(model)
	k := s.cfg.ModelScale
	s.Anchor.Scale = math.V3(k, k, k)

	registry, err := materials.NewRegistry(materials.DefaultDescriptors(s.env)...)
	if err != nil {
		s.log.Error("building material registry", zap.Error(err))
		return
	}
	s.resolver = materials.NewResolver(registry, s.log.Named("materials"))
	s.resolver.Resolve(model)
}

// Model returns the loaded model, or nil.
func (s *Stage) Model() *scene.Node {
	return s.model
}

// Release frees GPU resources held by the pipeline.
func (s *Stage) Release() {
	s.Pipeline.Release()
}

// Policy builds the layout policy from cfg.
func Policy(cfg config.SceneConfig) layout.Policy {
	pose := func(p config.PoseConfig) layout.Pose {
		return layout.Pose{
			CameraPosition: vec(p.Camera),
			CameraLookAt:   vec(p.LookAt),
			AnchorPosition: vec(p.Anchor),
		}
	}
	return layout.Policy{
		Breakpoint: cfg.Breakpoint,
		Mobile:     pose(cfg.Mobile),
		Desktop:    pose(cfg.Desktop),
	}
}

// Stepper picks the idle stepper: rate-based when IdleRate is set,
// otherwise a fixed step per frame.
func Stepper(cfg config.SceneConfig) clock.Stepper {
	if cfg.IdleRate > 0 {
		return clock.NewRateStep(cfg.IdleRate)
	}
	return clock.FixedStep(cfg.IdleStep)
}

// ParticleConfig converts the YAML particle settings.
func ParticleConfig(c config.ParticleConfig) particles.Config {
	return particles.Config{
		Count:     c.Count,
		Spread:    c.Spread,
		MinSize:   c.MinSize,
		MaxSize:   c.MaxSize,
		Color:     lighting.Hex(c.Color),
		Amplitude: c.Amplitude,
		Spin:      c.Spin,
		Bound:     c.Bound,
	}
}

func particleRand(c config.ParticleConfig, r *rand.Rand) *rand.Rand {
	if r != nil || c.Seed == 0 {
		return r
	}
	seed := uint64(c.Seed)
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

func vec(a [3]float32) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}
