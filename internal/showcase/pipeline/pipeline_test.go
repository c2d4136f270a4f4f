package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/postfx/postfxtest"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/showcase/layout"
	"github.com/Faultbox/jewelbox/pkg/math"
)

type factory struct {
	scene *postfxtest.Pass
	bloom *postfxtest.Pass
	got   Bloom

	bloomErr error
}

func newFactory() *factory {
	return &factory{
		scene: &postfxtest.Pass{PassName: "scene", Swap: true},
		bloom: &postfxtest.Pass{PassName: "bloom"},
	}
}

func (f *factory) ScenePass(*scene.Scene, *camera.Perspective) (postfx.Pass, error) {
	return f.scene, nil
}

func (f *factory) BloomPass(_, _ int, b Bloom) (postfx.Pass, error) {
	if f.bloomErr != nil {
		return nil, f.bloomErr
	}
	f.got = b
	return f.bloom, nil
}

type fixture struct {
	dev     *postfxtest.Device
	factory *factory
	cam     *camera.Perspective
	anchor  *scene.Node
	p       *Pipeline
}

func build(t *testing.T, w, h int, ratio float64) *fixture {
	t.Helper()
	f := &fixture{
		dev:     postfxtest.NewDevice(ratio),
		factory: newFactory(),
		cam:     camera.NewPerspective(50, 1, 0.1, 100),
		anchor:  scene.NewGroup("anchor"),
	}
	var err error
	f.p, err = Build(f.dev, f.factory, scene.New(), f.cam, Options{
		Width:  w,
		Height: h,
		Anchor: f.anchor,
	})
	require.NoError(t, err)
	return f
}

func TestBuildPassOrder(t *testing.T) {
	f := build(t, 1280, 720, 1)

	assert.Equal(t, []string{"scene", "bloom"}, f.p.Passes())
	assert.Equal(t, DefaultBloom, f.factory.got)
}

func TestBuildAppliesInitialLayout(t *testing.T) {
	f := build(t, 1280, 720, 1)

	assert.InDelta(t, 1280.0/720.0, f.cam.Aspect, 1e-6)
	assert.Equal(t, layout.DesktopPose.CameraPosition, f.cam.Position)
	assert.Equal(t, layout.DesktopPose.AnchorPosition, f.anchor.Position)
	assert.Equal(t, math.Vec3{}, f.cam.Target())
}

func TestBuildFailsWithoutTargets(t *testing.T) {
	dev := postfxtest.NewDevice(1)
	dev.FailAt = 2

	_, err := Build(dev, newFactory(), scene.New(), camera.NewPerspective(50, 1, 0.1, 100), Options{Width: 10, Height: 10})
	require.ErrorIs(t, err, postfxtest.ErrNoMemory)
	assert.True(t, dev.Targets[0].Released)
}

func TestBuildFailsWithoutBloomPass(t *testing.T) {
	dev := postfxtest.NewDevice(1)
	f := newFactory()
	f.bloomErr = errors.New("no shaders")

	_, err := Build(dev, f, scene.New(), camera.NewPerspective(50, 1, 0.1, 100), Options{Width: 10, Height: 10})
	require.ErrorIs(t, err, f.bloomErr)
	for _, target := range dev.Targets {
		assert.True(t, target.Released)
	}
}

func TestRender(t *testing.T) {
	f := build(t, 800, 600, 1)

	f.p.Render()
	f.p.Render()

	assert.Equal(t, 2, f.factory.scene.Renders)
	assert.False(t, f.factory.scene.ToScreen)
	assert.Equal(t, 2, f.factory.bloom.Renders)
	assert.True(t, f.factory.bloom.ToScreen)
}

func TestResize(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantAspect float32
		wantPose   layout.Pose
	}{
		{"desktop", 1000, 500, 2, layout.DesktopPose},
		{"mobile", 400, 800, 0.5, layout.MobilePose},
		{"breakpoint is mobile", 768, 768, 1, layout.MobilePose},
		{"just above breakpoint", 769, 769, 1, layout.DesktopPose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := build(t, 1280, 720, 2)

			f.p.Resize(tt.w, tt.h)

			assert.InDelta(t, tt.wantAspect, f.cam.Aspect, 1e-6)
			assert.Equal(t, tt.wantPose.CameraPosition, f.cam.Position)
			assert.Equal(t, tt.wantPose.AnchorPosition, f.anchor.Position)

			dw, dh := f.dev.LastSize()
			assert.Equal(t, tt.w, dw)
			assert.Equal(t, tt.h, dh)

			// Buffers are in backing pixels.
			for _, target := range f.dev.Targets {
				assert.Equal(t, tt.w*2, target.Width)
				assert.Equal(t, tt.h*2, target.Height)
			}
			assert.Equal(t, tt.w*2, f.factory.bloom.Width)
			assert.Equal(t, tt.h*2, f.factory.bloom.Height)
		})
	}
}

func TestResizeUnchangedIsNoop(t *testing.T) {
	f := build(t, 1280, 720, 1)
	calls := len(f.dev.Sizes)

	f.p.Resize(1280, 720)

	assert.Len(t, f.dev.Sizes, calls)
}

func TestResizeClampsToOne(t *testing.T) {
	f := build(t, 1280, 720, 1)

	f.p.Resize(0, -5)

	w, h := f.p.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, float32(1), f.cam.Aspect)
	assert.Equal(t, layout.MobilePose.AnchorPosition, f.anchor.Position)
}

func TestRelease(t *testing.T) {
	f := build(t, 10, 10, 1)
	f.p.Release()
	for _, target := range f.dev.Targets {
		assert.True(t, target.Released)
	}
}
