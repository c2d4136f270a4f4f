package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/renderer/shaders"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/engine/shader"
	"github.com/Faultbox/jewelbox/internal/logger"
)

type programs struct {
	scene     *shader.Program
	threshold *shader.Program
	blur      *shader.Program
	composite *shader.Program
}

func (p *programs) delete() {
	for _, prog := range []*shader.Program{p.scene, p.threshold, p.blur, p.composite} {
		if prog != nil {
			prog.Delete()
		}
	}
}

// Factory compiles the shader programs once and builds the GL passes.
type Factory struct {
	programs *programs
	log      *zap.Logger

	scene       *scene.Scene
	scenePasses []*ScenePass
	bloomPasses []*BloomPass
}

// NewFactory compiles every program. Requires a current GL context.
func NewFactory(log *zap.Logger) (*Factory, error) {
	log = logger.OrNop(log)
	progs := &programs{}

	var err error
	if progs.scene, err = shader.Compile("scene", shaders.SceneVertexShader, shaders.SceneFragmentShader); err != nil {
		return nil, err
	}
	if progs.threshold, err = shader.Compile("threshold", shaders.QuadVertexShader, shaders.ThresholdFragmentShader); err != nil {
		progs.delete()
		return nil, err
	}
	if progs.blur, err = shader.Compile("blur", shaders.QuadVertexShader, shaders.BlurFragmentShader); err != nil {
		progs.delete()
		return nil, err
	}
	if progs.composite, err = shader.Compile("composite", shaders.QuadVertexShader, shaders.CompositeFragmentShader); err != nil {
		progs.delete()
		return nil, err
	}

	log.Debug("shader programs compiled")
	return &Factory{programs: progs, log: log}, nil
}

// ScenePass returns the pass drawing s from cam.
func (f *Factory) ScenePass(s *scene.Scene, cam *camera.Perspective) (postfx.Pass, error) {
	f.scene = s
	p := newScenePass(s, cam, f.programs.scene, f.log)
	f.scenePasses = append(f.scenePasses, p)
	return p, nil
}

// BloomPass returns the bloom and output pass. Exposure is read from the
// scene handed to ScenePass on every frame.
func (f *Factory) BloomPass(width, height int, params postfx.Bloom) (postfx.Pass, error) {
	p, err := newBloomPass(width, height, params, f.exposure, f.programs)
	if err != nil {
		return nil, fmt.Errorf("allocating bloom targets: %w", err)
	}
	f.bloomPasses = append(f.bloomPasses, p)
	return p, nil
}

func (f *Factory) exposure() float32 {
	if f.scene == nil {
		return 1
	}
	return f.scene.Exposure
}

// Release frees every pass and program created by the factory.
func (f *Factory) Release() {
	for _, p := range f.scenePasses {
		p.Release()
	}
	for _, p := range f.bloomPasses {
		p.Release()
	}
	f.scenePasses, f.bloomPasses = nil, nil
	f.programs.delete()
}
