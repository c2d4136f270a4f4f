package renderer

import (
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/framebuffer"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/engine/shader"
	"github.com/Faultbox/jewelbox/pkg/math"
)

// ScenePass draws the scene graph into the chain's write target in linear
// HDR color. Opaque meshes are drawn first, then transparent meshes back to
// front.
type ScenePass struct {
	scene   *scene.Scene
	camera  *camera.Perspective
	program *shader.Program
	log     *zap.Logger

	meshes map[*scene.Geometry]*gpuMesh
	envs   map[*scene.Texture]*gpuTexture

	width, height int
	opaque        []drawItem
	transparent   []drawItem
}

type drawItem struct {
	node  *scene.Node
	world math.Mat4
	depth float32
}

func newScenePass(s *scene.Scene, cam *camera.Perspective, program *shader.Program, log *zap.Logger) *ScenePass {
	return &ScenePass{
		scene:   s,
		camera:  cam,
		program: program,
		log:     log,
		meshes:  make(map[*scene.Geometry]*gpuMesh),
		envs:    make(map[*scene.Texture]*gpuTexture),
	}
}

func (p *ScenePass) Name() string    { return "scene" }
func (p *ScenePass) NeedsSwap() bool { return true }

func (p *ScenePass) SetSize(width, height int) {
	p.width, p.height = width, height
}

func (p *ScenePass) Render(_, write postfx.Target, toScreen bool) {
	if toScreen {
		framebuffer.BindScreen(p.width, p.height)
	} else {
		write.(*framebuffer.Framebuffer).Bind()
	}

	bg := p.scene.Background.Linear()
	framebuffer.Clear(bg.R, bg.G, bg.B, p.scene.BackgroundAlpha)
	gl.Enable(gl.DEPTH_TEST)

	view := p.camera.ViewMatrix()
	p.collect(view)

	prog := p.program
	prog.Use()
	prog.SetMat4("uView", view)
	prog.SetMat4("uProjection", p.camera.ProjectionMatrix())
	prog.SetVec3("uCameraPos", p.camera.Position)
	p.bindLights()
	p.bindFog()
	env := p.bindEnvironment()

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, it := range p.opaque {
		p.draw(it, env)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, it := range p.transparent {
		p.draw(it, env)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// collect sorts visible meshes into the opaque and transparent lists.
func (p *ScenePass) collect(view math.Mat4) {
	p.opaque = p.opaque[:0]
	p.transparent = p.transparent[:0]

	p.scene.Root.TraverseVisible(func(n *scene.Node) {
		if !n.IsMesh() || n.Geometry == nil || n.Material == nil {
			return
		}
		world := n.WorldMatrix()
		it := drawItem{node: n, world: world}
		if n.Material.Transparent {
			it.depth = -view.TransformVec3(world.TransformVec3(math.Vec3{})).Z
			p.transparent = append(p.transparent, it)
		} else {
			p.opaque = append(p.opaque, it)
		}
	})

	slices.SortStableFunc(p.transparent, func(a, b drawItem) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
}

func (p *ScenePass) bindLights() {
	s := p.scene
	p.program.SetColor("uAmbient", s.Ambient.Color.Linear().Scaled(s.Ambient.Intensity))
	p.program.SetColor("uSunColor", s.Sun.Color.Linear().Scaled(s.Sun.Intensity))
	p.program.SetVec3("uSunDir", s.Sun.Direction())
}

func (p *ScenePass) bindFog() {
	fog := p.scene.Fog
	p.program.SetBool("uFog", fog != nil)
	if fog == nil {
		return
	}
	p.program.SetColor("uFogColor", fog.Color.Linear())
	p.program.SetFloat("uFogNear", fog.Near)
	p.program.SetFloat("uFogFar", fog.Far)
}

// bindEnvironment uploads and binds the scene environment, if any, to
// texture units 0 (equirectangular) or 1 (cube).
func (p *ScenePass) bindEnvironment() *gpuTexture {
	p.program.SetInt("uEnvEquirect", 0)
	p.program.SetInt("uEnvCube", 1)

	env := p.texture(p.scene.Environment)
	if env == nil {
		return nil
	}
	switch env.mode {
	case envEquirect:
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, env.id)
	case envCube:
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, env.id)
	}
	p.program.SetFloat("uEnvMaxLod", env.maxLod)
	return env
}

func (p *ScenePass) draw(it drawItem, sceneEnv *gpuTexture) {
	m := it.node.Material
	prog := p.program

	prog.SetMat4("uModel", it.world)
	prog.SetColor("uColor", m.Color.Linear())
	prog.SetFloat("uOpacity", m.Opacity)
	prog.SetBool("uUnlit", m.Unlit)
	prog.SetFloat("uMetalness", m.Metalness)
	prog.SetFloat("uRoughness", m.Roughness)
	prog.SetFloat("uReflectivity", m.Reflectivity)
	prog.SetFloat("uClearcoat", m.Clearcoat)
	prog.SetFloat("uClearcoatRoughness", m.ClearcoatRoughness)

	// A material's own env map wins over the scene environment.
	env := sceneEnv
	if m.EnvMap != nil {
		env = p.texture(m.EnvMap)
	}
	if env != nil && env.mode != envNone {
		prog.SetInt("uEnvMode", env.mode)
		prog.SetFloat("uEnvIntensity", m.EnvMapIntensity)
	} else {
		prog.SetInt("uEnvMode", envNone)
		prog.SetFloat("uEnvIntensity", 0)
	}

	if m.Side == scene.DoubleSide {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	p.mesh(it.node.Geometry).draw()
}

func (p *ScenePass) mesh(g *scene.Geometry) *gpuMesh {
	m, ok := p.meshes[g]
	if !ok {
		m = uploadMesh(g)
		p.meshes[g] = m
	}
	return m
}

func (p *ScenePass) texture(t *scene.Texture) *gpuTexture {
	if t == nil {
		return nil
	}
	g, ok := p.envs[t]
	if !ok {
		g = uploadEnvironment(t)
		p.envs[t] = g
		w, h := t.Size()
		p.log.Debug("environment uploaded",
			zap.String("name", t.Name),
			zap.Int("width", w),
			zap.Int("height", h),
		)
	}
	return g
}

// Release frees every uploaded mesh and texture.
func (p *ScenePass) Release() {
	for g, m := range p.meshes {
		m.release()
		delete(p.meshes, g)
	}
	for t, g := range p.envs {
		g.release()
		delete(p.envs, t)
	}
}
