package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/jewelbox/internal/engine/framebuffer"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/engine/shader"
)

// blurIterations is the number of horizontal+vertical blur rounds.
const blurIterations = 2

// BloomPass extracts highlights, blurs them at half resolution and
// composites them over the scene. It also tone maps (ACES filmic) and
// encodes sRGB, so it must be the last pass of the chain.
type BloomPass struct {
	params   postfx.Bloom
	exposure func() float32
	programs *programs

	bright, blur *framebuffer.Framebuffer
	quadVAO      uint32

	width, height int
}

func newBloomPass(width, height int, params postfx.Bloom, exposure func() float32, progs *programs) (*BloomPass, error) {
	p := &BloomPass{params: params, exposure: exposure, programs: progs}

	var err error
	hw, hh := max(width/2, 1), max(height/2, 1)
	if p.bright, err = framebuffer.New(hw, hh, framebuffer.HDR); err != nil {
		return nil, err
	}
	if p.blur, err = framebuffer.New(hw, hh, framebuffer.HDR); err != nil {
		p.bright.Release()
		return nil, err
	}
	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &p.quadVAO)

	p.width, p.height = width, height
	return p, nil
}

func (p *BloomPass) Name() string    { return "bloom" }
func (p *BloomPass) NeedsSwap() bool { return true }

func (p *BloomPass) SetSize(width, height int) {
	p.width, p.height = width, height
	hw, hh := max(width/2, 1), max(height/2, 1)
	p.bright.Resize(hw, hh)
	p.blur.Resize(hw, hh)
}

func (p *BloomPass) Render(read, write postfx.Target, toScreen bool) {
	src := read.(*framebuffer.Framebuffer)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.BindVertexArray(p.quadVAO)

	// Highlights.
	p.bright.Bind()
	th := p.programs.threshold
	th.Use()
	th.SetInt("uSource", 0)
	th.SetFloat("uThreshold", p.params.Threshold)
	p.drawQuad(src.ColorTexture())

	// Blur, ping-ponging between bright and blur.
	hw, hh := p.bright.Size()
	spread := 1 + p.params.Radius*3
	bl := p.programs.blur
	bl.Use()
	bl.SetInt("uSource", 0)
	for i := 0; i < blurIterations; i++ {
		p.blur.Bind()
		bl.SetVec2("uDirection", spread/float32(hw), 0)
		p.drawQuad(p.bright.ColorTexture())

		p.bright.Bind()
		bl.SetVec2("uDirection", 0, spread/float32(hh))
		p.drawQuad(p.blur.ColorTexture())
	}

	// Composite and output.
	if toScreen {
		framebuffer.BindScreen(p.width, p.height)
	} else {
		write.(*framebuffer.Framebuffer).Bind()
	}
	cp := p.programs.composite
	cp.Use()
	cp.SetInt("uScene", 0)
	cp.SetInt("uBloom", 1)
	cp.SetFloat("uStrength", p.params.Strength)
	cp.SetFloat("uExposure", p.exposure())

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, p.bright.ColorTexture())
	p.drawQuad(src.ColorTexture())

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (p *BloomPass) drawQuad(texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// Release frees the intermediate targets.
func (p *BloomPass) Release() {
	p.bright.Release()
	p.blur.Release()
	if p.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &p.quadVAO)
		p.quadVAO = 0
	}
}
