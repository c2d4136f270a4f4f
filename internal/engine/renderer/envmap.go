package renderer

import (
	"image"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/jewelbox/internal/engine/scene"
)

// Environment sampling modes understood by the scene shader.
const (
	envNone     int32 = 0
	envEquirect int32 = 1
	envCube     int32 = 2
)

type gpuTexture struct {
	id     uint32
	mode   int32
	maxLod float32
}

// uploadEnvironment creates a mipmapped sRGB texture from t. Roughness
// selects the mip level when sampling.
func uploadEnvironment(t *scene.Texture) *gpuTexture {
	if len(t.Faces) == 0 {
		return &gpuTexture{mode: envNone}
	}
	w, h := t.Size()
	g := &gpuTexture{maxLod: float32(gomath.Floor(gomath.Log2(float64(max(w, h, 1)))))}
	gl.GenTextures(1, &g.id)

	if t.Mapping == scene.CubeMapping && len(t.Faces) == scene.CubeFaceCount {
		g.mode = envCube
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, g.id)
		for i, face := range t.Faces {
			texImage(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), face)
		}
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
		setParams(gl.TEXTURE_CUBE_MAP, gl.CLAMP_TO_EDGE)
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		return g
	}

	g.mode = envEquirect
	gl.BindTexture(gl.TEXTURE_2D, g.id)
	texImage(gl.TEXTURE_2D, t.Faces[0])
	setParams(gl.TEXTURE_2D, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return g
}

func texImage(target uint32, img *image.RGBA) {
	b := img.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(target, 0, gl.SRGB8_ALPHA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func setParams(target uint32, wrap int32) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

func (g *gpuTexture) release() {
	if g.id != 0 {
		gl.DeleteTextures(1, &g.id)
		g.id = 0
	}
}
