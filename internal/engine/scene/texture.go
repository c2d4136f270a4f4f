package scene

import "image"

// Mapping describes how a texture is sampled as an environment.
type Mapping int

const (
	EquirectangularMapping Mapping = iota
	CubeMapping
)

// CubeFaceCount is the number of faces in a cube environment (+X -X +Y -Y +Z -Z).
const CubeFaceCount = 6

// Texture is CPU-side image data plus a renderer-owned GPU handle.
type Texture struct {
	Name    string
	Mapping Mapping
	// Faces holds one image for equirectangular maps and six for cube maps.
	Faces []*image.RGBA

	Handle any
}

// Size returns the dimensions of the first face.
func (t *Texture) Size() (width, height int) {
	if len(t.Faces) == 0 || t.Faces[0] == nil {
		return 0, 0
	}
	b := t.Faces[0].Bounds()
	return b.Dx(), b.Dy()
}
