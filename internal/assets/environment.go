package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/engine/texture"
)

// ErrFaceMismatch is returned when cube faces are not equal squares.
var ErrFaceMismatch = errors.New("cube faces must be equal squares")

// DecodeImage decodes PNG, JPEG, WebP, BMP, TIFF or TGA data into RGBA. Images
// wider than maxWidth are scaled down preserving aspect; maxWidth <= 0 keeps
// the original size.
func DecodeImage(data []byte, maxWidth int) (*image.RGBA, string, error) {
	var src image.Image
	src, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) && texture.IsTGA(data) {
		format = "tga"
		src, err = texture.DecodeTGA(data)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst, format, nil
}

// EquirectEnvironment builds an equirectangular environment from image data.
func EquirectEnvironment(name string, data []byte, maxWidth int) (*scene.Texture, error) {
	img, _, err := DecodeImage(data, maxWidth)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", name, err)
	}
	return &scene.Texture{
		Name:    name,
		Mapping: scene.EquirectangularMapping,
		Faces:   []*image.RGBA{img},
	}, nil
}

// CubeEnvironment builds a cube environment from six faces ordered
// +X -X +Y -Y +Z -Z.
func CubeEnvironment(name string, faces [][]byte, maxWidth int) (*scene.Texture, error) {
	if len(faces) != scene.CubeFaceCount {
		return nil, fmt.Errorf("environment %s: got %d faces, want %d", name, len(faces), scene.CubeFaceCount)
	}
	tex := &scene.Texture{Name: name, Mapping: scene.CubeMapping}
	for i, data := range faces {
		img, _, err := DecodeImage(data, maxWidth)
		if err != nil {
			return nil, fmt.Errorf("environment %s face %d: %w", name, i, err)
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return nil, fmt.Errorf("environment %s face %d: %w", name, i, ErrFaceMismatch)
		}
		if i > 0 && b != tex.Faces[0].Bounds() {
			return nil, fmt.Errorf("environment %s face %d: %w", name, i, ErrFaceMismatch)
		}
		tex.Faces = append(tex.Faces, img)
	}
	return tex, nil
}

// LoadEnvironment reads the environment through m. When faces is non-empty
// it is loaded as a cube map, otherwise path is loaded as an equirectangular
// map.
func LoadEnvironment(m *Manager, path string, faces []string, maxWidth int) (*scene.Texture, error) {
	if len(faces) == 0 {
		data, err := m.Load(path)
		if err != nil {
			return nil, err
		}
		return EquirectEnvironment(path, data, maxWidth)
	}

	blobs := make([][]byte, len(faces))
	for i, f := range faces {
		data, err := m.Load(f)
		if err != nil {
			return nil, err
		}
		blobs[i] = data
	}
	return CubeEnvironment(faces[0], blobs, maxWidth)
}

// LoadModelFile resolves path through m and loads it as a glTF model.
func LoadModelFile(m *Manager, path string) (*scene.Node, error) {
	p, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	return LoadModel(p)
}
