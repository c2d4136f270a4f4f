package scene

import (
	gomath "math"

	"github.com/Faultbox/jewelbox/pkg/math"
)

// Geometry holds indexed triangle data in model space.
type Geometry struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Interleaved returns position+normal pairs packed for a single vertex buffer.
// Missing normals are written as zero.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*6)
	for i, p := range g.Positions {
		var n math.Vec3
		if i < len(g.Normals) {
			n = g.Normals[i]
		}
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}
	return out
}

// Sphere builds a UV sphere. Segment counts below 3 (width) or 2 (height) are raised.
func Sphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * gomath.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * gomath.Pi

			n := math.V3(
				float32(-gomath.Cos(phi)*gomath.Sin(theta)),
				float32(gomath.Cos(theta)),
				float32(gomath.Sin(phi)*gomath.Sin(theta)),
			)
			g.Normals = append(g.Normals, n)
			g.Positions = append(g.Positions, n.Scale(radius))
		}
	}

	row := uint32(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// ComputeNormals replaces Normals with area-weighted vertex normals derived
// from the triangles.
func (g *Geometry) ComputeNormals() {
	normals := make([]math.Vec3, len(g.Positions))
	tri := func(a, b, c uint32) {
		if int(a) >= len(normals) || int(b) >= len(normals) || int(c) >= len(normals) {
			return
		}
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	if len(g.Indices) > 0 {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			tri(g.Indices[i], g.Indices[i+1], g.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(g.Positions); i += 3 {
			tri(uint32(i), uint32(i+1), uint32(i+2))
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	g.Normals = normals
}
