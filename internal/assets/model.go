package assets

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/jewelbox/internal/engine/lighting"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/pkg/math"
)

var (
	// ErrNoScene is returned for documents without a scene to instantiate.
	ErrNoScene = errors.New("gltf: document has no scene")
	// ErrNoMeshes is returned when the scene contains nothing renderable.
	ErrNoMeshes = errors.New("gltf: scene has no triangle meshes")
)

// LoadModel opens a glTF 2.0 or GLB file and converts its default scene
// into a node graph. Mesh nodes keep the glTF node names.
func LoadModel(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	root, err := BuildModel(doc)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	return root, nil
}

// BuildModel converts the default scene of doc (or the first scene) into a
// node graph rooted at a group named after the scene.
func BuildModel(doc *gltf.Document) (*scene.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sc := doc.Scenes[0]
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		sc = doc.Scenes[*doc.Scene]
	}

	b := &modelBuilder{doc: doc, materials: make(map[int]*scene.Material)}
	root := scene.NewGroup(sc.Name)
	for _, idx := range sc.Nodes {
		n, err := b.node(int(idx), 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	if b.meshes == 0 {
		return nil, ErrNoMeshes
	}
	return root, nil
}

// maxDepth bounds node recursion against cyclic documents.
const maxDepth = 64

type modelBuilder struct {
	doc       *gltf.Document
	materials map[int]*scene.Material
	meshes    int
}

func (b *modelBuilder) node(idx, depth int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("gltf: node index %d out of range", idx)
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("gltf: node hierarchy deeper than %d", maxDepth)
	}
	src := b.doc.Nodes[idx]

	var n *scene.Node
	if src.Mesh != nil {
		var err error
		if n, err = b.mesh(src.Name, int(*src.Mesh)); err != nil {
			return nil, err
		}
	} else {
		n = scene.NewGroup(src.Name)
	}
	applyTransform(n, src)

	for _, c := range src.Children {
		child, err := b.node(int(c), depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// mesh converts a glTF mesh. A single triangle primitive becomes one mesh
// node; several become a group of meshes.
func (b *modelBuilder) mesh(name string, idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("gltf: mesh index %d out of range", idx)
	}
	src := b.doc.Meshes[idx]
	if name == "" {
		name = src.Name
	}

	var parts []*scene.Node
	for i, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		geom, err := b.geometry(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", name, i, err)
		}
		var mat *scene.Material
		if p.Material != nil {
			mat = b.material(int(*p.Material))
		} else {
			mat = scene.NewStandardMaterial("default", lighting.Hex(0xFFFFFF))
		}
		parts = append(parts, scene.NewMesh(name, geom, mat))
	}

	switch len(parts) {
	case 0:
		return scene.NewGroup(name), nil
	case 1:
		b.meshes++
		return parts[0], nil
	}
	g := scene.NewGroup(name)
	for i, part := range parts {
		part.Name = fmt.Sprintf("%s_%d", name, i)
		g.Add(part)
	}
	b.meshes += len(parts)
	return g, nil
}

func (b *modelBuilder) geometry(p *gltf.Primitive) (*scene.Geometry, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	acc, err := b.accessor("POSITION", int(posIdx))
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(b.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	g := &scene.Geometry{Positions: make([]math.Vec3, len(positions))}
	for i, v := range positions {
		g.Positions[i] = math.V3(v[0], v[1], v[2])
	}

	if p.Indices != nil {
		if acc, err = b.accessor("indices", int(*p.Indices)); err != nil {
			return nil, err
		}
		if g.Indices, err = modeler.ReadIndices(b.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	}

	if nIdx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acc, err = b.accessor("NORMAL", int(nIdx)); err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(b.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		g.Normals = make([]math.Vec3, len(normals))
		for i, v := range normals {
			g.Normals[i] = math.V3(v[0], v[1], v[2])
		}
	} else {
		g.ComputeNormals()
	}
	return g, nil
}

// accessor returns accessor idx after checking it and its buffer view
// against the document.
func (b *modelBuilder) accessor(what string, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) || b.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("gltf: %s accessor index %d out of range", what, idx)
	}
	acc := b.doc.Accessors[idx]
	if acc.BufferView != nil {
		bv := int(*acc.BufferView)
		if bv < 0 || bv >= len(b.doc.BufferViews) || b.doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("gltf: %s buffer view index %d out of range", what, bv)
		}
		if buf := int(b.doc.BufferViews[bv].Buffer); buf < 0 || buf >= len(b.doc.Buffers) {
			return nil, fmt.Errorf("gltf: %s buffer index %d out of range", what, buf)
		}
	}
	return acc, nil
}

// material converts a glTF metallic-roughness material. Converted materials
// are shared between primitives that reference the same index.
func (b *modelBuilder) material(idx int) *scene.Material {
	if m, ok := b.materials[idx]; ok {
		return m
	}
	m := scene.NewStandardMaterial("default", lighting.Hex(0xFFFFFF))
	if idx >= 0 && idx < len(b.doc.Materials) {
		src := b.doc.Materials[idx]
		m.Name = src.Name
		if pbr := src.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			m.Color = lighting.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
			m.Opacity = float32(c[3])
			m.Metalness = float32(pbr.MetallicFactorOrDefault())
			m.Roughness = float32(pbr.RoughnessFactorOrDefault())
		}
		if src.DoubleSided {
			m.Side = scene.DoubleSide
		}
		m.Transparent = src.AlphaMode == gltf.AlphaBlend
	}
	b.materials[idx] = m
	return m
}

func applyTransform(n *scene.Node, src *gltf.Node) {
	mat := src.MatrixOrDefault()
	var m math.Mat4
	for i := range m {
		m[i] = float32(mat[i])
	}
	if m != math.Identity() {
		n.Matrix = &m
		return
	}

	t := src.TranslationOrDefault()
	s := src.ScaleOrDefault()
	q := src.RotationOrDefault()
	n.Position = math.V3(float32(t[0]), float32(t[1]), float32(t[2]))
	n.Scale = math.V3(float32(s[0]), float32(s[1]), float32(s[2]))
	n.Rotation = quatToEulerXYZ(float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3]))
}

// quatToEulerXYZ converts a unit quaternion (x, y, z, w) to XYZ Euler angles
// matching scene.Node's rotation order.
func quatToEulerXYZ(x, y, z, w float64) math.Vec3 {
	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - z*w)
	m13 := 2 * (x*z + y*w)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - x*w)
	m32 := 2 * (y*z + x*w)
	m33 := 1 - 2*(x*x+y*y)

	ey := gomath.Asin(max(-1, min(1, m13)))
	var ex, ez float64
	if gomath.Abs(m13) < 0.9999999 {
		ex = gomath.Atan2(-m23, m33)
		ez = gomath.Atan2(-m12, m11)
	} else {
		ex = gomath.Atan2(m32, m22)
	}
	return math.V3(float32(ex), float32(ey), float32(ez))
}
