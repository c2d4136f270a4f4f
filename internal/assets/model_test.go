package assets

import (
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/internal/engine/scene"
)

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = []*gltf.Material{{Name: "loaded", DoubleSided: true}}
	prim := &gltf.Primitive{Indices: gltf.Index(idx), Material: gltf.Index(0)}
	prim.Attributes = map[string]int{gltf.POSITION: pos}
	doc.Meshes = []*gltf.Mesh{{Name: "mesh", Primitives: []*gltf.Primitive{prim}}}

	doc.Nodes = []*gltf.Node{
		{Name: "RootNode", Children: []int{1, 2}},
		{Name: "Object_2", Mesh: gltf.Index(0)},
		{Name: "Object_3", Mesh: gltf.Index(0)},
	}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestBuildModel(t *testing.T) {
	root, err := BuildModel(triangleDoc())
	require.NoError(t, err)

	var meshes []*scene.Node
	root.Traverse(func(n *scene.Node) {
		if n.IsMesh() {
			meshes = append(meshes, n)
		}
	})
	require.Len(t, meshes, 2)
	assert.Equal(t, "Object_2", meshes[0].Name)
	assert.Equal(t, "Object_3", meshes[1].Name)

	g := meshes[0].Geometry
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	require.Len(t, g.Normals, 3)
	assert.InDelta(t, 1.0, g.Normals[0].Z, 1e-6, "normals are computed when absent")

	assert.Same(t, meshes[0].Material, meshes[1].Material, "materials are shared per index")
	assert.Equal(t, "loaded", meshes[0].Material.Name)
	assert.Equal(t, scene.DoubleSide, meshes[0].Material.Side)
}

func TestBuildModelErrors(t *testing.T) {
	empty := &gltf.Document{}
	_, err := BuildModel(empty)
	assert.ErrorIs(t, err, ErrNoScene)

	noMeshes := gltf.NewDocument()
	noMeshes.Nodes = []*gltf.Node{{Name: "lonely"}}
	noMeshes.Scenes[0].Nodes = []int{0}
	_, err = BuildModel(noMeshes)
	assert.ErrorIs(t, err, ErrNoMeshes)

	bad := gltf.NewDocument()
	bad.Scenes[0].Nodes = []int{7}
	_, err = BuildModel(bad)
	assert.Error(t, err)
}

// singlePrimitiveDoc returns a one-node document whose primitive is shaped
// by edit.
func singlePrimitiveDoc(edit func(doc *gltf.Document, prim *gltf.Primitive)) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	prim := &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos}}
	doc.Meshes = []*gltf.Mesh{{Name: "mesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "Object_3", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	edit(doc, prim)
	return doc
}

func TestBuildModelRejectsBadAccessors(t *testing.T) {
	tests := []struct {
		name string
		edit func(doc *gltf.Document, prim *gltf.Primitive)
	}{
		{"position out of range", func(_ *gltf.Document, p *gltf.Primitive) {
			p.Attributes[gltf.POSITION] = 7
		}},
		{"no accessors at all", func(doc *gltf.Document, _ *gltf.Primitive) {
			doc.Accessors = nil
		}},
		{"indices out of range", func(_ *gltf.Document, p *gltf.Primitive) {
			p.Indices = gltf.Index(9)
		}},
		{"normal out of range", func(_ *gltf.Document, p *gltf.Primitive) {
			p.Attributes[gltf.NORMAL] = 3
		}},
		{"buffer view out of range", func(doc *gltf.Document, _ *gltf.Primitive) {
			doc.Accessors[0].BufferView = gltf.Index(5)
		}},
		{"buffer out of range", func(doc *gltf.Document, _ *gltf.Primitive) {
			doc.BufferViews[0].Buffer = 4
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = BuildModel(singlePrimitiveDoc(tt.edit))
			})
			assert.ErrorContains(t, err, "out of range")
		})
	}
}

func TestLoadModelMalformedFile(t *testing.T) {
	doc := singlePrimitiveDoc(func(doc *gltf.Document, p *gltf.Primitive) {
		doc.Accessors = nil
		p.Attributes[gltf.POSITION] = 7
	})
	path := filepath.Join(t.TempDir(), "broken.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	var err error
	require.NotPanics(t, func() { _, err = LoadModel(path) })
	assert.Error(t, err)
}

func TestQuatToEulerXYZ(t *testing.T) {
	half := gomath.Pi / 4
	tests := []struct {
		name       string
		x, y, z, w float64
		want       [3]float64
	}{
		{"identity", 0, 0, 0, 1, [3]float64{0, 0, 0}},
		{"x -90", -gomath.Sin(half), 0, 0, gomath.Cos(half), [3]float64{-gomath.Pi / 2, 0, 0}},
		{"y 90", 0, gomath.Sin(half), 0, gomath.Cos(half), [3]float64{0, gomath.Pi / 2, 0}},
		{"z 90", 0, 0, gomath.Sin(half), gomath.Cos(half), [3]float64{0, 0, gomath.Pi / 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quatToEulerXYZ(tt.x, tt.y, tt.z, tt.w)
			assert.InDelta(t, tt.want[0], got.X, 1e-5)
			assert.InDelta(t, tt.want[1], got.Y, 1e-3)
			assert.InDelta(t, tt.want[2], got.Z, 1e-5)
		})
	}
}
