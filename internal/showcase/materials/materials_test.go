package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/internal/engine/lighting"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
)

func model() (root, gold, diamond, other *scene.Node) {
	root = scene.NewGroup("Sketchfab_model")
	inner := scene.NewGroup("RootNode")
	loaded := scene.NewStandardMaterial("loaded", lighting.Hex(0x808080))
	gold = scene.NewMesh(GoldMesh, &scene.Geometry{}, loaded)
	diamond = scene.NewMesh(DiamondMesh, &scene.Geometry{}, loaded)
	other = scene.NewMesh("Object_9", &scene.Geometry{}, loaded)
	inner.Add(gold, diamond, other)
	root.Add(inner)
	return
}

func TestNewRegistryRejectsBadDescriptors(t *testing.T) {
	m := scene.NewStandardMaterial("m", lighting.Color{})
	tests := []struct {
		name  string
		descs []Descriptor
		want  error
	}{
		{"duplicate", []Descriptor{{"a", m}, {"a", m}}, ErrDuplicateName},
		{"empty name", []Descriptor{{"", m}}, ErrEmptyName},
		{"nil material", []Descriptor{{"a", nil}}, ErrNilMaterial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.descs...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistryNames(t *testing.T) {
	r, err := NewRegistry(DefaultDescriptors(nil)...)
	require.NoError(t, err)
	assert.Equal(t, []string{DiamondMesh, GoldMesh}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestResolveAppliesByName(t *testing.T) {
	root, gold, diamond, other := model()
	loaded := other.Material

	reg, err := NewRegistry(DefaultDescriptors(nil)...)
	require.NoError(t, err)
	res := NewResolver(reg, nil)

	report := res.Resolve(root)

	assert.Equal(t, "gold", gold.Material.Name)
	assert.Equal(t, "diamond", diamond.Material.Name)
	assert.Same(t, loaded, other.Material)
	assert.ElementsMatch(t, []string{GoldMesh, DiamondMesh}, report.Applied)
	assert.Empty(t, report.Missing)
	assert.True(t, res.Resolved())
}

func TestResolveRunsOnce(t *testing.T) {
	root, gold, _, _ := model()
	reg, err := NewRegistry(DefaultDescriptors(nil)...)
	require.NoError(t, err)
	res := NewResolver(reg, nil)

	first := res.Resolve(root)
	replaced := scene.NewStandardMaterial("user", lighting.Color{})
	gold.Material = replaced

	second := res.Resolve(root)

	assert.Same(t, replaced, gold.Material)
	assert.Equal(t, first, second)
}

func TestResolveReportsMissing(t *testing.T) {
	root := scene.NewGroup("root")
	root.Add(scene.NewMesh(GoldMesh, &scene.Geometry{}, nil))

	reg, err := NewRegistry(DefaultDescriptors(nil)...)
	require.NoError(t, err)

	report := NewResolver(reg, nil).Resolve(root)
	assert.Equal(t, []string{GoldMesh}, report.Applied)
	assert.Equal(t, []string{DiamondMesh}, report.Missing)
}

func TestResolveSkipsGroups(t *testing.T) {
	root := scene.NewGroup(GoldMesh)
	reg, err := NewRegistry(DefaultDescriptors(nil)...)
	require.NoError(t, err)

	report := NewResolver(reg, nil).Resolve(root)
	assert.Nil(t, root.Material)
	assert.Empty(t, report.Applied)
}

func TestDefaultMaterials(t *testing.T) {
	env := &scene.Texture{Name: "studio"}

	gold := Gold(env)
	assert.Equal(t, lighting.Hex(0xEBCA67), gold.Color)
	assert.Equal(t, float32(1), gold.Metalness)
	assert.Zero(t, gold.Roughness)
	assert.Equal(t, float32(1.2), gold.EnvMapIntensity)
	assert.Equal(t, float32(1), gold.Reflectivity)
	assert.Equal(t, float32(1), gold.Clearcoat)
	assert.Equal(t, float32(0.5), gold.ClearcoatRoughness)
	assert.False(t, gold.Transparent)
	assert.Same(t, env, gold.EnvMap)

	diamond := Diamond(env)
	assert.Equal(t, lighting.Hex(0xB30000), diamond.Color)
	assert.Equal(t, float32(0.8), diamond.Metalness)
	assert.True(t, diamond.Transparent)
	assert.Equal(t, float32(0.925), diamond.Opacity)
	assert.Equal(t, scene.DoubleSide, diamond.Side)
	assert.Equal(t, float32(2), diamond.EnvMapIntensity)
	assert.Equal(t, float32(2), diamond.Reflectivity)
	assert.Zero(t, diamond.ClearcoatRoughness)
	assert.Same(t, env, diamond.EnvMap)
}
