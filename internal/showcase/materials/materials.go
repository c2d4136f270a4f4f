// Package materials binds loaded sub-meshes to declared materials by name.
package materials

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/lighting"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/logger"
)

// Names of the sub-meshes in the showcase model.
const (
	GoldMesh    = "Object_3"
	DiamondMesh = "Object_2"
)

var (
	ErrEmptyName     = errors.New("materials: empty match name")
	ErrNilMaterial   = errors.New("materials: nil material")
	ErrDuplicateName = errors.New("materials: duplicate match name")
)

// Descriptor assigns Material to every mesh named MatchName.
type Descriptor struct {
	MatchName string
	Material  *scene.Material
}

// Registry is an immutable set of descriptors keyed by match name.
type Registry struct {
	byName map[string]*scene.Material
}

// NewRegistry validates descs and indexes them by name.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]*scene.Material, len(descs))}
	for _, d := range descs {
		switch {
		case d.MatchName == "":
			return nil, ErrEmptyName
		case d.Material == nil:
			return nil, fmt.Errorf("%w: %q", ErrNilMaterial, d.MatchName)
		}
		if _, dup := r.byName[d.MatchName]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, d.MatchName)
		}
		r.byName[d.MatchName] = d.Material
	}
	return r, nil
}

// Lookup returns the material registered for name.
func (r *Registry) Lookup(name string) (*scene.Material, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Report lists the outcome of a resolution.
type Report struct {
	// Applied holds the names of the meshes that received a material, in
	// traversal order. A name appears once per matching mesh.
	Applied []string
	// Missing holds registered names no mesh matched, sorted.
	Missing []string
}

// Resolver applies a registry to a loaded model exactly once.
type Resolver struct {
	registry *Registry
	log      *zap.Logger
	resolved bool
	report   Report
}

// NewResolver returns a resolver for r.
func NewResolver(r *Registry, log *zap.Logger) *Resolver {
	return &Resolver{registry: r, log: logger.OrNop(log)}
}

// Resolve walks root and replaces the material of every mesh whose name is
// registered. Unmatched meshes keep their loaded material. Only the first
// call has an effect; later calls return the first report.
func (r *Resolver) Resolve(root *scene.Node) Report {
	if r.resolved || root == nil {
		return r.report
	}
	r.resolved = true

	matched := make(map[string]bool, r.registry.Len())
	root.Traverse(func(n *scene.Node) {
		if !n.IsMesh() {
			return
		}
		m, ok := r.registry.Lookup(n.Name)
		if !ok {
			return
		}
		n.Material = m
		matched[n.Name] = true
		r.report.Applied = append(r.report.Applied, n.Name)
	})

	for _, name := range r.registry.Names() {
		if !matched[name] {
			r.report.Missing = append(r.report.Missing, name)
		}
	}

	if len(r.report.Missing) > 0 {
		r.log.Warn("model is missing named meshes", zap.Strings("names", r.report.Missing))
	}
	r.log.Info("materials resolved", zap.Int("applied", len(r.report.Applied)))
	return r.report
}

// Resolved reports whether Resolve has run.
func (r *Resolver) Resolved() bool {
	return r.resolved
}

// Gold returns the polished gold setting material.
func Gold(env *scene.Texture) *scene.Material {
	m := scene.NewStandardMaterial("gold", lighting.Hex(0xEBCA67))
	m.Metalness = 1
	m.Roughness = 0
	m.EnvMap = env
	m.EnvMapIntensity = 1.2
	m.Reflectivity = 1
	m.Clearcoat = 1
	m.ClearcoatRoughness = 0.5
	return m
}

// Diamond returns the translucent red stone material.
func Diamond(env *scene.Texture) *scene.Material {
	m := scene.NewStandardMaterial("diamond", lighting.Hex(0xB30000))
	m.Metalness = 0.8
	m.Roughness = 0
	m.Transparent = true
	m.Opacity = 0.925
	m.Side = scene.DoubleSide
	m.EnvMap = env
	m.EnvMapIntensity = 2
	m.Reflectivity = 2
	m.Clearcoat = 1
	m.ClearcoatRoughness = 0
	return m
}

// DefaultDescriptors returns the gold and diamond bindings, reflecting env.
// env may be nil when the environment failed to load.
func DefaultDescriptors(env *scene.Texture) []Descriptor {
	return []Descriptor{
		{MatchName: GoldMesh, Material: Gold(env)},
		{MatchName: DiamondMesh, Material: Diamond(env)},
	}
}
