// Package scene provides the scene graph consumed by the renderer: groups,
// meshes, materials, textures and the scene-wide lighting environment.
package scene

import (
	"github.com/Faultbox/jewelbox/pkg/math"
)

// Kind distinguishes renderable nodes from pure transform groups.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
)

// Node is a transform in the scene graph. Mesh nodes carry geometry and a material.
type Node struct {
	Name     string
	Kind     Kind
	Position math.Vec3
	Rotation math.Vec3 // Euler XYZ, radians
	Scale    math.Vec3
	Visible  bool

	// Matrix, when set, replaces the Position/Rotation/Scale transform.
	Matrix *math.Mat4

	Geometry *Geometry
	Material *Material

	// Handle is owned by the renderer (GPU buffers for this node).
	Handle any

	parent   *Node
	children []*Node
}

// NewGroup creates an empty transform node.
func NewGroup(name string) *Node {
	return &Node{
		Name:    name,
		Kind:    KindGroup,
		Scale:   math.V3(1, 1, 1),
		Visible: true,
	}
}

// NewMesh creates a renderable node.
func NewMesh(name string, geometry *Geometry, material *Material) *Node {
	n := NewGroup(name)
	n.Kind = KindMesh
	n.Geometry = geometry
	n.Material = material
	return n
}

// IsMesh reports whether the node is renderable.
func (n *Node) IsMesh() bool {
	return n.Kind == KindMesh
}

// Add attaches children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child from n. Returns false if child was not attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Traverse visits n and all descendants depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips hidden subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.TraverseVisible(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	return math.TRS(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node transform in world space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}
