package xr

import "github.com/go-gl/mathgl/mgl64"

// nodeIDCounter is a plain counter; xr is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element the interaction engine raycasts against.
// A single flat struct is used for groups, meshes and lines.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Position, Rotation and Scale compose into the local
	// matrix while MatrixAutoUpdate is true. When it is false the local matrix
	// is left as last set by SetMatrix (drag uses this).
	Position         Vec3
	Rotation         Quat
	Scale            Vec3
	MatrixAutoUpdate bool

	// Computed
	matrix         Mat4
	worldMatrix    Mat4
	transformDirty bool

	// Visibility & raycasting
	Visible bool
	// Raycastable=false removes the node and its subtree from intersection
	// results. Controller visuals use it to avoid self-occlusion.
	Raycastable bool

	// Geometry is nil for groups.
	Geometry *Geometry
	Color    Color

	// Interactions is the node's capability slot. A nil slot means the node
	// does not take part in interaction.
	Interactions *Interactable

	// Metadata
	UserData any
	EntityID uint32

	// Internal
	disposed bool
}

// nodeDefaults initializes identity transforms, visibility and a fresh ID.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Rotation = mgl64.QuatIdent()
	n.Scale = Vec3{1, 1, 1}
	n.MatrixAutoUpdate = true
	n.matrix = mgl64.Ident4()
	n.worldMatrix = mgl64.Ident4()
	n.Visible = true
	n.Raycastable = true
	n.Color = ColorWhite
	n.transformDirty = true
}

// NewGroup creates a node with no geometry.
func NewGroup(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewMesh creates a node that renders and raycasts against geo.
func NewMesh(name string, geo *Geometry) *Node {
	n := &Node{Name: name, Geometry: geo}
	nodeDefaults(n)
	return n
}

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("xr: cannot add nil child")
	}
	if nodeChecks {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("xr: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if nodeChecks {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("xr: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the node's children in insertion order. Callers must
// not modify the slice.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren reports how many children n has.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// FindByName returns the first node named name in this subtree (depth first),
// or nil.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// IsDescendantOf reports whether root is n or one of n's ancestors.
func (n *Node) IsDescendantOf(root *Node) bool {
	if root == nil {
		return false
	}
	return isAncestor(root, n)
}

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Geometry = nil
	n.Interactions = nil
	n.UserData = nil
}

// IsDisposed reports whether Dispose was called on n or an ancestor.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr unlinks child from n.children; child.Parent is left for
// the caller.
// The vacated tail slot is cleared so the backing array drops the pointer.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty flags node and every descendant for a world matrix
// recompute.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// interactiveOwner returns n or its nearest ancestor carrying a capability slot.
func interactiveOwner(n *Node) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Interactions != nil {
			return p
		}
	}
	return nil
}

// reachable reports whether n is still attached under root and not disposed.
func reachable(n, root *Node) bool {
	if n == nil || n.disposed || root == nil {
		return false
	}
	return isAncestor(root, n)
}
