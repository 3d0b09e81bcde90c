package xr

// Scene is a presentable scene graph: a named root node that the interaction
// engine raycasts against and attaches controller visuals to. Switching rooms
// means presenting another Scene.
type Scene struct {
	Name string
	root *Node
}

// NewScene creates a new scene with a pre-created root group.
func NewScene(name string) *Scene {
	return &Scene{Name: name, root: NewGroup("root")}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// UpdateWorld refreshes world matrices for every dirty node in the scene.
func (s *Scene) UpdateWorld() {
	updateWorldMatrix(s.root, identityTransform, false)
}

// Add is shorthand for s.Root().AddChild(n).
func (s *Scene) Add(n *Node) {
	s.root.AddChild(n)
}

// Intersect refreshes world matrices and returns all hits along ray,
// nearest first.
func (s *Scene) Intersect(ray Ray) []Hit {
	s.UpdateWorld()
	return Intersect(ray, s.root)
}

// Static returns a SceneFunc that always reports s.
func (s *Scene) Static() SceneFunc {
	return func() *Scene { return s }
}
