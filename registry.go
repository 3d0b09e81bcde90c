package xr

// Registry tracks the live input sources of a session and owns one
// Controller per source. Sources are kept in the order they appeared so
// every pass over them is deterministic.
type Registry struct {
	opts        ControllerOptions
	sources     []*InputSource
	controllers map[*InputSource]*Controller
	bound       *Node
	log         *debugLogger
}

// NewRegistry creates an empty registry whose controllers use opts.
func NewRegistry(opts ControllerOptions) *Registry {
	return &Registry{
		opts:        opts,
		controllers: make(map[*InputSource]*Controller),
		log:         &debugLogger{},
	}
}

// Sync diffs current against the tracked set. Every tracked source missing
// from current is passed to release (which must close its interaction
// state) and then has its controller torn down. Every new source gets a
// controller bound to the current root. Duplicate and nil entries in current
// are ignored.
func (r *Registry) Sync(current []*InputSource, release func(*InputSource)) (added, removed []*InputSource) {
	live := make(map[*InputSource]struct{}, len(current))
	for _, src := range current {
		if src != nil {
			live[src] = struct{}{}
		}
	}

	// Snapshot before mutating r.sources.
	for _, src := range r.Sources() {
		if _, ok := live[src]; ok {
			continue
		}
		r.Remove(src, release)
		removed = append(removed, src)
	}

	for _, src := range current {
		if src == nil {
			continue
		}
		if _, ok := r.controllers[src]; ok {
			continue
		}
		r.Add(src)
		added = append(added, src)
	}
	return added, removed
}

// Add starts tracking src and returns its controller. Adding a tracked
// source returns the existing controller.
func (r *Registry) Add(src *InputSource) *Controller {
	if c, ok := r.controllers[src]; ok {
		return c
	}
	c := NewController(src, r.opts)
	r.controllers[src] = c
	r.sources = append(r.sources, src)
	if r.bound != nil {
		c.Bind(r.bound)
	}
	r.log.printf("input source added: %q (%s)", src.Name, src.Mode)
	return c
}

// Remove stops tracking src: release runs first (if non-nil), then the
// controller is disposed. No-op for untracked sources.
func (r *Registry) Remove(src *InputSource, release func(*InputSource)) {
	c, ok := r.controllers[src]
	if !ok {
		return
	}
	if release != nil {
		release(src)
	}
	c.Dispose()
	delete(r.controllers, src)
	for i, s := range r.sources {
		if s == src {
			copy(r.sources[i:], r.sources[i+1:])
			r.sources[len(r.sources)-1] = nil
			r.sources = r.sources[:len(r.sources)-1]
			break
		}
	}
	r.log.printf("input source removed: %q", src.Name)
}

// Clear removes every source in tracking order.
func (r *Registry) Clear(release func(*InputSource)) {
	for _, src := range r.Sources() {
		r.Remove(src, release)
	}
}

// Sources returns a copy of the tracked sources in the order they appeared.
func (r *Registry) Sources() []*InputSource {
	out := make([]*InputSource, len(r.sources))
	copy(out, r.sources)
	return out
}

// Controller returns src's controller, or nil if src is not tracked.
func (r *Registry) Controller(src *InputSource) *Controller {
	return r.controllers[src]
}

// Len returns the number of tracked sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

// Bind attaches every controller to root. Later additions bind to it too.
func (r *Registry) Bind(root *Node) {
	if r.bound == root {
		return
	}
	r.Unbind()
	r.bound = root
	if root == nil {
		return
	}
	for _, src := range r.sources {
		r.controllers[src].Bind(root)
	}
}

// Unbind detaches every controller from its scene.
func (r *Registry) Unbind() {
	for _, src := range r.sources {
		r.controllers[src].Unbind()
	}
	r.bound = nil
}

// Bound returns the root controllers are bound to, or nil.
func (r *Registry) Bound() *Node {
	return r.bound
}
