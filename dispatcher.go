package xr

// Dispatcher owns the per-source hover, selection and drag state and runs
// the interaction state machine. It is driven by two triggers: UpdateSource
// once per frame per tracked source, and SelectStart/SelectEnd when the
// session signals a primary action. All methods must be called from the
// same goroutine.
type Dispatcher struct {
	hovered  map[*InputSource]entry
	selected map[*InputSource]entry
	drags    map[*InputSource]*DragState

	raycaster *Raycaster
	handlers  handlerRegistry
	store     EntityStore
	log       *debugLogger
}

// entry is an open hover or selection. The slot is captured when the entry
// opens and closes it, even if the node's slot is cleared in between.
type entry struct {
	node *Node
	slot *Interactable
}

// NewDispatcher creates a dispatcher with empty state.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		hovered:   make(map[*InputSource]entry),
		selected:  make(map[*InputSource]entry),
		drags:     make(map[*InputSource]*DragState),
		raycaster: NewRaycaster(),
		log:       &debugLogger{},
	}
}

// On registers a scene-level observer for event. Observers run after the
// node's own callback or its default.
func (d *Dispatcher) On(event EventType, fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.add(event, fn)
}

// SetEntityStore sets the optional ECS bridge.
func (d *Dispatcher) SetEntityStore(store EntityStore) {
	d.store = store
}

// SetDebugMode enables or disables debug logging for this dispatcher only.
func (d *Dispatcher) SetDebugMode(enabled bool) {
	d.log.enabled = enabled
}

// Raycaster returns the raycaster used for picking, so callers can adjust
// Near and Far.
func (d *Dispatcher) Raycaster() *Raycaster {
	return d.raycaster
}

// --- State queries ---

// Hovered returns the node src is hovering, or nil.
func (d *Dispatcher) Hovered(src *InputSource) *Node {
	return d.hovered[src].node
}

// Selected returns the node src has selected, or nil.
func (d *Dispatcher) Selected(src *InputSource) *Node {
	return d.selected[src].node
}

// Dragging returns src's active drag record, or nil.
func (d *Dispatcher) Dragging(src *InputSource) *DragState {
	return d.drags[src]
}

// Counts returns the number of open hover, selection and drag entries.
func (d *Dispatcher) Counts() (hovers, selections, drags int) {
	return len(d.hovered), len(d.selected), len(d.drags)
}

// --- Picking ---

// Pick returns the nearest interactive hit for src. While src holds a
// selection whose node is still under root, only that node's subtree is
// queried so the pointer cannot drift onto another object, and the hit's
// Target is the selected node even when a nested node with its own slot was
// struck.
func (d *Dispatcher) Pick(src *InputSource, ray Ray, root *Node) *Hit {
	if sel, ok := d.selected[src]; ok && reachable(sel.node, root) {
		hit := d.raycaster.Nearest(ray, sel.node)
		if hit != nil {
			hit.Target = sel.node
		}
		return hit
	}
	return d.raycaster.Nearest(ray, root)
}

// --- Frame trigger ---

// UpdateSource runs the per-frame transition for src and returns the hit the
// controller view should display. A selection whose node left the scene is
// closed first, through the same path as a select end.
func (d *Dispatcher) UpdateSource(src *InputSource, ray Ray, root *Node) *Hit {
	if sel, ok := d.selected[src]; ok && !reachable(sel.node, root) {
		d.log.printf("source %q: selected node %q is gone, ending selection", src.Name, sel.node.Name)
		d.endSelection(src, nil, root, true, true)
	}

	hit := d.Pick(src, ray, root)

	if _, ok := d.selected[src]; ok {
		// Dragging follows the pointer whether or not the ray still hits.
		if st := d.drags[src]; st != nil {
			d.fireDrag(src, st, ray.Matrix)
		}
		return hit
	}

	var target *Node
	if hit != nil {
		target = hit.Target
	}
	d.transitionHover(src, target, hit)
	if target != nil {
		d.fireHover(src, target, hit)
	}
	return hit
}

// transitionHover moves src's hover entry to target, ending the previous
// hover before starting the new one.
func (d *Dispatcher) transitionHover(src *InputSource, target *Node, hit *Hit) {
	prev, ok := d.hovered[src]
	if ok && prev.node == target {
		return
	}
	if ok {
		delete(d.hovered, src)
		d.fireHoverEnd(src, prev, false)
	}
	if target != nil {
		e := entry{node: target, slot: target.Interactions}
		d.hovered[src] = e
		d.fireHoverStart(src, e, hit)
	}
}

// --- Signal trigger ---

// SelectStart handles a select-start signal from src. The ray is tested
// against the whole scene. On a hit the node is hovered (if it was not
// already), selected, and, if it exposes any drag capability, dragged.
// Nothing happens on a miss or when src already holds a selection.
func (d *Dispatcher) SelectStart(src *InputSource, ray Ray, root *Node) {
	if _, ok := d.selected[src]; ok {
		return
	}
	hit := d.raycaster.Nearest(ray, root)
	if hit == nil {
		return
	}
	target := hit.Target
	slot := target.Interactions
	d.transitionHover(src, target, hit)

	slot.selectStart()(SelectContext{Node: target, Source: src, Hit: hit, log: d.log})
	d.emit(InteractionEvent{Type: EventSelectStart, Node: target, Source: src, Hit: hit})
	d.selected[src] = entry{node: target, slot: slot}

	if !slot.Draggable() {
		return
	}
	prior := target.MatrixAutoUpdate
	if other := d.dragOf(target, src); other != nil {
		// Another source already turned auto-update off.
		prior = other.PriorAutoUpdate
	}
	ctx := DragContext{Node: target, Source: src, Pointer: ray.Matrix, Hit: hit, log: d.log}
	state := slot.dragStart()(ctx)
	if state.Offset == (Mat4{}) {
		state.Offset = ray.Matrix.Inv().Mul4(target.worldMatrix)
	}
	state.Node = target
	state.PriorAutoUpdate = prior
	state.pointer = ray.Matrix
	state.slot = slot
	target.MatrixAutoUpdate = false
	d.drags[src] = &state
	d.emit(InteractionEvent{Type: EventDragStart, Node: target, Source: src, Hit: hit})
}

// SelectEnd handles a select-end signal from src. An active drag ends first
// (auto-update restored, drag_end), then the selection (select_end, select).
// select receives the hit only when the ray, tested against the whole scene,
// still lands on the selected node; otherwise it receives nil. ray may be
// nil when the pose could not be resolved.
func (d *Dispatcher) SelectEnd(src *InputSource, ray *Ray, root *Node) {
	d.endSelection(src, ray, root, true, false)
}

// Release force-closes every open entry for src in the order drag, select,
// hover. Each _end callback fires exactly once; select does not fire.
func (d *Dispatcher) Release(src *InputSource) {
	d.endSelection(src, nil, nil, false, true)
	if prev, ok := d.hovered[src]; ok {
		delete(d.hovered, src)
		d.fireHoverEnd(src, prev, true)
	}
}

// Sources returns every source holding at least one entry, in no
// particular order.
func (d *Dispatcher) Sources() []*InputSource {
	seen := make(map[*InputSource]struct{}, len(d.hovered))
	var out []*InputSource
	add := func(src *InputSource) {
		if _, ok := seen[src]; !ok {
			seen[src] = struct{}{}
			out = append(out, src)
		}
	}
	for src := range d.drags {
		add(src)
	}
	for src := range d.selected {
		add(src)
	}
	for src := range d.hovered {
		add(src)
	}
	return out
}

func (d *Dispatcher) endSelection(src *InputSource, ray *Ray, root *Node, fireSelect, forced bool) {
	if st, ok := d.drags[src]; ok {
		delete(d.drags, src)
		if d.dragOf(st.Node, src) == nil {
			st.Node.MatrixAutoUpdate = st.PriorAutoUpdate
		}
		st.Node.MarkDirty()
		pointer := st.pointer
		if ray != nil {
			pointer = ray.Matrix
		}
		st.slot.dragEnd()(DragContext{Node: st.Node, Source: src, Pointer: pointer, State: st, log: d.log})
		d.emit(InteractionEvent{Type: EventDragEnd, Node: st.Node, Source: src, Forced: forced})
	}

	sel, ok := d.selected[src]
	if !ok {
		return
	}
	delete(d.selected, src)

	// A hit on a nested node inside the selection still counts as over it.
	var hit *Hit
	if ray != nil && root != nil {
		if h := d.raycaster.Nearest(*ray, root); h != nil && h.Node.IsDescendantOf(sel.node) {
			h.Target = sel.node
			hit = h
		}
	}
	n := sel.node
	sel.slot.selectEnd()(SelectContext{Node: n, Source: src, Hit: hit, log: d.log})
	d.emit(InteractionEvent{Type: EventSelectEnd, Node: n, Source: src, Hit: hit, Forced: forced})
	if !fireSelect {
		return
	}
	sel.slot.selectFn()(SelectContext{Node: n, Source: src, Hit: hit, log: d.log})
	d.emit(InteractionEvent{Type: EventSelect, Node: n, Source: src, Hit: hit, Forced: forced})
}

// dragOf returns a drag of n held by a source other than src, or nil.
func (d *Dispatcher) dragOf(n *Node, src *InputSource) *DragState {
	for s, st := range d.drags {
		if s != src && st.Node == n {
			return st
		}
	}
	return nil
}

// --- Event dispatch ---

func (d *Dispatcher) fireHoverStart(src *InputSource, e entry, hit *Hit) {
	e.slot.hoverStart()(HoverContext{Node: e.node, Source: src, Hit: hit, log: d.log})
	d.emit(InteractionEvent{Type: EventHoverStart, Node: e.node, Source: src, Hit: hit})
}

func (d *Dispatcher) fireHover(src *InputSource, n *Node, hit *Hit) {
	if fn := n.Interactions.hover(); fn != nil {
		fn(HoverContext{Node: n, Source: src, Hit: hit, log: d.log})
	}
	d.emit(InteractionEvent{Type: EventHover, Node: n, Source: src, Hit: hit})
}

func (d *Dispatcher) fireHoverEnd(src *InputSource, e entry, forced bool) {
	e.slot.hoverEnd()(HoverContext{Node: e.node, Source: src, log: d.log})
	d.emit(InteractionEvent{Type: EventHoverEnd, Node: e.node, Source: src, Forced: forced})
}

func (d *Dispatcher) fireDrag(src *InputSource, st *DragState, pointer Mat4) {
	st.pointer = pointer
	st.slot.drag()(DragContext{Node: st.Node, Source: src, Pointer: pointer, State: st, log: d.log})
	d.emit(InteractionEvent{Type: EventDrag, Node: st.Node, Source: src})
}

func (d *Dispatcher) emit(e InteractionEvent) {
	d.handlers.emit(e, d.store)
}
