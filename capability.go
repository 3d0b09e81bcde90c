package xr

// --- Callback contexts ---

// HoverContext carries hover event data. Hit is nil for hover_end and for
// hovers closed by forced cleanup.
type HoverContext struct {
	Node   *Node
	Source *InputSource
	Hit    *Hit

	log *debugLogger
}

// SelectContext carries select event data. For select, a nil Hit means the
// pointer was no longer over the selected node when the select ended.
type SelectContext struct {
	Node   *Node
	Source *InputSource
	Hit    *Hit

	log *debugLogger
}

// DragContext carries drag event data. Pointer is the input source's current
// target-ray pose. State is nil for drag_start.
type DragContext struct {
	Node    *Node
	Source  *InputSource
	Pointer Mat4
	Hit     *Hit
	State   *DragState

	log *debugLogger
}

// DragState is the record kept for an active drag: the dragged node, its
// world pose relative to the pointer at drag start, and the node's
// MatrixAutoUpdate flag before the drag began.
type DragState struct {
	Node            *Node
	Offset          Mat4
	PriorAutoUpdate bool

	pointer Mat4          // last pointer pose seen by the drag
	slot    *Interactable // slot the drag started with
}

// --- Capability slot ---

// Interactable is a node's capability slot. Every field is optional; an
// unset field resolves to a default when the engine looks it up. Hover has
// no default and is only called when set.
type Interactable struct {
	Hover      func(HoverContext)
	HoverStart func(HoverContext)
	HoverEnd   func(HoverContext)

	Select      func(SelectContext)
	SelectStart func(SelectContext)
	SelectEnd   func(SelectContext)

	// DragStart returns the drag record. Only Offset is taken from the
	// result; the engine fills in the node and the prior auto-update flag.
	// A zero Offset is replaced by the default pointer-relative offset.
	DragStart func(DragContext) DragState
	Drag      func(DragContext)
	DragEnd   func(DragContext)
}

// Draggable reports whether any drag capability is present. Selecting a
// draggable node starts a drag.
func (c *Interactable) Draggable() bool {
	return c != nil && (c.Drag != nil || c.DragStart != nil || c.DragEnd != nil)
}

// The accessors below are nil-receiver safe; a nil slot resolves to the
// defaults.

func (c *Interactable) hover() func(HoverContext) {
	if c == nil {
		return nil
	}
	return c.Hover
}

func (c *Interactable) hoverStart() func(HoverContext) {
	if c != nil && c.HoverStart != nil {
		return c.HoverStart
	}
	return defaultHoverStart
}

func (c *Interactable) hoverEnd() func(HoverContext) {
	if c != nil && c.HoverEnd != nil {
		return c.HoverEnd
	}
	return defaultHoverEnd
}

func (c *Interactable) selectFn() func(SelectContext) {
	if c != nil && c.Select != nil {
		return c.Select
	}
	return defaultSelect
}

func (c *Interactable) selectStart() func(SelectContext) {
	if c != nil && c.SelectStart != nil {
		return c.SelectStart
	}
	return defaultSelectStart
}

func (c *Interactable) selectEnd() func(SelectContext) {
	if c != nil && c.SelectEnd != nil {
		return c.SelectEnd
	}
	return defaultSelectEnd
}

func (c *Interactable) dragStart() func(DragContext) DragState {
	if c != nil && c.DragStart != nil {
		return c.DragStart
	}
	return DefaultDragStart
}

func (c *Interactable) drag() func(DragContext) {
	if c != nil && c.Drag != nil {
		return c.Drag
	}
	return DefaultDrag
}

func (c *Interactable) dragEnd() func(DragContext) {
	if c != nil && c.DragEnd != nil {
		return c.DragEnd
	}
	return defaultDragEnd
}

// --- Defaults ---

func defaultHoverStart(ctx HoverContext) {
	ctx.log.defaultUsed("hover_start", ctx.Node)
}

func defaultHoverEnd(ctx HoverContext) {
	ctx.log.defaultUsed("hover_end", ctx.Node)
}

func defaultSelect(ctx SelectContext) {
	ctx.log.defaultUsed("select", ctx.Node)
}

func defaultSelectStart(ctx SelectContext) {
	ctx.log.defaultUsed("select_start", ctx.Node)
}

func defaultSelectEnd(ctx SelectContext) {
	ctx.log.defaultUsed("select_end", ctx.Node)
}

// Auto-update is restored by the dispatcher, not here.
func defaultDragEnd(ctx DragContext) {
	ctx.log.defaultUsed("drag_end", ctx.Node)
}

// DefaultDragStart captures the node's world pose relative to the pointer
// and disables automatic matrix updates on the node. Custom DragStart
// callbacks can call it and adjust the result.
func DefaultDragStart(ctx DragContext) DragState {
	n := ctx.Node
	state := DragState{
		Node:            n,
		Offset:          ctx.Pointer.Inv().Mul4(n.worldMatrix),
		PriorAutoUpdate: n.MatrixAutoUpdate,
	}
	n.MatrixAutoUpdate = false
	return state
}

// DefaultDrag moves the node so it keeps the pose captured at drag start
// relative to the pointer, and marks its world matrix dirty.
func DefaultDrag(ctx DragContext) {
	if ctx.State == nil {
		return
	}
	n := ctx.Node
	world := ctx.Pointer.Mul4(ctx.State.Offset)
	if n.Parent != nil {
		world = n.Parent.worldMatrix.Inv().Mul4(world)
	}
	n.SetMatrix(world)
}
