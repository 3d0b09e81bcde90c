package xr

// EntityStore is the interface for optional ECS integration.
// When set on Interactions, every interaction event is forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent describes one capability invocation. It is delivered to
// scene-level observers and to the EntityStore after the node's own
// callback (or its default) has run.
type InteractionEvent struct {
	Type     EventType
	Node     *Node
	EntityID uint32
	Source   *InputSource
	// Hit is nil for end events, forced cleanup, and a select that ended
	// off the selected node.
	Hit *Hit
	// Forced is true when the event was fired by cleanup (source removed,
	// session ended, node gone) rather than by input.
	Forced bool
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(InteractionEvent)
}

type handlerRegistry struct {
	byType [eventTypeCount][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered observer.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

func (r *handlerRegistry) add(event EventType, fn func(InteractionEvent)) CallbackHandle {
	if event >= eventTypeCount || fn == nil {
		return CallbackHandle{}
	}
	r.nextID++
	id := r.nextID
	r.byType[event] = append(r.byType[event], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: event}
}

// emit runs observers for e.Type, then forwards e to store.
func (r *handlerRegistry) emit(e InteractionEvent, store EntityStore) {
	if e.Node != nil {
		e.EntityID = e.Node.EntityID
	}
	// Snapshot: observers may remove themselves.
	hs := r.byType[e.Type]
	if len(hs) > 0 {
		snapshot := make([]eventHandler, len(hs))
		copy(snapshot, hs)
		for _, h := range snapshot {
			h.fn(e)
		}
	}
	if store != nil && e.EntityID != 0 {
		store.EmitEvent(e)
	}
}
