package ecs

import (
	"github.com/phanxgames/xr"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for xr interaction events.
// Subscribe to this in your ECS systems to receive hover, select and drag
// events.
var InteractionEventType = events.NewEventType[xr.InteractionEvent]()

// InteractionState counts the open interactions on an entity's node, one per
// input source. Attach it to entities that should track them.
type InteractionState struct {
	Hovers     int
	Selections int
	Drags      int
}

// Hovered reports whether at least one source hovers the node.
func (s InteractionState) Hovered() bool { return s.Hovers > 0 }

// Held reports whether at least one source has the node selected.
func (s InteractionState) Held() bool { return s.Selections > 0 }

// InteractionStateComponent is the component type for InteractionState.
var InteractionStateComponent = donburi.NewComponentType[InteractionState]()

// Store is an xr.EntityStore backed by a Donburi world. Nodes are linked to
// entities with Link; their interaction events are published to
// InteractionEventType and can be consumed with events.Subscribe and
// ProcessEvents.
type Store struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
	nextID   uint32
}

// NewDonburiStore creates a Store publishing into world.
func NewDonburiStore(world donburi.World) *Store {
	return &Store{world: world, entities: make(map[uint32]donburi.Entity)}
}

// Link associates n with entity by giving n a fresh EntityID.
func (s *Store) Link(n *xr.Node, entity donburi.Entity) {
	s.nextID++
	n.EntityID = s.nextID
	s.entities[n.EntityID] = entity
}

// Unlink removes n's association and clears its EntityID.
func (s *Store) Unlink(n *xr.Node) {
	delete(s.entities, n.EntityID)
	n.EntityID = 0
}

// Entity returns the entity linked to id.
func (s *Store) Entity(id uint32) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return 0, false
	}
	return e, true
}

// EmitEvent publishes event to the world.
func (s *Store) EmitEvent(event xr.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// TrackInteractions subscribes a handler that keeps InteractionState
// up to date on linked entities carrying the component. Counts change when
// the world's events are processed.
func (s *Store) TrackInteractions() {
	InteractionEventType.Subscribe(s.world, func(w donburi.World, e xr.InteractionEvent) {
		entity, ok := s.Entity(e.EntityID)
		if !ok {
			return
		}
		entry := w.Entry(entity)
		if !entry.HasComponent(InteractionStateComponent) {
			return
		}
		st := InteractionStateComponent.Get(entry)
		switch e.Type {
		case xr.EventHoverStart:
			st.Hovers++
		case xr.EventHoverEnd:
			st.Hovers = max(st.Hovers-1, 0)
		case xr.EventSelectStart:
			st.Selections++
		case xr.EventSelectEnd:
			st.Selections = max(st.Selections-1, 0)
		case xr.EventDragStart:
			st.Drags++
		case xr.EventDragEnd:
			st.Drags = max(st.Drags-1, 0)
		}
	})
}
