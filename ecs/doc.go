// Package ecs provides ECS adapters for xr's interaction event system.
//
// The primary adapter is [NewDonburiStore], which bridges xr interaction
// events (hover, select, drag) into a [Donburi] world as typed events.
// Subscribe to [InteractionEventType] in your ECS systems to receive them,
// or call [Store.TrackInteractions] to keep an [InteractionState] component
// current on linked entities.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	store.Link(node, world.Create(ecs.InteractionStateComponent))
//	store.TrackInteractions()
//	ix.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
