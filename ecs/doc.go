// Package ecs provides ECS adapters for willow3d's panel events.
//
// The primary adapter is [NewDonburiStore], which bridges control changes
// and button presses from a willow3d panel into a [Donburi] world as typed
// events. Subscribe to [PanelEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	session.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
