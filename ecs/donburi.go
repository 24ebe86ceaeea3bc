// Package ecs provides ECS adapters for willow3d.
package ecs

import (
	"github.com/phanxgames/willow3d"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PanelEventType is the Donburi event type for willow3d panel events.
// Subscribe to this in your ECS systems to receive control changes.
var PanelEventType = events.NewEventType[willow3d.PanelEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Panel events are published to PanelEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) willow3d.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event willow3d.PanelEvent) {
	PanelEventType.Publish(s.world, event)
}
