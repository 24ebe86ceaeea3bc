package willow3d

// EventType identifies a panel event.
type EventType uint8

const (
	EventValueChanged EventType = iota // a color, bool or float control was set
	EventButtonPressed                 // a button control was pressed
)

func (t EventType) String() string {
	switch t {
	case EventValueChanged:
		return "value-changed"
	case EventButtonPressed:
		return "button-pressed"
	}
	return "unknown"
}

// EntityStore is the interface for an optional ECS bridge. When set on a
// Panel, every control change is forwarded to it after the control's own
// OnChange callback has run.
type EntityStore interface {
	EmitEvent(event PanelEvent)
}

// PanelEvent carries one control change for the ECS bridge.
type PanelEvent struct {
	Type  EventType
	Group string // label of the group holding the control
	Label string
	Kind  ControlKind
	Value any // Color, bool or float64; nil for buttons
}

// SetEntityStore sets the optional ECS bridge. Pass nil to detach.
func (p *Panel) SetEntityStore(store EntityStore) {
	p.store = store
}

// SetEntityStore forwards panel events to store. Pass nil to detach.
func (s *Session) SetEntityStore(store EntityStore) {
	s.panel.SetEntityStore(store)
}

func (c *Control) emit(t EventType) {
	if c.group == nil || c.group.panel == nil || c.group.panel.store == nil {
		return
	}
	c.group.panel.store.EmitEvent(PanelEvent{
		Type:  t,
		Group: c.group.Label,
		Label: c.label,
		Kind:  c.kind,
		Value: c.Value(),
	})
}
