package willow3d

import (
	"fmt"
	"math"
	"reflect"
)

// ControlKind selects the widget a control presents.
type ControlKind uint8

const (
	ControlColor  ControlKind = iota // Color or 0xRRGGBB uint32 field
	ControlBool                      // bool field
	ControlFloat                     // float32 or float64 field with a Range
	ControlButton                    // func() field or standalone action
)

func (k ControlKind) String() string {
	switch k {
	case ControlColor:
		return "color"
	case ControlBool:
		return "bool"
	case ControlFloat:
		return "float"
	case ControlButton:
		return "button"
	}
	return fmt.Sprintf("ControlKind(%d)", uint8(k))
}

var (
	colorType  = reflect.TypeOf(Color{})
	actionType = reflect.TypeOf(func() {})
)

// Panel is a tree of labeled groups holding controls bound to struct fields.
// It is a model only; panelview.go lays it out and the host draws it.
type Panel struct {
	Title   string
	Visible bool
	root    *Group
	store   EntityStore
}

// NewPanel creates an empty, visible panel.
func NewPanel(title string) *Panel {
	p := &Panel{Title: title, Visible: true}
	p.root = &Group{Label: title, Open: true, panel: p}
	return p
}

// Root returns the top-level group. Its controls and sub-groups are laid
// out in the order they were added.
func (p *Panel) Root() *Group {
	return p.root
}

// AddGroup adds a collapsible group at the top level.
func (p *Panel) AddGroup(label string) *Group {
	return p.root.AddGroup(label)
}

// Group returns the first group with the given label anywhere in the tree.
func (p *Panel) Group(label string) *Group {
	return p.root.findGroup(label)
}

// Find returns the first control with the given label, searching depth-first.
func (p *Panel) Find(label string) *Control {
	return p.root.find(label)
}

// Group is a labeled, collapsible set of controls.
type Group struct {
	Label string
	Open  bool

	panel    *Panel
	parent   *Group
	controls []*Control
	groups   []*Group
	entries  []any // *Control or *Group, in insertion order
}

// AddGroup adds a nested group. New groups start open.
func (g *Group) AddGroup(label string) *Group {
	child := &Group{Label: label, Open: true, panel: g.panel, parent: g}
	g.groups = append(g.groups, child)
	g.entries = append(g.entries, child)
	return child
}

// Controls returns the group's controls in insertion order. The returned
// slice MUST NOT be mutated.
func (g *Group) Controls() []*Control {
	return g.controls
}

// Groups returns the nested groups in insertion order. The returned slice
// MUST NOT be mutated.
func (g *Group) Groups() []*Group {
	return g.groups
}

// Bind adds a control for the exported field of the struct target points to.
// r is only used by ControlFloat and must satisfy Min < Max.
func (g *Group) Bind(target any, field string, kind ControlKind, r Range) (*Control, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind %q: target must be a non-nil pointer to a struct, got %T", field, target)
	}
	fv := v.Elem().FieldByName(field)
	if !fv.IsValid() {
		return nil, fmt.Errorf("bind %q: no such field on %T", field, target)
	}
	if !fv.CanSet() {
		return nil, fmt.Errorf("bind %q: field is not settable", field)
	}

	ok := false
	switch kind {
	case ControlColor:
		ok = fv.Type() == colorType || fv.Kind() == reflect.Uint32
	case ControlBool:
		ok = fv.Kind() == reflect.Bool
	case ControlFloat:
		ok = fv.Kind() == reflect.Float32 || fv.Kind() == reflect.Float64
		if ok && !r.Valid() {
			return nil, &InvalidRangeError{Label: field, Min: r.Min, Max: r.Max}
		}
	case ControlButton:
		ok = fv.Type() == actionType
	}
	if !ok {
		return nil, fmt.Errorf("bind %q: %s control cannot bind field of type %s", field, kind, fv.Type())
	}

	c := &Control{kind: kind, label: field, rng: r, field: fv, group: g}
	g.controls = append(g.controls, c)
	g.entries = append(g.entries, c)
	return c, nil
}

// AddColor binds a color control.
func (g *Group) AddColor(target any, field string) (*Control, error) {
	return g.Bind(target, field, ControlColor, Range{})
}

// AddBool binds a checkbox.
func (g *Group) AddBool(target any, field string) (*Control, error) {
	return g.Bind(target, field, ControlBool, Range{})
}

// AddFloat binds a slider over [min, max] snapping to step.
func (g *Group) AddFloat(target any, field string, min, max, step float64) (*Control, error) {
	return g.Bind(target, field, ControlFloat, Range{Min: min, Max: max, Step: step})
}

// AddButton adds a button that runs action when pressed.
func (g *Group) AddButton(label string, action func()) *Control {
	c := &Control{kind: ControlButton, label: label, action: action, group: g}
	g.controls = append(g.controls, c)
	g.entries = append(g.entries, c)
	return c
}

func (g *Group) find(label string) *Control {
	for _, c := range g.controls {
		if c.label == label {
			return c
		}
	}
	for _, sub := range g.groups {
		if c := sub.find(label); c != nil {
			return c
		}
	}
	return nil
}

func (g *Group) findGroup(label string) *Group {
	for _, sub := range g.groups {
		if sub.Label == label {
			return sub
		}
		if found := sub.findGroup(label); found != nil {
			return found
		}
	}
	return nil
}

// Control is one bound widget. All mutation goes through SetValue or Press so
// the float range invariant holds and OnChange fires.
type Control struct {
	kind     ControlKind
	label    string
	rng      Range
	field    reflect.Value
	action   func()
	onChange func(value any)
	group    *Group
}

// Kind returns the control kind.
func (c *Control) Kind() ControlKind { return c.kind }

// Label returns the display label.
func (c *Control) Label() string { return c.label }

// Range returns the float range. Zero for other kinds.
func (c *Control) Range() Range { return c.rng }

// Name sets the display label and returns c for chaining.
func (c *Control) Name(label string) *Control {
	c.label = label
	return c
}

// OnChange registers fn to run synchronously after every SetValue, replacing
// any previous callback. fn receives a Color, bool or float64.
func (c *Control) OnChange(fn func(value any)) *Control {
	c.onChange = fn
	return c
}

// Value reads the bound field. Colors are returned as Color, floats as
// float64. Buttons return nil.
func (c *Control) Value() any {
	switch c.kind {
	case ControlColor:
		if c.field.Type() == colorType {
			return c.field.Interface().(Color)
		}
		return ColorFromHex(uint32(c.field.Uint()))
	case ControlBool:
		return c.field.Bool()
	case ControlFloat:
		return c.field.Float()
	}
	return nil
}

// SetValue writes v to the bound field and fires OnChange. Colors accept a
// Color or a 0xRRGGBB integer; floats accept any float or integer and are
// clamped and snapped to the control's range. Buttons are pressed.
func (c *Control) SetValue(v any) error {
	switch c.kind {
	case ControlColor:
		col, ok := toColor(v)
		if !ok {
			return fmt.Errorf("set %q: want color, got %T", c.label, v)
		}
		if c.field.Type() == colorType {
			c.field.Set(reflect.ValueOf(col))
		} else {
			c.field.SetUint(uint64(col.Hex()))
		}
	case ControlBool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("set %q: want bool, got %T", c.label, v)
		}
		c.field.SetBool(b)
	case ControlFloat:
		f, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("set %q: want number, got %T", c.label, v)
		}
		c.field.SetFloat(c.rng.Clamp(f))
		if c.field.Kind() == reflect.Float32 {
			c.field.SetFloat(float64(float32InRange(float32(c.field.Float()), c.rng)))
		}
	case ControlButton:
		c.Press()
		return nil
	}
	if c.onChange != nil {
		c.onChange(c.Value())
	}
	c.emit(EventValueChanged)
	return nil
}

// Press runs a button's action. No-op for other kinds.
func (c *Control) Press() {
	if c.kind != ControlButton {
		return
	}
	switch {
	case c.action != nil:
		c.action()
	case c.field.IsValid() && !c.field.IsNil():
		c.field.Interface().(func())()
	}
	c.emit(EventButtonPressed)
}

// float32InRange moves v to the nearest float32 inside r when rounding to
// float32 pushed it past a bound.
func float32InRange(v float32, r Range) float32 {
	if float64(v) > r.Max {
		v = float32(r.Max)
		if float64(v) > r.Max {
			v = math.Nextafter32(v, float32(math.Inf(-1)))
		}
	}
	if float64(v) < r.Min {
		v = float32(r.Min)
		if float64(v) < r.Min {
			v = math.Nextafter32(v, float32(math.Inf(1)))
		}
	}
	return v
}

func toColor(v any) (Color, bool) {
	switch x := v.(type) {
	case Color:
		return x, true
	case uint32:
		return ColorFromHex(x), true
	case int:
		return ColorFromHex(uint32(x)), true
	case int64:
		return ColorFromHex(uint32(x)), true
	case float64:
		return ColorFromHex(uint32(x)), true
	}
	return Color{}, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
