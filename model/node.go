// Package model defines the typed node graph reconstructed from a flattened
// Perspective view document, the visitor protocol over it, and the builder
// that performs the reconstruction.
package model

import (
	"github.com/viewlint/viewlint/flatten"
)

// Node is the closed sum of view model variants. A node is immutable once the
// builder returns; rules read it concurrently without locking.
type Node interface {
	Path() flatten.Path
	Kind() Kind
	Parent() Node
	// Ordinal is the node's position in the fixed pre-order traversal and
	// defines diagnostic ordering.
	Ordinal() int
	Accept(v Visitor) error
}

type base struct {
	path    flatten.Path
	parent  Node
	ordinal int
}

func (b *base) Path() flatten.Path { return b.path }
func (b *base) Parent() Node       { return b.parent }
func (b *base) Ordinal() int       { return b.ordinal }

// indexable is satisfied by every node through the embedded base.
type indexable interface{ setIndex(ord int, parent Node) }

func (b *base) setIndex(ord int, parent Node) {
	b.ordinal = ord
	b.parent = parent
}

// Component is one element of the view's component tree.
type Component struct {
	base
	// Name comes from the meta.name discriminator; the root component is
	// conventionally named "root".
	Name string
	// Type is the component type id, for example "ia.display.label".
	Type string
	// Props holds the component's plain leaf attributes in source order.
	Props *Attrs
	// Children holds child components in source array order.
	Children []*Component

	owned []Node // properties, bindings, scripts, event handlers in source order
}

func (*Component) Kind() Kind { return KindComponent }

// Owned returns the directly owned non-component nodes in source order.
func (c *Component) Owned() []Node { return c.owned }

// Bindings returns the component's bindings in source order.
func (c *Component) Bindings() []Binding {
	var out []Binding
	for _, n := range c.owned {
		if b, ok := n.(Binding); ok {
			out = append(out, b)
		}
	}
	return out
}

// EventHandlers returns the component's event handlers in source order.
func (c *Component) EventHandlers() []*EventHandler {
	var out []*EventHandler
	for _, n := range c.owned {
		if h, ok := n.(*EventHandler); ok {
			out = append(out, h)
		}
	}
	return out
}

// Properties returns the component's custom/param property nodes.
func (c *Component) Properties() []*Property {
	var out []*Property
	for _, n := range c.owned {
		if p, ok := n.(*Property); ok {
			out = append(out, p)
		}
	}
	return out
}

// Binding is implemented by the three binding variants.
type Binding interface {
	Node
	// BoundProperty is the component property path the binding feeds, taken
	// from the propConfig key (for example "props.text").
	BoundProperty() string
	// BindingConfig holds config leaves not claimed by the variant field.
	BindingConfig() *Attrs
	// Transforms returns the binding's transform scripts in source order.
	Transforms() []*TransformScript
}

// BindingBase carries the fields shared by all binding variants.
type BindingBase struct {
	base
	Prop       string
	Config     *Attrs
	transforms []*TransformScript
}

func (b *BindingBase) BoundProperty() string          { return b.Prop }
func (b *BindingBase) BindingConfig() *Attrs          { return b.Config }
func (b *BindingBase) Transforms() []*TransformScript { return b.transforms }

// ExpressionBinding sources a property from an expression.
type ExpressionBinding struct {
	BindingBase
	Expression string
}

func (*ExpressionBinding) Kind() Kind { return KindExpressionBinding }

// PropertyBinding sources a property from another property.
type PropertyBinding struct {
	BindingBase
	TargetPath string
}

func (*PropertyBinding) Kind() Kind { return KindPropertyBinding }

// TagBinding sources a property from an external tag.
type TagBinding struct {
	BindingBase
	TagPath string
}

func (*TagBinding) Kind() Kind { return KindTagBinding }

// Script is implemented by the four embedded-script variants.
type Script interface {
	Node
	// Body is the raw script text as stored in the view.
	ScriptBody() string
	// FormattedBody wraps the raw body into a syntactically complete,
	// independently analyzable unit with the variant's parameters bound.
	FormattedBody() string
}

// ScriptBase carries the raw body shared by all script variants.
type ScriptBase struct {
	base
	Body string
}

func (s *ScriptBase) ScriptBody() string { return s.Body }

// MessageHandlerScript runs when the component receives a message.
type MessageHandlerScript struct {
	ScriptBase
	MessageType string
	// Scopes lists the enabled listen scopes (page, session, view).
	Scopes []string
}

func (*MessageHandlerScript) Kind() Kind { return KindMessageHandlerScript }

// CustomMethodScript is a user-defined method on the component.
type CustomMethodScript struct {
	ScriptBase
	MethodName string
	Params     []string
}

func (*CustomMethodScript) Kind() Kind { return KindCustomMethodScript }

// TransformScript post-processes a binding's value.
type TransformScript struct {
	ScriptBase
	// BindingPath is the owning binding's path.
	BindingPath flatten.Path
}

func (*TransformScript) Kind() Kind { return KindTransformScript }

// EventHandlerScript runs in response to a component event.
type EventHandlerScript struct {
	ScriptBase
	EventType string
	// Scope is the configured event scope flag, when present.
	Scope string
}

func (*EventHandlerScript) Kind() Kind { return KindEventHandlerScript }

// EventHandler attaches zero or more scripts to a component event.
type EventHandler struct {
	base
	// Domain is the event namespace, for example "component" or "dom".
	Domain    string
	EventType string
	Config    *Attrs
	Scripts   []*EventHandlerScript
}

func (*EventHandler) Kind() Kind { return KindEventHandler }

// Property is a declared custom property or view parameter.
type Property struct {
	base
	// Name is the rendered path below the owner, for example "custom.foo".
	Name  string
	Value any
}

func (*Property) Kind() Kind { return KindProperty }

// Unknown is the placeholder materialized for an unrecognized discriminator
// when the builder runs under the keep policy. It carries the raw attributes.
type Unknown struct {
	base
	// Discriminator is the unrecognized marker value that produced this node.
	Discriminator string
	Attrs         *Attrs
}

func (*Unknown) Kind() Kind { return KindUnknown }
