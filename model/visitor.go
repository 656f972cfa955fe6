package model

// Visitor is the full double-dispatch surface: one method per node variant.
// Node.Accept resolves dispatch from the node's own variant, so a visitor
// never inspects node types itself.
type Visitor interface {
	VisitComponent(*Component) error
	VisitExpressionBinding(*ExpressionBinding) error
	VisitPropertyBinding(*PropertyBinding) error
	VisitTagBinding(*TagBinding) error
	VisitMessageHandlerScript(*MessageHandlerScript) error
	VisitCustomMethodScript(*CustomMethodScript) error
	VisitTransformScript(*TransformScript) error
	VisitEventHandlerScript(*EventHandlerScript) error
	VisitEventHandler(*EventHandler) error
	VisitProperty(*Property) error
	VisitUnknown(*Unknown) error
}

// Narrow per-variant interfaces. A rule implements only the methods for the
// kinds it declares; the engine adapts them onto the full Visitor.
type (
	ComponentVisitor            interface{ VisitComponent(*Component) error }
	ExpressionBindingVisitor    interface{ VisitExpressionBinding(*ExpressionBinding) error }
	PropertyBindingVisitor      interface{ VisitPropertyBinding(*PropertyBinding) error }
	TagBindingVisitor           interface{ VisitTagBinding(*TagBinding) error }
	MessageHandlerScriptVisitor interface{ VisitMessageHandlerScript(*MessageHandlerScript) error }
	CustomMethodScriptVisitor   interface{ VisitCustomMethodScript(*CustomMethodScript) error }
	TransformScriptVisitor      interface{ VisitTransformScript(*TransformScript) error }
	EventHandlerScriptVisitor   interface{ VisitEventHandlerScript(*EventHandlerScript) error }
	EventHandlerVisitor         interface{ VisitEventHandler(*EventHandler) error }
	PropertyVisitor             interface{ VisitProperty(*Property) error }
	UnknownVisitor              interface{ VisitUnknown(*Unknown) error }
)

func (c *Component) Accept(v Visitor) error            { return v.VisitComponent(c) }
func (b *ExpressionBinding) Accept(v Visitor) error    { return v.VisitExpressionBinding(b) }
func (b *PropertyBinding) Accept(v Visitor) error      { return v.VisitPropertyBinding(b) }
func (b *TagBinding) Accept(v Visitor) error           { return v.VisitTagBinding(b) }
func (s *MessageHandlerScript) Accept(v Visitor) error { return v.VisitMessageHandlerScript(s) }
func (s *CustomMethodScript) Accept(v Visitor) error   { return v.VisitCustomMethodScript(s) }
func (s *TransformScript) Accept(v Visitor) error      { return v.VisitTransformScript(s) }
func (s *EventHandlerScript) Accept(v Visitor) error   { return v.VisitEventHandlerScript(s) }
func (h *EventHandler) Accept(v Visitor) error         { return v.VisitEventHandler(h) }
func (p *Property) Accept(v Visitor) error             { return v.VisitProperty(p) }
func (u *Unknown) Accept(v Visitor) error              { return v.VisitUnknown(u) }

// Walk performs the single, centrally defined traversal: view-level
// properties first, then the component tree depth-first pre-order. At each
// component: the component itself, its owned nodes in source order (a
// binding's transforms immediately after the binding, an event handler's
// scripts immediately after the handler), then child components in source
// order. Context-aware rules depend on this ordering.
func Walk(m *ViewModel, v Visitor) error {
	for _, p := range m.ViewProperties {
		if err := p.Accept(v); err != nil {
			return err
		}
	}
	if m.Root == nil {
		return nil
	}
	return walkComponent(m.Root, v)
}

func walkComponent(c *Component, v Visitor) error {
	if err := c.Accept(v); err != nil {
		return err
	}
	for _, n := range c.owned {
		if err := n.Accept(v); err != nil {
			return err
		}
		switch t := n.(type) {
		case Binding:
			for _, tr := range t.Transforms() {
				if err := tr.Accept(v); err != nil {
					return err
				}
			}
		case *EventHandler:
			for _, s := range t.Scripts {
				if err := s.Accept(v); err != nil {
					return err
				}
			}
		}
	}
	for _, ch := range c.Children {
		if err := walkComponent(ch, v); err != nil {
			return err
		}
	}
	return nil
}
