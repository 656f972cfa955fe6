package model

// ViewModel is the immutable result of building one view document. It is
// constructed once, read by every rule, and discarded after the run.
type ViewModel struct {
	// Root is the root component of the strict component tree.
	Root *Component
	// ViewProperties are the view-level params and custom properties.
	ViewProperties []*Property
	// Attrs holds view-level leaves outside root/params/custom.
	Attrs *Attrs

	nodes  []Node
	byKind map[Kind][]Node
}

// Nodes returns every node in traversal (pre-order) position.
func (m *ViewModel) Nodes() []Node { return m.nodes }

// NodesOfKind returns the nodes of one variant in traversal order.
func (m *ViewModel) NodesOfKind(k Kind) []Node { return m.byKind[k] }

// Len returns the total node count.
func (m *ViewModel) Len() int { return len(m.nodes) }

// index assigns ordinals and parent links in traversal order. Runs once at
// the end of Build.
func (m *ViewModel) index() {
	m.byKind = map[Kind][]Node{}
	m.nodes = m.nodes[:0]
	add := func(n Node, parent Node) {
		n.(indexable).setIndex(len(m.nodes), parent)
		m.nodes = append(m.nodes, n)
		m.byKind[n.Kind()] = append(m.byKind[n.Kind()], n)
	}

	for _, p := range m.ViewProperties {
		add(p, nil)
	}
	var walk func(c *Component, parent Node)
	walk = func(c *Component, parent Node) {
		add(c, parent)
		for _, n := range c.owned {
			add(n, c)
			switch t := n.(type) {
			case Binding:
				for _, tr := range t.Transforms() {
					add(tr, n)
				}
			case *EventHandler:
				for _, s := range t.Scripts {
					add(s, n)
				}
			}
		}
		for _, ch := range c.Children {
			walk(ch, c)
		}
	}
	if m.Root != nil {
		walk(m.Root, nil)
	}
}

// Stats summarizes the built model, mirroring the debug statistics surface.
type Stats struct {
	TotalNodes       int            `json:"total_nodes"`
	NodeKindCounts   map[string]int `json:"node_kind_counts"`
	ComponentsByType map[string]int `json:"components_by_type"`
}

// Stats computes node counts by kind and components by type id.
func (m *ViewModel) Stats() Stats {
	s := Stats{
		TotalNodes:       len(m.nodes),
		NodeKindCounts:   map[string]int{},
		ComponentsByType: map[string]int{},
	}
	for _, n := range m.nodes {
		s.NodeKindCounts[n.Kind().String()]++
		if c, ok := n.(*Component); ok && c.Type != "" {
			s.ComponentsByType[c.Type]++
		}
	}
	return s
}

// Serialize renders the model grouped by kind for debug golden files.
func (m *ViewModel) Serialize() map[string]any {
	out := map[string]any{}
	for k, nodes := range m.byKind {
		entries := make([]map[string]any, 0, len(nodes))
		for _, n := range nodes {
			entries = append(entries, serializeNode(n))
		}
		out[k.String()] = entries
	}
	return out
}

func serializeNode(n Node) map[string]any {
	e := map[string]any{"path": n.Path().String()}
	switch t := n.(type) {
	case *Component:
		e["name"] = t.Name
		e["type"] = t.Type
		e["children"] = len(t.Children)
	case *ExpressionBinding:
		e["property"] = t.Prop
		e["expression"] = t.Expression
	case *PropertyBinding:
		e["property"] = t.Prop
		e["target"] = t.TargetPath
	case *TagBinding:
		e["property"] = t.Prop
		e["tag"] = t.TagPath
	case *MessageHandlerScript:
		e["message_type"] = t.MessageType
		e["scopes"] = t.Scopes
	case *CustomMethodScript:
		e["method"] = t.MethodName
		e["params"] = t.Params
	case *TransformScript:
		e["binding"] = t.BindingPath.String()
	case *EventHandlerScript:
		e["event"] = t.EventType
	case *EventHandler:
		e["domain"] = t.Domain
		e["event"] = t.EventType
		e["scripts"] = len(t.Scripts)
	case *Property:
		e["name"] = t.Name
		e["value"] = t.Value
	case *Unknown:
		e["discriminator"] = t.Discriminator
		e["attrs"] = t.Attrs.Map()
	}
	return e
}
