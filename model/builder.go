package model

import (
	"fmt"
	"strings"

	"github.com/viewlint/viewlint/flatten"
)

// UnknownPolicy selects how the builder treats an unrecognized discriminator
// value. It is an explicit switch, never inferred.
type UnknownPolicy int

const (
	// UnknownError aborts the build with a BuildError.
	UnknownError UnknownPolicy = iota
	// UnknownKeep materializes an Unknown placeholder carrying the raw
	// attribute map and continues.
	UnknownKeep
)

// Options tunes model construction.
type Options struct {
	OnUnknown UnknownPolicy
}

// BuildError reports a structurally invalid or unrecognized discriminator
// encountered while reconstructing the model.
type BuildError struct {
	Path flatten.Path
	Msg  string
}

func (e *BuildError) Error() string {
	if e.Path.IsEmpty() {
		return "model: " + e.Msg
	}
	return fmt.Sprintf("model: %s at %s", e.Msg, e.Path)
}

type scopeKind int

const (
	scopeView scopeKind = iota
	scopeComponent
	scopeBinding
	scopeTransform
	scopeMessageHandler
	scopeCustomMethod
	scopeEvent
	scopeEventAction
)

// scope is one open node boundary during the single linear pass. Nodes are
// constructed when their scope pops, so variant discriminators may arrive at
// any position inside the scope.
type scope struct {
	kind   scopeKind
	prefix flatten.Path
	attrs  *Attrs

	// component accumulation
	children []*Component
	owned    []Node

	// binding accumulation
	prop       string
	transforms []*TransformScript

	// event accumulation
	domain  string
	event   string
	scripts []*EventHandlerScript
}

// Build reconstructs the typed node graph from the ordered flattened pairs in
// one linear pass, maintaining a stack of open scopes keyed by path prefix.
func Build(doc flatten.Document, opts ...Options) (*ViewModel, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	r := &run{
		opt:   opt,
		model: &ViewModel{Attrs: NewAttrs()},
	}
	r.stack = []*scope{{kind: scopeView, attrs: r.model.Attrs}}

	for _, pair := range doc {
		for len(r.stack) > 1 && !pair.Path.HasPrefix(r.top().prefix) {
			if err := r.pop(); err != nil {
				return nil, err
			}
		}
		for r.tryOpen(pair.Path) {
		}
		if err := r.attach(pair); err != nil {
			return nil, err
		}
	}
	for len(r.stack) > 1 {
		if err := r.pop(); err != nil {
			return nil, err
		}
	}
	if r.model.Root == nil {
		return nil, &BuildError{Msg: "view has no root component"}
	}
	r.model.index()
	return r.model, nil
}

type run struct {
	opt   Options
	model *ViewModel
	stack []*scope
}

func (r *run) top() *scope { return r.stack[len(r.stack)-1] }

func (r *run) push(k scopeKind, prefix flatten.Path) *scope {
	s := &scope{kind: k, prefix: prefix, attrs: NewAttrs()}
	r.stack = append(r.stack, s)
	return s
}

// tryOpen pushes at most one new scope when the path crosses a node boundary
// below the current top. Returns true when a scope was opened so the caller
// loops: one path may open several scopes (a grandchild component's first
// leaf opens both intermediate component scopes).
func (r *run) tryOpen(p flatten.Path) bool {
	top := r.top()
	rel := p.Segments()[top.prefix.Len():]
	switch top.kind {
	case scopeView:
		if len(rel) > 1 && !rel[0].IsIndex && rel[0].Key == "root" {
			r.push(scopeComponent, p.Prefix(top.prefix.Len()+1))
			return true
		}
	case scopeComponent:
		if len(rel) > 2 && rel[0].Key == "children" && rel[1].IsIndex {
			r.push(scopeComponent, p.Prefix(top.prefix.Len()+2))
			return true
		}
		if len(rel) > 3 && rel[0].Key == "propConfig" && !rel[1].IsIndex && rel[2].Key == "binding" {
			s := r.push(scopeBinding, p.Prefix(top.prefix.Len()+3))
			s.prop = rel[1].Key
			return true
		}
		if len(rel) > 3 && rel[0].Key == "scripts" && rel[1].Key == "messageHandlers" && rel[2].IsIndex {
			r.push(scopeMessageHandler, p.Prefix(top.prefix.Len()+3))
			return true
		}
		if len(rel) > 3 && rel[0].Key == "scripts" && rel[1].Key == "customMethods" && rel[2].IsIndex {
			r.push(scopeCustomMethod, p.Prefix(top.prefix.Len()+3))
			return true
		}
		if len(rel) > 3 && rel[0].Key == "events" && !rel[1].IsIndex && !rel[2].IsIndex {
			s := r.push(scopeEvent, p.Prefix(top.prefix.Len()+3))
			s.domain = rel[1].Key
			s.event = rel[2].Key
			return true
		}
	case scopeBinding:
		if len(rel) > 2 && rel[0].Key == "transforms" && rel[1].IsIndex {
			r.push(scopeTransform, p.Prefix(top.prefix.Len()+2))
			return true
		}
	case scopeEvent:
		if len(rel) > 1 && rel[0].IsIndex {
			r.push(scopeEventAction, p.Prefix(top.prefix.Len()+1))
			return true
		}
	}
	return false
}

// attach merges a leaf into the open top scope, or materializes a Property
// node when the leaf sits under a custom/params subtree.
func (r *run) attach(pair flatten.Pair) error {
	top := r.top()
	rel := pair.Path.Segments()[top.prefix.Len():]
	key := flatten.Render(rel...)

	switch top.kind {
	case scopeView:
		if len(rel) > 1 && !rel[0].IsIndex && (rel[0].Key == "params" || rel[0].Key == "custom") {
			r.model.ViewProperties = append(r.model.ViewProperties, &Property{
				base:  base{path: pair.Path},
				Name:  key,
				Value: pair.Value,
			})
			return nil
		}
		r.model.Attrs.Set(key, pair.Value)
	case scopeComponent:
		if len(rel) > 1 && !rel[0].IsIndex && rel[0].Key == "custom" {
			top.owned = append(top.owned, &Property{
				base:  base{path: pair.Path},
				Name:  key,
				Value: pair.Value,
			})
			return nil
		}
		top.attrs.Set(key, pair.Value)
	default:
		top.attrs.Set(key, pair.Value)
	}
	return nil
}

// pop closes the top scope, constructs its node from the accumulated
// attributes, and attaches it to the parent scope.
func (r *run) pop() error {
	s := r.top()
	r.stack = r.stack[:len(r.stack)-1]
	parent := r.top()

	switch s.kind {
	case scopeComponent:
		c := &Component{
			base:     base{path: s.prefix},
			Props:    s.attrs,
			Children: s.children,
			owned:    s.owned,
		}
		if v, ok := s.attrs.GetString("meta.name"); ok {
			c.Name = v
			s.attrs.Delete("meta.name")
		}
		if v, ok := s.attrs.GetString("type"); ok {
			c.Type = v
			s.attrs.Delete("type")
		}
		if parent.kind == scopeView {
			r.model.Root = c
		} else {
			parent.children = append(parent.children, c)
		}

	case scopeBinding:
		return r.finishBinding(s, parent)

	case scopeTransform:
		typ, _ := s.attrs.GetString("type")
		if typ != "script" {
			return r.keepUnknown(s, typ)
		}
		s.attrs.Delete("type")
		body, _ := s.attrs.GetString("code")
		s.attrs.Delete("code")
		parent.transforms = append(parent.transforms, &TransformScript{
			ScriptBase:  ScriptBase{base: base{path: s.prefix}, Body: body},
			BindingPath: parent.prefix,
		})

	case scopeMessageHandler:
		msgType, _ := s.attrs.GetString("messageType")
		body, _ := s.attrs.GetString("script")
		h := &MessageHandlerScript{
			ScriptBase:  ScriptBase{base: base{path: s.prefix}, Body: body},
			MessageType: msgType,
		}
		for _, sc := range [...]struct{ key, name string }{
			{"pageScope", "page"}, {"sessionScope", "session"}, {"viewScope", "view"},
		} {
			if v, ok := s.attrs.Get(sc.key); ok {
				if on, ok := v.(bool); ok && on {
					h.Scopes = append(h.Scopes, sc.name)
				}
			}
		}
		parent.owned = append(parent.owned, h)

	case scopeCustomMethod:
		name, _ := s.attrs.GetString("name")
		body, _ := s.attrs.GetString("script")
		m := &CustomMethodScript{
			ScriptBase: ScriptBase{base: base{path: s.prefix}, Body: body},
			MethodName: name,
		}
		for _, k := range s.attrs.Keys() {
			if strings.HasPrefix(k, "params[") {
				if p, ok := s.attrs.GetString(k); ok {
					m.Params = append(m.Params, p)
				}
			}
		}
		parent.owned = append(parent.owned, m)

	case scopeEvent:
		h := &EventHandler{
			base:      base{path: s.prefix},
			Domain:    s.domain,
			EventType: s.event,
			Scripts:   s.scripts,
		}
		if _, ok := s.attrs.Get("type"); ok {
			// object-form event: the action config sits on the event itself
			sc, err := r.finishEventAction(s, s.event)
			if err != nil {
				return err
			}
			if sc != nil {
				h.Scripts = append(h.Scripts, sc)
			}
		}
		h.Config = s.attrs
		parent.owned = append(parent.owned, h)

	case scopeEventAction:
		sc, err := r.finishEventAction(s, parent.event)
		if err != nil {
			return err
		}
		if sc != nil {
			parent.scripts = append(parent.scripts, sc)
		}
	}
	return nil
}

func (r *run) finishBinding(s *scope, parent *scope) error {
	typ, _ := s.attrs.GetString("type")
	s.attrs.Delete("type")

	config := NewAttrs()
	for _, k := range s.attrs.Keys() {
		v, _ := s.attrs.Get(k)
		config.Set(strings.TrimPrefix(k, "config."), v)
	}

	bb := BindingBase{
		base:       base{path: s.prefix},
		Prop:       s.prop,
		Config:     config,
		transforms: s.transforms,
	}

	var node Node
	switch typ {
	case "expr":
		expr, _ := config.GetString("expression")
		config.Delete("expression")
		node = &ExpressionBinding{BindingBase: bb, Expression: expr}
	case "property":
		target, _ := config.GetString("path")
		config.Delete("path")
		node = &PropertyBinding{BindingBase: bb, TargetPath: target}
	case "tag":
		tag, _ := config.GetString("tagPath")
		config.Delete("tagPath")
		node = &TagBinding{BindingBase: bb, TagPath: tag}
	default:
		// keep already-built transform scripts reachable from the component
		// so no data is silently dropped
		if err := r.keepUnknown(s, typ); err != nil {
			return err
		}
		if comp := r.nearestComponent(); comp != nil {
			for _, tr := range s.transforms {
				comp.owned = append(comp.owned, tr)
			}
		}
		return nil
	}
	parent.owned = append(parent.owned, node)
	return nil
}

// finishEventAction interprets one event action config; only the "script"
// action type yields a node.
func (r *run) finishEventAction(s *scope, eventType string) (*EventHandlerScript, error) {
	typ, _ := s.attrs.GetString("type")
	if typ != "script" {
		return nil, r.keepUnknown(s, typ)
	}
	s.attrs.Delete("type")
	body, _ := s.attrs.GetString("config.script")
	s.attrs.Delete("config.script")
	scp, _ := s.attrs.GetString("scope")
	s.attrs.Delete("scope")
	return &EventHandlerScript{
		ScriptBase: ScriptBase{base: base{path: s.prefix.Child("config")}, Body: body},
		EventType:  eventType,
		Scope:      scp,
	}, nil
}

// keepUnknown applies the unknown-discriminator policy: fail the build, or
// attach a placeholder to the nearest open component.
func (r *run) keepUnknown(s *scope, disc string) error {
	if r.opt.OnUnknown == UnknownError {
		if disc == "" {
			return &BuildError{Path: s.prefix, Msg: "missing discriminator"}
		}
		return &BuildError{Path: s.prefix, Msg: fmt.Sprintf("unrecognized discriminator %q", disc)}
	}
	u := &Unknown{base: base{path: s.prefix}, Discriminator: disc, Attrs: s.attrs}
	if comp := r.nearestComponent(); comp != nil {
		comp.owned = append(comp.owned, u)
	} else {
		r.model.ViewProperties = append(r.model.ViewProperties, &Property{
			base: base{path: s.prefix}, Name: s.prefix.String(), Value: s.attrs.Map(),
		})
	}
	return nil
}

func (r *run) nearestComponent() *scope {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].kind == scopeComponent {
			return r.stack[i]
		}
	}
	return nil
}
