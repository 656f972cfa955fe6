package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/viewlint/viewlint/flatten"
	"github.com/viewlint/viewlint/model"
)

// sampleView exercises every node variant: components, the three binding
// kinds are represented by expr and property, transforms, message handlers,
// custom methods, event handlers and custom properties.
const sampleView = `{
  "custom": {},
  "params": {"title": "Demo"},
  "props": {"defaultSize": {"height": 400, "width": 600}},
  "root": {
    "children": [
      {
        "events": {
          "component": {
            "onActionPerformed": {
              "config": {"script": "\tprint('clicked')"},
              "scope": "G",
              "type": "script"
            }
          }
        },
        "meta": {"name": "MyButton"},
        "position": {"x": 10, "y": 20},
        "propConfig": {
          "props.text": {
            "binding": {
              "config": {"expression": "{view.custom.greeting} + now(5000)"},
              "transforms": [{"code": "\treturn value.upper()", "type": "script"}],
              "type": "expr"
            }
          }
        },
        "props": {"text": "Click"},
        "type": "ia.input.button"
      },
      {
        "meta": {"name": "StatusLabel"},
        "propConfig": {
          "props.text": {
            "binding": {"config": {"path": "view.custom.greeting"}, "type": "property"}
          }
        },
        "props": {"text": "ok"},
        "type": "ia.display.label"
      }
    ],
    "custom": {"greeting": "hello"},
    "meta": {"name": "root"},
    "scripts": {
      "customMethods": [{"name": "refresh", "params": ["source"], "script": "\tself.getChild('StatusLabel')"}],
      "messageHandlers": [{"messageType": "update", "pageScope": true, "script": "\tself.custom.greeting = payload['v']", "sessionScope": false, "viewScope": true}]
    },
    "type": "ia.container.coord"
  }
}`

func buildSample(t *testing.T, opts ...model.Options) *model.ViewModel {
	t.Helper()
	doc, err := flatten.FlattenBytes([]byte(sampleView))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	m, err := model.Build(doc, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestBuildComponentTree(t *testing.T) {
	m := buildSample(t)

	if m.Root == nil {
		t.Fatal("no root component")
	}
	if m.Root.Name != "root" || m.Root.Type != "ia.container.coord" {
		t.Errorf("root = %q/%q", m.Root.Name, m.Root.Type)
	}
	var names, types []string
	for _, c := range m.Root.Children {
		names = append(names, c.Name)
		types = append(types, c.Type)
	}
	if diff := cmp.Diff([]string{"MyButton", "StatusLabel"}, names); diff != "" {
		t.Errorf("child names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ia.input.button", "ia.display.label"}, types); diff != "" {
		t.Errorf("child types (-want +got):\n%s", diff)
	}

	button := m.Root.Children[0]
	if v, ok := button.Props.GetString("props.text"); !ok || v != "Click" {
		t.Errorf("props.text = %q ok=%v", v, ok)
	}
	if _, ok := button.Props.Get("meta.name"); ok {
		t.Error("meta.name should be lifted out of Props")
	}
}

func TestBuildViewProperties(t *testing.T) {
	m := buildSample(t)

	if len(m.ViewProperties) != 1 {
		t.Fatalf("view properties = %d, want 1", len(m.ViewProperties))
	}
	p := m.ViewProperties[0]
	if p.Name != "params.title" || p.Value != "Demo" {
		t.Errorf("view property = %q=%v", p.Name, p.Value)
	}
	if _, ok := m.Attrs.Get("props.defaultSize.height"); !ok {
		t.Error("view-level leaf missing from Attrs")
	}
}

func TestBuildBindings(t *testing.T) {
	m := buildSample(t)

	bindings := m.Root.Children[0].Bindings()
	if len(bindings) != 1 {
		t.Fatalf("button bindings = %d, want 1", len(bindings))
	}
	expr, ok := bindings[0].(*model.ExpressionBinding)
	if !ok {
		t.Fatalf("binding type = %T, want *ExpressionBinding", bindings[0])
	}
	if expr.BoundProperty() != "props.text" {
		t.Errorf("bound property = %q", expr.BoundProperty())
	}
	if expr.Expression != "{view.custom.greeting} + now(5000)" {
		t.Errorf("expression = %q", expr.Expression)
	}
	if len(expr.Transforms()) != 1 {
		t.Fatalf("transforms = %d, want 1", len(expr.Transforms()))
	}
	tr := expr.Transforms()[0]
	if tr.ScriptBody() != "\treturn value.upper()" {
		t.Errorf("transform body = %q", tr.ScriptBody())
	}
	if !tr.BindingPath.Equal(expr.Path()) {
		t.Errorf("transform binding path = %s, want %s", tr.BindingPath, expr.Path())
	}

	prop, ok := m.Root.Children[1].Bindings()[0].(*model.PropertyBinding)
	if !ok {
		t.Fatalf("label binding type = %T", m.Root.Children[1].Bindings()[0])
	}
	if prop.TargetPath != "view.custom.greeting" {
		t.Errorf("target = %q", prop.TargetPath)
	}
}

func TestBuildScripts(t *testing.T) {
	m := buildSample(t)

	var handler *model.MessageHandlerScript
	var method *model.CustomMethodScript
	for _, n := range m.Root.Owned() {
		switch s := n.(type) {
		case *model.MessageHandlerScript:
			handler = s
		case *model.CustomMethodScript:
			method = s
		}
	}
	if handler == nil || method == nil {
		t.Fatalf("root owned = %v, want message handler and custom method", m.Root.Owned())
	}
	if handler.MessageType != "update" {
		t.Errorf("message type = %q", handler.MessageType)
	}
	if diff := cmp.Diff([]string{"page", "view"}, handler.Scopes); diff != "" {
		t.Errorf("scopes (-want +got):\n%s", diff)
	}
	if method.MethodName != "refresh" {
		t.Errorf("method name = %q", method.MethodName)
	}
	if diff := cmp.Diff([]string{"source"}, method.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}

	handlers := m.Root.Children[0].EventHandlers()
	if len(handlers) != 1 {
		t.Fatalf("button event handlers = %d, want 1", len(handlers))
	}
	h := handlers[0]
	if h.Domain != "component" || h.EventType != "onActionPerformed" {
		t.Errorf("event handler = %s/%s", h.Domain, h.EventType)
	}
	if len(h.Scripts) != 1 {
		t.Fatalf("event scripts = %d, want 1", len(h.Scripts))
	}
	if h.Scripts[0].ScriptBody() != "\tprint('clicked')" {
		t.Errorf("event script body = %q", h.Scripts[0].ScriptBody())
	}
	if h.Scripts[0].Scope != "G" {
		t.Errorf("event script scope = %q", h.Scripts[0].Scope)
	}
}

func TestBuildCustomProperties(t *testing.T) {
	m := buildSample(t)

	props := m.Root.Properties()
	if len(props) != 1 {
		t.Fatalf("root properties = %d, want 1", len(props))
	}
	if props[0].Name != "custom.greeting" || props[0].Value != "hello" {
		t.Errorf("property = %q=%v", props[0].Name, props[0].Value)
	}
}

func TestBuildTraversalOrder(t *testing.T) {
	m := buildSample(t)

	want := []string{
		"params.title",
		"root",
		"root.custom.greeting",
		"root.scripts.customMethods[0]",
		"root.scripts.messageHandlers[0]",
		"root.children[0]",
		"root.children[0].events.component.onActionPerformed",
		"root.children[0].events.component.onActionPerformed.config",
		"root.children[0].propConfig.props.text.binding",
		"root.children[0].propConfig.props.text.binding.transforms[0]",
		"root.children[1]",
		"root.children[1].propConfig.props.text.binding",
	}
	var got []string
	for i, n := range m.Nodes() {
		got = append(got, n.Path().String())
		if n.Ordinal() != i {
			t.Errorf("node %s: ordinal = %d, want %d", n.Path(), n.Ordinal(), i)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("traversal order (-want +got):\n%s", diff)
	}
}

func TestBuildSingleOwnership(t *testing.T) {
	m := buildSample(t)

	seen := map[string]bool{}
	for _, n := range m.Nodes() {
		p := n.Path().String()
		if seen[p] {
			t.Errorf("node %s appears twice", p)
		}
		seen[p] = true
		parent := n.Parent()
		if parent == nil {
			continue
		}
		if !n.Path().HasPrefix(parent.Path()) || n.Path().Len() <= parent.Path().Len() {
			t.Errorf("node %s: parent path %s is not a strict prefix", n.Path(), parent.Path())
		}
	}
}

func TestBuildStats(t *testing.T) {
	m := buildSample(t)

	s := m.Stats()
	if s.TotalNodes != m.Len() {
		t.Errorf("total = %d, want %d", s.TotalNodes, m.Len())
	}
	want := map[string]int{
		"property":               2,
		"component":              3,
		"custom_method_script":   1,
		"message_handler_script": 1,
		"event_handler":          1,
		"event_handler_script":   1,
		"expression_binding":     1,
		"property_binding":       1,
		"transform_script":       1,
	}
	if diff := cmp.Diff(want, s.NodeKindCounts); diff != "" {
		t.Errorf("kind counts (-want +got):\n%s", diff)
	}
	if s.ComponentsByType["ia.display.label"] != 1 {
		t.Errorf("components by type = %v", s.ComponentsByType)
	}
}

const unknownBindingView = `{
  "root": {
    "meta": {"name": "root"},
    "propConfig": {
      "props.value": {
        "binding": {"config": {"query": "select 1"}, "type": "magic"}
      }
    },
    "type": "ia.container.coord"
  }
}`

func TestBuildUnknownDiscriminatorError(t *testing.T) {
	doc, err := flatten.FlattenBytes([]byte(unknownBindingView))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	_, err = model.Build(doc)
	var be *model.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("want BuildError, got %v", err)
	}
	if be.Path.String() != "root.propConfig.props.value.binding" {
		t.Errorf("error path = %s", be.Path)
	}
}

func TestBuildUnknownDiscriminatorKeep(t *testing.T) {
	doc, err := flatten.FlattenBytes([]byte(unknownBindingView))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	m, err := model.Build(doc, model.Options{OnUnknown: model.UnknownKeep})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	unknowns := m.NodesOfKind(model.KindUnknown)
	if len(unknowns) != 1 {
		t.Fatalf("unknown nodes = %d, want 1", len(unknowns))
	}
	u := unknowns[0].(*model.Unknown)
	if u.Discriminator != "magic" {
		t.Errorf("discriminator = %q", u.Discriminator)
	}
	if _, ok := u.Attrs.Get("config.query"); !ok {
		t.Error("raw attributes not preserved")
	}
}

func TestBuildMissingRoot(t *testing.T) {
	doc, err := flatten.FlattenBytes([]byte(`{"params": {"a": 1}}`))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	_, err = model.Build(doc)
	var be *model.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("want BuildError, got %v", err)
	}
}
