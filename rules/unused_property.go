package rules

import (
	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/model"
)

// UnusedCustomProperty reports custom properties and view params that no
// expression, script, or binding config ever references. It is a two-phase
// rule: visits collect declarations and referencing text, the deferred
// finalize cross-references them once.
type UnusedCustomProperty struct {
	viewlint.RuleBase
	props []*model.Property
	texts []string
}

var (
	_ model.PropertyVisitor             = (*UnusedCustomProperty)(nil)
	_ model.ExpressionBindingVisitor    = (*UnusedCustomProperty)(nil)
	_ model.PropertyBindingVisitor      = (*UnusedCustomProperty)(nil)
	_ model.TagBindingVisitor           = (*UnusedCustomProperty)(nil)
	_ model.MessageHandlerScriptVisitor = (*UnusedCustomProperty)(nil)
	_ model.CustomMethodScriptVisitor   = (*UnusedCustomProperty)(nil)
	_ model.TransformScriptVisitor      = (*UnusedCustomProperty)(nil)
	_ model.EventHandlerScriptVisitor   = (*UnusedCustomProperty)(nil)
	_ viewlint.BeforeHook               = (*UnusedCustomProperty)(nil)
	_ viewlint.Finalizer                = (*UnusedCustomProperty)(nil)
)

// NewUnusedCustomProperty is the UnusedCustomPropertyRule factory.
func NewUnusedCustomProperty(cfg map[string]any) (viewlint.Rule, error) {
	if err := rejectUnknown(cfg); err != nil {
		return nil, err
	}
	return &UnusedCustomProperty{}, nil
}

func (r *UnusedCustomProperty) Name() string                { return "UnusedCustomPropertyRule" }
func (r *UnusedCustomProperty) Severity() viewlint.Severity { return viewlint.SeverityWarning }
func (r *UnusedCustomProperty) Kinds() model.KindSet {
	return model.Kinds(model.KindProperty).With(model.KindExpressionBinding,
		model.KindPropertyBinding, model.KindTagBinding,
		model.KindMessageHandlerScript, model.KindCustomMethodScript,
		model.KindTransformScript, model.KindEventHandlerScript)
}

func (r *UnusedCustomProperty) Before(*model.ViewModel) {
	r.props = r.props[:0]
	r.texts = r.texts[:0]
}

func (r *UnusedCustomProperty) VisitProperty(p *model.Property) error {
	r.props = append(r.props, p)
	return nil
}

func (r *UnusedCustomProperty) collectBinding(b model.Binding) {
	cfg := b.BindingConfig()
	for _, k := range cfg.Keys() {
		if v, ok := cfg.GetString(k); ok {
			r.texts = append(r.texts, v)
		}
	}
}

func (r *UnusedCustomProperty) VisitExpressionBinding(b *model.ExpressionBinding) error {
	r.texts = append(r.texts, b.Expression)
	r.collectBinding(b)
	return nil
}

func (r *UnusedCustomProperty) VisitPropertyBinding(b *model.PropertyBinding) error {
	r.texts = append(r.texts, b.TargetPath)
	r.collectBinding(b)
	return nil
}

func (r *UnusedCustomProperty) VisitTagBinding(b *model.TagBinding) error {
	r.texts = append(r.texts, b.TagPath)
	r.collectBinding(b)
	return nil
}

func (r *UnusedCustomProperty) VisitMessageHandlerScript(s *model.MessageHandlerScript) error {
	r.texts = append(r.texts, s.Body)
	return nil
}

func (r *UnusedCustomProperty) VisitCustomMethodScript(s *model.CustomMethodScript) error {
	r.texts = append(r.texts, s.Body)
	return nil
}

func (r *UnusedCustomProperty) VisitTransformScript(s *model.TransformScript) error {
	r.texts = append(r.texts, s.Body)
	return nil
}

func (r *UnusedCustomProperty) VisitEventHandlerScript(s *model.EventHandlerScript) error {
	r.texts = append(r.texts, s.Body)
	return nil
}

func (r *UnusedCustomProperty) Finalize() error {
	for _, p := range r.props {
		if r.referenced(p.Name) {
			continue
		}
		r.Collector().ReportCode(p.Path().String(), viewlint.CodeUnusedProperty,
			"property %s is never referenced", p.Name)
	}
	return nil
}

func (r *UnusedCustomProperty) referenced(name string) bool {
	for _, t := range r.texts {
		if containsIdent(t, name) {
			return true
		}
	}
	return false
}

// containsIdent reports whether name occurs in text not immediately followed
// by another identifier character, so custom.foo does not match
// custom.foobar.
func containsIdent(text, name string) bool {
	for i := 0; i+len(name) <= len(text); i++ {
		if text[i:i+len(name)] != name {
			continue
		}
		if end := i + len(name); end < len(text) && isIdentChar(text[end]) {
			continue
		}
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
