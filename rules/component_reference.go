package rules

import (
	"regexp"

	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/model"
)

var componentRef = regexp.MustCompile(`\.get(?:Sibling|Child)\(\s*['"]([^'"]+)['"]`)

// ComponentReference flags getSibling/getChild calls naming components that
// do not exist in the view. Names are collected during traversal; references
// are resolved once in the deferred pass so forward references work.
type ComponentReference struct {
	viewlint.RuleBase
	names map[string]struct{}
	refs  []componentRefSite
}

type componentRefSite struct {
	path string
	name string
}

var (
	_ model.ComponentVisitor            = (*ComponentReference)(nil)
	_ model.ExpressionBindingVisitor    = (*ComponentReference)(nil)
	_ model.MessageHandlerScriptVisitor = (*ComponentReference)(nil)
	_ model.CustomMethodScriptVisitor   = (*ComponentReference)(nil)
	_ model.TransformScriptVisitor      = (*ComponentReference)(nil)
	_ model.EventHandlerScriptVisitor   = (*ComponentReference)(nil)
	_ viewlint.BeforeHook               = (*ComponentReference)(nil)
	_ viewlint.Finalizer                = (*ComponentReference)(nil)
)

// NewComponentReference is the BadComponentReferenceRule factory.
func NewComponentReference(cfg map[string]any) (viewlint.Rule, error) {
	if err := rejectUnknown(cfg); err != nil {
		return nil, err
	}
	return &ComponentReference{}, nil
}

func (r *ComponentReference) Name() string                { return "BadComponentReferenceRule" }
func (r *ComponentReference) Severity() viewlint.Severity { return viewlint.SeverityError }
func (r *ComponentReference) Kinds() model.KindSet {
	return model.Kinds(model.KindComponent, model.KindExpressionBinding).With(
		model.KindMessageHandlerScript, model.KindCustomMethodScript,
		model.KindTransformScript, model.KindEventHandlerScript)
}

func (r *ComponentReference) Before(*model.ViewModel) {
	r.names = map[string]struct{}{}
	r.refs = r.refs[:0]
}

func (r *ComponentReference) VisitComponent(c *model.Component) error {
	if c.Name != "" {
		r.names[c.Name] = struct{}{}
	}
	return nil
}

func (r *ComponentReference) scan(path, text string) {
	for _, m := range componentRef.FindAllStringSubmatch(text, -1) {
		r.refs = append(r.refs, componentRefSite{path: path, name: m[1]})
	}
}

func (r *ComponentReference) VisitExpressionBinding(b *model.ExpressionBinding) error {
	r.scan(b.Path().String(), b.Expression)
	return nil
}

func (r *ComponentReference) VisitMessageHandlerScript(s *model.MessageHandlerScript) error {
	r.scan(s.Path().String(), s.Body)
	return nil
}

func (r *ComponentReference) VisitCustomMethodScript(s *model.CustomMethodScript) error {
	r.scan(s.Path().String(), s.Body)
	return nil
}

func (r *ComponentReference) VisitTransformScript(s *model.TransformScript) error {
	r.scan(s.Path().String(), s.Body)
	return nil
}

func (r *ComponentReference) VisitEventHandlerScript(s *model.EventHandlerScript) error {
	r.scan(s.Path().String(), s.Body)
	return nil
}

func (r *ComponentReference) Finalize() error {
	for _, ref := range r.refs {
		if _, ok := r.names[ref.name]; !ok {
			r.Collector().ReportCode(ref.path, viewlint.CodeUnknownReference,
				"reference to unknown component %q", ref.name)
		}
	}
	return nil
}
