package viewlint

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/viewlint/viewlint/model"
)

// Engine drives registered rules over a built model and aggregates their
// diagnostics. Traversal is single-threaded; the model is shared read-only.
type Engine struct {
	rules  []Rule
	logger *slog.Logger
}

// NewEngine returns an engine running the given rules in order.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SetLogger installs a structured logger; nil restores the discard default.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.logger = l
}

// Rules returns the active rules in execution order.
func (e *Engine) Rules() []Rule { return e.rules }

// Run executes every rule against the model: before hook, capability-guided
// traversal, one deferred finalize, after hook, then diagnostic collection.
// Per-node failures become internal-error diagnostics; they never abort the
// traversal for this rule or any other.
func (e *Engine) Run(m *model.ViewModel) Results {
	ordinals := make(map[string]int, m.Len())
	for _, n := range m.Nodes() {
		ordinals[n.Path().String()] = n.Ordinal()
	}

	results := Results{}
	for _, r := range e.rules {
		e.logger.Debug("running rule", "rule", r.Name(), "kinds", fmt.Sprintf("%b", r.Kinds()))
		results[r.Name()] = e.runRule(r, m, ordinals)
	}
	return results
}

func (e *Engine) runRule(r Rule, m *model.ViewModel, ordinals map[string]int) Diagnostics {
	r.Collector().take() // drop anything left over from a previous run

	if h, ok := r.(BeforeHook); ok {
		h.Before(m)
	}

	ad := &capVisitor{rule: r, caps: r.Kinds()}
	// The adapter swallows rule failures, so Walk cannot return an error here.
	_ = model.Walk(m, ad)

	if f, ok := r.(Finalizer); ok {
		if err := protect(f.Finalize); err != nil {
			ad.internalAt("", err)
		}
	}
	if h, ok := r.(AfterHook); ok {
		h.After()
	}

	diags := append(r.Collector().take(), ad.internal...)
	for i := range diags {
		diags[i].Rule = r.Name()
		if diags[i].Code != CodeInternalError {
			diags[i].Severity = r.Severity()
		}
	}
	orderDiagnostics(diags, ordinals)
	return diags
}

// orderDiagnostics stably sorts findings into traversal order. Paths that do
// not name a node keep their discovery order after all node paths.
func orderDiagnostics(diags Diagnostics, ordinals map[string]int) {
	sort.SliceStable(diags, func(i, j int) bool {
		oi, iok := ordinals[diags[i].Path]
		oj, jok := ordinals[diags[j].Path]
		if iok && jok {
			return oi < oj
		}
		return iok && !jok
	})
}

func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// capVisitor adapts a rule onto the full visitor surface, pruning dispatch to
// the rule's capability set and containing per-node failures.
type capVisitor struct {
	rule     Rule
	caps     model.KindSet
	internal Diagnostics
}

func (a *capVisitor) internalAt(path string, err error) {
	a.internal = append(a.internal, Diagnostic{
		Path:     path,
		Message:  fmt.Sprintf("rule failed: %v", err),
		Severity: SeverityError,
		Code:     CodeInternalError,
	})
}

func (a *capVisitor) dispatch(n model.Node, fn func() error) error {
	if err := protect(fn); err != nil {
		a.internalAt(n.Path().String(), err)
	}
	return nil
}

func (a *capVisitor) VisitComponent(n *model.Component) error {
	if !a.caps.Has(model.KindComponent) {
		return nil
	}
	v, ok := a.rule.(model.ComponentVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitComponent(n) })
}

func (a *capVisitor) VisitExpressionBinding(n *model.ExpressionBinding) error {
	if !a.caps.Has(model.KindExpressionBinding) {
		return nil
	}
	v, ok := a.rule.(model.ExpressionBindingVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitExpressionBinding(n) })
}

func (a *capVisitor) VisitPropertyBinding(n *model.PropertyBinding) error {
	if !a.caps.Has(model.KindPropertyBinding) {
		return nil
	}
	v, ok := a.rule.(model.PropertyBindingVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitPropertyBinding(n) })
}

func (a *capVisitor) VisitTagBinding(n *model.TagBinding) error {
	if !a.caps.Has(model.KindTagBinding) {
		return nil
	}
	v, ok := a.rule.(model.TagBindingVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitTagBinding(n) })
}

func (a *capVisitor) VisitMessageHandlerScript(n *model.MessageHandlerScript) error {
	if !a.caps.Has(model.KindMessageHandlerScript) {
		return nil
	}
	v, ok := a.rule.(model.MessageHandlerScriptVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitMessageHandlerScript(n) })
}

func (a *capVisitor) VisitCustomMethodScript(n *model.CustomMethodScript) error {
	if !a.caps.Has(model.KindCustomMethodScript) {
		return nil
	}
	v, ok := a.rule.(model.CustomMethodScriptVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitCustomMethodScript(n) })
}

func (a *capVisitor) VisitTransformScript(n *model.TransformScript) error {
	if !a.caps.Has(model.KindTransformScript) {
		return nil
	}
	v, ok := a.rule.(model.TransformScriptVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitTransformScript(n) })
}

func (a *capVisitor) VisitEventHandlerScript(n *model.EventHandlerScript) error {
	if !a.caps.Has(model.KindEventHandlerScript) {
		return nil
	}
	v, ok := a.rule.(model.EventHandlerScriptVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitEventHandlerScript(n) })
}

func (a *capVisitor) VisitEventHandler(n *model.EventHandler) error {
	if !a.caps.Has(model.KindEventHandler) {
		return nil
	}
	v, ok := a.rule.(model.EventHandlerVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitEventHandler(n) })
}

func (a *capVisitor) VisitProperty(n *model.Property) error {
	if !a.caps.Has(model.KindProperty) {
		return nil
	}
	v, ok := a.rule.(model.PropertyVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitProperty(n) })
}

func (a *capVisitor) VisitUnknown(n *model.Unknown) error {
	if !a.caps.Has(model.KindUnknown) {
		return nil
	}
	v, ok := a.rule.(model.UnknownVisitor)
	if !ok {
		return nil
	}
	return a.dispatch(n, func() error { return v.VisitUnknown(n) })
}
