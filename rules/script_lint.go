package rules

import (
	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/model"
)

// FormattedScript is one independently analyzable script unit with the view
// path it came from.
type FormattedScript struct {
	Path   string
	Source string
}

// Finding is one analyzer result mapped back to a view path.
type Finding struct {
	Path    string
	Line    int
	Message string
}

// Analyzer is the external script-analysis collaborator. Analyze receives the
// whole batch in one blocking call; bounding a hung analyzer is the
// implementation's concern, not the engine's.
type Analyzer interface {
	Analyze(scripts []FormattedScript) ([]Finding, error)
}

// NopAnalyzer ignores every batch.
type NopAnalyzer struct{}

func (NopAnalyzer) Analyze([]FormattedScript) ([]Finding, error) { return nil, nil }

// ScriptLint hands every script body to the external analyzer. Visits only
// collect; the single deferred Finalize call submits the batch, trading
// immediacy for one round trip instead of one per node.
type ScriptLint struct {
	viewlint.RuleBase
	analyzer Analyzer
	batch    []FormattedScript
}

var (
	_ model.MessageHandlerScriptVisitor = (*ScriptLint)(nil)
	_ model.CustomMethodScriptVisitor   = (*ScriptLint)(nil)
	_ model.TransformScriptVisitor      = (*ScriptLint)(nil)
	_ model.EventHandlerScriptVisitor   = (*ScriptLint)(nil)
	_ viewlint.BeforeHook               = (*ScriptLint)(nil)
	_ viewlint.Finalizer                = (*ScriptLint)(nil)
)

// NewScriptLint returns the ScriptLintRule factory bound to an analyzer.
func NewScriptLint(analyzer Analyzer) viewlint.Factory {
	if analyzer == nil {
		analyzer = NopAnalyzer{}
	}
	return func(cfg map[string]any) (viewlint.Rule, error) {
		if err := rejectUnknown(cfg); err != nil {
			return nil, err
		}
		return &ScriptLint{analyzer: analyzer}, nil
	}
}

func (r *ScriptLint) Name() string                { return "ScriptLintRule" }
func (r *ScriptLint) Severity() viewlint.Severity { return viewlint.SeverityWarning }
func (r *ScriptLint) Kinds() model.KindSet        { return model.ScriptKinds }

func (r *ScriptLint) Before(*model.ViewModel) { r.batch = r.batch[:0] }

func (r *ScriptLint) collect(s model.Script) {
	r.batch = append(r.batch, FormattedScript{
		Path:   s.Path().String(),
		Source: s.FormattedBody(),
	})
}

func (r *ScriptLint) VisitMessageHandlerScript(s *model.MessageHandlerScript) error {
	r.collect(s)
	return nil
}

func (r *ScriptLint) VisitCustomMethodScript(s *model.CustomMethodScript) error {
	r.collect(s)
	return nil
}

func (r *ScriptLint) VisitTransformScript(s *model.TransformScript) error {
	r.collect(s)
	return nil
}

func (r *ScriptLint) VisitEventHandlerScript(s *model.EventHandlerScript) error {
	r.collect(s)
	return nil
}

func (r *ScriptLint) Finalize() error {
	if len(r.batch) == 0 {
		return nil
	}
	findings, err := r.analyzer.Analyze(r.batch)
	if err != nil {
		r.Collector().ReportCode("", viewlint.CodeAnalyzerFailure,
			"script analyzer failed: %v", err)
		return nil
	}
	for _, f := range findings {
		r.Collector().ReportCode(f.Path, viewlint.CodeScriptFinding,
			"line %d: %s", f.Line, f.Message)
	}
	return nil
}
