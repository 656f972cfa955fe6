package rules

import (
	"regexp"
	"strconv"

	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/model"
)

var nowCall = regexp.MustCompile(`\bnow\(\s*(\d*)\s*\)`)

// PollingInterval flags expression bindings whose now() polls run faster than
// a minimum period. A bare now() or now(0) re-evaluates on every scan and is
// always flagged.
//
// Options:
//
//	minimumMs  smallest acceptable polling period in milliseconds
//	           (default 10000)
type PollingInterval struct {
	viewlint.RuleBase
	minimumMs int
}

var _ model.ExpressionBindingVisitor = (*PollingInterval)(nil)

// NewPollingInterval is the PollingIntervalRule factory.
func NewPollingInterval(cfg map[string]any) (viewlint.Rule, error) {
	if err := rejectUnknown(cfg, "minimumMs"); err != nil {
		return nil, err
	}
	min, err := intOpt(cfg, "minimumMs", 10000)
	if err != nil {
		return nil, err
	}
	return &PollingInterval{minimumMs: min}, nil
}

func (r *PollingInterval) Name() string                { return "PollingIntervalRule" }
func (r *PollingInterval) Severity() viewlint.Severity { return viewlint.SeverityWarning }
func (r *PollingInterval) Kinds() model.KindSet {
	return model.Kinds(model.KindExpressionBinding)
}

func (r *PollingInterval) VisitExpressionBinding(b *model.ExpressionBinding) error {
	for _, m := range nowCall.FindAllStringSubmatch(b.Expression, -1) {
		arg := m[1]
		if arg == "" || arg == "0" {
			r.Collector().ReportCode(b.Path().String(), viewlint.CodePollingInterval,
				"now() without a polling interval re-evaluates continuously")
			continue
		}
		ms, err := strconv.Atoi(arg)
		if err == nil && ms < r.minimumMs {
			r.Collector().ReportCode(b.Path().String(), viewlint.CodePollingInterval,
				"polling interval %dms is below the %dms minimum", ms, r.minimumMs)
		}
	}
	return nil
}
