package viewlint

import (
	"github.com/viewlint/viewlint/model"
)

// Rule is one diagnostic check. A rule additionally implements the narrow
// model.*Visitor interfaces for every kind in its capability set; the engine
// adapts those onto the full visitor during traversal and never calls a visit
// method for a kind outside the set.
type Rule interface {
	// Name identifies the rule in configuration and results.
	Name() string
	// Severity is fixed by the rule's declaration.
	Severity() Severity
	// Kinds is the rule's declared node-capability set.
	Kinds() model.KindSet
	// Collector returns the rule's diagnostic accumulator.
	Collector() *Collector
}

// Optional lifecycle hooks, in the order the engine invokes them.
type (
	// BeforeHook runs before traversal and resets per-run state.
	BeforeHook interface{ Before(m *model.ViewModel) }
	// Finalizer runs exactly once after traversal. Rules that accumulate
	// work across nodes (batched external analysis, cross-reference checks)
	// do it here instead of per node.
	Finalizer interface{ Finalize() error }
	// AfterHook runs last, after diagnostics are drained from hooks.
	AfterHook interface{ After() }
)

// RuleBase supplies the Collector every rule embeds.
type RuleBase struct {
	col Collector
}

// Collector returns the embedded diagnostic accumulator.
func (b *RuleBase) Collector() *Collector { return &b.col }

// Factory constructs a rule from its named configuration options. The rule
// declares and validates its own option bag; a non-nil error excludes only
// that rule from the run.
type Factory func(cfg map[string]any) (Rule, error)
