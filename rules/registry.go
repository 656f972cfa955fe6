package rules

import "github.com/viewlint/viewlint"

// Builtin returns a registry populated with every built-in rule. The analyzer
// backs ScriptLintRule; nil installs the no-op analyzer.
func Builtin(analyzer Analyzer) *viewlint.Registry {
	reg := viewlint.NewRegistry()
	// Names are fixed; duplicate registration cannot happen here.
	_ = reg.Register("NamePatternRule", NewNamePattern)
	_ = reg.Register("PollingIntervalRule", NewPollingInterval)
	_ = reg.Register("UnusedCustomPropertyRule", NewUnusedCustomProperty)
	_ = reg.Register("BadComponentReferenceRule", NewComponentReference)
	_ = reg.Register("ScriptLintRule", NewScriptLint(analyzer))
	return reg
}
