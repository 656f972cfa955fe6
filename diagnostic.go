package viewlint

import (
	"fmt"
	"strings"
)

// Severity is fixed by a rule's declaration, not user-configurable.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	default:
		return "warning"
	}
}

// Diagnostic codes (exported consts for stable matching by callers).
const (
	CodeInternalError      = "internal_error"
	CodeNamePattern        = "name_pattern"
	CodePollingInterval    = "polling_interval"
	CodeUnusedProperty     = "unused_property"
	CodeUnknownReference   = "unknown_reference"
	CodeScriptFinding      = "script_finding"
	CodeAnalyzerFailure    = "analyzer_failure"
	CodeUnknownRule        = "unknown_rule"
	CodeInvalidRuleOptions = "invalid_rule_options"
)

// Diagnostic is one reported finding.
type Diagnostic struct {
	Path     string // node path the finding is attributed to; may be empty
	Message  string
	Severity Severity
	Rule     string // rule name, stamped by the engine
	Code     string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

// Diagnostics is an ordered finding list.
type Diagnostics []Diagnostic

// Summary condenses the first few diagnostics into one line.
func (ds Diagnostics) Summary() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(ds)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", ds[i].Code, ds[i].Path)
	}
	if n := len(ds); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Results maps rule name to that rule's findings in traversal order.
type Results map[string]Diagnostics

// Counts tallies warnings and errors across all rules.
func (r Results) Counts() (warnings, errors int) {
	for _, ds := range r {
		for _, d := range ds {
			if d.Severity == SeverityError {
				errors++
			} else {
				warnings++
			}
		}
	}
	return warnings, errors
}

// Collector accumulates a rule's findings during one run. Every rule embeds
// one via RuleBase; the engine drains and orders it after traversal.
type Collector struct {
	diags Diagnostics
}

// Reportf records a finding at the given node path.
func (c *Collector) Reportf(path string, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)})
}

// ReportCode records a finding with an explicit diagnostic code.
func (c *Collector) ReportCode(path, code string, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) take() Diagnostics {
	out := c.diags
	c.diags = nil
	return out
}
