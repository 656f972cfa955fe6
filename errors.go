package viewlint

import (
	"errors"
	"fmt"

	"github.com/viewlint/viewlint/flatten"
	"github.com/viewlint/viewlint/model"
)

// The fatal document-stage errors are defined where they arise; aliases keep
// the whole taxonomy importable from the root package.
type (
	// ParseError: the input is not a valid document shape. Fatal, no model.
	ParseError = flatten.ParseError
	// ModelBuildError: an unrecognized or structurally invalid discriminator
	// under the strict policy. Fatal for the document.
	ModelBuildError = model.BuildError
)

// RuleConfigError reports a rule whose configuration options failed
// validation at registration. The rule is excluded; the run proceeds.
type RuleConfigError struct {
	Rule string
	Err  error
}

func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("rule %s: invalid configuration: %v", e.Rule, e.Err)
}

func (e *RuleConfigError) Unwrap() error { return e.Err }

// AsParseError extracts a ParseError using errors.As.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsBuildError extracts a ModelBuildError using errors.As.
func AsBuildError(err error) (*ModelBuildError, bool) {
	var be *ModelBuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
