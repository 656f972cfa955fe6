package rules

import (
	"fmt"
	"regexp"

	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/model"
)

// conventions maps the supported naming styles to their patterns.
var conventions = map[string]*regexp.Regexp{
	"PascalCase": regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`),
	"camelCase":  regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	"snake_case": regexp.MustCompile(`^[a-z][a-z0-9_]*$`),
	"kebab-case": regexp.MustCompile(`^[a-z][a-z0-9-]*$`),
	"UPPER_CASE": regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`),
	"Title Case": regexp.MustCompile(`^[A-Z][a-z0-9]*(?: [A-Z][a-z0-9]*)*$`),
}

var acronymRun = regexp.MustCompile(`[A-Z]{2,}`)

// NamePattern checks component names against a naming convention or a custom
// pattern.
//
// Options:
//
//	convention     one of PascalCase, camelCase, snake_case, kebab-case,
//	               UPPER_CASE, Title Case (default PascalCase)
//	pattern        custom regexp; overrides convention
//	skip           component names to ignore ("root" is always ignored)
//	allowAcronyms  accept consecutive capitals like HTTPButton (default true;
//	               ignored for UPPER_CASE and custom patterns)
type NamePattern struct {
	viewlint.RuleBase
	style         string
	pattern       *regexp.Regexp
	skip          map[string]struct{}
	checkAcronyms bool
}

var _ model.ComponentVisitor = (*NamePattern)(nil)

// NewNamePattern is the NamePatternRule factory.
func NewNamePattern(cfg map[string]any) (viewlint.Rule, error) {
	if err := rejectUnknown(cfg, "convention", "pattern", "skip", "allowAcronyms"); err != nil {
		return nil, err
	}
	style, err := stringOpt(cfg, "convention", "PascalCase")
	if err != nil {
		return nil, err
	}
	custom, err := stringOpt(cfg, "pattern", "")
	if err != nil {
		return nil, err
	}
	skip, err := stringsOpt(cfg, "skip")
	if err != nil {
		return nil, err
	}
	allowAcronyms, err := boolOpt(cfg, "allowAcronyms", true)
	if err != nil {
		return nil, err
	}

	r := &NamePattern{style: style, skip: map[string]struct{}{"root": {}}}
	r.checkAcronyms = !allowAcronyms && style != "UPPER_CASE"
	for _, s := range skip {
		r.skip[s] = struct{}{}
	}
	if custom != "" {
		re, err := regexp.Compile(custom)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %v", err)
		}
		r.pattern = re
		r.style = "pattern " + custom
		r.checkAcronyms = false
		return r, nil
	}
	re, ok := conventions[style]
	if !ok {
		return nil, fmt.Errorf("unknown convention %q", style)
	}
	r.pattern = re
	return r, nil
}

func (r *NamePattern) Name() string                { return "NamePatternRule" }
func (r *NamePattern) Severity() viewlint.Severity { return viewlint.SeverityError }
func (r *NamePattern) Kinds() model.KindSet        { return model.Kinds(model.KindComponent) }

func (r *NamePattern) VisitComponent(c *model.Component) error {
	if _, ok := r.skip[c.Name]; ok || c.Name == "" {
		return nil
	}
	if !r.pattern.MatchString(c.Name) {
		r.Collector().ReportCode(c.Path().String(), viewlint.CodeNamePattern,
			"component name %q does not follow %s", c.Name, r.style)
		return nil
	}
	if r.checkAcronyms && acronymRun.MatchString(c.Name) {
		r.Collector().ReportCode(c.Path().String(), viewlint.CodeNamePattern,
			"component name %q runs capitals together; capitalize acronyms as words", c.Name)
	}
	return nil
}
