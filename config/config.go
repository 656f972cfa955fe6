// Package config loads rule configuration files and instantiates rules from
// a registry. Both JSON and YAML files are accepted.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/viewlint/viewlint"
)

// RuleConfig is one rule's entry in the configuration file.
type RuleConfig struct {
	// Enabled defaults to true when absent.
	Enabled *bool          `json:"enabled" yaml:"enabled"`
	Kwargs  map[string]any `json:"kwargs" yaml:"kwargs"`
}

// File maps rule names to their configuration. Keys starting with an
// underscore are comments and are dropped during load.
type File map[string]RuleConfig

// Load reads a configuration file, choosing the format by extension
// (.yaml/.yml for YAML, anything else JSON).
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseJSON(b)
	}
}

// ParseJSON decodes a JSON configuration document.
func ParseJSON(b []byte) (File, error) {
	var f File
	if err := j.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return f.stripComments(), nil
}

// ParseYAML decodes a YAML configuration document.
func ParseYAML(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return f.stripComments(), nil
}

func (f File) stripComments() File {
	for k := range f {
		if strings.HasPrefix(k, "_") {
			delete(f, k)
		}
	}
	return f
}

// Build instantiates every enabled rule through the registry. Unknown names
// and factory validation failures become RuleConfigErrors; they exclude only
// the affected rule. Rules are created in registry registration order so runs
// are reproducible regardless of map iteration.
func (f File) Build(reg *viewlint.Registry) ([]viewlint.Rule, []*viewlint.RuleConfigError) {
	var (
		rules []viewlint.Rule
		errs  []*viewlint.RuleConfigError
	)
	seen := map[string]struct{}{}
	for _, name := range reg.Names() {
		rc, ok := f[name]
		if !ok {
			continue
		}
		seen[name] = struct{}{}
		if rc.Enabled != nil && !*rc.Enabled {
			continue
		}
		factory, _ := reg.Lookup(name)
		r, err := factory(rc.Kwargs)
		if err != nil {
			errs = append(errs, &viewlint.RuleConfigError{Rule: name, Err: err})
			continue
		}
		rules = append(rules, r)
	}
	var unknown []string
	for name := range f {
		if _, ok := seen[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, &viewlint.RuleConfigError{
			Rule: name,
			Err:  fmt.Errorf("unknown rule"),
		})
	}
	return rules, errs
}
