// Package rules provides the built-in lint rules and their registry.
package rules

import (
	"encoding/json"
	"fmt"
)

// Option-bag decoding helpers. Values arrive from JSON or YAML config, so
// numbers may be json.Number, float64, or int.

func stringOpt(cfg map[string]any, key, def string) (string, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q must be a string, got %T", key, v)
	}
	return s, nil
}

func intOpt(cfg map[string]any, key string, def int) (int, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("option %q must be an integer: %v", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("option %q must be an integer, got %T", key, v)
	}
}

func boolOpt(cfg map[string]any, key string, def bool) (bool, error) {
	v, ok := cfg[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("option %q must be a boolean, got %T", key, v)
	}
	return b, nil
}

func stringsOpt(cfg map[string]any, key string) ([]string, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("option %q must be a list of strings, got %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("option %q must contain only strings, got %T", key, e)
		}
		out = append(out, s)
	}
	return out, nil
}

func rejectUnknown(cfg map[string]any, allowed ...string) error {
	ok := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		ok[k] = struct{}{}
	}
	for k := range cfg {
		if _, found := ok[k]; !found {
			return fmt.Errorf("unknown option %q", k)
		}
	}
	return nil
}
