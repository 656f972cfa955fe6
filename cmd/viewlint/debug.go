package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/viewlint/viewlint/flatten"
	"github.com/viewlint/viewlint/model"
)

// writeDebugFiles dumps the flattened document, the serialized model, and the
// statistics for one view as indented JSON golden files.
func writeDebugFiles(dir, viewPath string, doc flatten.Document, m *model.ViewModel) error {
	name := filepath.Base(filepath.Dir(viewPath))
	if name == "." || name == string(filepath.Separator) {
		name = strings.TrimSuffix(filepath.Base(viewPath), ".json")
	}
	out := filepath.Join(dir, name)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	flat := make(map[string]any, len(doc))
	for _, p := range doc {
		flat[p.Path.String()] = debugValue(p.Value)
	}
	if err := writeJSON(filepath.Join(out, "flattened.json"), flat); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(out, "model.json"), m.Serialize()); err != nil {
		return err
	}
	return writeJSON(filepath.Join(out, "stats.json"), m.Stats())
}

func debugValue(v any) any {
	switch v.(type) {
	case flatten.EmptyObject:
		return map[string]any{}
	case flatten.EmptyArray:
		return []any{}
	default:
		return v
	}
}

func writeJSON(path string, v any) error {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
