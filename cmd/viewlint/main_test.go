package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/viewlint/viewlint/rules"
)

const badNameView = `{
  "root": {
    "children": [
      {
        "meta": {"name": "myButton"},
        "propConfig": {
          "props.text": {"binding": {"config": {"expression": "now(0)"}, "type": "expr"}}
        },
        "type": "ia.input.button"
      }
    ],
    "meta": {"name": "root"},
    "type": "ia.container.coord"
  }
}`

const cleanView = `{
  "root": {
    "children": [{"meta": {"name": "StatusLabel"}, "type": "ia.display.label"}],
    "meta": {"name": "root"},
    "type": "ia.container.coord"
  }
}`

func writeProject(t *testing.T, view, cfg string) (viewDir, cfgPath string) {
	t.Helper()
	dir := t.TempDir()
	viewDir = filepath.Join(dir, "MyView")
	if err := os.MkdirAll(viewDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(viewDir, "view.json"), []byte(view), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath = filepath.Join(dir, "rule-config.json")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return viewDir, cfgPath
}

func TestRunReportsErrors(t *testing.T) {
	viewDir, cfgPath := writeProject(t, badNameView, `{"NamePatternRule": {}}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, viewDir}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1\nstdout: %s\nstderr: %s", code, &stdout, &stderr)
	}
	out := stdout.String()
	if !strings.Contains(out, "NamePatternRule") || !strings.Contains(out, "myButton") {
		t.Errorf("output missing finding:\n%s", out)
	}
}

func TestRunCleanView(t *testing.T) {
	viewDir, cfgPath := writeProject(t, cleanView, `{"NamePatternRule": {}}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, viewDir}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, &stderr)
	}
	if !strings.Contains(stdout.String(), "no issues found") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

func TestRunWarningsOnly(t *testing.T) {
	viewDir, cfgPath := writeProject(t, badNameView, `{"PollingIntervalRule": {}}`)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfgPath, viewDir}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1 for warnings by default", code)
	}
	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"-config", cfgPath, "-warnings-only", viewDir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0 with -warnings-only", code)
	}
}

func TestRunStatsOnly(t *testing.T) {
	viewDir, cfgPath := writeProject(t, badNameView, `{"NamePatternRule": {}}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-stats-only", viewDir}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "total nodes") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

func TestRunMissingConfig(t *testing.T) {
	viewDir, _ := writeProject(t, cleanView, `{}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", filepath.Join(viewDir, "absent.json"), viewDir}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunDebugOutput(t *testing.T) {
	viewDir, cfgPath := writeProject(t, cleanView, `{"NamePatternRule": {}}`)
	debugDir := filepath.Join(t.TempDir(), "debug")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-debug-output", debugDir, viewDir}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d\nstderr: %s", code, &stderr)
	}
	for _, f := range []string{"flattened.json", "model.json", "stats.json"} {
		if _, err := os.Stat(filepath.Join(debugDir, "MyView", f)); err != nil {
			t.Errorf("debug file %s: %v", f, err)
		}
	}
}

func TestRunAnalyzeRules(t *testing.T) {
	_, cfgPath := writeProject(t, cleanView,
		`{"NamePatternRule": {"kwargs": {"convention": "camelCase"}}, "PollingIntervalRule": {"enabled": false}}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-analyze-rules"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	out := stdout.String()
	for _, want := range []string{
		"NamePatternRule: enabled, 1 options",
		"PollingIntervalRule: disabled",
		"ScriptLintRule: not configured",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFindings(t *testing.T) {
	origins := map[string]string{
		"/tmp/b/script_000.py": "root.scripts.messageHandlers[0]",
		"/tmp/b/script_001.py": "root.children[0].events.component.onActionPerformed.config",
	}
	out := strings.Join([]string{
		"/tmp/b/script_000.py:2:5: unused variable 'x'",
		"/tmp/b/script_001.py:1: syntax error",
		"/tmp/b/unrelated.py:3: ignored",
		"not a finding line",
		"",
	}, "\n")

	got := parseFindings(out, origins)
	want := []rules.Finding{
		{Path: "root.scripts.messageHandlers[0]", Line: 1, Message: "unused variable 'x'"},
		{Path: "root.children[0].events.component.onActionPerformed.config", Line: 1, Message: "syntax error"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("findings (-want +got):\n%s", diff)
	}
}

func TestCollectFilesList(t *testing.T) {
	viewDir, _ := writeProject(t, cleanView, `{}`)
	direct := filepath.Join(viewDir, "view.json")

	paths, err := collectFiles(options{files: direct + ", " + viewDir})
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}
	want := []string{direct, direct}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}
