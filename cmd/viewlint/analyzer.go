package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viewlint/viewlint/rules"
)

// execAnalyzer writes each formatted script to a temp file and runs one
// external linter invocation over the whole batch. The command must print
// findings as "file:line: message" (pylint's parseable output fits).
type execAnalyzer struct {
	command string
	args    []string
}

func newExecAnalyzer(command string) *execAnalyzer {
	parts := strings.Fields(command)
	return &execAnalyzer{command: parts[0], args: parts[1:]}
}

func (a *execAnalyzer) Analyze(scripts []rules.FormattedScript) ([]rules.Finding, error) {
	dir, err := os.MkdirTemp("", "viewlint-scripts-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	origins := make(map[string]string, len(scripts))
	args := append([]string(nil), a.args...)
	for i, s := range scripts {
		file := filepath.Join(dir, fmt.Sprintf("script_%03d.py", i))
		if err := os.WriteFile(file, []byte(s.Source+"\n"), 0o644); err != nil {
			return nil, err
		}
		origins[file] = s.Path
		args = append(args, file)
	}

	out, err := exec.Command(a.command, args...).Output()
	// Linters exit non-zero when they find issues; only report when there is
	// no parseable output at all.
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("running %s: %w", a.command, err)
	}
	return parseFindings(string(out), origins), nil
}

// parseFindings maps "file:line[:col]: message" lines back to view paths.
// The def header added by formatting occupies line 1, so reported lines are
// shifted by one to match the raw script body.
func parseFindings(out string, origins map[string]string) []rules.Finding {
	var findings []rules.Finding
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		origin, ok := origins[parts[0]]
		if !ok {
			continue
		}
		ln, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		msg := strings.TrimSpace(parts[2])
		// drop a leading column number when present
		if c := strings.IndexByte(msg, ':'); c > 0 {
			if _, err := strconv.Atoi(msg[:c]); err == nil {
				msg = strings.TrimSpace(msg[c+1:])
			}
		}
		if ln > 1 {
			ln--
		}
		findings = append(findings, rules.Finding{Path: origin, Line: ln, Message: msg})
	}
	return findings
}
