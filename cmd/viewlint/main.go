// Command viewlint lints Ignition Perspective view.json files.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viewlint/viewlint"
	"github.com/viewlint/viewlint/config"
	"github.com/viewlint/viewlint/flatten"
	"github.com/viewlint/viewlint/model"
	"github.com/viewlint/viewlint/rules"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath   string
	files        string
	verbose      bool
	statsOnly    bool
	analyzeRules bool
	warningsOnly bool
	lenient      bool
	debugDir     string
	scriptLinter string
	filenames    []string
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt options
	fs := flag.NewFlagSet("viewlint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opt.configPath, "config", "rule-config.json", "path to the rule configuration file (JSON or YAML)")
	fs.StringVar(&opt.files, "files", "", "comma-separated files or directories to lint (directories are searched for view.json)")
	fs.BoolVar(&opt.verbose, "verbose", false, "show model statistics and extra detail")
	fs.BoolVar(&opt.statsOnly, "stats-only", false, "only show statistics, do not run rules")
	fs.BoolVar(&opt.analyzeRules, "analyze-rules", false, "list the available rules with their configuration status and exit")
	fs.BoolVar(&opt.warningsOnly, "warnings-only", false, "exit 0 when only warnings are found")
	fs.BoolVar(&opt.lenient, "lenient", false, "keep unknown binding/script kinds as placeholder nodes instead of failing")
	fs.StringVar(&opt.debugDir, "debug-output", "", "directory to save debug files (flattened JSON, model state, statistics)")
	fs.StringVar(&opt.scriptLinter, "script-linter", "", "external command to analyze script bodies")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	opt.filenames = fs.Args()

	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var analyzer rules.Analyzer
	if opt.scriptLinter != "" {
		analyzer = newExecAnalyzer(opt.scriptLinter)
	}
	reg := rules.Builtin(analyzer)

	if opt.analyzeRules {
		printRules(stdout, reg, opt.configPath)
		return 0
	}

	var active []viewlint.Rule
	if !opt.statsOnly {
		cfg, err := config.Load(opt.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error loading config %s: %v\n", opt.configPath, err)
			return 2
		}
		var cfgErrs []*viewlint.RuleConfigError
		active, cfgErrs = cfg.Build(reg)
		for _, ce := range cfgErrs {
			logger.Warn("rule excluded", "rule", ce.Rule, "reason", ce.Err)
		}
		if len(active) == 0 {
			fmt.Fprintln(stderr, "no valid rules configured")
			return 2
		}
		logger.Debug("rules loaded", "count", len(active))
	}

	paths, err := collectFiles(opt)
	if err != nil {
		fmt.Fprintf(stderr, "error collecting files: %v\n", err)
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "no files specified or found")
		return 0
	}

	eng := viewlint.NewEngine(active...)
	eng.SetLogger(logger)

	var totalWarnings, totalErrors, filesWithIssues int
	for _, p := range paths {
		w, e, err := lintFile(p, eng, opt, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", p, err)
			totalErrors++
			filesWithIssues++
			continue
		}
		totalWarnings += w
		totalErrors += e
		if w+e > 0 {
			filesWithIssues++
		}
	}

	fmt.Fprintf(stdout, "\nfiles processed: %d\n", len(paths))
	if opt.statsOnly {
		return 0
	}
	if totalWarnings+totalErrors == 0 {
		fmt.Fprintln(stdout, "no issues found")
		return 0
	}
	fmt.Fprintf(stdout, "warnings: %d, errors: %d, files with issues: %d\n",
		totalWarnings, totalErrors, filesWithIssues)
	if totalErrors > 0 {
		return 1
	}
	if opt.warningsOnly {
		return 0
	}
	return 1
}

// printRules lists every registered rule and how the config file treats it.
// A missing or unreadable config reads as all defaults.
func printRules(w io.Writer, reg *viewlint.Registry, configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.File{}
	}
	fmt.Fprintln(w, "available rules:")
	for _, name := range reg.Names() {
		status := "not configured"
		if rc, ok := cfg[name]; ok {
			status = "enabled"
			if rc.Enabled != nil && !*rc.Enabled {
				status = "disabled"
			}
			if len(rc.Kwargs) > 0 && status == "enabled" {
				status = fmt.Sprintf("enabled, %d options", len(rc.Kwargs))
			}
		}
		fmt.Fprintf(w, "  %s: %s\n", name, status)
	}
}

// collectFiles resolves positional filenames first (pre-commit style), then
// the -files list. Directories are walked for files named view.json.
func collectFiles(opt options) ([]string, error) {
	var out []string
	add := func(p string) error {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			out = append(out, p)
			return nil
		}
		return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && d.Name() == "view.json" {
				out = append(out, path)
			}
			return nil
		})
	}
	if len(opt.filenames) > 0 {
		for _, f := range opt.filenames {
			if err := add(f); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	for _, f := range strings.Split(opt.files, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if err := add(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func lintFile(path string, eng *viewlint.Engine, opt options, stdout io.Writer) (warnings, errs int, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	doc, err := flatten.FlattenBytes(raw)
	if err != nil {
		return 0, 0, err
	}
	buildOpts := model.Options{}
	if opt.lenient {
		buildOpts.OnUnknown = model.UnknownKeep
	}
	m, err := model.Build(doc, buildOpts)
	if err != nil {
		return 0, 0, err
	}

	if opt.debugDir != "" {
		if err := writeDebugFiles(opt.debugDir, path, doc, m); err != nil {
			return 0, 0, err
		}
	}
	if opt.verbose || opt.statsOnly {
		printStats(stdout, path, m.Stats())
	}
	if opt.statsOnly {
		return 0, 0, nil
	}

	results := eng.Run(m)
	printResults(stdout, path, eng, results)
	w, e := results.Counts()
	return w, e, nil
}

func printStats(w io.Writer, path string, s model.Stats) {
	fmt.Fprintf(w, "\nmodel statistics for %s:\n", path)
	fmt.Fprintf(w, "  total nodes: %d\n", s.TotalNodes)
	for _, kind := range sortedKeys(s.NodeKindCounts) {
		fmt.Fprintf(w, "  %s: %d\n", kind, s.NodeKindCounts[kind])
	}
	if len(s.ComponentsByType) > 0 {
		fmt.Fprintln(w, "  components by type:")
		for _, t := range sortedKeys(s.ComponentsByType) {
			fmt.Fprintf(w, "    %s: %d\n", t, s.ComponentsByType[t])
		}
	}
}

func printResults(w io.Writer, path string, eng *viewlint.Engine, results viewlint.Results) {
	warnings, errors := results.Counts()
	if warnings+errors == 0 {
		fmt.Fprintf(w, "%s: clean\n", path)
		return
	}
	fmt.Fprintf(w, "%s: %d warnings, %d errors\n", path, warnings, errors)
	for _, r := range eng.Rules() {
		ds := results[r.Name()]
		if len(ds) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s (%s):\n", r.Name(), r.Severity())
		for _, d := range ds {
			fmt.Fprintf(w, "    %s\n", d)
		}
	}
}
