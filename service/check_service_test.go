package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
	"github.com/ludo-technologies/lintmaster/internal/config"
	"github.com/ludo-technologies/lintmaster/internal/vcs"
)

// stubLinter returns a fixed result and counts invocations
type stubLinter struct {
	result domain.CheckResult
	err    error
	calls  atomic.Int32
}

func (l *stubLinter) Lint(_ context.Context, _ string) (domain.CheckResult, error) {
	l.calls.Add(1)
	if l.err != nil {
		return domain.CheckResult{}, l.err
	}
	return l.result, nil
}

func defaultSettings() RuleSettings {
	cfg := config.DefaultConfig()
	return RuleSettings{
		Markers: analyzer.Markers{
			Comment:   cfg.Rules.Markers.Comment,
			TODO:      cfg.Rules.Markers.TODO,
			Ignore:    cfg.Rules.Markers.Ignore,
			Console:   cfg.Rules.Markers.Console,
			Necessary: cfg.Rules.Markers.Necessary,
		},
		MaxFileLines:  cfg.Rules.MaxFileLines,
		SVGAttributes: cfg.Rules.SVGAttributes,
		NamespaceHint: cfg.Rules.NamespaceHint,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestService(deps RuleDependencies) *CheckServiceImpl {
	executor := NewParallelExecutor()
	executor.SetFailFast(true)
	return NewCheckService(NewDefaultRuleRegistry(defaultSettings(), deps), executor)
}

func TestCheckService_WebFileWithTODOAndThemeColor(t *testing.T) {
	dir := t.TempDir()
	theme := writeFile(t, dir, "theme.ts", "export const primary = '#FF00FF';\n")
	path := writeFile(t, dir, "a.tsx", "// TODO fix this\nconst x = \"#FF00FF\";")

	svc := newTestService(RuleDependencies{
		WebLinter: &stubLinter{result: domain.EmptyResult()},
		GoLinter:  &stubLinter{result: domain.EmptyResult()},
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     NewFileThemeProvider(theme),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(outcome.Reports))
	}

	report := outcome.Reports[0]
	if report.Language != domain.LanguageWeb {
		t.Errorf("expected web language, got %s", report.Language)
	}
	if len(report.Results) != 8 {
		t.Errorf("expected 8 web rule slots, got %d", len(report.Results))
	}

	todo, _ := report.Result(domain.RuleTODO)
	if todo.ErrorCount != 1 {
		t.Errorf("expected 1 TODO finding, got %d", todo.ErrorCount)
	}
	color, _ := report.Result(domain.RuleColor)
	if color.ErrorCount != 1 {
		t.Errorf("expected 1 color finding, got %d", color.ErrorCount)
	}
	if outcome.TotalErrors < 2 {
		t.Errorf("expected total >= 2, got %d", outcome.TotalErrors)
	}
	if outcome.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", outcome.ExitCode())
	}
}

func TestCheckService_CleanGoFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "b.go", "package b\n\nfunc B() int { return 1 }\n")
	goLinter := &stubLinter{result: domain.EmptyResult()}
	theme := &countingTheme{}

	svc := newTestService(RuleDependencies{
		WebLinter: &stubLinter{result: domain.EmptyResult()},
		GoLinter:  goLinter,
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     theme,
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.TotalErrors != 0 || outcome.ExitCode() != 0 {
		t.Errorf("expected clean run, got total=%d exit=%d", outcome.TotalErrors, outcome.ExitCode())
	}

	report := outcome.Reports[0]
	want := []domain.RuleName{domain.RuleGolangciLint, domain.RuleTODO, domain.RuleFileLines}
	if len(report.Results) != len(want) {
		t.Fatalf("expected %d go rule slots, got %d", len(want), len(report.Results))
	}
	for i, name := range want {
		if report.Results[i].Rule != name {
			t.Errorf("slot %d: expected %s, got %s", i, name, report.Results[i].Rule)
		}
	}
	if goLinter.calls.Load() != 1 {
		t.Errorf("expected go linter to run once, ran %d times", goLinter.calls.Load())
	}
	if theme.calls.Load() != 0 {
		t.Error("theme must not be loaded when no web file is checked")
	}
}

func TestCheckService_UnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.md", "# readme\n")
	webLinter := &stubLinter{result: domain.EmptyResult()}

	svc := newTestService(RuleDependencies{
		WebLinter: webLinter,
		GoLinter:  &stubLinter{result: domain.EmptyResult()},
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     &countingTheme{},
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Reports) != 0 {
		t.Errorf("expected no reports, got %d", len(outcome.Reports))
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].Reason != domain.FailureUnsupported {
		t.Fatalf("expected one unsupported failure, got %+v", outcome.Failures)
	}
	if outcome.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", outcome.ExitCode())
	}
	if webLinter.calls.Load() != 0 {
		t.Error("no rule should run for an unsupported file")
	}
}

func TestCheckService_ClassificationFailureContinues(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.ts", "export const a = 1;\n")

	svc := newTestService(RuleDependencies{
		WebLinter: &stubLinter{result: domain.EmptyResult()},
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     NewFileThemeProvider(""),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"Makefile", good}})
	if err != nil {
		t.Fatalf("classification failures must not be fatal: %v", err)
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].Reason != domain.FailureClassification {
		t.Fatalf("expected one classification failure, got %+v", outcome.Failures)
	}
	if len(outcome.Reports) != 1 || outcome.Reports[0].Path != good {
		t.Errorf("expected the valid file to be reported, got %+v", outcome.Reports)
	}
	if outcome.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", outcome.ExitCode())
	}
}

func TestCheckService_ReportsKeepInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"e.ts", "d.go", "c.tsx", "b.js", "a.go"} {
		paths = append(paths, writeFile(t, dir, name, "// TODO "+name+"\n"))
	}

	svc := newTestService(RuleDependencies{
		WebLinter: &stubLinter{result: domain.EmptyResult()},
		GoLinter:  &stubLinter{result: domain.EmptyResult()},
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     NewFileThemeProvider(""),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: paths})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Reports) != len(paths) {
		t.Fatalf("expected %d reports, got %d", len(paths), len(outcome.Reports))
	}
	for i, report := range outcome.Reports {
		if report.Path != paths[i] {
			t.Errorf("report %d: expected %s, got %s", i, paths[i], report.Path)
		}
	}
	if outcome.TotalErrors != len(paths) {
		t.Errorf("expected one TODO per file, got total %d", outcome.TotalErrors)
	}
}

func TestCheckService_MissingInputIsFatal(t *testing.T) {
	svc := newTestService(RuleDependencies{
		GoLinter: &stubLinter{result: domain.EmptyResult()},
		Staged:   vcs.EmptyStagedFileSet(),
	})

	_, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{filepath.Join(t.TempDir(), "gone.go")}})
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !domain.HasCode(err, domain.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestCheckService_MissingThemeIsFatalForWebFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", "const c = '#123456';\n")

	svc := newTestService(RuleDependencies{
		WebLinter: &stubLinter{result: domain.EmptyResult()},
		Staged:    vcs.EmptyStagedFileSet(),
		Theme:     NewFileThemeProvider(filepath.Join(dir, "missing-theme.ts")),
	})

	_, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if !domain.HasCode(err, domain.ErrCodeThemeFile) {
		t.Errorf("expected THEME_FILE_ERROR, got %v", err)
	}
}

func TestCheckService_LinterErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package a\n")
	unavailable := domain.NewToolUnavailableError("golangci-lint", errors.New("not found"))

	svc := newTestService(RuleDependencies{
		GoLinter: &stubLinter{err: unavailable},
		Staged:   vcs.EmptyStagedFileSet(),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if !domain.HasCode(err, domain.ErrCodeToolUnavailable) {
		t.Fatalf("expected TOOL_UNAVAILABLE, got %v", err)
	}
	if outcome == nil || len(outcome.Reports) != 0 {
		t.Error("a file whose rule failed must not be reported")
	}
	if !strings.Contains(err.Error(), string(domain.RuleGolangciLint)) {
		t.Errorf("error should name the rule, got %v", err)
	}
}

func TestCheckService_StagedFileOverLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.go", strings.Repeat("x := 1\n", 501))
	small := writeFile(t, dir, "small.go", "package small\n")

	svc := newTestService(RuleDependencies{
		GoLinter: &stubLinter{result: domain.EmptyResult()},
		Staged:   vcs.NewStagedFileSet("", path, small),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path, small}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _ := outcome.Reports[0].Result(domain.RuleFileLines)
	if lines.ErrorCount != 1 {
		t.Errorf("expected line-limit finding for staged big file, got %+v", lines)
	}
	lines, _ = outcome.Reports[1].Result(domain.RuleFileLines)
	if lines.ErrorCount != 0 {
		t.Errorf("expected no finding for small staged file, got %+v", lines)
	}
}

func TestCheckService_DegradedLinterNotice(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package a\n")
	degraded := domain.EmptyResult()
	degraded.Notice = "golangci-lint unavailable"

	svc := newTestService(RuleDependencies{
		GoLinter: &stubLinter{result: degraded},
		Staged:   vcs.EmptyStagedFileSet(),
	})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lint, _ := outcome.Reports[0].Result(domain.RuleGolangciLint)
	if lint.Notice != "golangci-lint unavailable" {
		t.Errorf("expected notice to be kept, got %q", lint.Notice)
	}
	if outcome.ExitCode() != 0 {
		t.Errorf("a degraded linter alone must not fail the run, got exit %d", outcome.ExitCode())
	}
}

func TestCheckService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(RuleDependencies{})
	if _, err := svc.CheckFile(ctx, "a.go"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// slowLinter finishes after delay regardless of ctx
type slowLinter struct {
	delay time.Duration
}

func (l slowLinter) Lint(_ context.Context, _ string) (domain.CheckResult, error) {
	time.Sleep(l.delay)
	return domain.EmptyResult(), nil
}

func TestCheckService_RunTimeoutFailsWithFilesLeft(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.go", "package a\n"),
		writeFile(t, dir, "b.go", "package b\n// TODO later\n"),
		writeFile(t, dir, "c.go", "package c\n// TODO later\n"),
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(1)
	executor.SetTimeout(100 * time.Millisecond)
	executor.SetFailFast(true)
	svc := NewCheckService(NewDefaultRuleRegistry(defaultSettings(), RuleDependencies{
		GoLinter: slowLinter{delay: 300 * time.Millisecond},
		Staged:   vcs.EmptyStagedFileSet(),
	}), executor)

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: paths})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(outcome.Reports) != 1 || outcome.Reports[0].Path != paths[0] {
		t.Errorf("expected only the first file to be checked, got %d reports", len(outcome.Reports))
	}
}

// idleExecutor never runs its tasks
type idleExecutor struct{}

func (idleExecutor) Execute(context.Context, []domain.ExecutableTask) error {
	return nil
}

func TestCheckService_UncheckedFilesFailTheRun(t *testing.T) {
	svc := NewCheckService(NewDefaultRuleRegistry(defaultSettings(), RuleDependencies{}), idleExecutor{})

	outcome, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{"a.go", "b.go"}})
	if err == nil || !strings.Contains(err.Error(), "2 of 2 files were not checked") {
		t.Fatalf("expected unchecked files error, got %v", err)
	}
	if len(outcome.Reports) != 0 {
		t.Errorf("expected no reports, got %d", len(outcome.Reports))
	}
}
