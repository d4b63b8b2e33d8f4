package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
	"github.com/ludo-technologies/lintmaster/internal/config"
	"github.com/ludo-technologies/lintmaster/internal/lint"
	"github.com/ludo-technologies/lintmaster/internal/tool"
	"github.com/ludo-technologies/lintmaster/internal/vcs"
	"github.com/ludo-technologies/lintmaster/service"
)

// StagedLoader produces the staged-file set for a run
type StagedLoader interface {
	Load(ctx context.Context) *vcs.StagedFileSet
}

// CheckUseCase orchestrates a check run: file expansion, staged-file query,
// rule registry construction, parallel checking and report rendering
type CheckUseCase struct {
	fileHelper *FileHelper
	staged     StagedLoader
	formatter  domain.ReportFormatter
	progress   domain.ProgressManager
}

// CheckResult holds the outcome of a run together with its timing
type CheckResult struct {
	Outcome  *domain.RunOutcome
	Files    []string
	Duration time.Duration
}

// Execute checks paths with cfg and writes the report to writer.
//
// The report is written even when a fatal error stopped the run early, so
// the files that completed are still shown; the error is returned after.
func (uc *CheckUseCase) Execute(ctx context.Context, cfg *config.Config, paths []string, writer io.Writer) (*CheckResult, error) {
	start := time.Now()

	files, err := uc.fileHelper.CollectFiles(paths, CollectOptions{
		Recursive:        cfg.Analysis.Recursive,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no files to check in the specified paths", nil)
	}

	staged := uc.stagedLoader(cfg).Load(ctx)

	registry, err := NewRuleRegistryFromConfig(cfg, staged)
	if err != nil {
		return nil, err
	}

	progress := uc.progress
	if progress == nil {
		progress = &service.NoOpProgressManager{}
	}
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, progress)
	executor.SetFailFast(true)

	outcome, runErr := service.NewCheckService(registry, executor).Check(ctx, domain.CheckRequest{Paths: files})
	progress.Close()

	result := &CheckResult{
		Outcome:  outcome,
		Files:    files,
		Duration: time.Since(start),
	}

	if outcome != nil {
		if err := uc.formatter.Write(outcome, domain.OutputFormat(cfg.Output.Format), writer); err != nil {
			return result, err
		}
	}

	return result, runErr
}

func (uc *CheckUseCase) stagedLoader(cfg *config.Config) StagedLoader {
	if uc.staged != nil {
		return uc.staged
	}
	return vcs.NewStagedQuery(ToolSpec(cfg.Linters.Git))
}

// NewRuleRegistryFromConfig builds the language rule registry with the
// configured linters, theme file and staged-file set
func NewRuleRegistryFromConfig(cfg *config.Config, staged analyzer.StagedSet) (*service.RuleRegistry, error) {
	webParser, ok := lint.ParserFor(cfg.Linters.Web.Parser)
	if !ok {
		return nil, domain.NewConfigError(fmt.Sprintf("unknown parser %q for linters.web", cfg.Linters.Web.Parser), nil)
	}
	goParser, ok := lint.ParserFor(cfg.Linters.Go.Parser)
	if !ok {
		return nil, domain.NewConfigError(fmt.Sprintf("unknown parser %q for linters.go", cfg.Linters.Go.Parser), nil)
	}

	failOpt := lint.WithFailOnUnavailable(cfg.Linters.FailOnUnavailable)
	markers := cfg.Rules.Markers

	return service.NewDefaultRuleRegistry(
		service.RuleSettings{
			Markers: analyzer.Markers{
				Comment:   markers.Comment,
				TODO:      markers.TODO,
				Ignore:    markers.Ignore,
				Console:   markers.Console,
				Necessary: markers.Necessary,
			},
			MaxFileLines:  cfg.Rules.MaxFileLines,
			SVGAttributes: cfg.Rules.SVGAttributes,
			NamespaceHint: cfg.Rules.NamespaceHint,
		},
		service.RuleDependencies{
			WebLinter: lint.NewAdapter(ToolSpec(cfg.Linters.Web), webParser, failOpt),
			GoLinter:  lint.NewAdapter(ToolSpec(cfg.Linters.Go), goParser, failOpt),
			Staged:    staged,
			Theme:     service.NewFileThemeProvider(cfg.Rules.ThemeFile),
		},
	), nil
}

// ToolSpec converts a configured tool into a runnable spec
func ToolSpec(tc config.ToolConfig) tool.Spec {
	return tool.Spec{
		Name:    filepath.Base(tc.Command),
		Command: tc.Command,
		Args:    tc.Args,
		Timeout: tc.Timeout(),
	}
}

// CheckUseCaseBuilder builds a CheckUseCase
type CheckUseCaseBuilder struct {
	fileHelper *FileHelper
	staged     StagedLoader
	formatter  domain.ReportFormatter
	progress   domain.ProgressManager
}

// NewCheckUseCaseBuilder creates a new builder
func NewCheckUseCaseBuilder() *CheckUseCaseBuilder {
	return &CheckUseCaseBuilder{}
}

// WithFileHelper sets the file helper
func (b *CheckUseCaseBuilder) WithFileHelper(fh *FileHelper) *CheckUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithStagedLoader replaces the git query that produces the staged-file set
func (b *CheckUseCaseBuilder) WithStagedLoader(loader StagedLoader) *CheckUseCaseBuilder {
	b.staged = loader
	return b
}

// WithFormatter sets the report formatter
func (b *CheckUseCaseBuilder) WithFormatter(f domain.ReportFormatter) *CheckUseCaseBuilder {
	b.formatter = f
	return b
}

// WithProgress sets the progress manager
func (b *CheckUseCaseBuilder) WithProgress(pm domain.ProgressManager) *CheckUseCaseBuilder {
	b.progress = pm
	return b
}

// Build creates the CheckUseCase
func (b *CheckUseCaseBuilder) Build() (*CheckUseCase, error) {
	if b.formatter == nil {
		return nil, fmt.Errorf("formatter is required")
	}

	uc := &CheckUseCase{
		fileHelper: b.fileHelper,
		staged:     b.staged,
		formatter:  b.formatter,
		progress:   b.progress,
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
