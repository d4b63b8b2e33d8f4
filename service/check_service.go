package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
)

// CheckServiceImpl runs the language rule sets over files and folds the
// per-file outcomes into a RunOutcome
type CheckServiceImpl struct {
	registry *RuleRegistry
	executor domain.ParallelExecutor
}

// NewCheckService creates a new check service
func NewCheckService(registry *RuleRegistry, executor domain.ParallelExecutor) *CheckServiceImpl {
	return &CheckServiceImpl{
		registry: registry,
		executor: executor,
	}
}

// Check processes every requested path. Each file task fills its own slot,
// and the slots are folded in request order once the pool drains, so the
// report order and total do not depend on scheduling.
//
// A fatal error (unreadable input, missing theme file, unavailable linter in
// strict mode) is returned together with the outcome of the files that did
// complete.
func (s *CheckServiceImpl) Check(ctx context.Context, req domain.CheckRequest) (*domain.RunOutcome, error) {
	slots := make([]*domain.FileOutcome, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &fileTask{
			path: path,
			run: func(ctx context.Context) error {
				outcome, err := s.CheckFile(ctx, path)
				if err != nil {
					return err
				}
				slots[i] = &outcome
				return nil
			},
		}
	}

	execErr := s.executor.Execute(ctx, tasks)

	outcome := &domain.RunOutcome{Reports: []*domain.FileReport{}}
	unchecked := 0
	for _, slot := range slots {
		if slot == nil {
			unchecked++
			continue
		}
		outcome.Add(*slot)
	}

	if execErr != nil {
		return outcome, execErr
	}
	if unchecked > 0 {
		return outcome, fmt.Errorf("%d of %d files were not checked", unchecked, len(slots))
	}
	return outcome, nil
}

// CheckFile classifies, reads and checks a single file. Unsupported and
// unclassifiable files are returned as failures, not errors.
func (s *CheckServiceImpl) CheckFile(ctx context.Context, path string) (domain.FileOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.FileOutcome{}, err
	}

	lang, err := analyzer.Classify(path)
	if err != nil {
		if domain.IsClassificationError(err) {
			return domain.FileOutcome{Failure: &domain.FileFailure{
				Path:    path,
				Reason:  domain.FailureClassification,
				Message: err.Error(),
			}}, nil
		}
		return domain.FileOutcome{}, err
	}

	rules := s.registry.Rules(lang)
	if len(rules) == 0 {
		ext, _ := analyzer.Extension(path)
		return domain.FileOutcome{Failure: &domain.FileFailure{
			Path:    path,
			Reason:  domain.FailureUnsupported,
			Message: fmt.Sprintf("unsupported file type .%s", ext),
		}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.FileOutcome{}, domain.NewFileNotFoundError(path, err)
		}
		return domain.FileOutcome{}, domain.NewFileReadError(path, err)
	}

	start := time.Now()
	file := SourceFile{Path: path, Content: string(data)}
	report := &domain.FileReport{
		Path:     path,
		Language: lang,
		Results:  make([]domain.RuleResult, 0, len(rules)),
	}
	for _, rule := range rules {
		result, err := rule.Check(ctx, file)
		if err != nil {
			return domain.FileOutcome{}, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		report.Results = append(report.Results, domain.RuleResult{Rule: rule.Name(), Result: result})
	}

	slog.Debug("Checked file",
		slog.String("file", path),
		slog.String("language", string(lang)),
		slog.Int("errors", report.TotalErrors()),
		slog.Duration("duration", time.Since(start)),
	)

	return domain.FileOutcome{Report: report}, nil
}

// fileTask adapts one file check to the parallel executor
type fileTask struct {
	path string
	run  func(ctx context.Context) error
}

func (t *fileTask) Name() string {
	return t.path
}

func (t *fileTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}

func (t *fileTask) IsEnabled() bool {
	return true
}
