// Package lint adapts external linters to the uniform rule result.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/tool"
)

// Adapter runs one external linter against single files
type Adapter struct {
	spec              tool.Spec
	parse             Parser
	failOnUnavailable bool

	warnOnce sync.Once
}

// Option configures an Adapter
type Option func(*Adapter)

// WithFailOnUnavailable makes a missing, crashing or hung linter a fatal
// error instead of a degraded result
func WithFailOnUnavailable(fail bool) Option {
	return func(a *Adapter) {
		a.failOnUnavailable = fail
	}
}

// NewAdapter creates an adapter for the given tool and output parser
func NewAdapter(spec tool.Spec, parse Parser, opts ...Option) *Adapter {
	if spec.Name == "" {
		spec.Name = spec.Command
	}
	a := &Adapter{spec: spec, parse: parse}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the linter's display name
func (a *Adapter) Name() string {
	return a.spec.Name
}

// Lint runs the linter on path and converts its stdout into a CheckResult.
//
// Linters exit non-zero when they report issues, so an exit status with
// stdout present is parsed like a clean run. A linter that is missing,
// times out, or fails without output yields an empty result carrying a
// notice, unless the adapter was built WithFailOnUnavailable.
func (a *Adapter) Lint(ctx context.Context, path string) (domain.CheckResult, error) {
	out, err := tool.Run(ctx, a.spec, path)
	if err != nil {
		if ctx.Err() != nil {
			return domain.CheckResult{}, ctx.Err()
		}
		kind := tool.KindOf(err)
		if kind != tool.KindExitStatus || out == nil || len(out.Stdout) == 0 {
			return a.degrade(path, err)
		}
	}

	findings := a.parse(string(out.Stdout))
	slog.Debug("Lint completed",
		slog.String("file", path),
		slog.String("linter", a.spec.Name),
		slog.Duration("duration", out.Duration),
		slog.Int("findings", len(findings)),
	)
	return domain.NewCheckResult(findings), nil
}

func (a *Adapter) degrade(path string, err error) (domain.CheckResult, error) {
	if a.failOnUnavailable {
		return domain.CheckResult{}, domain.NewToolUnavailableError(a.spec.Name, err)
	}

	notice := fmt.Sprintf("%s unavailable", a.spec.Name)
	switch tool.KindOf(err) {
	case tool.KindTimeout:
		notice = fmt.Sprintf("%s timed out", a.spec.Name)
	case tool.KindExitStatus:
		notice = fmt.Sprintf("%s failed", a.spec.Name)
	}

	if tool.KindOf(err) == tool.KindNotFound {
		a.warnOnce.Do(func() {
			slog.Warn("Linter not installed, skipping",
				slog.String("linter", a.spec.Name),
				slog.String("command", a.spec.Command),
			)
		})
	} else {
		slog.Warn("Linter run degraded",
			slog.String("file", path),
			slog.String("linter", a.spec.Name),
			slog.String("error", err.Error()),
		)
	}

	result := domain.EmptyResult()
	result.Notice = notice
	return result, nil
}
