package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/lintmaster/app"
	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/config"
	"github.com/ludo-technologies/lintmaster/internal/constants"
	"github.com/ludo-technologies/lintmaster/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

type checkOptions struct {
	configPath          string
	format              string
	json                bool
	verbose             bool
	maxLines            int
	themeFile           string
	concurrency         int
	noProgress          bool
	noBanner            bool
	failOnMissingLinter bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check source files against the quality rules",
		Long: `Check web (.js, .ts, .tsx) and Go source files against the rules of their
language. Directories are expanded into their supported files; files named
explicitly are always checked, so an unsupported one fails the run.

Exit codes:
  0 - No errors and every file was checked
  1 - Rule errors found, a file could not be checked, or the run failed

Examples:
  # Check a set of files (typical pre-commit hook usage)
  lintmaster check src/app.tsx cmd/main.go

  # Check a whole directory
  lintmaster check .

  # JSON output for machine parsing
  lintmaster check --json src/

  # Override the theme file and line limit
  lintmaster check --theme-file ui/theme.ts --max-lines 300 src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text",
		"Output format: text, json or yaml")
	cmd.Flags().BoolVar(&opts.json, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show debug logging")
	cmd.Flags().IntVar(&opts.maxLines, "max-lines", constants.DefaultMaxFileLines,
		"Maximum lines allowed in a newly staged file")
	cmd.Flags().StringVar(&opts.themeFile, "theme-file", "",
		"Theme file with the reference color definitions")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0,
		"Files checked concurrently (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&opts.noBanner, "no-banner", false,
		"Do not print the welcome banner above text reports")
	cmd.Flags().BoolVar(&opts.failOnMissingLinter, "fail-on-missing-linter", false,
		"Fail the run when an external linter is unavailable")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	setupLogging(opts.verbose)

	if len(args) == 0 {
		return &CheckExitError{Code: 1, Message: "no paths specified"}
	}

	cfg, err := config.LoadConfigWithTarget(opts.configPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 1, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}
	if err := applyCheckFlags(cmd, opts, cfg); err != nil {
		return &CheckExitError{Code: 1, Message: err.Error()}
	}

	pm := service.NewProgressManager(cfg.Output.ShowProgress && !opts.noProgress)
	formatter := service.NewOutputFormatter(
		service.WithWidth(cfg.Output.Width),
		service.WithBanner(!opts.noBanner),
	)

	useCase, err := app.NewCheckUseCaseBuilder().
		WithFormatter(formatter).
		WithProgress(pm).
		Build()
	if err != nil {
		return &CheckExitError{Code: 1, Message: err.Error()}
	}

	ctx, stop := signal.NotifyContext(backgroundContext(cmd), os.Interrupt)
	defer stop()

	result, err := useCase.Execute(ctx, cfg, args, cmd.OutOrStdout())
	if result != nil {
		slog.Debug("Check finished",
			slog.String("run_id", formatter.RunID()),
			slog.Int("files", len(result.Files)),
			slog.Duration("duration", result.Duration),
		)
	}
	if err != nil {
		return &CheckExitError{Code: 1, Message: err.Error()}
	}

	if code := result.Outcome.ExitCode(); code != 0 {
		// Report already printed
		return &CheckExitError{Code: code}
	}
	return nil
}

// applyCheckFlags lets explicitly set flags override the loaded config
func applyCheckFlags(cmd *cobra.Command, opts *checkOptions, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if opts.json {
		cfg.Output.Format = string(domain.OutputFormatJSON)
	}
	if flags.Changed("max-lines") {
		cfg.Rules.MaxFileLines = opts.maxLines
	}
	if flags.Changed("theme-file") {
		cfg.Rules.ThemeFile = opts.themeFile
	}
	if flags.Changed("concurrency") {
		cfg.Performance.MaxGoroutines = opts.concurrency
	}
	if flags.Changed("fail-on-missing-linter") {
		cfg.Linters.FailOnUnavailable = opts.failOnMissingLinter
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// backgroundContext is used when a command runs without a cobra context
func backgroundContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
