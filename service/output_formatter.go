package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/constants"
	"github.com/ludo-technologies/lintmaster/internal/version"
)

const (
	// DefaultFindingsWidth is used when the terminal width is unknown
	DefaultFindingsWidth = 50

	// minFindingsWidth keeps the findings column readable on narrow terminals
	minFindingsWidth = 20

	// fixedColumnsWidth approximates the rule and errors columns plus borders
	fixedColumnsWidth = 30
)

// OutputFormatterImpl implements domain.ReportFormatter
type OutputFormatterImpl struct {
	runID  string
	width  int
	banner bool
}

// FormatterOption configures an OutputFormatterImpl
type FormatterOption func(*OutputFormatterImpl)

// WithWidth sets the total text width; 0 means detect the terminal width
func WithWidth(width int) FormatterOption {
	return func(f *OutputFormatterImpl) {
		f.width = width
	}
}

// WithBanner prints the welcome banner above text reports
func WithBanner(enabled bool) FormatterOption {
	return func(f *OutputFormatterImpl) {
		f.banner = enabled
	}
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) FormatterOption {
	return func(f *OutputFormatterImpl) {
		f.runID = id
	}
}

// NewOutputFormatter creates a new output formatter with a fresh run ID
func NewOutputFormatter(opts ...FormatterOption) *OutputFormatterImpl {
	f := &OutputFormatterImpl{runID: uuid.NewString()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RunID returns the identifier stamped on structured reports
func (f *OutputFormatterImpl) RunID() string {
	return f.runID
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// RunReport wraps a RunOutcome with metadata for structured output
type RunReport struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	Version     string               `json:"version" yaml:"version"`
	GeneratedAt string               `json:"generated_at" yaml:"generated_at"`
	Passed      bool                 `json:"passed" yaml:"passed"`
	ExitCode    int                  `json:"exit_code" yaml:"exit_code"`
	TotalErrors int                  `json:"total_errors" yaml:"total_errors"`
	Reports     []*domain.FileReport `json:"reports" yaml:"reports"`
	Failures    []domain.FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Write renders the outcome in the requested format
func (f *OutputFormatterImpl) Write(outcome *domain.RunOutcome, format domain.OutputFormat, writer io.Writer) error {
	if outcome == nil {
		outcome = &domain.RunOutcome{}
	}

	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, f.runReport(outcome))
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, f.runReport(outcome))
	case domain.OutputFormatText, "":
		err = f.writeText(outcome, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatterImpl) runReport(outcome *domain.RunOutcome) RunReport {
	reports := outcome.Reports
	if reports == nil {
		reports = []*domain.FileReport{}
	}
	return RunReport{
		RunID:       f.runID,
		Version:     version.GetVersion(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Passed:      outcome.Passed(),
		ExitCode:    outcome.ExitCode(),
		TotalErrors: outcome.TotalErrors,
		Reports:     reports,
		Failures:    outcome.Failures,
	}
}

// textStyles holds the lipgloss styles of the text report, bound to the
// writer's renderer so colors are dropped when it is not a terminal
type textStyles struct {
	path    lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	errors  lipgloss.Style
	passed  lipgloss.Style
	notice  lipgloss.Style
	failure lipgloss.Style
	total   lipgloss.Style
	border  lipgloss.Style
	banner  lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		path:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		errors:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9")),
		passed:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10")),
		notice:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("11")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")),
		total:   r.NewStyle().Bold(true),
		border:  r.NewStyle().Foreground(lipgloss.Color("8")),
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	}
}

func (f *OutputFormatterImpl) writeText(outcome *domain.RunOutcome, writer io.Writer) error {
	styles := newTextStyles(lipgloss.NewRenderer(writer))
	findingsWidth := f.findingsWidth(writer)

	if f.banner {
		// Rendered per line; lipgloss pads multi-line blocks to a common width
		for _, line := range strings.Split(strings.TrimSuffix(constants.WelcomeBanner, "\n"), "\n") {
			if _, err := fmt.Fprintln(writer, styles.banner.Render(line)); err != nil {
				return err
			}
		}
	}

	for _, report := range outcome.Reports {
		if _, err := fmt.Fprintf(writer, "%s (%s)\n", styles.path.Render(report.Path), report.Language); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, renderReportTable(report, styles, findingsWidth)); err != nil {
			return err
		}
	}

	for _, failure := range outcome.Failures {
		line := fmt.Sprintf("%s: %s", failure.Path, failure.Message)
		if _, err := fmt.Fprintln(writer, styles.failure.Render(line)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(writer, styles.total.Render(fmt.Sprintf("All errors total %d", outcome.TotalErrors)))
	return err
}

func renderReportTable(report *domain.FileReport, styles textStyles, findingsWidth int) string {
	rows := make([][]string, 0, len(report.Results))
	kinds := make([]cellKind, 0, len(report.Results))
	for _, rr := range report.Results {
		text, kind := findingsCell(rr.Result, findingsWidth)
		rows = append(rows, []string{string(rr.Rule), strconv.Itoa(rr.Result.ErrorCount), text})
		kinds = append(kinds, kind)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		BorderRow(true).
		Headers("Rule", "Errors", "Findings").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			if row < 0 || row >= len(kinds) {
				return styles.cell
			}
			switch {
			case col == 1 && kinds[row] == cellFindings:
				return styles.errors
			case col == 2 && kinds[row] == cellPassed:
				return styles.passed
			case col == 2 && kinds[row] == cellNotice:
				return styles.notice
			}
			return styles.cell
		})

	return t.String()
}

type cellKind int

const (
	cellPassed cellKind = iota
	cellNotice
	cellFindings
)

// findingsCell renders a rule's findings, its degraded notice, or the
// congratulation text for a clean rule
func findingsCell(result domain.CheckResult, width int) (string, cellKind) {
	if len(result.Findings) == 0 {
		if result.Notice != "" {
			return result.Notice, cellNotice
		}
		if result.ErrorCount == 0 {
			return constants.CongratulateText, cellPassed
		}
	}

	wrapped := make([]string, 0, len(result.Findings))
	for _, finding := range result.Findings {
		wrapped = append(wrapped, wrapFinding(finding, width))
	}
	return strings.Join(wrapped, "\n"), cellFindings
}

// wrapFinding wraps each line of a finding to width display columns
func wrapFinding(finding string, width int) string {
	lines := strings.Split(finding, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "  ")
		if runewidth.StringWidth(line) > width {
			line = runewidth.Wrap(line, width)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// findingsWidth derives the findings column width from the configured total
// width or the terminal the writer is attached to
func (f *OutputFormatterImpl) findingsWidth(writer io.Writer) int {
	total := f.width
	if total <= 0 {
		if file, ok := writer.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
				total = w
			}
		}
	}
	if total <= 0 {
		return DefaultFindingsWidth
	}
	width := total - fixedColumnsWidth
	if width < minFindingsWidth {
		width = minFindingsWidth
	}
	return width
}
