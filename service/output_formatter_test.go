package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/constants"
)

func sampleOutcome() *domain.RunOutcome {
	outcome := &domain.RunOutcome{}
	degraded := domain.EmptyResult()
	degraded.Notice = "eslint unavailable"
	outcome.Add(domain.FileOutcome{Report: &domain.FileReport{
		Path:     "src/a.tsx",
		Language: domain.LanguageWeb,
		Results: []domain.RuleResult{
			{Rule: domain.RuleESLint, Result: degraded},
			{Rule: domain.RuleTODO, Result: domain.NewCheckResult([]string{"line 0 has TODO // TODO fix this"})},
			{Rule: domain.RuleColor, Result: domain.EmptyResult()},
		},
	}})
	outcome.Add(domain.FileOutcome{Failure: &domain.FileFailure{
		Path:    "c.md",
		Reason:  domain.FailureUnsupported,
		Message: "unsupported file type .md",
	}})
	return outcome
}

func TestWriteJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatter_Text(t *testing.T) {
	formatter := NewOutputFormatter(WithWidth(120))

	var buf bytes.Buffer
	if err := formatter.Write(sampleOutcome(), domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"src/a.tsx (web)",
		"line 0 has TODO // TODO fix this",
		"eslint unavailable",
		constants.CongratulateText,
		"c.md: unsupported file type .md",
		"All errors total 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output should not contain ANSI escapes")
	}
}

func TestOutputFormatter_TextEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(&domain.RunOutcome{}, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "All errors total 0" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestOutputFormatter_TextBanner(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter(WithBanner(true)).Write(&domain.RunOutcome{}, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), constants.WelcomeBanner) {
		t.Errorf("Expected banner first, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := NewOutputFormatter(WithBanner(true)).Write(&domain.RunOutcome{}, domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Contains(buf.String(), constants.WelcomeBanner) {
		t.Error("Structured output must not contain the banner")
	}
}

func TestOutputFormatter_JSON(t *testing.T) {
	formatter := NewOutputFormatter(WithRunID("run-123"))

	var buf bytes.Buffer
	if err := formatter.Write(sampleOutcome(), domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var report RunReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if report.RunID != "run-123" {
		t.Errorf("Expected run id run-123, got %s", report.RunID)
	}
	if report.Passed || report.ExitCode != 1 {
		t.Errorf("Expected failed run, got passed=%v exit=%d", report.Passed, report.ExitCode)
	}
	if report.TotalErrors != 1 {
		t.Errorf("Expected 1 error, got %d", report.TotalErrors)
	}
	if len(report.Reports) != 1 || len(report.Reports[0].Results) != 3 {
		t.Fatalf("Expected one report with 3 results, got %+v", report.Reports)
	}
	if report.Reports[0].Results[0].Result.Notice != "eslint unavailable" {
		t.Errorf("Expected notice in JSON, got %+v", report.Reports[0].Results[0])
	}
	if len(report.Failures) != 1 {
		t.Errorf("Expected 1 failure, got %d", len(report.Failures))
	}
}

func TestOutputFormatter_JSONEmptyReports(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(&domain.RunOutcome{}, domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"reports": []`) {
		t.Errorf("Expected empty reports array, got %s", buf.String())
	}
}

func TestOutputFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleOutcome(), domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var report RunReport
	if err := yaml.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if report.RunID == "" {
		t.Error("Expected a generated run id")
	}
	if report.Reports[0].Results[1].Rule != domain.RuleTODO {
		t.Errorf("Expected todo rule second, got %s", report.Reports[0].Results[1].Rule)
	}
}

func TestOutputFormatter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleOutcome(), domain.OutputFormat("html"), &buf)
	if !domain.HasCode(err, domain.ErrCodeUnsupportedFormat) {
		t.Errorf("Expected UNSUPPORTED_FORMAT, got %v", err)
	}
}

func TestWrapFinding(t *testing.T) {
	long := strings.Repeat("word ", 20)
	wrapped := wrapFinding(long, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 20 {
			t.Errorf("line exceeds width: %q", line)
		}
	}

	if got := wrapFinding("10:2: msg\n\terr = x()", 50); got != "10:2: msg\n  err = x()" {
		t.Errorf("unexpected wrap of multi-line finding: %q", got)
	}
}

func TestFindingsWidth(t *testing.T) {
	var buf bytes.Buffer
	if got := NewOutputFormatter().findingsWidth(&buf); got != DefaultFindingsWidth {
		t.Errorf("Expected default width for non-terminal, got %d", got)
	}
	if got := NewOutputFormatter(WithWidth(100)).findingsWidth(&buf); got != 70 {
		t.Errorf("Expected 70, got %d", got)
	}
	if got := NewOutputFormatter(WithWidth(10)).findingsWidth(&buf); got != minFindingsWidth {
		t.Errorf("Expected minimum width, got %d", got)
	}
}
