package domain

// Language is the language group a file is checked as
type Language string

const (
	LanguageWeb         Language = "web"
	LanguageGo          Language = "go"
	LanguageUnsupported Language = "unsupported"
)

// RuleName identifies a rule slot in a file report
type RuleName string

const (
	RuleESLint       RuleName = "eslint"
	RuleGolangciLint RuleName = "golangci_lint"
	RuleSVG          RuleName = "svg"
	RuleTODO         RuleName = "todo"
	RuleConsoleLog   RuleName = "console_log"
	RuleImageAlt     RuleName = "image_alt"
	RuleAnchorRel    RuleName = "a_rel"
	RuleFileLines    RuleName = "file_lines"
	RuleColor        RuleName = "color"
)

// CheckResult is the uniform result of one rule run against one file.
// ErrorCount equals len(Findings) for every rule except the console-log
// counter, which summarizes its count in a single finding.
type CheckResult struct {
	ErrorCount int      `json:"error_count" yaml:"error_count"`
	Findings   []string `json:"findings" yaml:"findings"`

	// Notice marks a degraded external-tool run (tool unavailable, timed out)
	Notice string `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// NewCheckResult builds a result whose error count matches its findings
func NewCheckResult(findings []string) CheckResult {
	if findings == nil {
		findings = []string{}
	}
	return CheckResult{
		ErrorCount: len(findings),
		Findings:   findings,
	}
}

// EmptyResult returns a passing result
func EmptyResult() CheckResult {
	return NewCheckResult(nil)
}

// Passed reports whether the rule found nothing
func (r CheckResult) Passed() bool {
	return r.ErrorCount == 0
}

// RuleResult pairs a rule slot with its result
type RuleResult struct {
	Rule   RuleName    `json:"rule" yaml:"rule"`
	Result CheckResult `json:"result" yaml:"result"`
}

// FileReport holds every rule result for one file, in registry order
type FileReport struct {
	Path     string       `json:"path" yaml:"path"`
	Language Language     `json:"language" yaml:"language"`
	Results  []RuleResult `json:"results" yaml:"results"`
}

// TotalErrors sums the error counts of all rule slots
func (r *FileReport) TotalErrors() int {
	total := 0
	for _, rr := range r.Results {
		total += rr.Result.ErrorCount
	}
	return total
}

// Result returns the result for a rule slot
func (r *FileReport) Result(rule RuleName) (CheckResult, bool) {
	for _, rr := range r.Results {
		if rr.Rule == rule {
			return rr.Result, true
		}
	}
	return CheckResult{}, false
}

// FailureReason explains why a file produced no report
type FailureReason string

const (
	FailureUnsupported    FailureReason = "unsupported"
	FailureClassification FailureReason = "classification"
)

// FileFailure records a file that could not be checked
type FileFailure struct {
	Path    string        `json:"path" yaml:"path"`
	Reason  FailureReason `json:"reason" yaml:"reason"`
	Message string        `json:"message" yaml:"message"`
}

// FileOutcome is what processing a single file yields: a report or a failure
type FileOutcome struct {
	Report  *FileReport
	Failure *FileFailure
}

// RunOutcome is the process-wide result of a check run
type RunOutcome struct {
	TotalErrors int           `json:"total_errors" yaml:"total_errors"`
	Reports     []*FileReport `json:"reports" yaml:"reports"`
	Failures    []FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Add folds one file outcome into the run
func (o *RunOutcome) Add(fo FileOutcome) {
	if fo.Failure != nil {
		o.Failures = append(o.Failures, *fo.Failure)
	}
	if fo.Report != nil {
		o.Reports = append(o.Reports, fo.Report)
		o.TotalErrors += fo.Report.TotalErrors()
	}
}

// Passed reports whether the run had no errors and no failed files
func (o *RunOutcome) Passed() bool {
	return o.TotalErrors == 0 && len(o.Failures) == 0
}

// ExitCode returns 0 for a clean run and 1 otherwise
func (o *RunOutcome) ExitCode() int {
	if o.Passed() {
		return 0
	}
	return 1
}

// CheckRequest represents a request for a check run
type CheckRequest struct {
	// Paths are the files to check, in the order reports are produced
	Paths []string
}
