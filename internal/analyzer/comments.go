package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ludo-technologies/lintmaster/domain"
)

// FindTODOs reports comment lines carrying the TODO marker. Lines that also
// carry the ignore marker are skipped. Line numbers are 0-based.
func FindTODOs(content string, m Markers) domain.CheckResult {
	var findings []string
	for i, line := range splitLines(content) {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if !isCommentLine(trimmed, m.Comment) || !strings.Contains(trimmed, m.TODO) {
			continue
		}
		if m.Ignore != "" && strings.Contains(trimmed, m.Ignore) {
			continue
		}
		findings = append(findings, fmt.Sprintf("line %d has TODO %s", i, trimmed))
	}
	return domain.NewCheckResult(findings)
}

// CountConsoleLogs compares console calls against comment lines that mark a
// call as necessary. The surplus is the error count and is summarized in a
// single finding.
func CountConsoleLogs(content string, m Markers) domain.CheckResult {
	necessary, calls := 0, 0
	for _, line := range splitLines(content) {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if isCommentLine(trimmed, m.Comment) && m.Necessary != "" && strings.Contains(trimmed, m.Necessary) {
			necessary++
		}
		if strings.Contains(trimmed, m.Console) {
			calls++
		}
	}

	surplus := calls - necessary
	if surplus <= 0 {
		return domain.EmptyResult()
	}
	return domain.CheckResult{
		ErrorCount: surplus,
		Findings:   []string{fmt.Sprintf("file has %d %s", surplus, m.Console)},
	}
}
