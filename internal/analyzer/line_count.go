package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/lintmaster/domain"
)

// StagedSet answers whether a path is newly added in version control
type StagedSet interface {
	Contains(path string) bool
}

// CheckFileLines flags a newly added file longer than maxLines. Files that
// are not staged as added are never flagged.
func CheckFileLines(content, path string, staged StagedSet, maxLines int) domain.CheckResult {
	if staged == nil || !staged.Contains(path) {
		return domain.EmptyResult()
	}
	if CountLines(content) <= maxLines {
		return domain.EmptyResult()
	}
	return domain.NewCheckResult([]string{fmt.Sprintf("File cannot be larger than %d lines", maxLines)})
}
