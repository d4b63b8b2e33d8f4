package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/lintmaster/domain"
)

var languageByExtension = map[string]domain.Language{
	"js":  domain.LanguageWeb,
	"ts":  domain.LanguageWeb,
	"tsx": domain.LanguageWeb,
	"go":  domain.LanguageGo,
}

// Extension returns the lower-cased extension of path without the dot.
// Names without a dot, dot-files such as ".bashrc" and names ending in a
// dot have no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || idx == len(base)-1 {
		return "", false
	}
	return strings.ToLower(base[idx+1:]), true
}

// Classify maps a path to the language group whose rules apply to it.
// Unknown extensions are LanguageUnsupported; a path with no extension at
// all is a classification error.
func Classify(path string) (domain.Language, error) {
	ext, ok := Extension(path)
	if !ok {
		return domain.LanguageUnsupported, domain.NewClassificationError(path)
	}
	if lang, ok := languageByExtension[ext]; ok {
		return lang, nil
	}
	return domain.LanguageUnsupported, nil
}
