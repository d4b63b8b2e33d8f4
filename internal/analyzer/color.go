package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/lintmaster/domain"
)

var hexColorPattern = regexp.MustCompile(`#[0-9a-fA-F]{6}`)

// ThemeColorSet is the ordered set of color literals declared in a theme
// file. Literals are normalized to upper case; order is first appearance.
type ThemeColorSet struct {
	source string
	colors []string
	index  map[string]struct{}
}

// NewThemeColorSet extracts the color literals of a theme file, line by line
func NewThemeColorSet(source, content string) *ThemeColorSet {
	set := &ThemeColorSet{
		source: source,
		index:  make(map[string]struct{}),
	}
	for _, line := range splitLines(content) {
		for _, lit := range hexColorPattern.FindAllString(line, -1) {
			c := normalizeColor(lit)
			if _, ok := set.index[c]; ok {
				continue
			}
			set.index[c] = struct{}{}
			set.colors = append(set.colors, c)
		}
	}
	return set
}

// Source returns the path the set was loaded from
func (s *ThemeColorSet) Source() string {
	return s.source
}

// Colors returns the declared colors in first-appearance order
func (s *ThemeColorSet) Colors() []string {
	out := make([]string, len(s.colors))
	copy(out, s.colors)
	return out
}

// Contains reports whether the literal is declared, ignoring case
func (s *ThemeColorSet) Contains(color string) bool {
	_, ok := s.index[normalizeColor(color)]
	return ok
}

// Len returns the number of distinct declared colors
func (s *ThemeColorSet) Len() int {
	return len(s.colors)
}

// ExtractColors returns the distinct normalized color literals in content
func ExtractColors(content string) map[string]struct{} {
	colors := make(map[string]struct{})
	for _, lit := range hexColorPattern.FindAllString(content, -1) {
		colors[normalizeColor(lit)] = struct{}{}
	}
	return colors
}

// CheckThemeColors reports hard-coded colors that the theme already defines.
// Text containing the namespace hint is raw SVG markup and is skipped. Each
// color is reported once.
func CheckThemeColors(content string, theme *ThemeColorSet, namespaceHint string) domain.CheckResult {
	if namespaceHint != "" && strings.Contains(content, namespaceHint) {
		return domain.EmptyResult()
	}
	if theme == nil || theme.Len() == 0 {
		return domain.EmptyResult()
	}

	candidates := ExtractColors(content)
	var findings []string
	for _, c := range theme.colors {
		if _, ok := candidates[c]; ok {
			findings = append(findings, fmt.Sprintf("color %s should reuse the definition in %s", c, theme.source))
		}
	}
	return domain.NewCheckResult(findings)
}

func normalizeColor(lit string) string {
	return strings.ToUpper(lit)
}
