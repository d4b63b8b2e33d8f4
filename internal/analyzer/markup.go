package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/lintmaster/domain"
)

var (
	anchorTagPattern = regexp.MustCompile(`<[A-Za-z][\w.]*\s(?:[^>]*\s)?href=[^>]*>`)
	imageTagPattern  = regexp.MustCompile(`<Image\b[^>]*>`)
)

// CheckAnchorRel reports tags with an href but no rel attribute. This covers
// plain anchors and link components such as <Link href=...>.
func CheckAnchorRel(content string) domain.CheckResult {
	return tagsMissingAttribute(content, anchorTagPattern, "rel=", "a tag needs a rel attribute: %s")
}

// CheckImageAlt reports Image component tags without an alt attribute
func CheckImageAlt(content string) domain.CheckResult {
	return tagsMissingAttribute(content, imageTagPattern, "alt=", "Image tag needs an alt attribute: %s")
}

func tagsMissingAttribute(content string, pattern *regexp.Regexp, attr, format string) domain.CheckResult {
	var findings []string
	for _, tag := range pattern.FindAllString(content, -1) {
		if !strings.Contains(tag, attr) {
			findings = append(findings, fmt.Sprintf(format, tag))
		}
	}
	return domain.NewCheckResult(findings)
}

// CheckSVGAttributes reports kebab-case SVG attributes in .tsx files, where
// JSX expects the camelCase spelling. Other paths are never flagged.
func CheckSVGAttributes(content, path string, attributes []string) domain.CheckResult {
	if !strings.HasSuffix(path, ".tsx") {
		return domain.EmptyResult()
	}

	var findings []string
	seen := make(map[string]bool, len(attributes))
	for _, name := range attributes {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if strings.Contains(content, name) {
			findings = append(findings, fmt.Sprintf("replace %s with %s", name, KebabToCamel(name)))
		}
	}
	return domain.NewCheckResult(findings)
}

// KebabToCamel upper-cases every character following a hyphen and drops the hyphens
func KebabToCamel(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	upperNext := false
	for _, r := range s {
		if r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
