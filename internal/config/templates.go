package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the kind of repository being checked
type ProjectType string

const (
	ProjectTypeWeb   ProjectType = "web"
	ProjectTypeGo    ProjectType = "go"
	ProjectTypeMixed ProjectType = "mixed"
)

// Strictness represents how strict the policies are
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project types
type ProjectPreset struct {
	ThemeFile       string
	ExcludePatterns []string
}

// StrictnessPreset holds policy values for different strictness levels
type StrictnessPreset struct {
	MaxFileLines      int
	FailOnUnavailable bool
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeWeb: {
			ThemeFile: "src/theme.ts",
			ExcludePatterns: []string{
				"node_modules",
				"dist",
				"build",
				".next",
				"coverage",
				"*.min.js",
				"*.d.ts",
			},
		},
		ProjectTypeGo: {
			ThemeFile: "",
			ExcludePatterns: []string{
				"vendor",
				"testdata",
				"*.pb.go",
			},
		},
		ProjectTypeMixed: {
			ThemeFile: "apps/identity-hub/config/theme.ts",
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				"coverage",
				"*.min.js",
				"*.d.ts",
				"*.pb.go",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxFileLines:      1000,
			FailOnUnavailable: false,
		},
		StrictnessStandard: {
			MaxFileLines:      500,
			FailOnUnavailable: false,
		},
		StrictnessStrict: {
			MaxFileLines:      300,
			FailOnUnavailable: true,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeMixed]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# lintmaster configuration
# Every key is optional; omitted keys keep their built-in defaults.
# Environment variables override this file: LINTMASTER_RULES_MAX_FILE_LINES=800

# =============================================================================
# RULES
# =============================================================================
rules:
  # Substrings matched against source lines
  markers:
    comment: "//"
    todo: "TODO"
    # TODO comments containing this marker are not reported
    ignore: "IGNORE"
    console: "console.log"
    # Comment lines containing this marker allow one console call each
    necessary: "necessary logging"

  # Newly added (git staged) files may not exceed this many lines
  max_file_lines: ` + strconv.Itoa(strict.MaxFileLines) + `

  # Reference color definitions; literals declared here must be reused
  theme_file: "` + preset.ThemeFile + `"

  # Files containing this text are treated as inline SVG and skip the color rule
  namespace_hint: "xmlns"

# =============================================================================
# EXTERNAL LINTERS
# =============================================================================
linters:
  web:
    command: "eslint"
    args: []
    timeout_seconds: 60
    parser: "eslint"
  go:
    command: "golangci-lint"
    args: ["run"]
    timeout_seconds: 60
    parser: "golangci"
  git:
    command: "git"
    timeout_seconds: 10

  # Fail the run when a linter is missing, crashes or times out
  fail_on_unavailable: ` + strconv.FormatBool(strict.FailOnUnavailable) + `

# =============================================================================
# PERFORMANCE
# =============================================================================
performance:
  # Files checked concurrently (0 = number of CPUs)
  max_goroutines: 0
  # Whole-run timeout in seconds (0 = 5 minutes)
  timeout_seconds: 0

# =============================================================================
# OUTPUT
# =============================================================================
output:
  # text, json or yaml
  format: "text"
  # Findings column width for text output (0 = fit the terminal)
  width: 0
  show_progress: true

# =============================================================================
# DIRECTORY EXPANSION
# =============================================================================
analysis:
  recursive: true
  respect_gitignore: true
  exclude_patterns:
` + formatYAMLList(preset.ExcludePatterns, "    ")
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# lintmaster configuration (minimal)
rules:
  max_file_lines: 500
  theme_file: "apps/identity-hub/config/theme.ts"

linters:
  fail_on_unavailable: false

output:
  format: "text"
`
}

// formatYAMLList renders items as a YAML block sequence
func formatYAMLList(items []string, indent string) string {
	if len(items) == 0 {
		return indent + "[]\n"
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(indent)
		sb.WriteString(`- "`)
		sb.WriteString(item)
		sb.WriteString("\"\n")
	}
	return sb.String()
}
