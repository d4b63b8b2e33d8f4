package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/lintmaster/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Rules holds the markers and limits used by the textual rules
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Linters holds the external tool commands
	Linters LintersConfig `json:"linters" mapstructure:"linters" yaml:"linters"`

	// Performance holds worker pool settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// RulesConfig holds configuration for the built-in rules
type RulesConfig struct {
	// Markers are the substrings the comment rules look for
	Markers MarkersConfig `json:"markers" mapstructure:"markers" yaml:"markers"`

	// MaxFileLines is the line limit for newly added files
	MaxFileLines int `json:"max_file_lines" mapstructure:"max_file_lines" yaml:"max_file_lines"`

	// SVGAttributes are kebab-case attribute names flagged in .tsx files
	SVGAttributes []string `json:"svg_attributes" mapstructure:"svg_attributes" yaml:"svg_attributes"`

	// ThemeFile is the path of the reference color definitions
	ThemeFile string `json:"theme_file" mapstructure:"theme_file" yaml:"theme_file"`

	// NamespaceHint disables the color rule for files containing it (inline SVG markup)
	NamespaceHint string `json:"namespace_hint" mapstructure:"namespace_hint" yaml:"namespace_hint"`
}

// MarkersConfig holds the line markers
type MarkersConfig struct {
	Comment   string `json:"comment" mapstructure:"comment" yaml:"comment"`
	TODO      string `json:"todo" mapstructure:"todo" yaml:"todo"`
	Ignore    string `json:"ignore" mapstructure:"ignore" yaml:"ignore"`
	Console   string `json:"console" mapstructure:"console" yaml:"console"`
	Necessary string `json:"necessary" mapstructure:"necessary" yaml:"necessary"`
}

// LintersConfig holds the external tools invoked per file
type LintersConfig struct {
	Web ToolConfig `json:"web" mapstructure:"web" yaml:"web"`
	Go  ToolConfig `json:"go" mapstructure:"go" yaml:"go"`
	Git ToolConfig `json:"git" mapstructure:"git" yaml:"git"`

	// FailOnUnavailable turns a missing, crashing or hung linter into a fatal error
	FailOnUnavailable bool `json:"fail_on_unavailable" mapstructure:"fail_on_unavailable" yaml:"fail_on_unavailable"`
}

// ToolConfig describes one external command
type ToolConfig struct {
	// Command is the executable name or path
	Command string `json:"command" mapstructure:"command" yaml:"command"`

	// Args are placed before the file path
	Args []string `json:"args" mapstructure:"args" yaml:"args"`

	// TimeoutSeconds bounds a single invocation
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// Parser selects the output parser (linters only)
	Parser string `json:"parser,omitempty" mapstructure:"parser" yaml:"parser,omitempty"`
}

// Timeout returns the per-invocation timeout
func (t ToolConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// PerformanceConfig holds worker pool settings
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent file checks (0 = number of CPUs)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds the whole run (0 = executor default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Width is the findings column width for text output (0 = terminal width)
	Width int `json:"width" mapstructure:"width" yaml:"width"`

	// ShowProgress enables the progress bar on interactive terminals
	ShowProgress bool `json:"show_progress" mapstructure:"show_progress" yaml:"show_progress"`
}

// AnalysisConfig holds configuration for expanding directory arguments
type AnalysisConfig struct {
	// ExcludePatterns specifies gitignore-style patterns to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore honors .gitignore files found in expanded directories
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// Recursive controls whether to expand directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	svg := make([]string, len(constants.DefaultSVGAttributeNames))
	copy(svg, constants.DefaultSVGAttributeNames)

	return &Config{
		Rules: RulesConfig{
			Markers: MarkersConfig{
				Comment:   constants.DefaultCommentMarker,
				TODO:      constants.DefaultTODOMarker,
				Ignore:    constants.DefaultIgnoreMarker,
				Console:   constants.DefaultConsoleMarker,
				Necessary: constants.DefaultNecessaryMarker,
			},
			MaxFileLines:  constants.DefaultMaxFileLines,
			SVGAttributes: svg,
			ThemeFile:     constants.DefaultThemeFile,
			NamespaceHint: constants.DefaultXMLNamespaceHint,
		},
		Linters: LintersConfig{
			Web: ToolConfig{
				Command:        constants.DefaultWebLinter,
				Args:           []string{},
				TimeoutSeconds: constants.DefaultLinterTimeoutSeconds,
				Parser:         constants.ParserESLint,
			},
			Go: ToolConfig{
				Command:        constants.DefaultGoLinter,
				Args:           []string{"run"},
				TimeoutSeconds: constants.DefaultLinterTimeoutSeconds,
				Parser:         constants.ParserGolangci,
			},
			Git: ToolConfig{
				Command:        constants.DefaultGit,
				Args:           []string{},
				TimeoutSeconds: constants.DefaultGitTimeoutSeconds,
			},
			FailOnUnavailable: false,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 0,
		},
		Output: OutputConfig{
			Format:       constants.OutputFormatText,
			Width:        0,
			ShowProgress: true,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{
				// Package managers and dependencies
				"node_modules",
				"vendor",
				// Build outputs
				"dist",
				"build",
				"out",
				".next",
				"coverage",
				// Version control
				".git",
				// Minified and generated files
				"*.min.js",
				"*.bundle.js",
				"*.d.ts",
			},
			RespectGitignore: true,
			Recursive:        true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// An empty configPath triggers discovery starting at targetPath.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile layers the file (if any) and LINTMASTER_* environment
// variables over the defaults
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	setDefaults(v, config)

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("rules.markers.comment", c.Rules.Markers.Comment)
	v.SetDefault("rules.markers.todo", c.Rules.Markers.TODO)
	v.SetDefault("rules.markers.ignore", c.Rules.Markers.Ignore)
	v.SetDefault("rules.markers.console", c.Rules.Markers.Console)
	v.SetDefault("rules.markers.necessary", c.Rules.Markers.Necessary)
	v.SetDefault("rules.max_file_lines", c.Rules.MaxFileLines)
	v.SetDefault("rules.svg_attributes", c.Rules.SVGAttributes)
	v.SetDefault("rules.theme_file", c.Rules.ThemeFile)
	v.SetDefault("rules.namespace_hint", c.Rules.NamespaceHint)

	for name, t := range map[string]ToolConfig{
		"web": c.Linters.Web,
		"go":  c.Linters.Go,
		"git": c.Linters.Git,
	} {
		prefix := "linters." + name + "."
		v.SetDefault(prefix+"command", t.Command)
		v.SetDefault(prefix+"args", t.Args)
		v.SetDefault(prefix+"timeout_seconds", t.TimeoutSeconds)
		v.SetDefault(prefix+"parser", t.Parser)
	}
	v.SetDefault("linters.fail_on_unavailable", c.Linters.FailOnUnavailable)

	v.SetDefault("performance.max_goroutines", c.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", c.Performance.TimeoutSeconds)

	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.width", c.Output.Width)
	v.SetDefault("output.show_progress", c.Output.ShowProgress)

	v.SetDefault("analysis.exclude_patterns", c.Analysis.ExcludePatterns)
	v.SetDefault("analysis.respect_gitignore", c.Analysis.RespectGitignore)
	v.SetDefault("analysis.recursive", c.Analysis.Recursive)
}

// configCandidates lists discoverable file names in order of preference
var configCandidates = []string{
	"lintmaster.yaml",
	"lintmaster.yml",
	".lintmaster.yaml",
	".lintmaster.yml",
	".lintmaster.toml",
	"lintmaster.json",
	".lintmaster.json",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file starting at targetPath and
// walking up to the filesystem root, then in the current directory, the XDG
// config directory and finally $LINTMASTER_CONFIG
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Rules.MaxFileLines < 1 {
		return fmt.Errorf("rules.max_file_lines must be >= 1, got %d", c.Rules.MaxFileLines)
	}

	markers := map[string]string{
		"comment":   c.Rules.Markers.Comment,
		"todo":      c.Rules.Markers.TODO,
		"console":   c.Rules.Markers.Console,
		"necessary": c.Rules.Markers.Necessary,
	}
	for name, value := range markers {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("rules.markers.%s cannot be empty", name)
		}
	}

	for _, attr := range c.Rules.SVGAttributes {
		if !strings.Contains(attr, "-") {
			return fmt.Errorf("rules.svg_attributes entry '%s' is not kebab-case", attr)
		}
	}

	if err := c.Linters.Web.validate("linters.web", true); err != nil {
		return err
	}
	if err := c.Linters.Go.validate("linters.go", true); err != nil {
		return err
	}
	if err := c.Linters.Git.validate("linters.git", false); err != nil {
		return err
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("output.width must be >= 0, got %d", c.Output.Width)
	}

	return nil
}

func (t ToolConfig) validate(section string, needsParser bool) error {
	if strings.TrimSpace(t.Command) == "" {
		return fmt.Errorf("%s.command cannot be empty", section)
	}
	if t.TimeoutSeconds < 1 {
		return fmt.Errorf("%s.timeout_seconds must be >= 1, got %d", section, t.TimeoutSeconds)
	}
	if needsParser {
		switch t.Parser {
		case constants.ParserESLint, constants.ParserGolangci:
		default:
			return fmt.Errorf("invalid %s.parser '%s', must be one of: %s, %s",
				section, t.Parser, constants.ParserESLint, constants.ParserGolangci)
		}
	}
	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("rules", config.Rules)
	v.Set("linters", config.Linters)
	v.Set("performance", config.Performance)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
