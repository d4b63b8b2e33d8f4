package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "lintmaster"

	// ConfigFileName is the default config file name written by init
	ConfigFileName = "lintmaster.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "LINTMASTER"
)

// Markers matched against source lines
const (
	DefaultCommentMarker    = "//"
	DefaultTODOMarker       = "TODO"
	DefaultIgnoreMarker     = "IGNORE"
	DefaultConsoleMarker    = "console.log"
	DefaultNecessaryMarker  = "necessary logging"
	DefaultXMLNamespaceHint = "xmlns"
)

// Policy defaults
const (
	DefaultMaxFileLines = 500
	DefaultThemeFile    = "apps/identity-hub/config/theme.ts"
)

// External tools
const (
	DefaultWebLinter = "eslint"
	DefaultGoLinter  = "golangci-lint"
	DefaultGit       = "git"

	DefaultLinterTimeoutSeconds = 60
	DefaultGitTimeoutSeconds    = 10
)

// Built-in linter output parsers
const (
	ParserESLint   = "eslint"
	ParserGolangci = "golangci"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// CongratulateText is shown in place of findings for a passing rule
const CongratulateText = "✨ all passed 🎉"

// WelcomeBanner is printed above text reports
const WelcomeBanner = `    __     ____ _   __ ______   __  ___ ___    _____ ______ ______ ____
   / /    /  _// | / //_  __/  /  |/  //   |  / ___//_  __// ____// __ \
  / /     / / /  |/ /  / /    / /|_/ // /| |  \__ \  / /  / __/  / /_/ /
 / /___ _/ / / /|  /  / /    / /  / // ___ | ___/ / / /  / /___ / _  _/
/_____//___//_/ |_/  /_/    /_/  /_//_/  |_|/____/ /_/  /_____//_/ |_|
`

// DefaultSVGAttributeNames lists kebab-case SVG presentation attributes that
// JSX expects in camelCase.
var DefaultSVGAttributeNames = []string{
	"fill-rule",
	"clip-rule",
	"fill-opacity",
	"stroke-opacity",
	"stop-color",
	"stop-opacity",
	"clip-path",
	"font-size",
	"font-weight",
	"text-anchor",
	"alignment-baseline",
	"baseline-shift",
	"word-spacing",
	"letter-spacing",
	"text-decoration",
	"font-style",
	"font-variant",
	"line-height",
	"writing-mode",
	"shape-rendering",
	"image-rendering",
	"color-interpolation",
	"color-interpolation-filters",
	"color-rendering",
	"flood-color",
	"flood-opacity",
	"lighting-color",
	"text-rendering",
	"stroke-dasharray",
	"stroke-dashoffset",
	"stroke-linecap",
	"stroke-linejoin",
	"stroke-miterlimit",
	"transform-origin",
}
