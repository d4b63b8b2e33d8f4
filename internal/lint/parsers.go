package lint

import (
	"regexp"
	"strings"

	"github.com/ludo-technologies/lintmaster/internal/constants"
)

// Parser turns raw linter stdout into findings
type Parser func(stdout string) []string

var (
	// eslint stylish formatter: "  12:5  error  'x' is defined but never used  no-unused-vars"
	eslintErrorLine = regexp.MustCompile(`^\s*\d+:\d+\s+error.*`)

	// golangci-lint text output: "path/file.go:12:5: message (linter)" followed
	// by indented source and caret lines.
	golangciIssueBlock = regexp.MustCompile(`(?m)^.*?:(\d+:\d+:\s.*(?:\n[ \t]+.*)*)`)
)

// ParseESLint keeps the error lines of eslint's stylish output
func ParseESLint(stdout string) []string {
	var findings []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if eslintErrorLine.MatchString(line) {
			findings = append(findings, strings.TrimSpace(line))
		}
	}
	return findings
}

// ParseGolangci extracts "line:col: message" blocks together with the
// indented continuation lines that follow each one
func ParseGolangci(stdout string) []string {
	stdout = strings.ReplaceAll(stdout, "\r\n", "\n")
	var findings []string
	for _, m := range golangciIssueBlock.FindAllStringSubmatch(stdout, -1) {
		findings = append(findings, strings.TrimRight(m[1], " \t\n"))
	}
	return findings
}

// ParserFor returns the built-in parser for a parser name
func ParserFor(name string) (Parser, bool) {
	switch name {
	case ParserESLint:
		return ParseESLint, true
	case ParserGolangci:
		return ParseGolangci, true
	default:
		return nil, false
	}
}

// Built-in parser names
const (
	ParserESLint   = constants.ParserESLint
	ParserGolangci = constants.ParserGolangci
)
