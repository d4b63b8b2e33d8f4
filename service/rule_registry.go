package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
)

// SourceFile is the input every rule sees
type SourceFile struct {
	Path    string
	Content string
}

// Rule computes one CheckResult for a file
type Rule interface {
	Name() domain.RuleName
	Check(ctx context.Context, file SourceFile) (domain.CheckResult, error)
}

// Linter runs an external tool on a single file
type Linter interface {
	Lint(ctx context.Context, path string) (domain.CheckResult, error)
}

// ThemeProvider returns the reference color set, loading it on first use
type ThemeProvider interface {
	Theme() (*analyzer.ThemeColorSet, error)
}

// RuleFunc adapts a function to the Rule interface
type RuleFunc struct {
	name domain.RuleName
	fn   func(ctx context.Context, file SourceFile) (domain.CheckResult, error)
}

// NewRuleFunc creates a named rule from fn
func NewRuleFunc(name domain.RuleName, fn func(ctx context.Context, file SourceFile) (domain.CheckResult, error)) *RuleFunc {
	return &RuleFunc{name: name, fn: fn}
}

// Name returns the rule name
func (r *RuleFunc) Name() domain.RuleName {
	return r.name
}

// Check runs the rule
func (r *RuleFunc) Check(ctx context.Context, file SourceFile) (domain.CheckResult, error) {
	return r.fn(ctx, file)
}

// pure wraps a rule that cannot fail
func pure(name domain.RuleName, fn func(file SourceFile) domain.CheckResult) *RuleFunc {
	return NewRuleFunc(name, func(_ context.Context, file SourceFile) (domain.CheckResult, error) {
		return fn(file), nil
	})
}

// RuleRegistry maps each supported language to its ordered rule list
type RuleRegistry struct {
	rules map[domain.Language][]Rule
}

// NewRuleRegistry creates an empty registry
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: make(map[domain.Language][]Rule)}
}

// Register appends rules to a language's list, rejecting duplicate names
func (r *RuleRegistry) Register(lang domain.Language, rules ...Rule) error {
	seen := make(map[domain.RuleName]bool, len(r.rules[lang])+len(rules))
	for _, existing := range r.rules[lang] {
		seen[existing.Name()] = true
	}
	for _, rule := range rules {
		if seen[rule.Name()] {
			return fmt.Errorf("rule %s already registered for %s", rule.Name(), lang)
		}
		seen[rule.Name()] = true
	}
	r.rules[lang] = append(r.rules[lang], rules...)
	return nil
}

// Rules returns the ordered rules for lang
func (r *RuleRegistry) Rules(lang domain.Language) []Rule {
	return r.rules[lang]
}

// Supports reports whether lang has any rules
func (r *RuleRegistry) Supports(lang domain.Language) bool {
	return len(r.rules[lang]) > 0
}

// Languages returns registered languages in name order
func (r *RuleRegistry) Languages() []domain.Language {
	langs := make([]domain.Language, 0, len(r.rules))
	for lang := range r.rules {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// RuleSettings carries the values rules are parameterized with
type RuleSettings struct {
	Markers       analyzer.Markers
	MaxFileLines  int
	SVGAttributes []string
	NamespaceHint string
}

// RuleDependencies are the collaborators rules delegate to
type RuleDependencies struct {
	WebLinter Linter
	GoLinter  Linter
	Staged    analyzer.StagedSet
	Theme     ThemeProvider
}

// NewDefaultRuleRegistry builds the web and Go rule sets
func NewDefaultRuleRegistry(settings RuleSettings, deps RuleDependencies) *RuleRegistry {
	todo := pure(domain.RuleTODO, func(f SourceFile) domain.CheckResult {
		return analyzer.FindTODOs(f.Content, settings.Markers)
	})
	fileLines := pure(domain.RuleFileLines, func(f SourceFile) domain.CheckResult {
		return analyzer.CheckFileLines(f.Content, f.Path, deps.Staged, settings.MaxFileLines)
	})

	registry := NewRuleRegistry()

	// Registration cannot fail here: every name is distinct
	_ = registry.Register(domain.LanguageWeb,
		lintRule(domain.RuleESLint, deps.WebLinter),
		pure(domain.RuleSVG, func(f SourceFile) domain.CheckResult {
			return analyzer.CheckSVGAttributes(f.Content, f.Path, settings.SVGAttributes)
		}),
		todo,
		pure(domain.RuleConsoleLog, func(f SourceFile) domain.CheckResult {
			return analyzer.CountConsoleLogs(f.Content, settings.Markers)
		}),
		pure(domain.RuleImageAlt, func(f SourceFile) domain.CheckResult {
			return analyzer.CheckImageAlt(f.Content)
		}),
		pure(domain.RuleAnchorRel, func(f SourceFile) domain.CheckResult {
			return analyzer.CheckAnchorRel(f.Content)
		}),
		fileLines,
		colorRule(deps.Theme, settings.NamespaceHint),
	)

	_ = registry.Register(domain.LanguageGo,
		lintRule(domain.RuleGolangciLint, deps.GoLinter),
		todo,
		fileLines,
	)

	return registry
}

func lintRule(name domain.RuleName, linter Linter) Rule {
	return NewRuleFunc(name, func(ctx context.Context, f SourceFile) (domain.CheckResult, error) {
		if linter == nil {
			return domain.EmptyResult(), nil
		}
		return linter.Lint(ctx, f.Path)
	})
}

func colorRule(theme ThemeProvider, namespaceHint string) Rule {
	return NewRuleFunc(domain.RuleColor, func(_ context.Context, f SourceFile) (domain.CheckResult, error) {
		if theme == nil {
			return domain.EmptyResult(), nil
		}
		colors, err := theme.Theme()
		if err != nil {
			return domain.CheckResult{}, err
		}
		return analyzer.CheckThemeColors(f.Content, colors, namespaceHint), nil
	})
}
