package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/lintmaster/internal/constants"
	"github.com/ludo-technologies/lintmaster/internal/testutil"
	"github.com/ludo-technologies/lintmaster/service"
)

// writeTestConfig writes a config whose linters are never installed, so runs
// are deterministic regardless of the machine's tooling
func writeTestConfig(t *testing.T, dir, themeFile string) string {
	t.Helper()
	content := `rules:
  theme_file: "` + themeFile + `"
linters:
  web:
    command: "` + testutil.MissingCommand("eslint") + `"
    parser: "eslint"
  go:
    command: "` + testutil.MissingCommand("golangci") + `"
    parser: "golangci"
output:
  show_progress: false
`
	return testutil.WriteFile(t, filepath.Join(dir, "lintmaster.yaml"), content)
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{
		"config", "format", "json", "verbose", "max-lines",
		"theme-file", "concurrency", "no-progress", "no-banner", "fail-on-missing-linter",
	}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_ShortFlags(t *testing.T) {
	cmd := checkCmd()

	shortFlags := map[string]string{
		"c": "config",
		"f": "format",
		"v": "verbose",
	}

	for short, long := range shortFlags {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestCheckCmd_DefaultValues(t *testing.T) {
	cmd := checkCmd()

	if f := cmd.Flags().Lookup("format"); f == nil || f.DefValue != "text" {
		t.Errorf("Expected default format 'text', got %v", f)
	}
	if f := cmd.Flags().Lookup("max-lines"); f == nil || f.DefValue != "500" {
		t.Errorf("Expected default max-lines 500, got %v", f)
	}
}

func TestCheckCmd_NoPathsError(t *testing.T) {
	cmd := checkCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("Expected exit 1 when no paths specified, got %v", err)
	}
}

func TestCheckCmd_CleanFilePasses(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")
	goFile := testutil.WriteFile(t, filepath.Join(dir, "b.go"), "package b\n")

	var out bytes.Buffer
	cmd := checkCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", cfgPath, "--json", goFile})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Expected clean run, got %v", err)
	}

	var report service.RunReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out.String())
	}
	if !report.Passed || report.TotalErrors != 0 {
		t.Errorf("Expected passing report, got %+v", report)
	}
}

func TestCheckCmd_FindingsExitOne(t *testing.T) {
	dir := t.TempDir()
	theme := testutil.WriteFile(t, filepath.Join(dir, "theme.ts"), "export const accent = '#FF00FF';\n")
	cfgPath := writeTestConfig(t, dir, theme)
	webFile := testutil.WriteFile(t, filepath.Join(dir, "a.tsx"), "// TODO fix this\nconst x = \"#FF00FF\";")

	var out bytes.Buffer
	cmd := checkCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", cfgPath, webFile})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Expected exit 1, got %v", err)
	}
	if exitErr.Message != "" {
		t.Errorf("Rule errors should not carry a message, got %q", exitErr.Message)
	}
	if !strings.Contains(out.String(), "All errors total") {
		t.Errorf("Expected text report, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), constants.WelcomeBanner) {
		t.Error("Expected the welcome banner above the text report")
	}
}

func TestCheckCmd_UnsupportedFileExitOne(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")
	md := testutil.WriteFile(t, filepath.Join(dir, "c.md"), "# c\n")

	var out bytes.Buffer
	cmd := checkCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", cfgPath, md})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Expected exit 1, got %v", err)
	}
	if !strings.Contains(out.String(), "unsupported file type .md") {
		t.Errorf("Expected unsupported failure in report, got:\n%s", out.String())
	}
}

func TestCheckCmd_MissingThemeIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, filepath.Join(dir, "missing-theme.ts"))
	webFile := testutil.WriteFile(t, filepath.Join(dir, "a.ts"), "export const a = 1;\n")

	cmd := checkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-c", cfgPath, webFile})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Expected exit 1, got %v", err)
	}
	if !strings.Contains(exitErr.Message, "theme") {
		t.Errorf("Expected theme error message, got %q", exitErr.Message)
	}
}

func TestCheckCmd_InvalidFlagValue(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")
	goFile := testutil.WriteFile(t, filepath.Join(dir, "b.go"), "package b\n")

	cmd := checkCmd()
	cmd.SetArgs([]string{"-c", cfgPath, "--max-lines", "0", goFile})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || !strings.Contains(exitErr.Message, "invalid flags") {
		t.Errorf("Expected invalid flags error, got %v", err)
	}
}

func TestRulesCmd_ListsRulesInOrder(t *testing.T) {
	var out bytes.Buffer
	cmd := rulesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", writeTestConfig(t, t.TempDir(), "")})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("rules command failed: %v", err)
	}

	want := "go:\n  1. golangci_lint\n  2. todo\n  3. file_lines\n" +
		"web:\n  1. eslint\n  2. svg\n  3. todo\n  4. console_log\n" +
		"  5. image_alt\n  6. a_rel\n  7. file_lines\n  8. color\n"
	if out.String() != want {
		t.Errorf("Unexpected rules listing:\n%s", out.String())
	}
}

func TestConfigCmd_PrintsEffectiveConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := configCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", writeTestConfig(t, t.TempDir(), "")})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if !strings.Contains(out.String(), testutil.MissingCommand("eslint")) {
		t.Errorf("Expected configured linter in output, got:\n%s", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "lintmaster version ") {
		t.Errorf("Unexpected version output: %q", out.String())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"check", "rules", "config", "init", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Missing subcommand %s", name)
		}
	}
}
