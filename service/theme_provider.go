package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
)

// FileThemeProvider reads the theme file at most once per run. The first
// caller pays for the read; later callers share the result or the error.
type FileThemeProvider struct {
	load func() (*analyzer.ThemeColorSet, error)
}

// NewFileThemeProvider creates a provider for path. An empty path yields an
// empty theme, which disables the color rule.
func NewFileThemeProvider(path string) *FileThemeProvider {
	return &FileThemeProvider{
		load: sync.OnceValues(func() (*analyzer.ThemeColorSet, error) {
			if path == "" {
				return analyzer.NewThemeColorSet("", ""), nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, domain.NewThemeFileError(path, domain.NewFileNotFoundError(path, err))
				}
				return nil, domain.NewThemeFileError(path, err)
			}
			theme := analyzer.NewThemeColorSet(path, string(data))
			slog.Debug("Loaded theme colors",
				slog.String("file", path),
				slog.Int("colors", theme.Len()),
			)
			return theme, nil
		}),
	}
}

// Theme returns the loaded color set
func (p *FileThemeProvider) Theme() (*analyzer.ThemeColorSet, error) {
	return p.load()
}
