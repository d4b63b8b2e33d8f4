package app

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/lintmaster/domain"
	"github.com/ludo-technologies/lintmaster/internal/analyzer"
)

const gitignoreFile = ".gitignore"

// FileHelper expands command-line paths into the files to check
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectOptions controls directory expansion
type CollectOptions struct {
	Recursive        bool
	ExcludePatterns  []string
	RespectGitignore bool
}

// CollectFiles keeps file arguments as given and expands directory arguments
// into their supported source files. Explicit files are never filtered, so an
// unsupported or missing file still reaches the checker and fails the run.
func (h *FileHelper) CollectFiles(paths []string, opts CollectOptions) ([]string, error) {
	exclude := ignore.CompileIgnoreLines(opts.ExcludePatterns...)
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			files = append(files, path)
			continue
		}

		expanded, err := h.expandDir(path, exclude, opts)
		if err != nil {
			return nil, err
		}
		if len(expanded) == 0 {
			slog.Warn("No supported files found", slog.String("dir", path))
		}
		files = append(files, expanded...)
	}

	return files, nil
}

func (h *FileHelper) expandDir(root string, exclude *ignore.GitIgnore, opts CollectOptions) ([]string, error) {
	var files []string
	gitignores := newGitignoreStack(opts.RespectGitignore)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path != root {
				if !opts.Recursive || exclude.MatchesPath(rel) || gitignores.ignored(path) {
					return filepath.SkipDir
				}
			}
			gitignores.load(path)
			return nil
		}

		if exclude.MatchesPath(rel) || gitignores.ignored(path) {
			return nil
		}
		if h.IsSupportedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to expand directory "+root, err)
	}

	return files, nil
}

// IsSupportedFile reports whether path has a language with rules
func (h *FileHelper) IsSupportedFile(path string) bool {
	lang, err := analyzer.Classify(path)
	return err == nil && lang != domain.LanguageUnsupported
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// gitignoreStack holds the .gitignore matchers of the directories visited
// so far, each matching paths relative to its own directory
type gitignoreStack struct {
	enabled  bool
	matchers map[string]*ignore.GitIgnore
}

func newGitignoreStack(enabled bool) *gitignoreStack {
	return &gitignoreStack{enabled: enabled, matchers: make(map[string]*ignore.GitIgnore)}
}

func (s *gitignoreStack) load(dir string) {
	if !s.enabled {
		return
	}
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(dir, gitignoreFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Ignoring unreadable .gitignore",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	s.matchers[dir] = matcher
}

func (s *gitignoreStack) ignored(path string) bool {
	if !s.enabled || len(s.matchers) == 0 {
		return false
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if matcher, ok := s.matchers[dir]; ok {
			if rel, err := filepath.Rel(dir, path); err == nil && matcher.MatchesPath(rel) {
				return true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
	}
}
