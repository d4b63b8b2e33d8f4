// Package vcs reads version-control state needed by the file policies.
package vcs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ludo-technologies/lintmaster/internal/tool"
)

// StagedFileSet is the set of files git reports as newly added. It is built
// once per run and is read-only afterwards.
type StagedFileSet struct {
	root  string
	paths map[string]struct{}
}

// NewStagedFileSet builds a set from paths relative to root. An empty root
// keeps paths as given.
func NewStagedFileSet(root string, paths ...string) *StagedFileSet {
	s := &StagedFileSet{
		root:  root,
		paths: make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		s.paths[s.key(p, root)] = struct{}{}
	}
	return s
}

// EmptyStagedFileSet returns a set that contains nothing
func EmptyStagedFileSet() *StagedFileSet {
	return NewStagedFileSet("")
}

// Contains reports whether path is staged as added. When the set has a
// repository root, path is resolved to an absolute, symlink-free form first.
func (s *StagedFileSet) Contains(path string) bool {
	if s == nil || len(s.paths) == 0 {
		return false
	}
	if s.root != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			path = resolved
		}
	}
	_, ok := s.paths[filepath.Clean(path)]
	return ok
}

// Len returns the number of staged files
func (s *StagedFileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}

func (s *StagedFileSet) key(path, base string) string {
	if base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}

// ParsePorcelain returns the paths of entries whose index status is "A"
// in `git status --porcelain` output
func ParsePorcelain(output string) []string {
	var added []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) < 4 || line[0] != 'A' {
			continue
		}
		added = append(added, unquotePath(line[3:]))
	}
	return added
}

func unquotePath(p string) string {
	if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
		if unq, err := strconv.Unquote(p); err == nil {
			return unq
		}
	}
	return p
}

// StagedQuery asks git which files are newly added
type StagedQuery struct {
	git tool.Spec
}

// NewStagedQuery creates a query that runs the given git spec
func NewStagedQuery(git tool.Spec) *StagedQuery {
	if git.Name == "" {
		git.Name = "git"
	}
	return &StagedQuery{git: git}
}

// Load runs git once and returns the staged set. Any failure (git missing,
// not a repository, timeout) degrades to an empty set.
func (q *StagedQuery) Load(ctx context.Context) *StagedFileSet {
	rootOut, err := tool.Run(ctx, q.git, "rev-parse", "--show-toplevel")
	if err != nil {
		slog.Warn("Staged-file policy disabled",
			slog.String("reason", err.Error()),
		)
		return EmptyStagedFileSet()
	}
	root := strings.TrimSpace(string(rootOut.Stdout))

	statusOut, err := tool.Run(ctx, q.git, "status", "--porcelain")
	if err != nil {
		slog.Warn("Staged-file policy disabled",
			slog.String("reason", err.Error()),
		)
		return EmptyStagedFileSet()
	}

	added := ParsePorcelain(string(statusOut.Stdout))
	slog.Debug("Loaded staged files",
		slog.String("root", root),
		slog.Int("added", len(added)),
	)
	return NewStagedFileSet(root, added...)
}
