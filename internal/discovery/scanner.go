// pattern: Imperative Shell

// Package discovery finds git repositories under scan paths so the watcher
// can cover every project in a workspace directory.
package discovery

import (
	"context"
	"os"
	"path/filepath"

	"casemv/internal/git"
	"casemv/internal/logging"
)

// WorktreeLister lists linked worktrees of a repository.
type WorktreeLister interface {
	Worktrees(ctx context.Context, root string) ([]git.Worktree, error)
}

// Repository is a git working tree found during scanning.
type Repository struct {
	Name      string         // directory name
	Path      string         // absolute path to the main working tree
	Worktrees []git.Worktree // linked worktrees, empty if none
}

// Scanner discovers repositories in configured scan paths.
type Scanner struct {
	lister WorktreeLister
	logger *logging.ScopedLogger
}

// NewScanner creates a scanner. A nil lister skips worktree lookup.
func NewScanner(lister WorktreeLister, logger *logging.ScopedLogger) *Scanner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scanner{lister: lister, logger: logger}
}

// ScanAll scans all provided paths for repositories.
// Each path is walked one level deep looking for directories containing .git.
func (s *Scanner) ScanAll(ctx context.Context, paths []string) []Repository {
	var repos []Repository
	seen := make(map[string]bool)

	for _, scanPath := range paths {
		entries, err := os.ReadDir(scanPath)
		if err != nil {
			s.logger.Debug("skipping scan path", "path", scanPath, "error", err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			projectPath := filepath.Join(scanPath, entry.Name())

			// Resolve symlinks to get canonical path
			resolved, err := filepath.EvalSymlinks(projectPath)
			if err != nil {
				resolved = projectPath
			}
			if seen[resolved] || !isRepository(resolved) {
				continue
			}
			seen[resolved] = true

			repo := Repository{Name: entry.Name(), Path: resolved}
			if s.lister != nil {
				worktrees, err := s.lister.Worktrees(ctx, resolved)
				if err != nil {
					s.logger.Warn("listing worktrees failed", "path", resolved, "error", err)
				}
				repo.Worktrees = worktrees
			}
			repos = append(repos, repo)
		}
	}

	return repos
}

// Roots flattens repositories and their worktrees into watch roots.
func Roots(repos []Repository) []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			roots = append(roots, p)
		}
	}
	for _, r := range repos {
		add(r.Path)
		for _, wt := range r.Worktrees {
			add(wt.Path)
		}
	}
	return roots
}

// isRepository checks for a .git directory, or a .git file as used by
// linked worktrees and submodules.
func isRepository(projectPath string) bool {
	_, err := os.Stat(filepath.Join(projectPath, ".git"))
	return err == nil
}
