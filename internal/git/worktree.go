// pattern: Imperative Shell

package git

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"
)

// Worktree is a linked working tree of a repository.
type Worktree struct {
	Name   string // worktree directory name
	Path   string // absolute path to the worktree directory
	Branch string // branch name, empty when detached
}

// Worktrees lists the linked worktrees of the repository at root,
// excluding the main working tree.
func (c *Client) Worktrees(ctx context.Context, root string) ([]Worktree, error) {
	out, err := c.run(ctx, root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(out), nil
}

// parseWorktreeList parses the porcelain output of `git worktree list`.
// Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
//
// The first entry is the main worktree; we skip it and return only additional worktrees.
func parseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var current *Worktree
	entries := 0

	flush := func() {
		if current != nil && entries > 1 {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			entries++
			path := strings.TrimPrefix(line, "worktree ")
			current = &Worktree{Path: path, Name: filepath.Base(path)}
		case strings.HasPrefix(line, "branch ") && current != nil:
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "":
			flush()
		}
	}
	flush()

	return worktrees
}
