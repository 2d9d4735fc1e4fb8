// pattern: Imperative Shell

package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

// Check verifies that the git binary can be found.
func Check(binary string, lookPath LookPathFunc) error {
	if binary == "" {
		binary = "git"
	}
	if _, err := lookPath(binary); err != nil {
		return fmt.Errorf("git not found (%s): %w", binary, err)
	}
	return nil
}

// IsRepository reports whether dir lies inside a git working tree.
// Any failure, including "not a git repository", counts as false.
func (c *Client) IsRepository(ctx context.Context, dir string) bool {
	out, err := c.run(ctx, strings.TrimSpace(dir), "rev-parse", "--is-inside-work-tree")
	if err != nil {
		c.logger.Info("not a git repository, doing nothing", "dir", dir)
		return false
	}
	return strings.TrimSpace(out) == "true"
}

// ResolveRoot returns the top-level directory of the working tree
// containing dir.
func (c *Client) ResolveRoot(ctx context.Context, dir string) (string, error) {
	out, err := c.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("resolving git root: %w", err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", fmt.Errorf("resolving git root: empty output for %s", dir)
	}
	return root, nil
}

// UntrackedFiles lists untracked, non-ignored files relative to root.
func (c *Client) UntrackedFiles(ctx context.Context, root string) ([]string, error) {
	out, err := c.run(ctx, root, "ls-files", "--exclude-standard", "--others")
	if err != nil {
		return nil, fmt.Errorf("listing untracked files: %w", err)
	}
	return parseFileList(out), nil
}

// IsUntracked reports whether the root-relative path rel is untracked.
// The comparison ignores case.
func (c *Client) IsUntracked(ctx context.Context, root, rel string) (bool, error) {
	files, err := c.UntrackedFiles(ctx, root)
	if err != nil {
		return false, err
	}

	rel = strings.TrimPrefix(rel, "/")
	for _, f := range files {
		if strings.EqualFold(f, rel) {
			return true, nil
		}
	}
	return false, nil
}

// Move runs git mv from -> to inside root. Both paths are root-relative.
func (c *Client) Move(ctx context.Context, root, from, to string) error {
	_, err := c.run(ctx, root, "mv", from, to)
	return err
}

// parseFileList splits ls-files output into paths. Entries that git quoted
// because of special characters are unquoted.
func parseFileList(output string) []string {
	var files []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
			if unquoted, err := strconv.Unquote(line); err == nil {
				line = unquoted
			}
		}
		files = append(files, line)
	}
	return files
}
