// pattern: Imperative Shell

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"casemv/internal/logging"
)

// Executor runs a command and returns its stdout.
type Executor func(ctx context.Context, name string, args ...string) (string, error)

// CommandError records a failed git invocation.
type CommandError struct {
	Command string // rendered command line
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client wraps the git commands needed to relay case-only renames.
type Client struct {
	binary string
	exec   Executor
	logger *logging.ScopedLogger
}

// NewClient creates a Client that runs the given git binary.
func NewClient(binary string, logger *logging.ScopedLogger) *Client {
	return NewClientWithExecutor(binary, defaultExecutor, logger)
}

// NewClientWithExecutor creates a Client with a custom executor (for testing).
func NewClientWithExecutor(binary string, exec Executor, logger *logging.ScopedLogger) *Client {
	if binary == "" {
		binary = "git"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{binary: binary, exec: exec, logger: logger}
}

// defaultExecutor runs commands using os/exec.
func defaultExecutor(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}

	return stdout.String(), nil
}

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// run executes git in dir and logs the command with its result or error.
// Trailing newlines are removed from the output.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	full := gitArgs(dir, args)
	line := renderCommand(c.binary, full)

	out, err := c.exec(ctx, c.binary, full...)
	if err != nil {
		c.logger.Error("git failed", "command", line, "error", err.Error())
		return "", &CommandError{Command: line, Err: err}
	}

	out = strings.TrimRight(out, "\r\n")
	c.logger.Info("git", "command", line, "result", out)
	return out, nil
}

// renderCommand formats a command line for logs and error messages.
// Paths are quoted the way a user would type them.
func renderCommand(name string, args []string) string {
	var sb strings.Builder
	sb.WriteString(name)
	quoteNext := false
	for i, arg := range args {
		sb.WriteByte(' ')
		switch {
		case quoteNext, needsQuoting(arg):
			sb.WriteString(strconv.Quote(arg))
		default:
			sb.WriteString(arg)
		}
		// the -C directory and both mv operands
		quoteNext = arg == "-C" || arg == "mv" || (i > 0 && args[i-1] == "mv")
	}
	return sb.String()
}

func needsQuoting(arg string) bool {
	return arg == "" || strings.ContainsAny(arg, " \t\"'\\")
}
