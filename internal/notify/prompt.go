// pattern: Imperative Shell

package notify

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"

	"casemv/internal/config"
	"casemv/internal/logging"
	"casemv/internal/rename"
	"casemv/internal/tui"
)

// DialogRunner shows an error dialog and blocks until it closes.
type DialogRunner func(ctx context.Context, cfg tui.DialogConfig, in io.Reader, out io.Writer) error

// Prompt shows each failure in a modal dialog on the terminal. When the
// dialog cannot run it falls back to a Console on the same output.
type Prompt struct {
	mu       sync.Mutex
	repoURL  string
	theme    string
	in       io.Reader
	out      io.Writer
	run      DialogRunner
	open     func(string) error
	copyText func(string) error
	fallback *Console
	logger   *logging.ScopedLogger
}

func NewPrompt(repoURL, theme string, in io.Reader, out io.Writer, logger *logging.ScopedLogger) *Prompt {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Prompt{
		repoURL:  repoURL,
		theme:    theme,
		in:       in,
		out:      out,
		run:      tui.RunDialog,
		open:     OpenBrowser,
		copyText: clipboard.WriteAll,
		fallback: NewConsole(out, repoURL, logger),
		logger:   logger,
	}
}

// WithRunner replaces the dialog runner, for tests.
func (p *Prompt) WithRunner(run DialogRunner) *Prompt {
	p.run = run
	return p
}

func (p *Prompt) NotifyError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := tui.DialogConfig{
		Title:    "casemv could not rename the file",
		Message:  err.Error(),
		IssueURL: IssueURL(p.repoURL, err),
		Theme:    p.theme,
		OpenURL:  p.open,
		CopyText: p.copyText,
	}
	if runErr := p.run(ctx, cfg, p.in, p.out); runErr != nil {
		p.logger.Warn("error dialog failed, falling back to console", "error", runErr)
		p.fallback.NotifyError(ctx, err)
		return
	}
	p.logger.Debug("error reported", "target", "prompt")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New picks the notifier for the configured interactive mode. In auto mode
// the dialog is used only when both stdin and stderr are terminals.
func New(cfg config.Config, logger *logging.ScopedLogger) rename.Notifier {
	return newNotifier(cfg, os.Stdin, os.Stderr, IsTerminal(os.Stdin) && IsTerminal(os.Stderr), logger)
}

func newNotifier(cfg config.Config, in io.Reader, out io.Writer, tty bool, logger *logging.ScopedLogger) rename.Notifier {
	switch cfg.Interactive {
	case config.InteractiveAlways:
		return NewPrompt(cfg.RepositoryURL, cfg.Theme, in, out, logger)
	case config.InteractiveNever:
		return NewConsole(out, cfg.RepositoryURL, logger)
	default:
		if tty {
			return NewPrompt(cfg.RepositoryURL, cfg.Theme, in, out, logger)
		}
		return NewConsole(out, cfg.RepositoryURL, logger)
	}
}
