// pattern: Imperative Shell

package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"casemv/internal/logging"
)

// Console writes failures and the issue link to w.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	repoURL string
	logger  *logging.ScopedLogger
}

func NewConsole(w io.Writer, repoURL string, logger *logging.ScopedLogger) *Console {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Console{w: w, repoURL: repoURL, logger: logger}
}

func (c *Console) NotifyError(_ context.Context, err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.w, "casemv: %s\n", ansi.Strip(err.Error()))
	if u := IssueURL(c.repoURL, err); u != "" {
		fmt.Fprintf(c.w, "You can open an issue about it if you want to:\n  %s\n", u)
	}
	c.logger.Debug("error reported", "target", "console")
}
