package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// DialogConfig describes one error dialog.
type DialogConfig struct {
	Title    string
	Message  string
	IssueURL string
	Theme    string

	// OpenURL and CopyText perform the dialog's actions.
	OpenURL  func(url string) error
	CopyText func(text string) error
}

// ErrorDialog is a modal that shows a failure and offers to open a
// pre-filled issue or copy the error text.
type ErrorDialog struct {
	width  int
	styles *Styles
	keys   keyMap
	help   help.Model

	title    string
	message  string
	issueURL string
	openURL  func(string) error
	copyText func(string) error

	status      string
	statusError bool
	dismissed   bool
}

// NewErrorDialog builds the dialog model. The message is stripped of
// terminal escape sequences since git stderr may carry colors.
func NewErrorDialog(cfg DialogConfig) ErrorDialog {
	styles := NewStyles(cfg.Theme)

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle()
	h.Styles.ShortDesc = styles.HelpDescStyle()
	h.Styles.ShortSeparator = styles.HelpDescStyle()

	return ErrorDialog{
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     h,
		title:    cfg.Title,
		message:  ansi.Strip(cfg.Message),
		issueURL: cfg.IssueURL,
		openURL:  cfg.OpenURL,
		copyText: cfg.CopyText,
	}
}

func (m ErrorDialog) Init() tea.Cmd {
	return nil
}

// Dismissed reports whether the user closed the dialog.
func (m ErrorDialog) Dismissed() bool {
	return m.dismissed
}

// Message returns the escape-free error text.
func (m ErrorDialog) Message() string {
	return m.message
}

// RunDialog blocks until the dialog is dismissed or ctx is done.
func RunDialog(ctx context.Context, cfg DialogConfig, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	_, err := tea.NewProgram(NewErrorDialog(cfg), opts...).Run()
	return err
}
