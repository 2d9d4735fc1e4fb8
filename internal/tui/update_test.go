package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestDialog(open, copyText func(string) error) ErrorDialog {
	return NewErrorDialog(DialogConfig{
		Title:    "Rename failed",
		Message:  "\x1b[31mfatal: bad source\x1b[0m",
		IssueURL: "https://example.com/issues/new",
		Theme:    "mocha",
		OpenURL:  open,
		CopyText: copyText,
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds its message back through Update.
func runCmd(t *testing.T, m ErrorDialog, cmd tea.Cmd) ErrorDialog {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	updated, _ := m.Update(cmd())
	return updated.(ErrorDialog)
}

func TestNewErrorDialog_StripsEscapes(t *testing.T) {
	m := newTestDialog(nil, nil)
	if m.Message() != "fatal: bad source" {
		t.Errorf("Message() = %q", m.Message())
	}
}

func TestUpdate_OpenIssue(t *testing.T) {
	var opened string
	m := newTestDialog(func(url string) error {
		opened = url
		return nil
	}, nil)

	updated, cmd := m.Update(keyRunes("o"))
	m = runCmd(t, updated.(ErrorDialog), cmd)

	if opened != "https://example.com/issues/new" {
		t.Errorf("opened %q", opened)
	}
	if !strings.Contains(m.View(), "opened issue form") {
		t.Errorf("status missing from view:\n%s", m.View())
	}
	if m.Dismissed() {
		t.Error("dialog should stay open after opening the issue")
	}
}

func TestUpdate_CopyError(t *testing.T) {
	var copied string
	m := newTestDialog(nil, func(text string) error {
		copied = text
		return nil
	})

	updated, cmd := m.Update(keyRunes("c"))
	m = runCmd(t, updated.(ErrorDialog), cmd)

	if copied != "fatal: bad source" {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(m.View(), "copied to clipboard") {
		t.Errorf("status missing from view:\n%s", m.View())
	}
}

func TestUpdate_ActionFailureShown(t *testing.T) {
	m := newTestDialog(nil, func(string) error {
		return errors.New("no clipboard utility")
	})

	updated, cmd := m.Update(keyRunes("c"))
	m = runCmd(t, updated.(ErrorDialog), cmd)

	if !strings.Contains(m.View(), "no clipboard utility") {
		t.Errorf("error missing from view:\n%s", m.View())
	}
}

func TestUpdate_NoActionsConfigured(t *testing.T) {
	m := newTestDialog(nil, nil)
	if _, cmd := m.Update(keyRunes("o")); cmd != nil {
		t.Error("open without handler should not produce a command")
	}
	if _, cmd := m.Update(keyRunes("c")); cmd != nil {
		t.Error("copy without handler should not produce a command")
	}
}

func TestUpdate_Dismiss(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyEscape},
		{Type: tea.KeyEnter},
		keyRunes("q"),
		{Type: tea.KeyCtrlC},
	}
	for _, k := range keys {
		t.Run(k.String(), func(t *testing.T) {
			updated, cmd := newTestDialog(nil, nil).Update(k)
			m := updated.(ErrorDialog)
			if !m.Dismissed() {
				t.Error("dialog should be dismissed")
			}
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.View() != "" {
				t.Error("dismissed dialog should render nothing")
			}
		})
	}
}

func TestView_ContainsMessageAndHelp(t *testing.T) {
	updated, _ := newTestDialog(nil, nil).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := updated.(ErrorDialog).View()

	for _, want := range []string{"Rename failed", "fatal: bad source", "open an issue", "copy error", "dismiss"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
