// pattern: Imperative Shell

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// actionResultMsg reports the outcome of an open or copy action.
type actionResultMsg struct {
	status string
	err    error
}

func (m ErrorDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusError = true
		} else {
			m.status = msg.status
			m.statusError = false
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Dismiss):
			m.dismissed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			return m, m.openIssue()
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyError()
		}
	}
	return m, nil
}

func (m ErrorDialog) openIssue() tea.Cmd {
	if m.openURL == nil || m.issueURL == "" {
		return nil
	}
	open, url := m.openURL, m.issueURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{status: "opened issue form in browser"}
	}
}

func (m ErrorDialog) copyError() tea.Cmd {
	if m.copyText == nil {
		return nil
	}
	copyText, text := m.copyText, m.message
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{status: "error copied to clipboard"}
	}
}
