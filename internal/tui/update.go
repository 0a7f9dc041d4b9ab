package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.report != nil {
			m.deadlineTable = newDeadlineTable(m.report.PaymentDeadlines, m.width)
		}
		return m, nil

	case ReportLoadedMsg:
		m.loading = false
		m.report = msg.Report
		m.deadlineTable = newDeadlineTable(msg.Report.PaymentDeadlines, m.width)
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m.updateCurrentTab(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.currentTab = Tab((int(m.currentTab) + 1) % len(tabNames))
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.currentTab = Tab((int(m.currentTab) + len(tabNames) - 1) % len(tabNames))
		return m, nil
	}

	return m.updateCurrentTab(msg)
}

// updateCurrentTab delegates remaining messages to the focused pane's
// component.
func (m Model) updateCurrentTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentTab == TabDeadlines && m.report != nil {
		var cmd tea.Cmd
		m.deadlineTable, cmd = m.deadlineTable.Update(msg)
		return m, cmd
	}
	return m, nil
}
