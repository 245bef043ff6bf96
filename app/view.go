package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/ui/theme"
)

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	if m.focus == FocusConnections {
		body = m.connections.View()
	} else {
		body = m.dashboard()
	}

	status := m.statusLine()
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (m Model) dashboard() string {
	t := theme.Current

	treeBorder := t.BorderUnfocused
	paneBorder := t.BorderUnfocused
	if m.focus == FocusTree {
		treeBorder = t.BorderFocused
	}
	if m.focus == FocusTable {
		paneBorder = t.BorderFocused
	}

	sidebar := sidebarWidth(m.width)
	left := treeBorder.
		Width(sidebar - 2).
		Height(m.height - 3).
		Render(m.tree.View())
	right := paneBorder.
		Width(m.width - sidebar - 2).
		Height(m.height - 3).
		Render(m.pane.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) statusLine() string {
	if m.toast.Visible() {
		return m.toast.View()
	}

	t := theme.Current
	switch m.focus {
	case FocusConnections:
		return t.StatusBar.Render(" enter: open  j/k: move  ctrl+c: quit")
	case FocusTree:
		return t.StatusBar.Render(" enter: open  /: filter  tab: table  esc: connections")
	default:
		return t.StatusBar.Render(" 1/2/3: tabs  n/p: page  /: where  y: yank  esc: tree")
	}
}
