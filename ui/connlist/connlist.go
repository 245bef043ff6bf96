// Package connlist is the connection selection screen, the root of the
// navigation flow.
package connlist

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/theme"
)

const pageJump = 10

// SelectedMsg is emitted when the operator picks a connection.
type SelectedMsg struct {
	Conn drivers.Connection
}

// Model lists the configured connections.
type Model struct {
	items    []drivers.Connection
	selected int
	width    int
	height   int
}

// New builds the screen over the loaded connection set.
func New(conns []drivers.Connection) Model {
	return Model{items: conns}
}

// SetSize stores the terminal dimensions for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the highlighted connection, if any.
func (m Model) Selected() (drivers.Connection, bool) {
	if len(m.items) == 0 {
		return drivers.Connection{}, false
	}
	return m.items[m.selected], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-pageJump)
	case "pgdown":
		m.move(pageJump)
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.move(len(m.items))
	case "enter":
		if conn, ok := m.Selected(); ok {
			return m, func() tea.Msg { return SelectedMsg{Conn: conn} }
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected > len(m.items)-1 {
		m.selected = len(m.items) - 1
	}
}

// visibleRange keeps the cursor inside the rows the box can show. The
// border, padding and title of the box eat eight terminal rows.
func (m Model) visibleRange() (int, int) {
	rows := len(m.items)
	if m.height > 0 && m.height-8 < rows {
		rows = m.height - 8
	}
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := start + rows
	if end > len(m.items) {
		end = len(m.items)
	}
	return start, end
}

func (m Model) View() string {
	t := theme.Current

	title := t.Title.Padding(0, 1).Render("Connections")

	var lines []string
	if len(m.items) == 0 {
		lines = append(lines, t.TreeItem.Render("(no connections found)"))
	}
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		c := m.items[i]
		label := fmt.Sprintf("%s (%s)", c.Name, drivers.DisplayURL(c))
		if i == m.selected {
			lines = append(lines, t.TreeSelected.Render("▶ "+label))
		} else {
			lines = append(lines, t.TreeItem.Render("  "+label))
		}
	}

	box := t.BorderFocused.Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, lines...)...),
	)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
