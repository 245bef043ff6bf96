// Package toast renders transient, dismissible notices. Errors from
// background fetches land here instead of crashing the loop.
package toast

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/ui/theme"
)

// NoticeMsg is emitted by components that want a toast shown; the app
// routes it here.
type NoticeMsg struct {
	Text string
	Kind Kind
}

// Kind represents the type of toast message
type Kind int

const (
	Info Kind = iota
	Success
	Error
	Warning
)

// Model represents a toast notification
type Model struct {
	message string
	kind    Kind
	visible bool
	width   int
}

// New creates a new toast model
func New() Model {
	return Model{width: 80}
}

// SetWidth sets the render width
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Show displays a toast message
func (m *Model) Show(message string, kind Kind) {
	m.message = message
	m.kind = kind
	m.visible = true
}

// ShowError displays an error toast
func (m *Model) ShowError(message string) {
	m.Show(message, Error)
}

// ShowWarning displays a warning toast
func (m *Model) ShowWarning(message string) {
	m.Show(message, Warning)
}

// ShowInfo displays an info toast
func (m *Model) ShowInfo(message string) {
	m.Show(message, Info)
}

// Visible returns whether the toast is currently visible
func (m Model) Visible() bool {
	return m.visible
}

// Hide hides the toast
func (m *Model) Hide() {
	m.visible = false
}

// Message returns the current text, for tests and logging.
func (m Model) Message() string {
	return m.message
}

// Update dismisses the toast on enter/esc. Other keys pass through so the
// underlying view stays usable while a notice is shown.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc":
			m.visible = false
		}
	}
	return m, nil
}

// View renders the toast as a single status line
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	t := theme.Current

	var color lipgloss.Color
	var label string
	switch m.kind {
	case Error:
		color, label = t.Colors.Error, "ERROR"
	case Warning:
		color, label = t.Colors.Warning, "WARN"
	case Success:
		color, label = t.Colors.Success, "OK"
	default:
		color, label = t.Colors.Info, "INFO"
	}

	badge := lipgloss.NewStyle().
		Foreground(t.Colors.Foreground).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(label)

	text := clip(m.message, m.width-lipgloss.Width(badge)-4)
	body := lipgloss.NewStyle().Foreground(color).Padding(0, 1).Render(text)
	hint := lipgloss.NewStyle().Foreground(t.Colors.ForegroundDim).Render("(esc to dismiss)")

	return strings.TrimRight(badge+body+hint, " ")
}

// clip shortens s to at most limit display cells, cutting on rune
// boundaries so multibyte text never collapses the line.
func clip(s string, limit int) string {
	if limit <= 0 || lipgloss.Width(s) <= limit {
		return s
	}
	out := ""
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > limit-1 {
			break
		}
		out += string(r)
		used += rw
	}
	return out + "…"
}
