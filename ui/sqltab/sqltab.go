// Package sqltab is the SQL tab: it previews the query the Records tab
// runs and hands the session off to the backend's interactive CLI
// (pgcli, mycli or litecli).
package sqltab

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/theme"
	"github.com/dbnav/dbnav/ui/toast"
)

// LaunchMsg asks the parent to suspend the terminal and run the external
// CLI tool. Only emitted when the tool is installed.
type LaunchMsg struct{}

// Model describes the hand-off state for the active connection.
type Model struct {
	toolName  string
	available bool
	preview   string

	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetConnection refreshes tool availability for the selected backend.
func (m *Model) SetConnection(kind drivers.Kind) {
	d, err := drivers.For(kind)
	if err != nil {
		m.toolName = ""
		m.available = false
		return
	}
	m.toolName = d.ToolName()
	m.available = drivers.ToolAvailable(kind)
}

// SetPreview stores the SELECT statement the Records tab currently runs.
func (m *Model) SetPreview(sql string) {
	m.preview = sql
}

// Available reports whether the launch action is offered.
func (m Model) Available() bool {
	return m.available
}

// ToolName returns the CLI binary name for the active backend.
func (m Model) ToolName() string {
	return m.toolName
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "enter" {
		if !m.available {
			name := m.toolName
			return m, func() tea.Msg {
				return toast.NoticeMsg{
					Text: name + " is not installed; install it to use the SQL console",
					Kind: toast.Warning,
				}
			}
		}
		return m, func() tea.Msg { return LaunchMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	t := theme.Current

	var lines []string
	if m.available {
		lines = append(lines,
			t.TableCell.Render("External SQL console: "+m.toolName+" (available)"),
			"",
			t.StatusBar.Render("Press enter to launch. The terminal is handed to "+m.toolName+" and restored when it exits."),
		)
	} else {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(t.Colors.Warning).Render("External SQL console: "+m.toolName+" (not installed)"),
			"",
			t.StatusBar.Render("Install "+m.toolName+" (pip install "+m.toolName+") to enable the SQL console."),
		)
	}

	if m.preview != "" {
		lines = append(lines, "",
			t.StatusBar.Render("Current records query:"),
			highlightSQL(m.preview),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// highlightSQL renders sql with chroma tokens mapped onto theme styles.
func highlightSQL(sql string) string {
	t := theme.Current
	lexer := lexers.Get("sql")
	if lexer == nil {
		return sql
	}

	styleMap := map[chroma.TokenType]lipgloss.Style{
		chroma.Keyword:       lipgloss.NewStyle().Foreground(t.Colors.Primary).Bold(true),
		chroma.KeywordType:   lipgloss.NewStyle().Foreground(t.Colors.Primary),
		chroma.LiteralString: lipgloss.NewStyle().Foreground(t.Colors.Success),
		chroma.LiteralNumber: lipgloss.NewStyle().Foreground(t.Colors.Warning),
		chroma.Name:          lipgloss.NewStyle().Foreground(t.Colors.Foreground),
		chroma.Operator:      lipgloss.NewStyle().Foreground(t.Colors.Warning),
		chroma.Punctuation:   lipgloss.NewStyle().Foreground(t.Colors.ForegroundDim),
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var b strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style, ok := styleMap[token.Type]
		if !ok {
			style = lipgloss.NewStyle().Foreground(t.Colors.Foreground)
		}
		b.WriteString(style.Render(token.Value))
	}
	return b.String()
}
