// Package proptable is the Properties tab: the column schema of the
// selected table.
package proptable

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/theme"
)

var (
	headers = []string{"Column", "Type", "Null", "Default", "PK", "Extra"}
	widths  = []int{22, 18, 6, 20, 4, 16}
)

// Model renders one TableProperties snapshot.
type Model struct {
	props   *drivers.TableProperties
	loadErr string

	rowCursor int
	colScroll int

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

// SetProperties swaps in a fresh snapshot.
func (m *Model) SetProperties(props *drivers.TableProperties) {
	m.props = props
	m.loadErr = ""
	m.rowCursor = 0
	m.colScroll = 0
}

// SetError keeps the previous snapshot visible and records the failure.
func (m *Model) SetError(msg string) {
	m.loadErr = msg
}

// Clear drops the snapshot.
func (m *Model) Clear() {
	m.props = nil
	m.loadErr = ""
	m.rowCursor = 0
	m.colScroll = 0
}

// Properties exposes the snapshot, for tests.
func (m Model) Properties() *drivers.TableProperties {
	return m.props
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
		m.move(-m.visibleRows())
	case "pgdown":
		m.move(m.visibleRows())
	case "g", "home":
		m.rowCursor = 0
	case "G", "end":
		m.move(m.rowCount())
	case "left", "h":
		m.scrollCols(-1)
	case "right", "l":
		m.scrollCols(1)
	case "ctrl+a":
		m.colScroll = 0
	case "ctrl+e":
		m.scrollCols(len(headers))
	}
	return m, nil
}

func (m Model) rowCount() int {
	if m.props == nil {
		return 0
	}
	return len(m.props.Columns)
}

func (m *Model) move(delta int) {
	if m.rowCount() == 0 {
		return
	}
	m.rowCursor += delta
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
	if m.rowCursor > m.rowCount()-1 {
		m.rowCursor = m.rowCount() - 1
	}
}

func (m *Model) scrollCols(delta int) {
	m.colScroll += delta
	if m.colScroll < 0 {
		m.colScroll = 0
	}
	if m.colScroll > len(headers)-1 {
		m.colScroll = len(headers) - 1
	}
}

func (m Model) visibleRows() int {
	return max(1, m.height-3)
}

// visibleColRange packs as many columns as fit from colScroll onward.
func (m Model) visibleColRange() (int, int) {
	start := m.colScroll
	sum := 0
	end := start
	for end < len(headers) {
		if sum+widths[end] > m.width && end > start {
			break
		}
		sum += widths[end]
		end++
	}
	return start, end
}

func (m Model) View() string {
	t := theme.Current

	if m.props == nil {
		text := "Loading properties..."
		if m.loadErr != "" {
			text = m.loadErr
		}
		return t.TreeItem.Render(text)
	}

	colStart, colEnd := m.visibleColRange()

	rowStart := 0
	if m.rowCursor >= m.visibleRows() {
		rowStart = m.rowCursor - m.visibleRows() + 1
	}
	rowEnd := min(m.rowCount(), rowStart+m.visibleRows())

	var b strings.Builder
	b.WriteString(t.StatusBar.Render(fmt.Sprintf("columns %d-%d of %d",
		rowStart+1, rowEnd, m.rowCount())))
	b.WriteString("\n")

	var header strings.Builder
	for i := colStart; i < colEnd; i++ {
		header.WriteString(pad(headers[i], widths[i]))
	}
	b.WriteString(t.TableHeader.Render(header.String()))
	b.WriteString("\n")

	for i := rowStart; i < rowEnd; i++ {
		col := m.props.Columns[i]
		cells := []string{
			col.Name,
			col.DataType,
			yesNo(col.Nullable),
			col.Default,
			check(col.PrimaryKey),
			col.Extra,
		}
		var line strings.Builder
		for j := colStart; j < colEnd; j++ {
			line.WriteString(pad(cells[j], widths[j]))
		}
		if i == m.rowCursor {
			b.WriteString(t.TableSelected.Render(line.String()))
		} else {
			b.WriteString(t.TableCell.Render(line.String()))
		}
		b.WriteString("\n")
	}

	if m.loadErr != "" {
		b.WriteString(t.StatusBar.Foreground(t.Colors.Error).Render(m.loadErr))
	}

	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func check(b bool) string {
	if b {
		return "✔"
	}
	return ""
}

// pad fits s into exactly width display cells, truncating on rune
// boundaries so multibyte and wide characters keep the grid aligned.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width-1 {
		out := ""
		used := 0
		for _, r := range s {
			rw := lipgloss.Width(string(r))
			if used+rw > width-2 {
				break
			}
			out += string(r)
			used += rw
		}
		return out + "…" + strings.Repeat(" ", width-used-1)
	}
	return s + strings.Repeat(" ", width-w)
}
