// Package datatable is the Records tab: a scrollable matrix over one
// immutable page snapshot, plus a WHERE-clause filter mode.
package datatable

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/theme"
	"github.com/dbnav/dbnav/ui/toast"
)

const colWidth = 16

// ReloadMsg asks the parent to fetch a fresh page for the current table.
type ReloadMsg struct {
	Where  string
	Offset int
}

// Focus is the tab's sub-state: browsing the matrix or editing the filter.
type Focus int

const (
	FocusMatrix Focus = iota
	FocusWhere
)

// Model renders one Records snapshot. The snapshot is replaced atomically
// by SetRecords; scroll state is reset with it.
type Model struct {
	records *drivers.Records
	loadErr string

	rowCursor int
	colScroll int

	focus Focus
	where textinput.Model

	pageSize int
	width    int
	height   int
}

func New(pageSize int) Model {
	ti := textinput.New()
	ti.Placeholder = "WHERE clause, e.g. name LIKE '%a%'"
	ti.Prompt = "where: "
	ti.CharLimit = 200
	return Model{where: ti, pageSize: pageSize}
}

// SetSize stores the content area dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.where.Width = width - 10
}

// SetRecords swaps in a fresh snapshot.
func (m *Model) SetRecords(recs *drivers.Records) {
	m.records = recs
	m.loadErr = ""
	m.rowCursor = 0
	m.colScroll = 0
}

// SetError keeps the previous snapshot visible and records the failure.
func (m *Model) SetError(msg string) {
	m.loadErr = msg
}

// Clear drops the snapshot, used when a different table is selected.
func (m *Model) Clear() {
	m.records = nil
	m.loadErr = ""
	m.rowCursor = 0
	m.colScroll = 0
	m.where.SetValue("")
	m.focus = FocusMatrix
}

// Records exposes the current snapshot, for tests.
func (m Model) Records() *drivers.Records {
	return m.records
}

// Focus reports the current sub-state.
func (m Model) Focus() Focus {
	return m.focus
}

// Where returns the confirmed WHERE clause.
func (m Model) Where() string {
	return m.where.Value()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.focus == FocusWhere {
		return m.updateWhere(key)
	}
	return m.updateMatrix(key)
}

func (m Model) updateMatrix(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "pgup":
		m.moveRow(-m.visibleRows())
	case "pgdown":
		m.moveRow(m.visibleRows())
	case "g", "home":
		m.rowCursor = 0
	case "G", "end":
		m.moveRow(m.rowCount())
	case "left", "h":
		m.moveCol(-1)
	case "right", "l":
		m.moveCol(1)
	case "[":
		m.moveCol(-5)
	case "]":
		m.moveCol(5)
	case "ctrl+a":
		m.colScroll = 0
	case "ctrl+e":
		m.moveCol(m.colCount())
	case "n":
		if m.records != nil && m.hasNextPage() {
			off := m.records.Offset + m.records.Limit
			return m, m.reload(off)
		}
	case "p":
		if m.records != nil && m.records.Offset > 0 {
			off := max(0, m.records.Offset-m.records.Limit)
			return m, m.reload(off)
		}
	case "/":
		m.focus = FocusWhere
		m.where.Focus()
	case "y":
		if cell, ok := m.selectedCell(); ok {
			return m, yankCell(cell)
		}
	}
	return m, nil
}

func (m Model) updateWhere(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		m.focus = FocusMatrix
		m.where.Blur()
		return m, m.reload(0) // a new predicate starts from the first page
	case "esc":
		m.focus = FocusMatrix
		m.where.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.where, cmd = m.where.Update(key)
	return m, cmd
}

func (m Model) reload(offset int) tea.Cmd {
	where := m.where.Value()
	return func() tea.Msg { return ReloadMsg{Where: where, Offset: offset} }
}

func yankCell(cell string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(cell); err != nil {
			return toast.NoticeMsg{Text: "clipboard: " + err.Error(), Kind: toast.Warning}
		}
		return toast.NoticeMsg{Text: "cell copied", Kind: toast.Success}
	}
}

func (m Model) hasNextPage() bool {
	r := m.records
	if r.Total == drivers.TotalUnknown {
		// Without a count, a full page suggests there may be more.
		return len(r.Rows) == r.Limit
	}
	return r.Offset+r.Limit < r.Total
}

func (m Model) rowCount() int {
	if m.records == nil {
		return 0
	}
	return len(m.records.Rows)
}

func (m Model) colCount() int {
	if m.records == nil {
		return 0
	}
	return len(m.records.Columns)
}

func (m *Model) moveRow(delta int) {
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

func (m *Model) moveCol(delta int) {
	maxStart := max(0, m.colCount()-m.visibleCols())
	m.colScroll += delta
	if m.colScroll < 0 {
		m.colScroll = 0
	}
	if m.colScroll > maxStart {
		m.colScroll = maxStart
	}
}

func (m Model) selectedCell() (string, bool) {
	if m.records == nil || m.rowCursor >= len(m.records.Rows) {
		return "", false
	}
	row := m.records.Rows[m.rowCursor]
	if m.colScroll >= len(row) {
		return "", false
	}
	return row[m.colScroll], true
}

func (m Model) visibleRows() int {
	// Header, title line and the filter line eat into the height.
	return max(1, m.height-4)
}

func (m Model) visibleCols() int {
	return max(1, m.width/colWidth)
}

func (m Model) View() string {
	t := theme.Current

	if m.records == nil {
		text := "Loading records..."
		if m.loadErr != "" {
			text = m.loadErr
		}
		return t.TreeItem.Render(text)
	}

	r := m.records
	colStart := min(m.colScroll, max(0, len(r.Columns)-m.visibleCols()))
	colEnd := min(len(r.Columns), colStart+m.visibleCols())

	rowStart := 0
	if m.rowCursor >= m.visibleRows() {
		rowStart = m.rowCursor - m.visibleRows() + 1
	}
	rowEnd := min(len(r.Rows), rowStart+m.visibleRows())

	var b strings.Builder
	b.WriteString(t.StatusBar.Render(m.title(rowStart, rowEnd, colStart, colEnd)))
	b.WriteString("\n")

	var header strings.Builder
	for _, c := range r.Columns[colStart:colEnd] {
		header.WriteString(pad(c, colWidth))
	}
	b.WriteString(t.TableHeader.Render(header.String()))
	b.WriteString("\n")

	for i := rowStart; i < rowEnd; i++ {
		var line strings.Builder
		for _, cell := range r.Rows[i][colStart:colEnd] {
			line.WriteString(pad(cell, colWidth))
		}
		if i == m.rowCursor {
			b.WriteString(t.TableSelected.Render(line.String()))
		} else {
			b.WriteString(t.TableCell.Render(line.String()))
		}
		b.WriteString("\n")
	}

	whereLine := m.where.View()
	if m.focus != FocusWhere && m.where.Value() == "" {
		whereLine = t.StatusBar.Render("/ to filter, n/p pages, y to copy cell")
	}
	if m.loadErr != "" {
		whereLine = lipgloss.NewStyle().Foreground(t.Colors.Error).Render(m.loadErr)
	}
	b.WriteString(whereLine)

	return b.String()
}

func (m Model) title(rowStart, rowEnd, colStart, colEnd int) string {
	r := m.records
	total := "?"
	if r.Total != drivers.TotalUnknown {
		total = fmt.Sprintf("%d", r.Total)
	}
	return fmt.Sprintf("rows %d-%d of %s (offset %d)  cols %d-%d/%d",
		r.Offset+rowStart+1, r.Offset+rowEnd, total, r.Offset,
		colStart+1, colEnd, len(r.Columns))
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
