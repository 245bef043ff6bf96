// Package tablepane hosts the three per-table tabs: Records, SQL and
// Properties. It owns the active tab and the table identity; data itself
// is fetched by the application and pushed in.
package tablepane

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/datatable"
	"github.com/dbnav/dbnav/ui/proptable"
	"github.com/dbnav/dbnav/ui/sqltab"
	"github.com/dbnav/dbnav/ui/theme"
)

// BackToTreeMsg moves focus back to the database tree.
type BackToTreeMsg struct{}

// NeedPropertiesMsg asks the application to fetch column metadata for ref.
type NeedPropertiesMsg struct {
	Ref drivers.TableRef
}

// Tab identifies the visible sub-pane.
type Tab int

const (
	TabRecords Tab = iota
	TabSQL
	TabProperties
)

func (t Tab) String() string {
	switch t {
	case TabSQL:
		return "SQL"
	case TabProperties:
		return "Properties"
	default:
		return "Records"
	}
}

type Model struct {
	ref  drivers.TableRef
	conn drivers.Connection

	active  Tab
	focused bool

	records    datatable.Model
	sql        sqltab.Model
	properties proptable.Model

	pageSize int
	width    int
	height   int
}

func New(pageSize int) Model {
	return Model{
		records:    datatable.New(pageSize),
		sql:        sqltab.New(),
		properties: proptable.New(),
		pageSize:   pageSize,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Two lines are spent on the tab bar and the table title.
	m.records.SetSize(width, height-2)
	m.sql.SetSize(width, height-2)
	m.properties.SetSize(width, height-2)
}

func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetTable switches the pane to a new table. All cached data is dropped
// so every tab refetches on entry.
func (m *Model) SetTable(conn drivers.Connection, ref drivers.TableRef) {
	m.conn = conn
	m.ref = ref
	m.active = TabRecords
	m.records.Clear()
	m.properties.Clear()
	m.sql.SetConnection(conn.Type)
	m.sql.SetPreview(m.previewSQL(0))
}

// Ref returns the table the pane currently shows.
func (m Model) Ref() drivers.TableRef {
	return m.ref
}

// ActiveTab reports the visible tab.
func (m Model) ActiveTab() Tab {
	return m.active
}

// Where returns the confirmed records filter.
func (m Model) Where() string {
	return m.records.Where()
}

// Editing reports whether a text input inside the pane owns the keyboard.
func (m Model) Editing() bool {
	return m.active == TabRecords && m.records.Focus() == datatable.FocusWhere
}

func (m *Model) SetRecords(recs *drivers.Records) {
	m.records.SetRecords(recs)
	if recs != nil {
		m.sql.SetPreview(m.previewSQL(recs.Offset))
	}
}

func (m *Model) SetRecordsError(msg string) {
	m.records.SetError(msg)
}

func (m *Model) SetProperties(props *drivers.TableProperties) {
	m.properties.SetProperties(props)
}

func (m *Model) SetPropertiesError(msg string) {
	m.properties.SetError(msg)
}

// Records exposes the records snapshot, for tests.
func (m Model) Records() *drivers.Records {
	return m.records.Records()
}

// Properties exposes the schema snapshot, for tests.
func (m Model) Properties() *drivers.TableProperties {
	return m.properties.Properties()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	// While a text input owns the keyboard, everything goes to it.
	if !m.Editing() {
		switch key.String() {
		case "1":
			return m.switchToRecords()
		case "2":
			if m.active != TabSQL {
				// Availability can change while the app runs.
				m.sql.SetConnection(m.conn.Type)
			}
			m.active = TabSQL
			return m, nil
		case "3":
			return m.switchToProperties()
		case "esc", "tab":
			return m, func() tea.Msg { return BackToTreeMsg{} }
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case TabRecords:
		m.records, cmd = m.records.Update(msg)
		m.sql.SetPreview(m.previewSQL(currentOffset(m.records.Records())))
	case TabSQL:
		m.sql, cmd = m.sql.Update(msg)
	case TabProperties:
		m.properties, cmd = m.properties.Update(msg)
	}
	return m, cmd
}

// Re-entering a tab refetches its data; the previous snapshot stays
// visible until the fresh result lands.
func (m Model) switchToRecords() (Model, tea.Cmd) {
	already := m.active == TabRecords
	m.active = TabRecords
	if already {
		return m, nil
	}
	where := m.records.Where()
	offset := currentOffset(m.records.Records())
	return m, func() tea.Msg { return datatable.ReloadMsg{Where: where, Offset: offset} }
}

func (m Model) switchToProperties() (Model, tea.Cmd) {
	already := m.active == TabProperties
	m.active = TabProperties
	if already {
		return m, nil
	}
	ref := m.ref
	return m, func() tea.Msg { return NeedPropertiesMsg{Ref: ref} }
}

func (m Model) View() string {
	t := theme.Current

	var tabs string
	for _, tab := range []Tab{TabRecords, TabSQL, TabProperties} {
		label := fmt.Sprintf(" %d:%s ", int(tab)+1, tab)
		if tab == m.active {
			tabs += t.Title.Render(label)
		} else {
			tabs += t.StatusBar.Render(label)
		}
	}

	title := t.TableCell.Bold(true).Render(m.ref.String())

	var body string
	switch m.active {
	case TabRecords:
		body = m.records.View()
	case TabSQL:
		body = m.sql.View()
	case TabProperties:
		body = m.properties.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, title, body)
}

// previewSQL reconstructs the SELECT the Records tab runs, for the SQL tab.
func (m Model) previewSQL(offset int) string {
	q := "SELECT * FROM " + m.ref.String()
	if w := m.records.Where(); w != "" {
		q += " WHERE " + w
	}
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", q, m.pageSize, offset)
}

func currentOffset(recs *drivers.Records) int {
	if recs == nil {
		return 0
	}
	return recs.Offset
}
