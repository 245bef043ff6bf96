package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/logger"
	"github.com/dbnav/dbnav/ui/connlist"
	"github.com/dbnav/dbnav/ui/datatable"
	"github.com/dbnav/dbnav/ui/dbtree"
	"github.com/dbnav/dbnav/ui/sqltab"
	"github.com/dbnav/dbnav/ui/tablepane"
	"github.com/dbnav/dbnav/ui/toast"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case toast.NoticeMsg:
		m.toast.Show(msg.Text, msg.Kind)
		return m, nil

	case connlist.SelectedMsg:
		return m.connectionSelected(msg.Conn)

	case dbtree.TableSelectedMsg:
		return m.tableSelected(msg.Ref)

	case dbtree.LeaveMsg:
		m.focus = FocusConnections
		return m, nil

	case tablepane.BackToTreeMsg:
		m.focus = FocusTree
		m.setPaneFocus()
		return m, nil

	case tablepane.NeedPropertiesMsg:
		return m, loadProperties(m.conn, msg.Ref)

	case datatable.ReloadMsg:
		return m, loadRecords(m.conn, m.pane.Ref(), msg.Where, msg.Offset, m.cfg.UI.PageSize)

	case sqltab.LaunchMsg:
		return m.launchCLI()

	case DatabasesLoadedMsg:
		return m.databasesLoaded(msg)

	case RecordsLoadedMsg:
		return m.recordsLoaded(msg)

	case PropertiesLoadedMsg:
		return m.propertiesLoaded(msg)

	case CLIFinishedMsg:
		if msg.Err != nil {
			m.toast.ShowError(msg.Err.Error())
			return m, nil
		}
		// The tool may have changed anything; refetch the visible page.
		return m, loadRecords(m.conn, m.pane.Ref(), m.pane.Where(), 0, m.cfg.UI.PageSize)
	}

	return m, nil
}

func (m Model) updateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A text input keeps the keyboard even while a notice is up, so an
	// esc meant to leave an edit mode is never swallowed by the toast.
	if m.toast.Visible() && !m.textEditing() {
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(key)
		if !m.toast.Visible() {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusConnections:
		if key.String() == "q" {
			return m, tea.Quit
		}
		m.connections, cmd = m.connections.Update(key)

	case FocusTree:
		// Tab jumps to the table pane once a table has been opened.
		if key.String() == "tab" && m.tree.Focus() == dbtree.FocusTree && m.pane.Ref().Table != "" {
			m.focus = FocusTable
			m.setPaneFocus()
			return m, nil
		}
		m.tree, cmd = m.tree.Update(key)

	case FocusTable:
		m.pane, cmd = m.pane.Update(key)
	}
	return m, cmd
}

func (m Model) connectionSelected(conn drivers.Connection) (tea.Model, tea.Cmd) {
	m.conn = conn
	m.focus = FocusTree
	m.tree = dbtree.New()
	m.pane = tablepane.New(m.cfg.UI.PageSize)
	m.setPaneFocus()
	m.layout()
	m.toast.ShowInfo("connecting to " + conn.Name)
	logger.Debug("connection selected", map[string]any{"name": conn.Name, "type": string(conn.Type)})
	return m, loadDatabases(conn)
}

func (m Model) tableSelected(ref drivers.TableRef) (tea.Model, tea.Cmd) {
	m.pane.SetTable(m.conn, ref)
	m.focus = FocusTable
	m.setPaneFocus()
	logger.Debug("table selected", map[string]any{"table": ref.String()})
	return m, loadRecords(m.conn, ref, "", 0, m.cfg.UI.PageSize)
}

func (m Model) databasesLoaded(msg DatabasesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.ConnName != m.conn.Name {
		return m, nil
	}
	if msg.Err != nil {
		m.toast.ShowError(msg.Err.Error())
		m.focus = FocusConnections
		return m, nil
	}
	m.toast.Hide()
	m.tree.SetDatabases(msg.Databases)
	return m, nil
}

func (m Model) recordsLoaded(msg RecordsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.ConnName != m.conn.Name || msg.Ref != m.pane.Ref() {
		logger.Debug("discarding stale records", map[string]any{"table": msg.Ref.String()})
		return m, nil
	}
	if msg.Err != nil {
		m.pane.SetRecordsError(msg.Err.Error())
		m.toast.ShowError(msg.Err.Error())
		return m, nil
	}
	m.pane.SetRecords(msg.Records)
	return m, nil
}

func (m Model) propertiesLoaded(msg PropertiesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.ConnName != m.conn.Name || msg.Ref != m.pane.Ref() {
		return m, nil
	}
	if msg.Err != nil {
		m.pane.SetPropertiesError(msg.Err.Error())
		m.toast.ShowError(msg.Err.Error())
		return m, nil
	}
	m.pane.SetProperties(msg.Props)
	return m, nil
}

func (m Model) launchCLI() (tea.Model, tea.Cmd) {
	d, err := drivers.For(m.conn.Type)
	if err != nil {
		m.toast.ShowError(err.Error())
		return m, nil
	}
	cmd, err := d.ToolCommand(m.conn)
	if err != nil {
		m.toast.ShowError(err.Error())
		return m, nil
	}
	logger.Info("launching external cli", map[string]any{"tool": d.ToolName()})
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return CLIFinishedMsg{Err: err}
	})
}

// textEditing reports whether the focused component is in a text-input
// sub-state (tree filter or records predicate).
func (m Model) textEditing() bool {
	switch m.focus {
	case FocusTree:
		return m.tree.Focus() == dbtree.FocusFilter
	case FocusTable:
		return m.pane.Editing()
	}
	return false
}

func (m *Model) setPaneFocus() {
	m.tree.SetFocused(m.focus == FocusTree)
	m.pane.SetFocused(m.focus == FocusTable)
}

func loadDatabases(conn drivers.Connection) tea.Cmd {
	return func() tea.Msg {
		d, err := drivers.For(conn.Type)
		if err != nil {
			return DatabasesLoadedMsg{ConnName: conn.Name, Err: err}
		}
		dbs, err := d.ListDatabases(conn)
		return DatabasesLoadedMsg{ConnName: conn.Name, Databases: dbs, Err: err}
	}
}

func loadRecords(conn drivers.Connection, ref drivers.TableRef, where string, offset, limit int) tea.Cmd {
	return func() tea.Msg {
		d, err := drivers.For(conn.Type)
		if err != nil {
			return RecordsLoadedMsg{ConnName: conn.Name, Ref: ref, Err: err}
		}
		recs, err := d.ListRecords(conn, ref, drivers.Page{Limit: limit, Offset: offset, Where: where})
		return RecordsLoadedMsg{ConnName: conn.Name, Ref: ref, Records: recs, Err: err}
	}
}

func loadProperties(conn drivers.Connection, ref drivers.TableRef) tea.Cmd {
	return func() tea.Msg {
		d, err := drivers.For(conn.Type)
		if err != nil {
			return PropertiesLoadedMsg{ConnName: conn.Name, Ref: ref, Err: err}
		}
		props, err := d.Describe(conn, ref)
		return PropertiesLoadedMsg{ConnName: conn.Name, Ref: ref, Props: props, Err: err}
	}
}
