// Package app wires the screens together: the connection list, the
// database tree and the per-table tab pane. All database work runs in
// background commands; results come back as messages and are matched
// against the current selection before they touch any state.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbnav/dbnav/config"
	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/connlist"
	"github.com/dbnav/dbnav/ui/dbtree"
	"github.com/dbnav/dbnav/ui/tablepane"
	"github.com/dbnav/dbnav/ui/toast"
)

// Focus tracks which pane owns the keyboard.
type Focus int

const (
	FocusConnections Focus = iota
	FocusTree
	FocusTable
)

// DatabasesLoadedMsg carries the tree for one connection.
type DatabasesLoadedMsg struct {
	ConnName  string
	Databases []drivers.Database
	Err       error
}

// RecordsLoadedMsg carries one page of rows for one table.
type RecordsLoadedMsg struct {
	ConnName string
	Ref      drivers.TableRef
	Records  *drivers.Records
	Err      error
}

// PropertiesLoadedMsg carries the column schema for one table.
type PropertiesLoadedMsg struct {
	ConnName string
	Ref      drivers.TableRef
	Props    *drivers.TableProperties
	Err      error
}

// CLIFinishedMsg arrives when the external CLI tool exits and the
// terminal has been restored.
type CLIFinishedMsg struct {
	Err error
}

type Model struct {
	cfg *config.Config

	focus Focus
	conn  drivers.Connection

	connections connlist.Model
	tree        dbtree.Model
	pane        tablepane.Model
	toast       toast.Model

	width  int
	height int
}

func New(cfg *config.Config) Model {
	return Model{
		cfg:         cfg,
		focus:       FocusConnections,
		connections: connlist.New(cfg.Connections),
		tree:        dbtree.New(),
		pane:        tablepane.New(cfg.UI.PageSize),
		toast:       toast.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Focused reports the pane that owns the keyboard, for tests.
func (m Model) Focused() Focus {
	return m.focus
}

// Connection returns the active connection, for tests.
func (m Model) Connection() drivers.Connection {
	return m.conn
}

func (m *Model) layout() {
	m.toast.SetWidth(m.width)
	m.connections.SetSize(m.width, m.height-1)

	sidebar := sidebarWidth(m.width)
	// Borders eat two columns and two rows per pane.
	m.tree.SetSize(sidebar-2, m.height-3)
	m.pane.SetSize(m.width-sidebar-2, m.height-3)
}

func sidebarWidth(total int) int {
	w := total / 3
	if w > 40 {
		w = 40
	}
	if w < 24 {
		w = 24
	}
	return w
}
