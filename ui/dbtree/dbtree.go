// Package dbtree is the database structure pane: a collapsible tree of
// databases, schemas and tables with an incremental filter mode.
package dbtree

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/theme"
)

// TableSelectedMsg is emitted when the operator picks a table leaf.
type TableSelectedMsg struct {
	Ref drivers.TableRef
}

// LeaveMsg asks the parent to return to the connection screen.
type LeaveMsg struct{}

// Focus is the pane's sub-state: navigating the tree or editing the filter.
type Focus int

const (
	FocusTree Focus = iota
	FocusFilter
)

type nodeType int

const (
	nodeDatabase nodeType = iota
	nodeSchema
	nodeTable
)

// node is one visible row of the flattened tree.
type node struct {
	label       string
	level       int
	typ         nodeType
	database    string
	schema      string
	expanded    bool
	hasChildren bool
}

func (n node) tableRef() drivers.TableRef {
	return drivers.TableRef{Database: n.database, Schema: n.schema, Table: n.label}
}

// Model owns the tree state.
type Model struct {
	databases []drivers.Database
	flat      []node
	selected  int
	focus     Focus
	filter    textinput.Model

	expandedDBs     map[string]bool
	expandedSchemas map[string]bool // "db/schema"

	width   int
	height  int
	focused bool
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "filter tables"
	ti.CharLimit = 100
	ti.Prompt = "/"
	return Model{
		filter:          ti,
		expandedDBs:     map[string]bool{},
		expandedSchemas: map[string]bool{},
	}
}

// SetDatabases replaces the tree content, resetting cursor and expansion.
func (m *Model) SetDatabases(dbs []drivers.Database) {
	m.databases = dbs
	m.selected = 0
	m.expandedDBs = map[string]bool{}
	m.expandedSchemas = map[string]bool{}
	// A single database (sqlite, postgres) starts expanded; the tree is
	// useless folded in that case.
	if len(dbs) == 1 {
		m.expandedDBs[dbs[0].Name] = true
	}
	m.rebuild()
}

// SetSize stores the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.Width = width - 4
}

// SetFocused marks whether this pane receives input.
func (m *Model) SetFocused(on bool) {
	m.focused = on
}

// Focus reports the current sub-state.
func (m Model) Focus() Focus {
	return m.focus
}

// FilterQuery returns the active filter text.
func (m Model) FilterQuery() string {
	return m.filter.Value()
}

// VisibleLabels lists the labels of the flattened rows, for tests.
func (m Model) VisibleLabels() []string {
	labels := make([]string, len(m.flat))
	for i, n := range m.flat {
		labels[i] = n.label
	}
	return labels
}

// rebuild recomputes the flattened rows from content, expansion and the
// filter query. With a query, expansion state is ignored: every matching
// table is shown under its ancestors.
func (m *Model) rebuild() {
	query := m.filter.Value()
	m.flat = m.flat[:0]
	for _, db := range m.databases {
		if query == "" {
			m.flattenDatabase(db)
		} else {
			m.flattenFiltered(db, query)
		}
	}
	if m.selected >= len(m.flat) {
		m.selected = max(0, len(m.flat)-1)
	}
}

func (m *Model) flattenDatabase(db drivers.Database) {
	hasChildren := len(db.Tables) > 0 || len(db.Schemas) > 0
	expanded := m.expandedDBs[db.Name]
	m.flat = append(m.flat, node{
		label: db.Name, typ: nodeDatabase, database: db.Name,
		expanded: expanded, hasChildren: hasChildren,
	})
	if !expanded {
		return
	}
	for _, t := range db.Tables {
		m.flat = append(m.flat, node{
			label: t.Name, level: 1, typ: nodeTable, database: db.Name,
		})
	}
	for _, s := range db.Schemas {
		key := db.Name + "/" + s.Name
		sExpanded := m.expandedSchemas[key]
		m.flat = append(m.flat, node{
			label: s.Name, level: 1, typ: nodeSchema, database: db.Name, schema: s.Name,
			expanded: sExpanded, hasChildren: len(s.Tables) > 0,
		})
		if !sExpanded {
			continue
		}
		for _, t := range s.Tables {
			m.flat = append(m.flat, node{
				label: t.Name, level: 2, typ: nodeTable, database: db.Name, schema: s.Name,
			})
		}
	}
}

func (m *Model) flattenFiltered(db drivers.Database, query string) {
	var tables []node
	for _, t := range db.Tables {
		if ok, _ := FuzzyMatch(query, t.Name); ok {
			tables = append(tables, node{
				label: t.Name, level: 1, typ: nodeTable, database: db.Name,
			})
		}
	}
	var schemaRows []node
	for _, s := range db.Schemas {
		var matched []node
		for _, t := range s.Tables {
			if ok, _ := FuzzyMatch(query, t.Name); ok {
				matched = append(matched, node{
					label: t.Name, level: 2, typ: nodeTable, database: db.Name, schema: s.Name,
				})
			}
		}
		if len(matched) > 0 {
			schemaRows = append(schemaRows, node{
				label: s.Name, level: 1, typ: nodeSchema, database: db.Name, schema: s.Name,
				expanded: true, hasChildren: true,
			})
			schemaRows = append(schemaRows, matched...)
		}
	}
	if len(tables) == 0 && len(schemaRows) == 0 {
		return
	}
	m.flat = append(m.flat, node{
		label: db.Name, typ: nodeDatabase, database: db.Name,
		expanded: true, hasChildren: true,
	})
	m.flat = append(m.flat, tables...)
	m.flat = append(m.flat, schemaRows...)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.focus == FocusFilter {
		return m.updateFilter(key)
	}
	return m.updateTree(key)
}

func (m Model) updateTree(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "g", "home":
		m.selected = 0
	case "G", "end":
		m.move(len(m.flat))
	case "right", "l":
		m.expand(true)
	case "left", "h":
		m.expand(false)
	case "/":
		m.focus = FocusFilter
		m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.rebuild()
			return m, nil
		}
		return m, func() tea.Msg { return LeaveMsg{} }
	case "enter":
		if n, ok := m.selectedNode(); ok {
			if n.typ == nodeTable {
				ref := n.tableRef()
				return m, func() tea.Msg { return TableSelectedMsg{Ref: ref} }
			}
			m.toggle(n)
		}
	}
	return m, nil
}

func (m Model) updateFilter(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "enter", "esc":
		m.focus = FocusTree
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(key)
	m.rebuild() // live filtering while typing
	return m, cmd
}

func (m *Model) move(delta int) {
	if len(m.flat) == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected > len(m.flat)-1 {
		m.selected = len(m.flat) - 1
	}
}

func (m *Model) selectedNode() (node, bool) {
	if m.selected < 0 || m.selected >= len(m.flat) {
		return node{}, false
	}
	return m.flat[m.selected], true
}

// expand opens (want=true) or folds the selected branch.
func (m *Model) expand(want bool) {
	n, ok := m.selectedNode()
	if !ok || n.typ == nodeTable || !n.hasChildren {
		return
	}
	if n.expanded == want {
		return
	}
	m.toggle(n)
}

func (m *Model) toggle(n node) {
	switch n.typ {
	case nodeDatabase:
		m.expandedDBs[n.database] = !m.expandedDBs[n.database]
	case nodeSchema:
		key := n.database + "/" + n.schema
		m.expandedSchemas[key] = !m.expandedSchemas[key]
	}
	m.rebuild()
}

func (m Model) View() string {
	t := theme.Current

	treeHeight := m.height - 2 // the filter line and its spacer share the pane
	if treeHeight < 1 {
		treeHeight = 1
	}

	var lines []string
	if len(m.flat) == 0 {
		lines = append(lines, t.TreeItem.Render("(no database structure)"))
	}
	start := 0
	if m.selected >= treeHeight {
		start = m.selected - treeHeight + 1
	}
	end := min(len(m.flat), start+treeHeight)
	for i := start; i < end; i++ {
		n := m.flat[i]
		prefix := "  "
		switch {
		case n.typ == nodeTable:
			prefix = "  "
		case n.expanded:
			prefix = "▼ "
		case n.hasChildren:
			prefix = "▶ "
		}
		label := indent(n.level) + prefix + n.label
		if i == m.selected && m.focused && m.focus == FocusTree {
			lines = append(lines, t.TreeSelected.Render(label))
		} else {
			lines = append(lines, t.TreeItem.Render(label))
		}
	}

	filterLine := m.filter.View()
	if m.focus != FocusFilter && m.filter.Value() == "" {
		filterLine = t.StatusBar.Render("/ to filter")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append(lines, "", filterLine)...,
	)
}

func indent(level int) string {
	s := ""
	for i := 0; i < level; i++ {
		s += "  "
	}
	return s
}
