package dbtree

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbnav/dbnav/drivers"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func singleDB() []drivers.Database {
	return []drivers.Database{{
		Name: "demo",
		Tables: []drivers.Table{
			{Name: "accounts"}, {Name: "orders"}, {Name: "users"},
		},
	}}
}

func TestSingleDatabaseStartsExpanded(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	want := []string{"demo", "accounts", "orders", "users"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestMultipleDatabasesStartFolded(t *testing.T) {
	m := New()
	m.SetDatabases([]drivers.Database{
		{Name: "one", Tables: []drivers.Table{{Name: "a"}}},
		{Name: "two", Tables: []drivers.Table{{Name: "b"}}},
	})

	want := []string{"one", "two"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestEnterTogglesDatabase(t *testing.T) {
	m := New()
	m.SetDatabases([]drivers.Database{
		{Name: "one", Tables: []drivers.Table{{Name: "a"}}},
		{Name: "two", Tables: []drivers.Table{{Name: "b"}}},
	})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	want := []string{"one", "a", "two"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("after expand: labels = %v, want %v", got, want)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	want = []string{"one", "two"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("after fold: labels = %v, want %v", got, want)
	}
}

func TestEnterOnTableEmitsSelection(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('j'), keyRune('j')) // demo -> accounts -> orders
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a table produced no command")
	}
	msg, ok := cmd().(TableSelectedMsg)
	if !ok {
		t.Fatalf("got %T, want TableSelectedMsg", cmd())
	}
	want := drivers.TableRef{Database: "demo", Table: "orders"}
	if msg.Ref != want {
		t.Errorf("ref = %+v, want %+v", msg.Ref, want)
	}
}

func TestFilterNarrowsTree(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('/'))
	if m.Focus() != FocusFilter {
		t.Fatal("slash did not enter filter mode")
	}
	m = typeText(t, m, "ord")

	want := []string{"demo", "orders"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("filtered labels = %v, want %v", got, want)
	}

	// Enter confirms the filter and returns focus to the tree.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Focus() != FocusTree {
		t.Error("enter did not return focus to the tree")
	}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("labels after confirm = %v, want %v", got, want)
	}
}

func TestFilterIsStableAcrossRebuilds(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('/'))
	m = typeText(t, m, "rs")
	first := m.VisibleLabels()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, keyRune('/'), tea.KeyMsg{Type: tea.KeyEscape})
	second := m.VisibleLabels()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("filter result changed across rebuilds: %v vs %v", first, second)
	}
}

func TestEscClearsFilterThenLeaves(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('/'))
	m = typeText(t, m, "ord")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// First esc clears the filter, restoring the full tree.
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if cmd != nil {
		t.Fatal("esc with an active filter should not leave the pane")
	}
	if m.FilterQuery() != "" {
		t.Error("esc did not clear the filter")
	}
	want := []string{"demo", "accounts", "orders", "users"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("labels after clear = %v, want %v", got, want)
	}

	// Second esc asks the parent to leave.
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc on an unfiltered tree produced no command")
	}
	if _, ok := cmd().(LeaveMsg); !ok {
		t.Errorf("got %T, want LeaveMsg", cmd())
	}
}

func TestFilterIncludesSchemaAncestors(t *testing.T) {
	m := New()
	m.SetDatabases([]drivers.Database{{
		Name: "app",
		Schemas: []drivers.Schema{
			{Name: "public", Tables: []drivers.Table{{Name: "users"}, {Name: "posts"}}},
			{Name: "audit", Tables: []drivers.Table{{Name: "log_entries"}}},
		},
	}})

	m, _ = press(t, m, keyRune('/'))
	m = typeText(t, m, "log")

	want := []string{"app", "audit", "log_entries"}
	if got := m.VisibleLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("filtered labels = %v, want %v", got, want)
	}
}

func TestFilterNoMatches(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('/'))
	m = typeText(t, m, "zzz")

	if got := m.VisibleLabels(); len(got) != 0 {
		t.Errorf("labels = %v, want empty", got)
	}
}

func TestCursorClampsToFilteredRows(t *testing.T) {
	m := New()
	m.SetDatabases(singleDB())

	m, _ = press(t, m, keyRune('G')) // jump to the last row
	m, _ = press(t, m, keyRune('/'))
	m = typeText(t, m, "ord")

	if _, ok := m.selectedNode(); !ok {
		t.Error("cursor points outside the filtered rows")
	}
}
