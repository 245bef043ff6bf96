package tablepane

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbnav/dbnav/drivers"
	"github.com/dbnav/dbnav/ui/datatable"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newPane() Model {
	m := New(10)
	m.SetSize(100, 30)
	m.SetTable(
		drivers.Connection{Name: "demo", Type: drivers.KindSQLite, Path: "/tmp/demo.db"},
		drivers.TableRef{Database: "demo", Table: "users"},
	)
	return m
}

func TestHotkeysSwitchTabs(t *testing.T) {
	m := newPane()
	if m.ActiveTab() != TabRecords {
		t.Fatal("pane does not start on the records tab")
	}

	m, _ = m.Update(keyRune('2'))
	if m.ActiveTab() != TabSQL {
		t.Errorf("tab = %v after 2, want TabSQL", m.ActiveTab())
	}
	m, _ = m.Update(keyRune('3'))
	if m.ActiveTab() != TabProperties {
		t.Errorf("tab = %v after 3, want TabProperties", m.ActiveTab())
	}
	m, _ = m.Update(keyRune('1'))
	if m.ActiveTab() != TabRecords {
		t.Errorf("tab = %v after 1, want TabRecords", m.ActiveTab())
	}
}

func TestTabEntryFetchesExactlyOnce(t *testing.T) {
	m := newPane()

	m, cmd := m.Update(keyRune('3'))
	if cmd == nil {
		t.Fatal("switching to properties did not request a fetch")
	}
	msg, ok := cmd().(NeedPropertiesMsg)
	if !ok {
		t.Fatalf("got %T, want NeedPropertiesMsg", cmd())
	}
	if msg.Ref.Table != "users" {
		t.Errorf("ref = %+v, want users", msg.Ref)
	}

	// Pressing the hotkey for the already active tab is a no-op.
	if _, cmd := m.Update(keyRune('3')); cmd != nil {
		t.Error("re-pressing the active tab hotkey refetched")
	}

	// Re-entering refetches while the old snapshot stays in place.
	m.SetProperties(&drivers.TableProperties{Columns: []drivers.ColumnInfo{{Name: "id"}}})
	m, cmd = m.Update(keyRune('1'))
	if cmd == nil {
		t.Fatal("switching back to records did not request a fetch")
	}
	if _, ok := cmd().(datatable.ReloadMsg); !ok {
		t.Fatalf("got %T, want a records reload", cmd())
	}
	m, cmd = m.Update(keyRune('3'))
	if cmd == nil {
		t.Fatal("re-entering properties did not refetch")
	}
	if m.Properties() == nil {
		t.Error("refetch dropped the visible properties snapshot")
	}
}

func TestEscReturnsToTree(t *testing.T) {
	m := newPane()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	if _, ok := cmd().(BackToTreeMsg); !ok {
		t.Errorf("got %T, want BackToTreeMsg", cmd())
	}
}

func TestSetTableDropsCachedData(t *testing.T) {
	m := newPane()
	m.SetRecords(&drivers.Records{Columns: []string{"id"}, Rows: [][]string{{"1"}}, Total: 1, Limit: 10})
	m.SetProperties(&drivers.TableProperties{Columns: []drivers.ColumnInfo{{Name: "id"}}})

	m.SetTable(
		drivers.Connection{Name: "demo", Type: drivers.KindSQLite, Path: "/tmp/demo.db"},
		drivers.TableRef{Database: "demo", Table: "orders"},
	)
	if m.Records() != nil {
		t.Error("records survived a table switch")
	}
	if m.Properties() != nil {
		t.Error("properties survived a table switch")
	}
	if m.ActiveTab() != TabRecords {
		t.Error("table switch did not return to the records tab")
	}
}

func TestWhereEditOwnsHotkeys(t *testing.T) {
	m := newPane()
	m.SetRecords(&drivers.Records{Columns: []string{"id"}, Rows: [][]string{{"1"}}, Total: 1, Limit: 10})

	m, _ = m.Update(keyRune('/')) // records tab predicate editor
	m, _ = m.Update(keyRune('2'))
	if m.ActiveTab() != TabRecords {
		t.Error("a digit typed into the predicate switched tabs")
	}
}

func TestPreviewTracksWhere(t *testing.T) {
	m := newPane()
	m.SetRecords(&drivers.Records{Columns: []string{"id"}, Rows: [][]string{{"1"}}, Total: 1, Limit: 10})

	m, _ = m.Update(keyRune('/'))
	for _, r := range "id > 1" {
		m, _ = m.Update(keyRune(r))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.previewSQL(0); !strings.Contains(got, "WHERE id > 1") {
		t.Errorf("preview %q does not include the predicate", got)
	}
}
