package sqltab

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbnav/dbnav/ui/toast"
)

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestEnterLaunchesWhenAvailable(t *testing.T) {
	m := New()
	m.toolName = "litecli"
	m.available = true

	_, cmd := m.Update(enter())
	if cmd == nil {
		t.Fatal("enter with an available tool produced no command")
	}
	if _, ok := cmd().(LaunchMsg); !ok {
		t.Errorf("got %T, want LaunchMsg", cmd())
	}
}

func TestEnterWarnsWhenUnavailable(t *testing.T) {
	m := New()
	m.toolName = "pgcli"
	m.available = false

	_, cmd := m.Update(enter())
	if cmd == nil {
		t.Fatal("enter with a missing tool produced no command")
	}
	msg, ok := cmd().(toast.NoticeMsg)
	if !ok {
		t.Fatalf("got %T, want a notice, not a launch", cmd())
	}
	if !strings.Contains(msg.Text, "pgcli") {
		t.Errorf("notice %q does not name the missing tool", msg.Text)
	}
	if msg.Kind != toast.Warning {
		t.Errorf("notice kind = %v, want Warning", msg.Kind)
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	m := New()
	m.available = true

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); cmd != nil {
		t.Error("a plain key should not produce a command")
	}
}

func TestHighlightPreservesText(t *testing.T) {
	const q = "SELECT * FROM users WHERE id > 1 LIMIT 10"
	got := highlightSQL(q)
	// Styling may wrap runs in escape codes but never drop characters.
	for _, word := range []string{"SELECT", "users", "10"} {
		if !strings.Contains(got, word) {
			t.Errorf("highlighted output lost %q", word)
		}
	}
}
