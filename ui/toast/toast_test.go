package toast

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestClipUsesDisplayWidth(t *testing.T) {
	const limit = 12
	cases := []string{
		"connection refused by the backend host",
		"échec de connexion à la base de données",
		"データベースに接続できませんでした",
	}
	for _, s := range cases {
		got := clip(s, limit)
		if w := lipgloss.Width(got); w > limit {
			t.Errorf("clip(%q) width = %d, exceeds %d", s, w, limit)
		}
		if !strings.HasSuffix(got, "…") {
			t.Errorf("clip(%q) = %q, missing ellipsis", s, got)
		}
	}
}

func TestClipLeavesShortTextAlone(t *testing.T) {
	if got := clip("short", 12); got != "short" {
		t.Errorf("clip = %q, want unchanged text", got)
	}
	if got := clip("anything", 0); got != "anything" {
		t.Errorf("clip with no room = %q, want unchanged text", got)
	}
}
