package dbtree

import (
	"reflect"
	"testing"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		pattern string
		target  string
		want    bool
		wantPos []int
	}{
		{"", "anything", true, []int{}},
		{"usr", "users", true, []int{0, 1, 4}},
		{"USR", "users", true, []int{0, 1, 4}},
		{"usr", "USERS", true, []int{0, 1, 4}},
		{"ord", "orders", true, []int{0, 1, 2}},
		{"oe", "orders", true, []int{0, 3}},
		{"xyz", "orders", false, nil},
		{"orderss", "orders", false, nil},
		{"log", "log_entries", true, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		got, pos := FuzzyMatch(tt.pattern, tt.target)
		if got != tt.want {
			t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tt.pattern, tt.target, got, tt.want)
			continue
		}
		if !reflect.DeepEqual(pos, tt.wantPos) {
			t.Errorf("FuzzyMatch(%q, %q) positions = %v, want %v", tt.pattern, tt.target, pos, tt.wantPos)
		}
	}
}
