package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTimers(t *testing.T) {
	names := []string{"Reading", "research", "writing", "review"}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single prefix", "wri", "Did you mean: writing?"},
		{"case folded prefix", "READ", "Did you mean: Reading?"},
		{"several prefixes", "re", "Did you mean one of: Reading, research, review?"},
		{"substring", "search", "Did you mean: research?"},
		{"no match", "zzz", "Run mtt list to see available timers."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestTimers(tt.query, names))
		})
	}
}

func TestSuggestTimers_NoTimers(t *testing.T) {
	assert.Equal(t, "No timers exist yet; create one with mtt new NAME.", suggestTimers("x", nil))
}

func TestSuggestTimers_CapsAtThree(t *testing.T) {
	got := suggestTimers("a", []string{"a1", "a2", "a3", "a4"})
	assert.Equal(t, "Did you mean one of: a1, a2, a3?", got)
}
