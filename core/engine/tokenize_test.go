package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		expected []string
	}{
		{"simple", "ls -la /tmp", []string{"ls", "-la", "/tmp"}},
		{"single", "pwd", []string{"pwd"}},
		{"only spaces", "    ", nil},
		{"leading and trailing", "  echo hi  ", []string{"echo", "hi"}},
		{"runs of whitespace", "a\t\tb   c", []string{"a", "b", "c"}},
		{"operators are plain tokens", "sort < in > out", []string{"sort", "<", "in", ">", "out"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.line))
		})
	}
}

func TestHasPipe(t *testing.T) {
	assert.True(t, HasPipe([]string{"ls", "|", "wc", "-l"}))
	assert.False(t, HasPipe([]string{"ls", "-l"}))
	// Only the exact token counts.
	assert.False(t, HasPipe([]string{"grep", "a|b"}))
}

func TestSplitPipe(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
		first  []string
		second []string
	}{
		{
			name:   "two stages",
			tokens: []string{"ls", "|", "wc", "-l"},
			first:  []string{"ls"},
			second: []string{"wc", "-l"},
		},
		{
			name:   "extra pipes fold into the second stage",
			tokens: []string{"a", "|", "b", "|", "c"},
			first:  []string{"a"},
			second: []string{"b", "c"},
		},
		{
			name:   "empty left side",
			tokens: []string{"|", "wc"},
			first:  nil,
			second: []string{"wc"},
		},
		{
			name:   "empty right side",
			tokens: []string{"ls", "|"},
			first:  []string{"ls"},
			second: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, second := SplitPipe(tc.tokens)
			assert.Equal(t, tc.first, first)
			assert.Equal(t, tc.second, second)
		})
	}
}

func TestArgv(t *testing.T) {
	cases := []struct {
		name     string
		tokens   []string
		expected []string
	}{
		{"no redirects", []string{"ls", "-la"}, []string{"ls", "-la"}},
		{"input redirect", []string{"sort", "<", "in.txt"}, []string{"sort"}},
		{"both redirects", []string{"sort", "<", "in.txt", ">", "out.txt"}, []string{"sort"}},
		{"cut at first operator", []string{"cmd", ">", "out", "arg"}, []string{"cmd"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Argv(tc.tokens))
		})
	}
}
