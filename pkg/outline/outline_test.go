package outline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/pkg/outline"
)

func TestToLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		expected []outline.Entry
	}{
		{
			name:     "empty document yields one empty entry",
			document: "",
			expected: []outline.Entry{{Level: 0, Content: ""}},
		},
		{
			name:     "flat lines",
			document: "A\nB",
			expected: []outline.Entry{{0, "A"}, {0, "B"}},
		},
		{
			name:     "nested lines",
			document: "A\n\tB\n\t\tC\n\tD",
			expected: []outline.Entry{{0, "A"}, {1, "B"}, {2, "C"}, {1, "D"}},
		},
		{
			name:     "blank indented line",
			document: "A\n\t\t",
			expected: []outline.Entry{{0, "A"}, {2, ""}},
		},
		{
			name:     "units after content are removed",
			document: "\tkey\tvalue",
			expected: []outline.Entry{{1, "keyvalue"}},
		},
		{
			name:     "crlf line endings",
			document: "A\r\n\tB\r\n",
			expected: []outline.Entry{{0, "A"}, {1, "B"}, {0, ""}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := outline.ToLines(testCase.document, outline.DefaultUnit)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, outline.Level("abc", '\t'))
	assert.Equal(t, 3, outline.Level("\t\t\tabc", '\t'))
	assert.Equal(t, 1, outline.Level("\ta\tb", '\t'))
	assert.Equal(t, 2, outline.Level("  x", ' '))
	assert.Equal(t, 2, outline.Level("\t\t", '\t'))
}

func TestContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", outline.Content("\t\tabc", '\t'))
	assert.Equal(t, "ab", outline.Content("a\tb\t", '\t'))
	assert.Equal(t, "", outline.Content("\t\t", '\t'))
	assert.Equal(t, "plain", outline.Content("plain", '\t'))
}

func TestLineStart(t *testing.T) {
	t.Parallel()

	lines := []string{"ab", "\tcd", "e"}

	assert.Equal(t, 0, outline.LineStart(lines, 0))
	assert.Equal(t, 3, outline.LineStart(lines, 1))
	assert.Equal(t, 7, outline.LineStart(lines, 2))
	assert.Equal(t, 8, outline.LineStart(lines, 3))
	assert.Equal(t, 0, outline.LineStart(nil, 0))
}

func TestJoinRoundTrip(t *testing.T) {
	t.Parallel()

	document := "root\n\tchild\n\t\tgrandchild\n\tsecond"
	entries := outline.ToLines(document, outline.DefaultUnit)
	require.Len(t, entries, 4)

	assert.Equal(t, document, outline.Join(entries, outline.DefaultUnit))
}

func TestLevels(t *testing.T) {
	t.Parallel()

	got := outline.Levels([]string{"a", "\tb", "\t\tc", ""}, '\t')
	assert.Equal(t, []int{0, 1, 2, 0}, got)
}
