package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/runner"
	"github.com/yaklabco/rtn/pkg/tree"
)

func TestFormatDefect(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatDefect("notes.txt", tree.Position{Row: 1, Col: 0}, "\t\tB")
	assert.Equal(t, "  notes.txt:2:1  defect  connector has no rule; drawn as a gap\n"+
		"                B\n"+
		"        ^\n", got)
}

func TestFormatLink(t *testing.T) {
	styles := pretty.NewStyles(false)

	valid := dirnav.Link{Address: "RTN/[0]/", Line: 2, Start: 4, End: 12, Valid: true, Target: 1}
	assert.Equal(t, "  notes.txt:3:5  link  RTN/[0]/ -> line 2\n", styles.FormatLink("notes.txt", valid, "see RTN/[0]/"))

	broken := dirnav.Link{Address: "RTN/[9]/", Line: 0, Start: 4, Target: -1, Reason: "child index exhausted"}
	got := styles.FormatLink("notes.txt", broken, "see RTN/[9]/")
	lines := strings.Split(got, "\n")
	assert.Equal(t, "  notes.txt:1:5  broken  RTN/[9]/  child index exhausted", lines[0])
	assert.Equal(t, "        see RTN/[9]/", lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestFormatSourceContext_WideRunes(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatSourceContext("日本 RTN/[1]/", len("日本 "))
	assert.Equal(t, "        日本 RTN/[1]/\n"+"             ^\n", got)

	got = styles.FormatSourceContext("abc", -1)
	assert.Equal(t, "        abc\n", got)
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.txt", styles.FormatFileHeader("a.txt", 0))
	assert.Equal(t, "a.txt (1 issue)", styles.FormatFileHeader("a.txt", 1))
	assert.Equal(t, "a.txt (5 issues)", styles.FormatFileHeader("a.txt", 5))
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		expected string
	}{
		{
			name:     "clean",
			stats:    runner.Stats{FilesProcessed: 3},
			expected: "No issues found (3 files checked)\n",
		},
		{
			name: "issues",
			stats: runner.Stats{
				FilesProcessed:   4,
				FilesWithIssues:  2,
				FilesUnformatted: 1,
				Defects:          2,
				BrokenLinks:      1,
			},
			expected: "2 defects, 1 broken link, 1 unformatted in 2 files (4 files checked)\n",
		},
		{
			name:     "formatted",
			stats:    runner.Stats{FilesProcessed: 1, FilesUnformatted: 1, FilesModified: 1},
			expected: "No issues found (1 file checked), 1 file formatted\n",
		},
		{
			name:     "errored",
			stats:    runner.Stats{FilesProcessed: 1, FilesErrored: 1},
			expected: "1 error in 1 file (1 file checked)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatSummary(runner.Stats{FilesProcessed: 2, FilesWithIssues: 1, Links: 3, BrokenLinks: 1})
	assert.Contains(t, got, "  Files checked:     2\n")
	assert.Contains(t, got, "  Files with issues: 1\n")
	assert.Contains(t, got, "  Broken links:      1\n")
	assert.NotContains(t, got, "Files formatted")
	assert.True(t, strings.HasSuffix(got, "Check failed\n"))

	got = styles.FormatSummary(runner.Stats{FilesProcessed: 2, FilesUnformatted: 1})
	assert.True(t, strings.HasSuffix(got, "Check passed; some files need formatting\n"))

	got = styles.FormatSummary(runner.Stats{FilesProcessed: 2})
	assert.True(t, strings.HasSuffix(got, "Check passed\n"))
}

func TestFormatLinkTable(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Empty(t, styles.FormatLinkTable(nil))

	got := styles.FormatLinkTable([]pretty.LinkRow{
		{Path: "a.txt", Link: dirnav.Link{Address: "RTN/[0]/", Line: 1, Start: 0, Valid: true, Target: 1}},
		{Path: "b.txt", Link: dirnav.Link{Address: "RTN/[4]/", Line: 0, Start: 2, Target: -1}},
	})

	for _, want := range []string{"FILE", "ADDRESS", "a.txt", "2:1", "RTN/[0]/", "ok", "b.txt", "1:3", "broken"} {
		assert.Contains(t, got, want)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(got), "\n"), 6)
}
