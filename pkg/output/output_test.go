package output_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/pkg/check"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/runner"
	"github.com/yaklabco/rtn/pkg/tree"
)

const notes = "Notes\n\tAlpha\n\t\tsee RTN/[1]/\n\tBeta RTN/[5]/"

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    output.Format
		wantErr bool
	}{
		{input: "", want: output.FormatText},
		{input: "text", want: output.FormatText},
		{input: "color", want: output.FormatColor},
		{input: "json", want: output.FormatJSON},
		{input: "table", want: output.FormatTable},
		{input: "diff", want: output.FormatDiff},
		{input: "summary", want: output.FormatSummary},
		{input: "xml", wantErr: true},
		{input: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		got, err := output.ParseFormat(tt.input)
		if tt.wantErr {
			require.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}

	assert.True(t, output.FormatColor.IsDiagramFormat())
	assert.False(t, output.FormatTable.IsDiagramFormat())
}

func diagram() output.Diagram {
	return output.NewDiagram("notes.txt", notes, tree.Options{}, dirnav.Resolver{})
}

func TestWriteDiagram_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteDiagram(output.Options{Writer: &buf, Color: "never"}, diagram()))
	assert.Equal(t, "Notes\n├── Alpha\n│   └── see RTN/[1]/\n└── Beta RTN/[5]/\n", buf.String())

	buf.Reset()
	empty := output.NewDiagram("", "", tree.Options{}, dirnav.Resolver{})
	require.NoError(t, output.WriteDiagram(output.Options{Writer: &buf}, empty))
	assert.Empty(t, buf.String())
}

func TestWriteDiagram_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteDiagram(output.Options{Writer: &buf, Format: output.FormatColor}, diagram()))

	got := buf.String()
	assert.Contains(t, got, "Notes")
	assert.Contains(t, got, "RTN/[1]/")
	assert.Len(t, strings.Split(strings.TrimSuffix(got, "\n"), "\n"), 4)
}

func TestWriteDiagram_ColorBlankRows(t *testing.T) {
	t.Parallel()

	d := output.NewDiagram("", "A\n\tB\n\t\tC\n\t\n\tD", tree.Options{}, dirnav.Resolver{})

	var buf bytes.Buffer
	require.NoError(t, output.WriteDiagram(output.Options{Writer: &buf, Format: output.FormatColor}, d))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, 2, strings.Count(lines[3], "│"), "%q", lines[3])
}

func TestWriteDiagram_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteDiagram(output.Options{Writer: &buf, Format: output.FormatJSON}, diagram()))

	var got output.DiagramJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "notes.txt", got.Path)
	require.Len(t, got.Rows, 4)
	assert.Equal(t, output.RowJSON{Level: 2, Content: "see RTN/[1]/", Cells: []tree.Kind{tree.Line, tree.Bend, tree.Data}}, got.Rows[2])
	assert.Empty(t, got.Defects)
	require.Len(t, got.Links, 2)
	assert.True(t, got.Links[0].Valid)
	assert.Equal(t, 3, got.Links[0].Target)
	assert.False(t, got.Links[1].Valid)
	assert.NotEmpty(t, got.Links[1].Reason)
}

func TestWriteDiagram_RejectsReportFormats(t *testing.T) {
	t.Parallel()

	err := output.WriteDiagram(output.Options{Writer: &bytes.Buffer{}, Format: output.FormatDiff}, diagram())
	require.Error(t, err)
}

func runResult(t *testing.T, mode check.Mode) *runner.Result {
	t.Helper()

	pipeline := check.NewPipeline(check.Options{Mode: mode})
	ctx := context.Background()

	result := &runner.Result{}
	for _, file := range []struct{ path, content string }{
		{"/work/clean.txt", "A\n\tB\n"},
		{"/work/notes.txt", notes + "\n"},
		{"/work/paste.txt", "A\n└── B\n"},
	} {
		report, err := pipeline.ProcessContent(ctx, file.path, []byte(file.content))
		require.NoError(t, err)
		result.Files = append(result.Files, runner.FileOutcome{Path: file.path, Report: report})
	}
	result.Files = append(result.Files, runner.FileOutcome{Path: "/work/gone.txt", Error: errors.New("file not found")})
	result.Stats = runner.Stats{
		FilesDiscovered: 4, FilesProcessed: 3, FilesErrored: 1,
		FilesWithIssues: 2, FilesUnformatted: 1, Links: 2, BrokenLinks: 1,
	}
	return result
}

func report(t *testing.T, opts output.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"
	opts.WorkingDir = "/work"

	reporter, err := output.NewReporter(opts)
	require.NoError(t, err)
	issues, err := reporter.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), issues
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	got, issues := report(t, output.Options{Format: output.FormatText, ShowContext: true, ShowSummary: true}, runResult(t, check.ModeCheck))

	assert.Equal(t, 3, issues)
	assert.Contains(t, got, "gone.txt: error: file not found\n")
	assert.Contains(t, got, "notes.txt (1 issue)\n")
	assert.Contains(t, got, "  notes.txt:4:6  broken  RTN/[5]/  ")
	assert.Contains(t, got, "        Beta RTN/[5]/\n")
	assert.Contains(t, got, "paste.txt (1 issue)\n")
	assert.Contains(t, got, "  format  1 edit pending; run rtn fmt --write\n")
	assert.NotContains(t, got, "clean.txt")
	assert.NotContains(t, got, "RTN/[1]/")
	assert.True(t, strings.HasSuffix(got, "(3 files checked)\n"), got)
}

func TestTextReporter_ShowValidLinks(t *testing.T) {
	t.Parallel()

	got, _ := report(t, output.Options{Format: output.FormatText, ShowValidLinks: true}, runResult(t, check.ModeCheck))
	assert.Contains(t, got, "notes.txt:3:5  link  RTN/[1]/ -> line 4")
	assert.Contains(t, got, "clean.txt\n")
}

func TestTextReporter_NoFiles(t *testing.T) {
	t.Parallel()

	got, issues := report(t, output.Options{Format: output.FormatText, ShowSummary: true}, &runner.Result{})
	assert.Zero(t, issues)
	assert.Equal(t, "No files to check.\n", got)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	got, issues := report(t, output.Options{Format: output.FormatJSON}, runResult(t, check.ModeCheck))
	assert.Equal(t, 3, issues)

	var decoded output.ReportJSON
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	require.Len(t, decoded.Files, 4)
	assert.Equal(t, "clean.txt", decoded.Files[0].Path)
	assert.False(t, decoded.Files[0].NeedsFormat)
	assert.Len(t, decoded.Files[1].Links, 2)
	assert.True(t, decoded.Files[2].NeedsFormat)
	assert.Len(t, decoded.Files[2].Edits, 1)
	assert.Equal(t, "file not found", decoded.Files[3].Error)
	assert.Equal(t, 1, decoded.Summary.BrokenLinks)
	assert.Equal(t, 3, decoded.Summary.TotalIssues)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	got, files := report(t, output.Options{Format: output.FormatDiff, ShowSummary: true}, runResult(t, check.ModeDiff))
	assert.Equal(t, 1, files)
	assert.Contains(t, got, "diff --git a/paste.txt b/paste.txt\n--- a/paste.txt\n+++ b/paste.txt\n")
	assert.Contains(t, got, "-└── B\n+\tB\n")
	assert.Contains(t, got, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
	assert.NotContains(t, got, "notes.txt")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	got, broken := report(t, output.Options{Format: output.FormatTable}, runResult(t, check.ModeCheck))
	assert.Equal(t, 1, broken)
	assert.Contains(t, got, "RTN/[5]/")
	assert.NotContains(t, got, "RTN/[1]/")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	got, issues := report(t, output.Options{Format: output.FormatSummary}, runResult(t, check.ModeCheck))
	assert.Equal(t, 3, issues)
	assert.Contains(t, got, "Check failed")
}

func TestNewReporter_RejectsColor(t *testing.T) {
	t.Parallel()

	_, err := output.NewReporter(output.Options{Format: output.FormatColor})
	require.Error(t, err)
}
