package output

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/fix"
	"github.com/yaklabco/rtn/pkg/runner"
)

// diffReporter writes the formatting changes of a run as git-style diffs.
// Reports need a diff attached, which check.ModeDiff does.
type diffReporter struct {
	opts   Options
	styles *pretty.Styles
}

func (r *diffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	if result == nil {
		return 0, nil
	}

	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var files, additions, deletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.displayPath(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Report == nil || !file.Report.Diff.HasChanges() {
			continue
		}

		files++
		additions += file.Report.Diff.Additions
		deletions += file.Report.Diff.Deletions
		r.writeDiff(bw, file.Report.Diff)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(bw, files, additions, deletions)
	}

	return files, nil
}

func (r *diffReporter) writeDiff(bw *bufio.Writer, diff *fix.Diff) {
	path := strings.TrimPrefix(r.opts.displayPath(diff.Path), "/")

	fmt.Fprintln(bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for line := range strings.SplitSeq(diff.String(), "\n") {
		if line == "" || strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}

		style := r.styles.DiffContext
		switch {
		case strings.HasPrefix(line, "@@"):
			style = r.styles.DiffHunk
		case strings.HasPrefix(line, "+"):
			style = r.styles.DiffAdd
		case strings.HasPrefix(line, "-"):
			style = r.styles.DiffRemove
		}
		fmt.Fprintln(bw, style.Render(line))
	}

	fmt.Fprintln(bw)
}

func (r *diffReporter) writeSummary(bw *bufio.Writer, files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(bw, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
