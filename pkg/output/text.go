package output

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/runner"
)

// textReporter writes issues grouped by file.
type textReporter struct {
	opts   Options
	styles *pretty.Styles
}

func (r *textReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			total++
			continue
		}

		report := file.Report
		if report == nil {
			continue
		}

		issues := issueCount(report)
		if issues == 0 && !r.opts.ShowValidLinks && !report.Written && !report.Skipped {
			continue
		}
		total += issues

		fmt.Fprintln(bw, r.styles.FormatFileHeader(path, issues))

		lines := sourceLines(report)
		for _, pos := range report.Defects {
			var source string
			if r.opts.ShowContext {
				source = lineAt(lines, pos.Row)
			}
			fmt.Fprint(bw, r.styles.FormatDefect(path, pos, source))
		}

		for _, link := range report.Links {
			if link.Valid && !r.opts.ShowValidLinks {
				continue
			}
			var source string
			if r.opts.ShowContext {
				source = outline.Content(lineAt(lines, link.Line), r.opts.Unit)
			}
			fmt.Fprint(bw, r.styles.FormatLink(path, link, source))
		}

		switch {
		case report.Skipped:
			fmt.Fprintf(bw, "  %s\n", r.styles.Warning.Render(report.Summary()))
		case report.Written:
			fmt.Fprintf(bw, "  %s\n", r.styles.Success.Render(report.Summary()))
		case report.NeedsFormat():
			fmt.Fprintf(bw, "  %s  %s\n",
				r.styles.Info.Render("format"),
				r.styles.Message.Render(fmt.Sprintf("%d %s pending; run rtn fmt --write", len(report.Edits), plural(len(report.Edits), "edit", "edits"))),
			)
		}

		fmt.Fprintln(bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
