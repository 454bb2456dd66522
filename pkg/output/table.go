package output

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/runner"
)

// tableReporter lists the links of a run as a table. Unless ShowValidLinks
// is set only broken links are listed.
type tableReporter struct {
	opts   Options
	styles *pretty.Styles
}

func (r *tableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var rows []pretty.LinkRow
	var broken int
	for _, file := range result.Files {
		if file.Report == nil {
			continue
		}
		for _, link := range file.Report.Links {
			if !link.Valid {
				broken++
			} else if !r.opts.ShowValidLinks {
				continue
			}
			rows = append(rows, pretty.LinkRow{Path: r.opts.displayPath(file.Path), Link: link})
		}
	}

	fmt.Fprint(bw, r.styles.FormatLinkTable(rows))

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return broken, nil
}

// summaryReporter writes only the aggregate statistics block.
type summaryReporter struct {
	opts   Options
	styles *pretty.Styles
}

func (r *summaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}
	if _, err := fmt.Fprint(r.opts.Writer, r.styles.FormatSummary(result.Stats)); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}

	var issues int
	for _, file := range result.Files {
		issues += issueCount(file.Report)
		if file.Error != nil {
			issues++
		}
	}
	return issues, nil
}
