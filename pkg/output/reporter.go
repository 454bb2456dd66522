package output

import (
	"context"
	"fmt"

	"github.com/yaklabco/rtn/pkg/check"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/runner"
)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// NewReporter creates a Reporter for the specified options.
func NewReporter(opts Options) (Reporter, error) {
	opts = opts.withDefaults()

	switch opts.Format {
	case FormatText:
		return &textReporter{opts: opts, styles: opts.styles()}, nil
	case FormatJSON:
		return &jsonReporter{opts: opts}, nil
	case FormatDiff:
		return &diffReporter{opts: opts, styles: opts.styles()}, nil
	case FormatTable:
		return &tableReporter{opts: opts, styles: opts.styles()}, nil
	case FormatSummary:
		return &summaryReporter{opts: opts, styles: opts.styles()}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", opts.Format)
	}
}

// issueCount counts the issues of one report: every defect, every broken
// link, and one for unwritten formatting.
func issueCount(report *check.Report) int {
	if report == nil {
		return 0
	}
	n := len(report.Defects) + len(report.BrokenLinks())
	if report.NeedsFormat() && !report.Written {
		n++
	}
	return n
}

// sourceLines returns the canonical lines of report.
func sourceLines(report *check.Report) []string {
	if report.Formatted == "" {
		return nil
	}
	return outline.Split(report.Formatted)
}

func lineAt(lines []string, index int) string {
	if index < 0 || index >= len(lines) {
		return ""
	}
	return lines[index]
}
