package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/fix"
	"github.com/yaklabco/rtn/pkg/runner"
	"github.com/yaklabco/rtn/pkg/tree"
)

// ReportJSON is the top-level JSON structure of a run report.
type ReportJSON struct {
	Version string           `json:"version"`
	Files   []FileReportJSON `json:"files"`
	Summary SummaryJSON      `json:"summary"`
}

// FileReportJSON is one file of a run report.
type FileReportJSON struct {
	Path        string          `json:"path"`
	Defects     []tree.Position `json:"defects"`
	Links       []dirnav.Link   `json:"links"`
	Edits       []fix.TextEdit  `json:"edits"`
	NeedsFormat bool            `json:"needsFormat"`
	Written     bool            `json:"written,omitempty"`
	Skipped     string          `json:"skipped,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// SummaryJSON contains aggregate statistics.
type SummaryJSON struct {
	FilesChecked     int `json:"filesChecked"`
	FilesWithIssues  int `json:"filesWithIssues"`
	FilesUnformatted int `json:"filesUnformatted"`
	FilesModified    int `json:"filesModified"`
	FilesErrored     int `json:"filesErrored"`
	Defects          int `json:"defects"`
	Links            int `json:"links"`
	BrokenLinks      int `json:"brokenLinks"`
	TotalIssues      int `json:"totalIssues"`
}

type jsonReporter struct {
	opts Options
}

func (r *jsonReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *jsonReporter) buildOutput(result *runner.Result) *ReportJSON {
	output := &ReportJSON{Version: "1.0.0", Files: []FileReportJSON{}}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = SummaryJSON{
		FilesChecked:     stats.FilesProcessed,
		FilesWithIssues:  stats.FilesWithIssues,
		FilesUnformatted: stats.FilesUnformatted,
		FilesModified:    stats.FilesModified,
		FilesErrored:     stats.FilesErrored,
		Defects:          stats.Defects,
		Links:            stats.Links,
		BrokenLinks:      stats.BrokenLinks,
	}

	for _, file := range result.Files {
		entry := FileReportJSON{
			Path:    r.opts.displayPath(file.Path),
			Defects: []tree.Position{},
			Links:   []dirnav.Link{},
			Edits:   []fix.TextEdit{},
		}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			output.Summary.TotalIssues++
		}

		if report := file.Report; report != nil {
			entry.Defects = append(entry.Defects, report.Defects...)
			entry.Links = append(entry.Links, report.Links...)
			entry.Edits = append(entry.Edits, report.Edits...)
			entry.NeedsFormat = report.NeedsFormat() && !report.Written
			entry.Written = report.Written
			entry.Skipped = report.SkipReason
			output.Summary.TotalIssues += issueCount(report)
		}

		output.Files = append(output.Files, entry)
	}

	return output
}
