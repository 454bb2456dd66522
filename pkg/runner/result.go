package runner

import "github.com/yaklabco/rtn/pkg/check"

// FileOutcome is the check report or the failure of one file.
type FileOutcome struct {
	Path string

	// Report is nil if the file could not be processed.
	Report *check.Report

	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesWithIssues counts files with defects, broken links, or pending
	// formatting.
	FilesWithIssues int

	// FilesUnformatted counts files whose content is not canonical.
	FilesUnformatted int

	// FilesModified counts files rewritten in write mode.
	FilesModified int

	Defects     int
	Links       int
	BrokenLinks int
}

// Result is the overall result of a run.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file has a defect or a broken link, or
// could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Defects > 0 || r.Stats.BrokenLinks > 0 || r.Stats.FilesErrored > 0
}

// HasIssues reports whether any file needs attention.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithIssues > 0 || r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	report := outcome.Report
	if report == nil {
		return
	}

	r.Stats.FilesProcessed++
	if report.Skipped {
		r.Stats.FilesSkipped++
	}
	if report.Written {
		r.Stats.FilesModified++
	}
	if report.NeedsFormat() {
		r.Stats.FilesUnformatted++
	}
	if report.HasIssues() {
		r.Stats.FilesWithIssues++
	}

	r.Stats.Defects += len(report.Defects)
	r.Stats.Links += len(report.Links)
	r.Stats.BrokenLinks += len(report.BrokenLinks())
}
