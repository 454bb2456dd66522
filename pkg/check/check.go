// Package check validates and formats outline files on disk.
//
// A check reads a file, computes the edits that bring it to canonical raw
// outline form, renders the canonical text and validates every DirNav
// address in it. Depending on the mode it then stops, produces a diff, or
// writes the canonical text back with the same safety steps the whole tool
// uses for writes: modification detection, an optional backup, and an
// atomic rename.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/fix"
	"github.com/yaklabco/rtn/pkg/fsutil"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

// ReasonFinalNewline is the TextEdit.Reason of the newline added at the end
// of a file.
const ReasonFinalNewline = "missing-final-newline"

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Mode selects what a check does with the canonical text.
type Mode int

const (
	// ModeCheck only reports.
	ModeCheck Mode = iota

	// ModeDiff reports and attaches a unified diff.
	ModeDiff

	// ModeWrite reports and writes the canonical text back.
	ModeWrite
)

// String returns the flag name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDiff:
		return "diff"
	case ModeWrite:
		return "write"
	default:
		return "check"
	}
}

// Options controls a pipeline.
type Options struct {
	Mode Mode

	// Backup keeps a sidecar copy of the original before a write.
	Backup bool

	// Render configures the indentation unit and glyphs.
	Render tree.Options

	// Resolver validates the DirNav addresses found in the outline. A zero
	// Unit is replaced by Render.Unit.
	Resolver dirnav.Resolver
}

// Report is the result of checking one file.
type Report struct {
	// Path is the file the report describes.
	Path string `json:"path"`

	// Info is the file state before processing. It is nil for in-memory
	// content.
	Info *fsutil.FileInfo `json:"-"`

	// Defects are the connector cells of the canonical text that no rule
	// resolved.
	Defects []tree.Position `json:"defects,omitempty"`

	// Links are the DirNav addresses of the canonical text.
	Links []dirnav.Link `json:"links,omitempty"`

	// Edits turn the original content into the canonical text.
	Edits []fix.TextEdit `json:"edits,omitempty"`

	// Formatted is the canonical text.
	Formatted string `json:"-"`

	// Diff is set in ModeDiff when the file is not canonical.
	Diff *fix.Diff `json:"-"`

	Written       bool   `json:"written,omitempty"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
	Skipped       bool   `json:"skipped,omitempty"`
	SkipReason    string `json:"skipReason,omitempty"`
}

// BrokenLinks returns the links that do not resolve.
func (r *Report) BrokenLinks() []dirnav.Link {
	var broken []dirnav.Link
	for _, link := range r.Links {
		if !link.Valid {
			broken = append(broken, link)
		}
	}
	return broken
}

// NeedsFormat reports whether the original content differs from the
// canonical text.
func (r *Report) NeedsFormat() bool {
	return len(r.Edits) > 0
}

// HasIssues reports whether the file has defects, broken links, or needs
// formatting that was not written.
func (r *Report) HasIssues() bool {
	return len(r.Defects) > 0 || len(r.BrokenLinks()) > 0 || (r.NeedsFormat() && !r.Written)
}

// Summary returns a human-readable summary of the report.
func (r *Report) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	}

	var parts []string
	if n := len(r.Defects); n > 0 {
		parts = append(parts, plural(n, "defect"))
	}
	if n := len(r.BrokenLinks()); n > 0 {
		parts = append(parts, plural(n, "broken link"))
	}
	if r.NeedsFormat() {
		parts = append(parts, "needs formatting")
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Pipeline checks files with fixed options. It is safe for concurrent use.
type Pipeline struct {
	opts Options
}

// NewPipeline returns a pipeline for opts.
func NewPipeline(opts Options) *Pipeline {
	if opts.Render.Unit == 0 {
		opts.Render.Unit = outline.DefaultUnit
	}
	if opts.Resolver.Unit == 0 {
		opts.Resolver.Unit = opts.Render.Unit
	}
	return &Pipeline{opts: opts}
}

// Options returns the options of the pipeline.
func (p *Pipeline) Options() Options {
	return p.opts
}

// ProcessFile runs the pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Compute the canonical text, its defects and its links.
//  3. Generate a diff (ModeDiff).
//  4. Check for concurrent modifications (ModeWrite).
//  5. Create a backup if enabled.
//  6. Write the canonical text atomically with the original mode.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Report, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	report, err := p.ProcessContent(ctx, path, content)
	if err != nil {
		return nil, err
	}
	report.Info = info

	if p.opts.Mode != ModeWrite || !report.NeedsFormat() {
		return report, nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		report.Skipped = true
		report.SkipReason = "file modified during processing"
		return report, nil
	}

	if p.opts.Backup {
		created, err := fsutil.CreateBackup(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		report.BackupCreated = created
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(report.Formatted), info.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	report.Written = written

	return report, nil
}

// ProcessContent checks in-memory content without file I/O. ModeWrite
// behaves like ModeCheck here.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	original := string(content)
	formatted, edits := Canonical(original, p.opts.Render.Unit)

	body := strings.TrimSuffix(formatted, "\n")
	rendered := tree.RenderText(body, p.opts.Render)

	report := &Report{
		Path:      path,
		Defects:   rendered.Grid.Defects,
		Links:     p.opts.Resolver.Decorate(outline.Split(body)),
		Edits:     edits,
		Formatted: formatted,
	}

	if p.opts.Mode == ModeDiff {
		report.Diff = fix.Compute(path, original, formatted)
	}

	return report, nil
}

// Canonical returns the on-disk canonical form of a file: fix.Format of its
// text followed by a single newline. A file without content is left as is.
func Canonical(original string, unit rune) (string, []fix.TextEdit) {
	body, terminated := strings.CutSuffix(original, "\n")
	formatted, edits := fix.Format(body, unit)
	if strings.TrimSpace(formatted) == "" {
		return original, nil
	}

	if !terminated {
		end := len(original)
		edits = append(edits, fix.TextEdit{Start: end, End: end, NewText: "\n", Reason: ReasonFinalNewline})
	}
	return formatted + "\n", edits
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}
