// Package output writes rendered diagrams and check reports.
package output

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/outline"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures diagram writers and reporters.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	Format Format

	// Color controls colorized output: "auto" (default), "always" or
	// "never". FormatColor forces color on.
	Color string

	// Unit is the indentation unit of the outlines being reported.
	Unit rune

	// ShowContext includes the source line under defects and broken links.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowValidLinks lists resolving links too, not only broken ones.
	ShowValidLinks bool

	// Compact uses minified JSON.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		Unit:        outline.DefaultUnit,
		ShowContext: true,
		ShowSummary: true,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Writer == nil {
		o.Writer = defaults.Writer
	}
	if o.Format == "" {
		o.Format = defaults.Format
	}
	if o.Unit == 0 {
		o.Unit = defaults.Unit
	}
	return o
}

func (o Options) styles() *pretty.Styles {
	if o.Format == FormatColor {
		return pretty.NewStyles(true)
	}
	return pretty.NewStyles(pretty.IsColorEnabled(o.Color, o.Writer))
}

// displayPath makes path relative to WorkingDir when it lies below it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
