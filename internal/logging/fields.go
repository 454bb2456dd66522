// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Outline fields.
	FieldLines   = "lines"
	FieldRow     = "row"
	FieldCol     = "col"
	FieldUnit    = "unit"
	FieldWidth   = "width"
	FieldDefects = "defects"

	// Navigation fields.
	FieldAddress = "address"
	FieldFrom    = "from"
	FieldTarget  = "target"
	FieldLinks   = "links"

	// Share fields.
	FieldCompression = "compression"
	FieldEncoding    = "encoding"
	FieldLength      = "length"

	// Check fields.
	FieldMode             = "mode"
	FieldJobs             = "jobs"
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldBrokenLinks      = "broken_links"

	// Watch fields.
	FieldEvent    = "event"
	FieldDebounce = "debounce"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
