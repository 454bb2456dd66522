package configloader

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/gobwas/glob"

	"github.com/yaklabco/rtn/pkg/codec"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/importer"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/tree"
)

// minUsefulURILength is the shortest max_uri_length that still leaves room
// for a small outline after the reserved headroom.
const minUsefulURILength = 1024

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "glyphs.width").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins every error into one, or returns nil. Each joined error is a
// *ValidationError.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownColors = []string{config.ColorAuto, config.ColorAlways, config.ColorNever}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = []string{importer.FlavorCommonMark, importer.FlavorGFM}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if _, err := config.ParseUnit(cfg.IndentUnit); err != nil {
		result.fail("indent_unit", cfg.IndentUnit, "%v", err)
	}

	if cfg.Glyphs.Width != "" && !tree.Width(cfg.Glyphs.Width).IsValid() {
		result.fail("glyphs.width", cfg.Glyphs.Width, "invalid width %q; must be one of: narrow, wide", cfg.Glyphs.Width)
	}

	validateMarker(cfg, result)
	validateShare(cfg, result)

	if cfg.Watch.Debounce < 0 {
		result.fail("watch.debounce", cfg.Watch.Debounce, "debounce must be >= 0")
	}

	if cfg.Import.Flavor != "" && !slices.Contains(knownFlavors, cfg.Import.Flavor) {
		result.fail("import.flavor", cfg.Import.Flavor, "invalid flavor %q; must be one of: %s",
			cfg.Import.Flavor, strings.Join(knownFlavors, ", "))
	}

	if cfg.Color != "" && !slices.Contains(knownColors, cfg.Color) {
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: %s",
			cfg.Color, strings.Join(knownColors, ", "))
	}

	if cfg.Format != "" {
		if _, err := output.ParseFormat(cfg.Format); err != nil {
			result.fail("format", cfg.Format, "%v", err)
		}
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateMarker checks that every root marker can start an address: each
// must be non-empty and free of the characters the address grammar uses.
func validateMarker(cfg *config.Config, result *ValidationResult) {
	for i, marker := range cfg.Nav.RootMarkers {
		field := fmt.Sprintf("nav.root_marker[%d]", i)
		if marker == "" {
			result.fail(field, marker, "root marker cannot be empty")
			continue
		}
		if strings.ContainsAny(marker, "/.~[]") || strings.ContainsFunc(marker, unicode.IsSpace) {
			result.fail(field, marker,
				"invalid root marker %q; it cannot contain whitespace or any of / . ~ [ ]", marker)
		}
	}
}

func validateShare(cfg *config.Config, result *ValidationResult) {
	if c := cfg.Share.Compression; c != "" && !slices.Contains(codec.Compressions(), c) {
		result.fail("share.compression", c, "invalid compression %q; must be one of: %s",
			c, strings.Join(codec.Compressions(), ", "))
	}
	if e := cfg.Share.Encoding; e != "" && !slices.Contains(codec.Encodings(), e) {
		result.fail("share.encoding", e, "invalid encoding %q; must be one of: %s",
			e, strings.Join(codec.Encodings(), ", "))
	}

	switch n := cfg.Share.MaxURILength; {
	case n < 0:
		result.fail("share.max_uri_length", n, "max_uri_length must be >= 0 (0 means the default)")
	case n > 0 && n < minUsefulURILength:
		result.warn("share.max_uri_length", n, "max_uri_length %d leaves almost no room for data", n)
	}

	if base := cfg.Share.BaseURL; base != "" && strings.Contains(base, "?") {
		result.warn("share.base_url", base, "base_url has a query; share links drop it")
	}
}

// validateIgnorePatterns compiles ignore patterns the way discovery does.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
