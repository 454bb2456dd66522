package output

import "fmt"

// Format represents an output format.
type Format string

// Output formats. Diagrams support text, color and json; run reports support
// every format but color.
const (
	FormatText    Format = "text"
	FormatColor   Format = "color"
	FormatJSON    Format = "json"
	FormatTable   Format = "table"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	format := Format(formatStr)
	if formatStr == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, color, json, table, diff, summary", formatStr)
	}
	return format, nil
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatColor, FormatJSON, FormatTable, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// IsDiagramFormat reports whether diagrams can be written in f.
func (f Format) IsDiagramFormat() bool {
	return f == FormatText || f == FormatColor || f == FormatJSON
}
