package dirnav

import (
	"regexp"
	"strings"

	"github.com/yaklabco/rtn/pkg/outline"
)

// Link is an address found in a line of the outline.
type Link struct {
	// Address is the address text.
	Address string `json:"address"`

	// Line is the index of the line containing the address. Resolution
	// starts from this line.
	Line int `json:"line"`

	// Start and End are the byte span of the address within the line's
	// content, the line with indentation units removed.
	Start int `json:"start"`
	End   int `json:"end"`

	// Valid is true if the address resolves.
	Valid bool `json:"valid"`

	// Target is the resolved line index, or -1 if the address is invalid.
	Target int `json:"target"`

	// Err is the resolution failure of an invalid address.
	Err error `json:"-"`

	// Reason is the text of Err.
	Reason string `json:"reason,omitempty"`
}

// Pattern returns the expression matching addresses that start with any of
// markers. No markers selects DefaultMarkers.
func Pattern(markers ...string) *regexp.Regexp {
	ordered := orderMarkers(markers)
	quoted := make([]string, len(ordered))
	for i, marker := range ordered {
		quoted[i] = regexp.QuoteMeta(marker)
	}
	return regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)[.~]?(?:/\.\.?|/\[[^\]]+\])+/?`)
}

// FindLinks finds the addresses in every line of lines without resolving
// them.
func (r Resolver) FindLinks(lines []string) []Link {
	pattern := Pattern(r.markers()...)

	var links []Link
	for i, line := range lines {
		content := outline.Content(line, r.unit())
		for _, span := range pattern.FindAllStringIndex(content, -1) {
			links = append(links, Link{
				Address: content[span[0]:span[1]],
				Line:    i,
				Start:   span[0],
				End:     span[1],
				Target:  -1,
			})
		}
	}
	return links
}

// Decorate finds every address in lines and validates each one from its own
// line. Invalid addresses are reported, never raised.
func (r Resolver) Decorate(lines []string) []Link {
	links := r.FindLinks(lines)
	for i := range links {
		result, err := r.Resolve(lines, links[i].Address, links[i].Line, true)
		if err != nil {
			links[i].Err = err
			links[i].Reason = err.Error()
			continue
		}
		links[i].Valid = true
		links[i].Target = result.LineIndex
	}
	return links
}

// FindLinks finds addresses with the default markers and unit.
func FindLinks(lines []string) []Link {
	return Resolver{}.FindLinks(lines)
}

// Decorate validates addresses with the default markers and unit.
func Decorate(lines []string) []Link {
	return Resolver{}.Decorate(lines)
}
