package dirnav

import (
	"strings"
	"unicode"

	"github.com/yaklabco/rtn/pkg/outline"
)

// Result locates a resolved line.
type Result struct {
	// LineIndex is the zero-based index of the target line.
	LineIndex int `json:"line"`

	// LeadingWhitespaceLen is the byte length of the line's leading
	// whitespace.
	LeadingWhitespaceLen int `json:"leadingWhitespaceLen"`

	// ContentLen is the byte length of the line after its leading whitespace.
	ContentLen int `json:"contentLen"`

	// Offset is the byte offset of the line's first non-whitespace character
	// within the LF-joined document.
	Offset int `json:"offset"`

	// Validated is true when the result came from a validate-only
	// resolution. Only LineIndex is set in that case.
	Validated bool `json:"validated,omitempty"`
}

// Resolver resolves addresses with configured markers and indentation unit.
// The zero value uses DefaultMarkers and outline.DefaultUnit.
type Resolver struct {
	// Markers are the root markers an address may start with.
	Markers []string

	// Unit is the indentation unit.
	Unit rune
}

func (r Resolver) markers() []string {
	return orderMarkers(r.Markers)
}

func (r Resolver) unit() rune {
	if r.Unit == 0 {
		return outline.DefaultUnit
	}
	return r.Unit
}

// Resolve resolves address with the default resolver.
func Resolve(lines []string, address string, startLine int, validateOnly bool) (Result, error) {
	return Resolver{}.Resolve(lines, address, startLine, validateOnly)
}

// Validate reports whether address resolves from startLine with the default
// resolver.
func Validate(lines []string, address string, startLine int) error {
	return Resolver{}.Validate(lines, address, startLine)
}

// Resolve parses address and walks lines from startLine. Every token is
// applied left to right to a single line pointer. Any failing token aborts
// the whole resolution with a *NavError. Resolution never reads outside
// lines and never modifies it.
//
// When validateOnly is set the spans are not computed.
func (r Resolver) Resolve(lines []string, address string, startLine int, validateOnly bool) (Result, error) {
	addr, err := Parse(address, r.markers()...)
	if err != nil {
		return Result{}, err
	}

	line, err := r.Walk(lines, addr, startLine)
	if err != nil {
		return Result{}, err
	}

	if validateOnly {
		return Result{LineIndex: line, Validated: true}, nil
	}

	target := lines[line]
	content := strings.TrimLeftFunc(target, unicode.IsSpace)
	leading := len(target) - len(content)

	return Result{
		LineIndex:            line,
		LeadingWhitespaceLen: leading,
		ContentLen:           len(content),
		Offset:               outline.LineStart(lines, line) + leading,
	}, nil
}

// Validate reports whether address resolves from startLine. It returns the
// same verdict as Resolve and has no side effects.
func (r Resolver) Validate(lines []string, address string, startLine int) error {
	_, err := r.Resolve(lines, address, startLine, true)
	return err
}

// Walk applies the tokens of addr starting at startLine and returns the
// index of the target line.
func (r Resolver) Walk(lines []string, addr Address, startLine int) (int, error) {
	if startLine < 0 || startLine >= len(lines) {
		return 0, &NavError{Kind: ErrStartOutOfRange, Token: addr.Raw, Line: startLine}
	}

	w := walker{lines: lines, unit: r.unit()}
	pointer := startLine
	for _, token := range addr.Tokens {
		next, err := w.step(pointer, token)
		if err != nil {
			return 0, err
		}
		pointer = next
	}
	return pointer, nil
}

type walker struct {
	lines []string
	unit  rune
}

func (w walker) level(index int) int {
	return outline.Level(w.lines[index], w.unit)
}

func (w walker) step(pointer int, token Token) (int, error) {
	switch token.Kind {
	case SelfRef:
		return pointer, nil
	case Root:
		return w.ancestor(pointer, 0, token)
	case OneFromRoot:
		return w.ancestor(pointer, 1, token)
	case Parent:
		target := w.level(pointer) - 1
		if target < 0 {
			return 0, navError(ErrInvalidIndentLevel, token, pointer)
		}
		return w.ancestor(pointer, target, token)
	case ChildByIndex:
		return w.child(pointer, token, ErrChildIndexExhausted, func(_, seen int) bool {
			return seen == token.Index
		})
	case ChildByKey:
		return w.child(pointer, token, ErrChildKeyExhausted, func(index, _ int) bool {
			return matchesKey(outline.Content(w.lines[index], w.unit), token.Pattern)
		})
	default:
		return 0, navError(ErrMalformedAddress, token, pointer)
	}
}

// ancestor searches upward from pointer, inclusive, for the first line at
// target level. Shallower lines on the way are passed over; the search fails
// only when it runs off the top of the document.
func (w walker) ancestor(pointer, target int, token Token) (int, error) {
	for i := pointer; i >= 0; i-- {
		if w.level(i) == target {
			return i, nil
		}
	}
	return 0, navError(ErrParentNotFound, token, pointer)
}

// child scans forward over the direct children of pointer. match receives
// the line index and the zero-based position of the child among its
// siblings. The scan aborts at a line at or above the parent's level.
func (w walker) child(pointer int, token Token, exhausted error, match func(index, seen int) bool) (int, error) {
	parent := w.level(pointer)
	seen := -1
	for i := pointer + 1; i < len(w.lines); i++ {
		level := w.level(i)
		if level <= parent {
			break
		}
		if level != parent+1 {
			continue
		}
		seen++
		if match(i, seen) {
			return i, nil
		}
	}
	return 0, navError(exhausted, token, pointer)
}

// matchesKey reports whether content, with its leading marker characters
// stripped, starts with pattern.
func matchesKey(content, pattern string) bool {
	return strings.HasPrefix(stripMarkers(content), pattern)
}

// stripMarkers drops leading runes that are neither letters nor digits, such
// as list bullets and whitespace.
func stripMarkers(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
