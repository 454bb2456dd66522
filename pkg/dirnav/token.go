// Package dirnav resolves directory-style addresses against an indentation
// outline.
//
// An address starts with a root marker and walks the outline with slash
// separated tokens:
//
//	RTN/[0]/[1]     second child of the first child of the nearest root
//	DNL~/[Notes]    child starting with "Notes" of the nearest level-1 line
//	DL./../[2]      third child of the parent of the current line
//
// Resolution reads raw outline lines. It never reads a rendered grid.
package dirnav

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultMarkers returns the root markers used when none are configured.
func DefaultMarkers() []string {
	return []string{"RTN", "DNL", "DL"}
}

// orderMarkers returns markers longest first, so that a marker which is a
// prefix of another loses to it. Empty markers are dropped; an empty result
// gives DefaultMarkers.
func orderMarkers(markers []string) []string {
	ordered := make([]string, 0, len(markers))
	for _, marker := range markers {
		if marker != "" && !slices.Contains(ordered, marker) {
			ordered = append(ordered, marker)
		}
	}
	if len(ordered) == 0 {
		ordered = DefaultMarkers()
	}
	slices.SortStableFunc(ordered, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return ordered
}

// TokenKind identifies a navigation step.
type TokenKind int

const (
	// SelfRef stays on the current line. It is dropped during parsing.
	SelfRef TokenKind = iota

	// Root jumps to the nearest level-0 ancestor.
	Root

	// OneFromRoot jumps to the nearest level-1 ancestor.
	OneFromRoot

	// Parent jumps one level up.
	Parent

	// ChildByIndex selects the n-th direct child, counting from zero.
	ChildByIndex

	// ChildByKey selects the first direct child whose content starts with
	// a pattern.
	ChildByKey
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case SelfRef:
		return "SelfRef"
	case Root:
		return "Root"
	case OneFromRoot:
		return "OneFromRoot"
	case Parent:
		return "Parent"
	case ChildByIndex:
		return "ChildByIndex"
	case ChildByKey:
		return "ChildByKey"
	default:
		return "Unknown"
	}
}

// Token is one parsed navigation step.
type Token struct {
	Kind TokenKind

	// Index is the child index of a ChildByIndex token.
	Index int

	// Pattern is the key prefix of a ChildByKey token, with leading marker
	// characters already stripped.
	Pattern string

	// Raw is the token as written in the address.
	Raw string
}

// Address is a parsed navigation address.
type Address struct {
	// Raw is the complete address text.
	Raw string

	// Tokens holds the steps in order. Self references are not included.
	Tokens []Token
}

// Parse parses address. It must start with one of markers; no markers
// selects DefaultMarkers.
func Parse(address string, markers ...string) (Address, error) {
	ordered := orderMarkers(markers)
	result := Address{Raw: address}

	marker, rest, ok := cutMarker(address, ordered)
	if !ok {
		return result, malformed(address, "missing root marker, want one of %s", strings.Join(ordered, ", "))
	}

	head := Token{Kind: Root, Raw: marker}
	switch {
	case strings.HasPrefix(rest, "~"):
		head = Token{Kind: OneFromRoot, Raw: marker + "~"}
		rest = rest[1:]
	case strings.HasPrefix(rest, "."):
		head = Token{Kind: SelfRef, Raw: marker + "."}
		rest = rest[1:]
	}
	if head.Kind != SelfRef {
		result.Tokens = append(result.Tokens, head)
	}

	steps := 0
	for rest != "" {
		if rest[0] != '/' {
			return result, malformed(address, "expected '/' before %q", rest)
		}
		rest = rest[1:]
		if rest == "" {
			// Trailing separator.
			break
		}

		raw, remaining, err := nextSegment(rest)
		if err != nil {
			return result, malformed(address, "%v", err)
		}
		rest = remaining

		token, err := parseToken(raw)
		if err != nil {
			return result, malformed(address, "%v", err)
		}
		steps++
		if token.Kind != SelfRef {
			result.Tokens = append(result.Tokens, token)
		}
	}

	if steps == 0 {
		return result, malformed(address, "no navigation tokens")
	}

	return result, nil
}

// cutMarker strips the first of markers that address starts with.
func cutMarker(address string, markers []string) (string, string, bool) {
	for _, marker := range markers {
		if rest, ok := strings.CutPrefix(address, marker); ok {
			return marker, rest, true
		}
	}
	return "", address, false
}

// nextSegment splits off the next token. A bracketed token extends to its
// closing bracket, so separators inside brackets do not split.
func nextSegment(s string) (string, string, error) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated bracket in %q", s)
		}
		return s[:end+1], s[end+1:], nil
	}

	end := strings.IndexByte(s, '/')
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

func parseToken(raw string) (Token, error) {
	switch raw {
	case "":
		return Token{}, errors.New("empty token")
	case ".":
		return Token{Kind: SelfRef, Raw: raw}, nil
	case "..":
		return Token{Kind: Parent, Raw: raw}, nil
	}

	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return Token{}, fmt.Errorf("unknown token %q", raw)
	}

	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return Token{}, errors.New("empty brackets")
	}

	if isDigits(inner) {
		index, err := strconv.Atoi(inner)
		if err != nil {
			return Token{}, fmt.Errorf("child index %q: %w", inner, err)
		}
		return Token{Kind: ChildByIndex, Index: index, Raw: raw}, nil
	}

	pattern := stripMarkers(inner)
	if pattern == "" {
		return Token{}, fmt.Errorf("key %q has no letters or digits", inner)
	}
	return Token{Kind: ChildByKey, Pattern: pattern, Raw: raw}, nil
}

func malformed(address, format string, args ...any) *NavError {
	return &NavError{
		Kind:   ErrMalformedAddress,
		Token:  address,
		Line:   -1,
		Detail: fmt.Sprintf(format, args...),
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
