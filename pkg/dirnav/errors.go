package dirnav

import (
	"errors"
	"fmt"
)

// Resolution error kinds for categorization via errors.Is.
var (
	// ErrInvalidIndentLevel indicates a token asked for a level above the
	// outermost one, such as ".." from a level-0 line.
	ErrInvalidIndentLevel = errors.New("invalid indent level")

	// ErrParentNotFound indicates an upward search found no line at the
	// target level.
	ErrParentNotFound = errors.New("parent not found")

	// ErrChildIndexExhausted indicates a [n] token ran out of children.
	ErrChildIndexExhausted = errors.New("child index exhausted")

	// ErrChildKeyExhausted indicates a [pattern] token matched no child.
	ErrChildKeyExhausted = errors.New("child key exhausted")

	// ErrMalformedAddress indicates the address does not follow the grammar.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrStartOutOfRange indicates the start line is not a line of the
	// document.
	ErrStartOutOfRange = errors.New("start line out of range")
)

// NavError describes a failed resolution. Kind is one of the Err* values.
type NavError struct {
	// Kind is the error category.
	Kind error

	// Token is the raw token being applied when resolution failed.
	Token string

	// Line is the last line pointer before the failing token. It is -1
	// when the address failed to parse.
	Line int

	// Detail explains a malformed address.
	Detail string
}

// Error implements the error interface.
func (e *NavError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q: %s", e.Kind, e.Token, e.Detail)
	}
	if e.Token == "" {
		return fmt.Sprintf("%v (line %d)", e.Kind, e.Line)
	}
	return fmt.Sprintf("%v at %q (line %d)", e.Kind, e.Token, e.Line)
}

// Unwrap returns the error kind so errors.Is matches the sentinels.
func (e *NavError) Unwrap() error {
	return e.Kind
}

func navError(kind error, token Token, line int) *NavError {
	return &NavError{Kind: kind, Token: token.Raw, Line: line}
}
