package tree

import (
	"fmt"
	"strings"
)

// Marker is appended to connector glyphs by marked glyph sets. It is a zero
// width space, invisible when displayed.
const Marker = "​"

// Width selects the column width of connector glyphs.
type Width string

const (
	// WidthNarrow draws four-column connectors. It is the canonical form
	// used when a diagram is persisted.
	WidthNarrow Width = "narrow"

	// WidthWide draws eight-column connectors.
	WidthWide Width = "wide"
)

// IsValid returns true if the width is known.
func (w Width) IsValid() bool {
	switch w {
	case WidthNarrow, WidthWide:
		return true
	default:
		return false
	}
}

// ParseWidth parses a width name. The empty string selects WidthNarrow.
func ParseWidth(name string) (Width, error) {
	switch strings.ToLower(name) {
	case "", string(WidthNarrow):
		return WidthNarrow, nil
	case string(WidthWide):
		return WidthWide, nil
	default:
		return "", fmt.Errorf("unknown glyph width %q; valid widths: narrow, wide", name)
	}
}

// Glyphs holds the text drawn for each connector kind.
type Glyphs struct {
	Line string
	Fork string
	Bend string
	Gap  string

	// Bar is drawn by a Blank cell that continues a Line from above. It is
	// the Line glyph without its padding, so that Unformat can tell it from
	// a level of indentation.
	Bar string

	// Unresolved is drawn for a cell left unclassified. Classify never
	// produces one, but a hand-built grid can.
	Unresolved string
}

// Narrow returns the canonical four-column glyph set.
func Narrow() Glyphs {
	return Glyphs{
		Line:       "│   ",
		Fork:       "├── ",
		Bend:       "└── ",
		Gap:        "    ",
		Bar:        "│",
		Unresolved: "    ",
	}
}

// Wide returns the eight-column glyph set.
func Wide() Glyphs {
	return Glyphs{
		Line:       "│       ",
		Fork:       "├────── ",
		Bend:       "└────── ",
		Gap:        "        ",
		Bar:        "│",
		Unresolved: "        ",
	}
}

// GlyphsFor returns the glyph set for width, optionally marked.
func GlyphsFor(width Width, marked bool) Glyphs {
	glyphs := Narrow()
	if width == WidthWide {
		glyphs = Wide()
	}
	if marked {
		glyphs = glyphs.Marked()
	}
	return glyphs
}

// Marked returns a copy of g with Marker appended to every connector glyph.
func (g Glyphs) Marked() Glyphs {
	return Glyphs{
		Line:       g.Line + Marker,
		Fork:       g.Fork + Marker,
		Bend:       g.Bend + Marker,
		Gap:        g.Gap + Marker,
		Bar:        g.Bar + Marker,
		Unresolved: g.Unresolved + Marker,
	}
}

// For returns the glyph for a connector kind. Terminal kinds have no glyph.
func (g Glyphs) For(kind Kind) string {
	switch kind {
	case Line:
		return g.Line
	case Fork:
		return g.Fork
	case Bend:
		return g.Bend
	case Gap:
		return g.Gap
	case Unresolved:
		return g.Unresolved
	default:
		return ""
	}
}

// ForBlank returns what a Blank cell draws when it continues kind: Bar for
// Line, nothing otherwise. A continued Gap would only be trailing space.
func (g Glyphs) ForBlank(kind Kind) string {
	if kind == Line {
		return g.Bar
	}
	return ""
}

// all returns every connector glyph, used when stripping rendered text.
func (g Glyphs) all() []string {
	return []string{g.Line, g.Fork, g.Bend, g.Gap}
}
