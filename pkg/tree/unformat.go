package tree

import "strings"

// wideDashes appears only in wide Fork and Bend glyphs.
const wideDashes = "──────"

// shrinkReplacer rewrites wide glyphs to their narrow form.
//
//nolint:gochecknoglobals // Read-only replacer.
var shrinkReplacer = strings.NewReplacer(
	"├────── ", "├── ",
	"└────── ", "└── ",
	"│       ", "│   ",
	"        ", "    ",
)

// Detect guesses the glyph set a diagram was rendered with. Wide sets are
// recognized by their Fork and Bend dashes, marked sets by Marker.
func Detect(text string) Glyphs {
	width := WidthNarrow
	if strings.Contains(text, "├"+wideDashes) || strings.Contains(text, "└"+wideDashes) {
		width = WidthWide
	}
	return GlyphsFor(width, strings.Contains(text, Marker))
}

// Unformat turns rendered diagram text back into raw outline text. The run
// of glyphs from set at the start of each line is replaced by one unit per
// glyph. A Bar ending an empty line is dropped. Line content is left
// untouched.
func Unformat(text string, glyphs Glyphs, unit rune) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = unformatLine(line, glyphs, unit)
	}
	return strings.Join(lines, "\n")
}

// UnformatAuto unformats text with the glyph set reported by Detect.
func UnformatAuto(text string, unit rune) string {
	return Unformat(text, Detect(text), unit)
}

func unformatLine(line string, glyphs Glyphs, unit rune) string {
	size, count := LeadingGlyphs(line, glyphs)
	if size == 0 {
		return line
	}
	return strings.Repeat(string(unit), count) + line[size:]
}

// LeadingGlyphs returns the byte length and the number of the connector
// glyphs from glyphs at the start of line. When the glyphs are followed only
// by a Bar, the length includes the Bar but the count does not.
func LeadingGlyphs(line string, glyphs Glyphs) (int, int) {
	set := glyphs.all()
	size, count, last := 0, 0, ""
	for {
		glyph, ok := leadingGlyph(line[size:], set)
		if !ok {
			break
		}
		size += len(glyph)
		count++
		last = glyph
	}

	// Data rows end their run with Fork or Bend; only an empty row can end
	// in a Bar.
	if glyphs.Bar != "" && line[size:] == glyphs.Bar && last != glyphs.Fork && last != glyphs.Bend {
		size += len(glyphs.Bar)
	}
	return size, count
}

func leadingGlyph(s string, set []string) (string, bool) {
	for _, glyph := range set {
		if glyph != "" && strings.HasPrefix(s, glyph) {
			return glyph, true
		}
	}
	return "", false
}

// Shrink rewrites wide connector glyphs into the canonical narrow form.
func Shrink(text string) string {
	return shrinkReplacer.Replace(text)
}

// HasGlyphs returns true if any line of text starts with a Fork, Bend or
// Line glyph of any known set.
func HasGlyphs(text string) bool {
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimLeft(line, " ")
		if strings.HasPrefix(line, "├") || strings.HasPrefix(line, "└") || strings.HasPrefix(line, "│") {
			return true
		}
	}
	return false
}
