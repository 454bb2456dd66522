package tree

import "github.com/yaklabco/rtn/pkg/outline"

// Options controls a render pass.
type Options struct {
	// Unit is the indentation unit. Zero means outline.DefaultUnit.
	Unit rune

	// Glyphs is the connector glyph set. The zero value means Narrow().
	Glyphs Glyphs
}

// DefaultOptions returns tab indentation with narrow glyphs.
func DefaultOptions() Options {
	return Options{
		Unit:   outline.DefaultUnit,
		Glyphs: Narrow(),
	}
}

func (o Options) withDefaults() Options {
	if o.Unit == 0 {
		o.Unit = outline.DefaultUnit
	}
	if o.Glyphs == (Glyphs{}) {
		o.Glyphs = Narrow()
	}
	return o
}

// Result is the output of a complete render pass.
type Result struct {
	// Text is the rendered diagram.
	Text string

	// Grid is the classified grid the text was rendered from.
	Grid Grid

	// Entries are the outline entries the grid was built from.
	Entries []outline.Entry
}

// RenderText runs the whole pipeline over document. It is total: every input,
// including the empty string, produces a result.
func RenderText(document string, opts Options) Result {
	opts = opts.withDefaults()

	entries := outline.ToLines(document, opts.Unit)
	grid := Classify(Build(entries))

	return Result{
		Text:    Render(grid, opts.Glyphs),
		Grid:    grid,
		Entries: entries,
	}
}
