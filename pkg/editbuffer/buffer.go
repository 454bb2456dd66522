// Package editbuffer serializes edits to an outline document and keeps the
// rendered diagram in step with the raw text.
//
// A Buffer admits one edit at a time. An edit runs the complete render
// pipeline and publishes a new Snapshot before the next edit may start, so
// readers never observe raw text and a diagram from different passes.
package editbuffer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/fix"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

// State reports whether an edit is in flight.
type State int

const (
	// Idle means no edit is running.
	Idle State = iota

	// Busy means an edit holds the buffer.
	Busy
)

// String returns the name of the state.
func (s State) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// Caret is a selection in the raw document as byte offsets. Start equals End
// for a collapsed caret.
type Caret struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Collapsed returns true if the caret selects nothing.
func (c Caret) Collapsed() bool {
	return c.Start == c.End
}

func (c Caret) clamp(size int) Caret {
	c.Start = min(max(c.Start, 0), size)
	c.End = min(max(c.End, c.Start), size)
	return c
}

// Snapshot is the state published by one completed edit.
type Snapshot struct {
	// Raw is the tab-indented document.
	Raw string

	// Rendered is the diagram rendered from Raw.
	Rendered string

	// Caret is the selection in Raw.
	Caret Caret

	// Grid is the classified grid Rendered was drawn from.
	Grid tree.Grid

	// Links are the addresses found in Raw with their validity.
	Links []dirnav.Link

	// Version counts the edits applied since the buffer was created.
	Version uint64
}

// Document is the input of an edit.
type Document struct {
	Text  string
	Caret Caret
}

// Change is the outcome of an edit.
type Change struct {
	// Edits are applied to the document text.
	Edits []fix.TextEdit

	// Caret replaces the selection when set. Otherwise the selection is
	// carried through Edits.
	Caret *Caret
}

// Edit computes a change from the current document. It must not retain doc.
type Edit func(doc Document) (Change, error)

// Options configures a Buffer.
type Options struct {
	// Render controls the diagram.
	Render tree.Options

	// Resolver validates and resolves addresses.
	Resolver dirnav.Resolver
}

// Buffer owns one outline document.
type Buffer struct {
	opts Options

	// slot holds a token while an edit is in flight.
	slot chan struct{}

	current atomic.Pointer[Snapshot]
}

// New returns a buffer holding text with the caret at the start.
func New(text string, opts Options) *Buffer {
	if opts.Render.Unit == 0 {
		opts.Render.Unit = outline.DefaultUnit
	}
	if opts.Render.Glyphs == (tree.Glyphs{}) {
		opts.Render.Glyphs = tree.Narrow()
	}
	if opts.Resolver.Unit == 0 {
		opts.Resolver.Unit = opts.Render.Unit
	}

	b := &Buffer{
		opts: opts,
		slot: make(chan struct{}, 1),
	}
	b.current.Store(b.render(normalizeNewlines(text), Caret{}, 0))
	return b
}

// Options returns the buffer configuration.
func (b *Buffer) Options() Options {
	return b.opts
}

// State reports whether an edit is in flight.
func (b *Buffer) State() State {
	if len(b.slot) > 0 {
		return Busy
	}
	return Idle
}

// Snapshot returns the state published by the last completed edit.
func (b *Buffer) Snapshot() Snapshot {
	return *b.current.Load()
}

// Apply waits for the buffer to be free, runs edit and publishes the result.
// Waiting ends early with ctx's error. An edit that fails leaves the buffer
// unchanged.
func (b *Buffer) Apply(ctx context.Context, edit Edit) (Snapshot, error) {
	select {
	case b.slot <- struct{}{}:
	case <-ctx.Done():
		return Snapshot{}, fmt.Errorf("wait for edit slot: %w", ctx.Err())
	}
	defer func() { <-b.slot }()

	prev := b.current.Load()
	change, err := edit(Document{Text: prev.Raw, Caret: prev.Caret})
	if err != nil {
		return *prev, err
	}

	edits, err := fix.Prepare(change.Edits, len(prev.Raw))
	if err != nil {
		return *prev, fmt.Errorf("prepare edits: %w", err)
	}

	text := fix.Apply(prev.Raw, edits)

	caret := Caret{
		Start: fix.MapOffset(prev.Caret.Start, edits),
		End:   fix.MapOffset(prev.Caret.End, edits),
	}
	if change.Caret != nil {
		caret = *change.Caret
	}

	next := b.render(text, caret.clamp(len(text)), prev.Version+1)
	b.current.Store(next)
	return *next, nil
}

// Resolve resolves address against the latest raw text, starting from the
// caret line. It does not wait for the edit slot.
func (b *Buffer) Resolve(address string) (dirnav.Result, error) {
	snap := b.current.Load()
	return b.opts.Resolver.Resolve(outline.Split(snap.Raw), address, lineOf(snap.Raw, snap.Caret.Start), false)
}

// Navigate moves the selection to the content of the line address resolves
// to.
func (b *Buffer) Navigate(ctx context.Context, address string) (Snapshot, error) {
	return b.Apply(ctx, Navigate(b.opts.Resolver, address))
}

// RenderedCaret maps the selection of the current snapshot to byte offsets
// in its rendered text.
func (b *Buffer) RenderedCaret() Caret {
	snap := b.current.Load()
	return Caret{
		Start: renderedOffset(snap, snap.Caret.Start, b.opts.Render),
		End:   renderedOffset(snap, snap.Caret.End, b.opts.Render),
	}
}

func (b *Buffer) render(text string, caret Caret, version uint64) *Snapshot {
	result := tree.RenderText(text, b.opts.Render)
	return &Snapshot{
		Raw:      text,
		Rendered: result.Text,
		Caret:    caret,
		Grid:     result.Grid,
		Links:    b.opts.Resolver.Decorate(outline.Split(text)),
		Version:  version,
	}
}

// renderedOffset maps a raw offset to the rendered text of snap. Offsets in
// the indentation run land on the matching glyph boundary.
func renderedOffset(snap *Snapshot, offset int, opts tree.Options) int {
	lines := strings.Split(snap.Raw, "\n")
	line := lineOf(snap.Raw, offset)
	column := offset - outline.LineStart(lines, line)

	rendered := 0
	for i := range line {
		rendered += len(tree.RenderRow(snap.Grid, i, opts.Glyphs)) + 1
	}

	raw := lines[line]
	row := snap.Grid.Rows[line]
	level := len(row) - 1
	unitSize := len(string(opts.Unit))

	connectors := 0
	for i, cell := range row[:level] {
		if column <= i*unitSize {
			return rendered + connectors
		}
		connectors += len(opts.Glyphs.For(cell.Kind))
	}
	return rendered + connectors + len(outline.Content(raw[:column], opts.Unit))
}

// lineOf returns the index of the line containing offset.
func lineOf(text string, offset int) int {
	offset = min(max(offset, 0), len(text))
	return strings.Count(text[:offset], "\n")
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}
