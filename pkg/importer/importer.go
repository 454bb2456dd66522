// Package importer converts Markdown documents into outline text.
//
// Headings become the skeleton of the outline: a level h heading sits at
// depth h-1 and the blocks after it nest one level below. List items nest
// under the enclosing heading and under their parent item. Depth never grows
// by more than one level from one line to the next, so the result always
// renders without structural defects.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/rtn/pkg/langdetect"
	"github.com/yaklabco/rtn/pkg/outline"
)

// Markdown flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Options controls a conversion.
type Options struct {
	// Flavor is FlavorCommonMark or FlavorGFM. Unknown values fall back to
	// FlavorGFM.
	Flavor string

	// Unit is the indentation unit of the output. Zero means tab.
	Unit rune

	// Bullets keeps a "- " prefix on unordered list items.
	Bullets bool

	// CodeLabels puts each code block under a "code (lang)" line. The
	// language comes from the fence info string or is detected.
	CodeLabels bool
}

// Importer converts Markdown with fixed options. It is safe for concurrent
// use.
type Importer struct {
	opts Options
	md   goldmark.Markdown
}

// New returns an importer for opts.
func New(opts Options) *Importer {
	if opts.Unit == 0 {
		opts.Unit = outline.DefaultUnit
	}
	if opts.Flavor != FlavorCommonMark {
		opts.Flavor = FlavorGFM
	}

	var gmOpts []goldmark.Option
	if opts.Flavor == FlavorGFM {
		gmOpts = append(gmOpts, goldmark.WithExtensions(extension.GFM))
	}

	return &Importer{opts: opts, md: goldmark.New(gmOpts...)}
}

// Convert returns the outline text for source.
func (i *Importer) Convert(ctx context.Context, source []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("import cancelled: %w", err)
	}

	doc := i.md.Parser().Parse(text.NewReader(source))

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("import cancelled: %w", err)
	}

	c := &converter{source: source, opts: i.opts}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		c.block(n, c.base)
	}
	return outline.Join(c.entries, i.opts.Unit), nil
}

// FromMarkdown converts source with default options.
func FromMarkdown(ctx context.Context, source []byte) (string, error) {
	return New(Options{}).Convert(ctx, source)
}

type converter struct {
	source  []byte
	opts    Options
	entries []outline.Entry

	// base is the depth of top-level blocks under the last heading.
	base int
}

func (c *converter) block(n ast.Node, depth int) {
	switch n := n.(type) {
	case *ast.Heading:
		level := c.emit(n.Level-1, c.inline(n))
		c.base = level + 1

	case *ast.Paragraph, *ast.TextBlock:
		c.emit(depth, c.inline(n))

	case *ast.List:
		index := 0
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			c.item(item, depth, c.marker(n, index))
			index++
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if c.opts.CodeLabels {
			depth = c.emit(depth, c.codeLabel(n)) + 1
		}
		lines := n.Lines()
		for i := range lines.Len() {
			segment := lines.At(i)
			c.emit(depth, strings.TrimRight(string(segment.Value(c.source)), "\r\n"))
		}

	case *ast.ThematicBreak:
		c.entries = append(c.entries, outline.Entry{})
		c.base = 0

	case *ast.HTMLBlock:
		// Raw HTML has no outline form.

	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			c.block(child, depth)
		}
	}
}

// item emits a list item: its first paragraph on the item line and
// everything else one level deeper.
func (c *converter) item(item ast.Node, depth int, marker string) {
	child := item.FirstChild()
	switch child.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		depth = c.emit(depth, marker+c.inline(child))
		child = child.NextSibling()
	default:
		depth = c.emit(depth, strings.TrimSpace(marker))
	}

	for ; child != nil; child = child.NextSibling() {
		c.block(child, depth+1)
	}
}

func (c *converter) codeLabel(n ast.Node) string {
	var lang string
	if fenced, ok := n.(*ast.FencedCodeBlock); ok && fenced.Info != nil {
		lang = langdetect.FromInfo(string(fenced.Info.Segment.Value(c.source)))
	}
	if lang == "" {
		var code []byte
		lines := n.Lines()
		for i := range lines.Len() {
			segment := lines.At(i)
			code = append(code, segment.Value(c.source)...)
		}
		lang = langdetect.Detect(code)
	}
	if lang == langdetect.Unknown {
		return "code"
	}
	return "code (" + lang + ")"
}

func (c *converter) marker(list *ast.List, index int) string {
	switch {
	case list.IsOrdered():
		return fmt.Sprintf("%d. ", list.Start+index)
	case c.opts.Bullets:
		return "- "
	default:
		return ""
	}
}

// inline returns the text of the inline children of n. Soft line breaks
// become spaces and hard line breaks become newlines.
func (c *converter) inline(n ast.Node) string {
	var sb strings.Builder
	afterCheckbox := false

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := node.(type) {
		case *ast.Text:
			value := node.Segment.Value(c.source)
			if afterCheckbox {
				value = []byte(strings.TrimLeft(string(value), " "))
				afterCheckbox = false
			}
			sb.Write(value)
			switch {
			case node.HardLineBreak():
				sb.WriteByte('\n')
			case node.SoftLineBreak():
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.URL(c.source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *east.TaskCheckBox:
			if node.IsChecked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
			afterCheckbox = true
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}

// emit appends one entry per non-empty line of content at depth, clamped to
// one level below the previous entry. It returns the depth used.
func (c *converter) emit(depth int, content string) int {
	depth = min(max(depth, 0), c.maxDepth())

	for line := range strings.SplitSeq(content, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), string(c.opts.Unit), " ")
		if line == "" {
			continue
		}
		c.entries = append(c.entries, outline.Entry{Level: depth, Content: line})
	}
	return depth
}

func (c *converter) maxDepth() int {
	if len(c.entries) == 0 {
		return 0
	}
	return c.entries[len(c.entries)-1].Level + 1
}
