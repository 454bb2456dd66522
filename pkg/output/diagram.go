package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

// Diagram is a rendered outline together with its decorated links.
type Diagram struct {
	Path   string
	Result tree.Result
	Glyphs tree.Glyphs
	Links  []dirnav.Link
}

// NewDiagram renders text and validates its links. The resolver uses the
// render unit when its own is zero.
func NewDiagram(path, text string, opts tree.Options, resolver dirnav.Resolver) Diagram {
	if opts.Unit == 0 {
		opts.Unit = outline.DefaultUnit
	}
	if opts.Glyphs == (tree.Glyphs{}) {
		opts.Glyphs = tree.Narrow()
	}
	if resolver.Unit == 0 {
		resolver.Unit = opts.Unit
	}

	return Diagram{
		Path:   path,
		Result: tree.RenderText(text, opts),
		Glyphs: opts.Glyphs,
		Links:  resolver.Decorate(outline.Split(text)),
	}
}

// DiagramJSON is the JSON form of a diagram.
type DiagramJSON struct {
	Version string          `json:"version"`
	Path    string          `json:"path,omitempty"`
	Text    string          `json:"text"`
	Rows    []RowJSON       `json:"rows"`
	Defects []tree.Position `json:"defects"`
	Links   []dirnav.Link   `json:"links"`
}

// RowJSON is one classified row.
type RowJSON struct {
	Level   int         `json:"level"`
	Content string      `json:"content,omitempty"`
	Cells   []tree.Kind `json:"cells"`
}

// WriteDiagram writes d in the format of opts.
func WriteDiagram(opts Options, d Diagram) (err error) {
	opts = opts.withDefaults()
	if !opts.Format.IsDiagramFormat() {
		return fmt.Errorf("format %q cannot show a diagram; use text, color or json", opts.Format)
	}

	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	switch opts.Format {
	case FormatJSON:
		return writeDiagramJSON(bw, opts, d)
	case FormatColor:
		writeDiagramStyled(bw, opts.styles(), d)
		return nil
	default:
		if d.Result.Text != "" {
			fmt.Fprintln(bw, d.Result.Text)
		}
		return nil
	}
}

func writeDiagramJSON(w io.Writer, opts Options, d Diagram) error {
	out := DiagramJSON{
		Version: "1.0.0",
		Path:    opts.displayPath(d.Path),
		Text:    d.Result.Text,
		Rows:    make([]RowJSON, len(d.Result.Grid.Rows)),
		Defects: d.Result.Grid.Defects,
		Links:   d.Links,
	}
	if out.Defects == nil {
		out.Defects = []tree.Position{}
	}
	if out.Links == nil {
		out.Links = []dirnav.Link{}
	}

	for i, row := range d.Result.Grid.Rows {
		kinds := make([]tree.Kind, len(row))
		for j, cell := range row {
			kinds[j] = cell.Kind
		}
		out.Rows[i] = RowJSON{Level: len(row) - 1, Content: row[len(row)-1].Payload, Cells: kinds}
	}

	encoder := json.NewEncoder(w)
	if !opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// writeDiagramStyled draws connectors dimmed and links underlined. Broken
// links use the warning style.
func writeDiagramStyled(w io.Writer, styles *pretty.Styles, d Diagram) {
	if d.Result.Text == "" {
		return
	}

	byLine := make(map[int][]dirnav.Link)
	for _, link := range d.Links {
		byLine[link.Line] = append(byLine[link.Line], link)
	}

	for i, row := range d.Result.Grid.Rows {
		var sb strings.Builder
		for col, cell := range row {
			switch cell.Kind {
			case tree.Data:
				sb.WriteString(styleLinks(styles, cell.Payload, byLine[i]))
			case tree.Blank:
				if glyph := d.Glyphs.ForBlank(d.Result.Grid.Continuation(i, col)); glyph != "" {
					sb.WriteString(styles.Connector.Render(glyph))
				}
			default:
				sb.WriteString(styles.Connector.Render(d.Glyphs.For(cell.Kind)))
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// styleLinks styles the link spans of content. Links are sorted by Start and
// never overlap, as FindLinks returns them.
func styleLinks(styles *pretty.Styles, content string, links []dirnav.Link) string {
	if len(links) == 0 {
		return styles.Data.Render(content)
	}

	var sb strings.Builder
	cursor := 0
	for _, link := range links {
		if link.Start < cursor || link.End > len(content) {
			continue
		}
		sb.WriteString(styles.Data.Render(content[cursor:link.Start]))
		style := styles.Link
		if !link.Valid {
			style = styles.BrokenLink
		}
		sb.WriteString(style.Render(content[link.Start:link.End]))
		cursor = link.End
	}
	sb.WriteString(styles.Data.Render(content[cursor:]))
	return sb.String()
}
