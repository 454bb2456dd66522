// Package share stores outlines in links and in .rtn files.
//
// A share link is a base URL with three query parameters:
//
//	enc=URI-B64&cmpr=LZMA2&data=<token>
//
// The token holds the rendered diagram in its canonical narrow, marked form,
// so opening a link shows the same tree the author saw and pasting it back
// into an editor restores the tab indentation.
package share

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yaklabco/rtn/pkg/codec"
	"github.com/yaklabco/rtn/pkg/tree"
)

// Link limits and markers.
const (
	// MaxURILength is the longest link Push produces.
	MaxURILength = 8192

	// uriHeadroom is reserved for whatever the link is embedded in.
	uriHeadroom = 512

	// ExceededMarker replaces the data of a link that would be too long.
	ExceededMarker = "MAXIMUM-LINK-LENGTH-EXCEEDED"

	// NoDataText is what Pull returns for a link without data.
	NoDataText = "Error\n\tNo data parameter provided"

	// EmptyText is what Pull returns when the data decodes to nothing.
	EmptyText = "Couldn't decode the provided link.\nAre you sure it was made by the RTN?"
)

// Query parameter names.
const (
	ParamEncoding    = "enc"
	ParamCompression = "cmpr"
	ParamData        = "data"
)

// Pull falls back to these when a link omits its parameters. Links created
// before the parameters existed are ZLIB.
const (
	FallbackCompression = codec.ZLIB
	FallbackEncoding    = codec.URIB64
)

var (
	// ErrNoData indicates a link without a data parameter.
	ErrNoData = errors.New("no data parameter")

	// ErrLinkTooLong indicates a link whose data was replaced by ExceededMarker.
	ErrLinkTooLong = errors.New("maximum link length exceeded")
)

// Params are the query parameters of a share link.
type Params struct {
	Encoding    string
	Compression string
	Data        string
}

// Linker builds and reads share links.
type Linker struct {
	// Compression and Encoding used by Push.
	Compression string
	Encoding    string

	// MaxLength caps the link length. Zero means MaxURILength.
	MaxLength int
}

// DefaultLinker returns the linker used for new links.
func DefaultLinker() Linker {
	return Linker{
		Compression: codec.LZMA2,
		Encoding:    codec.URIB64,
		MaxLength:   MaxURILength,
	}
}

// Push returns a share link for text under base. Raw outline text is
// rendered first; text that is already a diagram is shrunk to the narrow
// form. When the link would exceed the limit, its data is ExceededMarker and
// the error is ErrLinkTooLong.
func (l Linker) Push(base, text string) (string, error) {
	c, err := codec.New(l.Compression, l.Encoding)
	if err != nil {
		return "", err
	}

	token, err := c.Encode(Payload(text))
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	link := l.build(base, token)
	if len(link)+uriHeadroom > l.maxLength() {
		return l.build(base, ExceededMarker), fmt.Errorf("%w: %d bytes", ErrLinkTooLong, len(link))
	}
	return link, nil
}

// Pull decodes the outline in link. It always returns displayable text: a
// missing data parameter gives NoDataText and a decode failure gives the
// failure message. The error reports what went wrong, if anything.
func (l Linker) Pull(link string) (string, error) {
	params := ParseParams(link)
	if params.Data == "" {
		return NoDataText, ErrNoData
	}
	if params.Data == ExceededMarker {
		return ExceededMarker, ErrLinkTooLong
	}

	c, err := codec.New(params.Compression, params.Encoding)
	if err != nil {
		return "Error\n\t" + err.Error(), err
	}

	text, err := c.Decode(params.Data)
	if err != nil {
		return "Error\n\t" + err.Error(), err
	}

	text = trimTrailingSpace(text)
	if text == "" {
		return EmptyText, nil
	}
	return text, nil
}

func (l Linker) build(base, data string) string {
	base, _, _ = strings.Cut(base, "?")
	return base + "?" + ParamEncoding + "=" + l.Encoding +
		"&" + ParamCompression + "=" + l.Compression +
		"&" + ParamData + "=" + data
}

func (l Linker) maxLength() int {
	if l.MaxLength <= 0 {
		return MaxURILength
	}
	return l.MaxLength
}

// Push builds a link with DefaultLinker.
func Push(base, text string) (string, error) {
	return DefaultLinker().Push(base, text)
}

// Pull reads a link with DefaultLinker.
func Pull(link string) (string, error) {
	return DefaultLinker().Pull(link)
}

var paramPatterns = map[string]*regexp.Regexp{
	ParamEncoding:    regexp.MustCompile(`(?:^|[?&])enc=([^&=?]*)`),
	ParamCompression: regexp.MustCompile(`(?:^|[?&])cmpr=([^&=?]*)`),
	ParamData:        regexp.MustCompile(`(?:^|[?&])data=([^&=?]*)`),
}

// ParseParams extracts the link parameters, applying the fallbacks for
// missing compression and encoding. Tokens are URL-safe, so the values are
// taken verbatim without query unescaping.
func ParseParams(link string) Params {
	find := func(name string) string {
		match := paramPatterns[name].FindStringSubmatch(link)
		if match == nil {
			return ""
		}
		return match[1]
	}

	params := Params{
		Encoding:    find(ParamEncoding),
		Compression: find(ParamCompression),
		Data:        find(ParamData),
	}
	if params.Compression == "" {
		params.Compression = FallbackCompression
	}
	if params.Encoding == "" {
		params.Encoding = FallbackEncoding
	}
	return params
}

// Payload returns the form of text stored in a link: a narrow, marked
// diagram without trailing whitespace.
func Payload(text string) string {
	text = strings.TrimRightFunc(strings.ReplaceAll(text, "\r\n", "\n"), unicode.IsSpace)
	if tree.HasGlyphs(text) {
		return trimTrailingSpace(tree.Shrink(text))
	}

	opts := tree.DefaultOptions()
	opts.Glyphs = tree.Narrow().Marked()
	return trimTrailingSpace(tree.RenderText(text, opts).Text)
}

// Outline turns pulled text back into raw tab-indented outline text.
func Outline(pulled string, unit rune) string {
	if !tree.HasGlyphs(pulled) {
		return pulled
	}
	return tree.UnformatAuto(pulled, unit)
}

// trimTrailingSpace removes whitespace at the end of every line and of the
// text. The glyph marker is not whitespace, so blank diagram rows keep their
// connectors.
func trimTrailingSpace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}
