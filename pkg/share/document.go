package share

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/yaklabco/rtn/pkg/fsutil"
)

// Extension is the file extension of saved documents.
const Extension = ".rtn"

// maxTitleRunes caps the title taken from the first line.
const maxTitleRunes = 32

const (
	howToOpen     = "Visit the link contained in the value of the `.link` property. If no suitable copy of the RTN software exists, see `.data_recovery`."
	dataStructure = "Each RTN link consists of 3 URI parameters: `enc=`, `cmpr=`, and `data=`. These stand for `encoding`, `compression`, and `data` respectively. Extraction of these components may be necessary for data recovery."
	dataRecovery  = "In the event that no copy of the RTN software is available, it is still possible to recover the included data. Data is encoded with the `.encoding` encoding type and compressed with the `.compression` compression scheme. For URI-B64 encoding, replace `-_` with `+/` and then handle with normal base64_decode. For ZLIB compression, gzinflate data[2:]. For LZMA2 compression, flip the top bit of every byte before and after LZMA decompression."
)

// ErrInvalidDocument indicates a .rtn file that does not match the schema.
var ErrInvalidDocument = errors.New("invalid rtn document")

//go:embed schema/rtn.schema.json
var schemaJSON []byte

const schemaURL = "rtn.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Document is a saved share link. The prose fields tell a reader without
// rtn how to get the outline back.
type Document struct {
	Title         string    `json:"title,omitempty"`
	HowToOpen     string    `json:"how_to_open"`
	Link          string    `json:"link"`
	DataStructure string    `json:"data_structure"`
	DataRecovery  string    `json:"data_recovery"`
	Created       time.Time `json:"created,omitzero"`
}

// NewDocument returns the document for link. The title is taken from the
// first line of text.
func NewDocument(link, text string, created time.Time) Document {
	return Document{
		Title:         Title(text),
		HowToOpen:     howToOpen,
		Link:          link,
		DataStructure: dataStructure,
		DataRecovery:  dataRecovery,
		Created:       created.UTC().Truncate(time.Second),
	}
}

// Encode returns the indented JSON form of doc.
func (d Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseDocument validates data against the document schema and decodes it.
func ParseDocument(data []byte) (Document, error) {
	schema, err := compileSchema()
	if err != nil {
		return Document{}, fmt.Errorf("compile schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := schema.Validate(instance); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// ReadDocument reads and validates the document at path.
func ReadDocument(ctx context.Context, path string) (Document, error) {
	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return Document{}, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteDocument writes doc to path atomically.
func WriteDocument(ctx context.Context, path string, doc Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if _, err := ParseDocument(data); err != nil {
		return err
	}
	return fsutil.WriteAtomic(ctx, path, data, 0)
}

// Title returns the first line of text without connector glyphs, cut to
// 32 runes.
func Title(text string) string {
	first, _, _ := strings.Cut(Outline(text, '\t'), "\n")
	first = strings.TrimSpace(strings.TrimLeft(first, "\t"))
	if utf8.RuneCountInString(first) > maxTitleRunes {
		first = string([]rune(first)[:maxTitleRunes])
	}
	return first
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// FileName returns the file name a document titled title is saved under.
func FileName(title string) string {
	if title == "" {
		title = "untitled"
	}
	return unsafeName.ReplaceAllString(title, "_") + Extension
}
