// Package codec turns outline text into compact URL-safe tokens and back.
//
// A Codec pairs a compression with an encoding. Two compressions exist:
// ZLIB, which older share links use, and LZMA2, the default for new links.
// The only encoding is URI-B64, URL-safe base64 without padding.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Compression names as they appear in the cmpr link parameter.
const (
	ZLIB  = "ZLIB"
	LZMA2 = "LZMA2"
)

// Encoding names as they appear in the enc link parameter.
const (
	URIB64 = "URI-B64"
)

var (
	// ErrUnknownCompression indicates a compression name that is not supported.
	ErrUnknownCompression = errors.New("unknown compression")

	// ErrUnknownEncoding indicates an encoding name that is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Codec encodes text into a token and decodes a token back into text.
type Codec interface {
	Encode(text string) (string, error)
	Decode(token string) (string, error)
}

// DecodeError reports a token that could not be turned back into text.
type DecodeError struct {
	// Stage is "decode" for the encoding step and "decompress" for the
	// compression step.
	Stage string

	Compression string
	Encoding    string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Stage, e.Compression, e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Compressions returns the supported compression names.
func Compressions() []string {
	return []string{ZLIB, LZMA2}
}

// Encodings returns the supported encoding names.
func Encodings() []string {
	return []string{URIB64}
}

// New returns the codec for the named compression and encoding. Names are
// matched case-insensitively.
func New(compression, encoding string) (Codec, error) {
	var comp compressor
	switch strings.ToUpper(compression) {
	case ZLIB:
		comp = zlibCompressor{}
	case LZMA2:
		comp = lzmaCompressor{}
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)",
			ErrUnknownCompression, compression, strings.Join(Compressions(), ", "))
	}

	if !slices.Contains(Encodings(), strings.ToUpper(encoding)) {
		return nil, fmt.Errorf("%w %q (supported: %s)",
			ErrUnknownEncoding, encoding, strings.Join(Encodings(), ", "))
	}

	return &pipeline{
		compression: strings.ToUpper(compression),
		encoding:    strings.ToUpper(encoding),
		compressor:  comp,
	}, nil
}

// compressor is one compression stage.
type compressor interface {
	compress(data []byte) ([]byte, error)
	decompress(data []byte) ([]byte, error)
}

type pipeline struct {
	compression string
	encoding    string
	compressor  compressor
}

func (p *pipeline) Encode(text string) (string, error) {
	compressed, err := p.compressor.compress([]byte(text))
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", p.compression, err)
	}
	return encodeURIB64(compressed), nil
}

func (p *pipeline) Decode(token string) (string, error) {
	compressed, err := decodeURIB64(token)
	if err != nil {
		return "", p.decodeError("decode", err)
	}

	data, err := p.compressor.decompress(compressed)
	if err != nil {
		return "", p.decodeError("decompress", err)
	}
	return string(data), nil
}

func (p *pipeline) decodeError(stage string, err error) *DecodeError {
	return &DecodeError{
		Stage:       stage,
		Compression: p.compression,
		Encoding:    p.encoding,
		Err:         err,
	}
}
