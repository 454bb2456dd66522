package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz/lzma"
)

// maxDecodedSize bounds decompressed output so a hostile token cannot
// exhaust memory.
const maxDecodedSize = 16 << 20

type zlibCompressor struct{}

func (zlibCompressor) compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("write zlib stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

func (zlibCompressor) decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer r.Close()
	return readLimited(r)
}

// lzmaCompressor writes the classic .lzma format. Links carry the stream as
// bytes offset by 128 around both ends of the compressor, which for bytes
// is an XOR with 0x80.
type lzmaCompressor struct{}

func (lzmaCompressor) compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create lzma writer: %w", err)
	}
	if _, err := w.Write(flipSign(data)); err != nil {
		return nil, fmt.Errorf("write lzma stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close lzma stream: %w", err)
	}
	return flipSign(buf.Bytes()), nil
}

func (lzmaCompressor) decompress(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(flipSign(data)))
	if err != nil {
		return nil, fmt.Errorf("open lzma stream: %w", err)
	}
	out, err := readLimited(r)
	if err != nil {
		return nil, err
	}
	return flipSign(out), nil
}

// flipSign returns a copy of data with the top bit of every byte inverted.
func flipSign(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ 0x80
	}
	return out
}

func readLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	if len(out) > maxDecodedSize {
		return nil, fmt.Errorf("decoded data exceeds %d bytes", maxDecodedSize)
	}
	return out, nil
}

func encodeURIB64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeURIB64 accepts tokens with or without padding. Standard alphabet
// characters are accepted too, since hand-copied links sometimes carry them.
func decodeURIB64(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	token = strings.TrimRight(token, "=")
	token = strings.NewReplacer("+", "-", "/", "_").Replace(token)

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return data, nil
}
