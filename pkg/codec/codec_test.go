package codec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/pkg/codec"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Notes",
		"Notes\n├── Alpha\n│   └── One\n└── Beta",
		"ünïcødé\n\tß\n\t\t日本語",
		strings.Repeat("repetitive line\n\t", 400),
	}

	for _, compression := range codec.Compressions() {
		t.Run(compression, func(t *testing.T) {
			t.Parallel()

			c, err := codec.New(compression, codec.URIB64)
			require.NoError(t, err)

			for _, input := range inputs {
				token, err := c.Encode(input)
				require.NoError(t, err)
				assert.NotContains(t, token, "=")
				assert.NotContains(t, token, "+")
				assert.NotContains(t, token, "/")

				decoded, err := c.Decode(token)
				require.NoError(t, err)
				assert.Equal(t, input, decoded)
			}
		})
	}
}

func TestEncode_ZLIBHeader(t *testing.T) {
	t.Parallel()

	c, err := codec.New(codec.ZLIB, codec.URIB64)
	require.NoError(t, err)

	token, err := c.Encode("Notes")
	require.NoError(t, err)
	// 0x78 0xDA is the zlib header for best compression.
	assert.True(t, strings.HasPrefix(token, "eN"), token)
}

func TestEncode_Compresses(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("Alpha\n\tBeta\n\t\tGamma\n", 200)
	for _, compression := range codec.Compressions() {
		c, err := codec.New(compression, codec.URIB64)
		require.NoError(t, err)

		token, err := c.Encode(input)
		require.NoError(t, err)
		assert.Less(t, len(token), len(input)/10, compression)
	}
}

func TestDecode_ToleratesPadding(t *testing.T) {
	t.Parallel()

	c, err := codec.New("zlib", "uri-b64")
	require.NoError(t, err)

	token, err := c.Encode("A\n\tB")
	require.NoError(t, err)

	decoded, err := c.Decode(token + "==")
	require.NoError(t, err)
	assert.Equal(t, "A\n\tB", decoded)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		compression string
		token       string
		stage       string
	}{
		{"bad base64 zlib", codec.ZLIB, "not*base64", "decode"},
		{"bad base64 lzma", codec.LZMA2, "%%%", "decode"},
		{"not a zlib stream", codec.ZLIB, "AAAAAAAA", "decompress"},
		{"truncated lzma stream", codec.LZMA2, "AAAA", "decompress"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c, err := codec.New(testCase.compression, codec.URIB64)
			require.NoError(t, err)

			_, err = c.Decode(testCase.token)
			var decodeErr *codec.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, testCase.stage, decodeErr.Stage)
			assert.Equal(t, testCase.compression, decodeErr.Compression)
		})
	}
}

func TestNew_UnknownNames(t *testing.T) {
	t.Parallel()

	_, err := codec.New("BROTLI", codec.URIB64)
	require.ErrorIs(t, err, codec.ErrUnknownCompression)

	_, err = codec.New(codec.ZLIB, "HEX")
	require.ErrorIs(t, err, codec.ErrUnknownEncoding)
}

func FuzzDecode(f *testing.F) {
	f.Add("eNrLSM3JyQcABiwCFQ")
	f.Add("")
	f.Add("____")

	zlibCodec, _ := codec.New(codec.ZLIB, codec.URIB64)
	lzmaCodec, _ := codec.New(codec.LZMA2, codec.URIB64)

	f.Fuzz(func(t *testing.T, token string) {
		// Decoding arbitrary tokens returns an error or text, never panics.
		_, _ = zlibCodec.Decode(token)
		_, _ = lzmaCodec.Decode(token)
	})
}
