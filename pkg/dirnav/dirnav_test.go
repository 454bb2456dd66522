package dirnav_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/pkg/dirnav"
)

func fixture() []string {
	return []string{
		"Notes",         // 0
		"\tAlpha",       // 1
		"\t\tOne",       // 2
		"\t\t- Two",     // 3
		"\tBeta",        // 4
		"\t\tThree",     // 5
		"Second",        // 6
		"\tGamma",       // 7
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		address  string
		expected []dirnav.Token
	}{
		{
			name:    "root and indexes",
			address: "RTN/[0]/[12]",
			expected: []dirnav.Token{
				{Kind: dirnav.Root, Raw: "RTN"},
				{Kind: dirnav.ChildByIndex, Index: 0, Raw: "[0]"},
				{Kind: dirnav.ChildByIndex, Index: 12, Raw: "[12]"},
			},
		},
		{
			name:    "one from root with key",
			address: "RTN~/[- Notes]/",
			expected: []dirnav.Token{
				{Kind: dirnav.OneFromRoot, Raw: "RTN~"},
				{Kind: dirnav.ChildByKey, Pattern: "Notes", Raw: "[- Notes]"},
			},
		},
		{
			name:    "self references are dropped",
			address: "RTN./../.",
			expected: []dirnav.Token{
				{Kind: dirnav.Parent, Raw: ".."},
			},
		},
		{
			name:    "separator inside brackets",
			address: "RTN/[a/b]",
			expected: []dirnav.Token{
				{Kind: dirnav.Root, Raw: "RTN"},
				{Kind: dirnav.ChildByKey, Pattern: "a/b", Raw: "[a/b]"},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			addr, err := dirnav.Parse(testCase.address)
			require.NoError(t, err)
			assert.Equal(t, testCase.address, addr.Raw)
			assert.Equal(t, testCase.expected, addr.Tokens)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	for _, address := range []string{
		"",
		"RTN",
		"RTN/",
		"ROOT/[0]",
		"RTNS/[0]",
		"RTN//[0]",
		"RTN/[0",
		"RTN/[]",
		"RTN/x",
		"RTN/...",
		"RTN/[--]",
		"RTN/[99999999999999999999999]",
	} {
		t.Run(address, func(t *testing.T) {
			t.Parallel()

			_, err := dirnav.Parse(address)
			require.Error(t, err)
			assert.ErrorIs(t, err, dirnav.ErrMalformedAddress)

			var navErr *dirnav.NavError
			require.ErrorAs(t, err, &navErr)
			assert.Equal(t, -1, navErr.Line)
			assert.NotEmpty(t, navErr.Detail)
		})
	}
}

func TestParse_CustomMarker(t *testing.T) {
	t.Parallel()

	addr, err := dirnav.Parse("HOME~/[0]", "HOME")
	require.NoError(t, err)
	require.Len(t, addr.Tokens, 2)
	assert.Equal(t, dirnav.OneFromRoot, addr.Tokens[0].Kind)
	assert.Equal(t, "HOME~", addr.Tokens[0].Raw)

	_, err = dirnav.Parse("RTN/[0]", "HOME")
	require.ErrorIs(t, err, dirnav.ErrMalformedAddress)

	// The longer of two overlapping markers wins.
	addr, err = dirnav.Parse("DLX/[0]", "DL", "DLX")
	require.NoError(t, err)
	assert.Equal(t, "DLX", addr.Tokens[0].Raw)
}

func TestParse_DefaultMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		head    dirnav.Token
	}{
		{"RTN/[0]", dirnav.Token{Kind: dirnav.Root, Raw: "RTN"}},
		{"DNL~/[0]", dirnav.Token{Kind: dirnav.OneFromRoot, Raw: "DNL~"}},
		{"DL/[0]", dirnav.Token{Kind: dirnav.Root, Raw: "DL"}},
		{"DL./[0]", dirnav.Token{Kind: dirnav.ChildByIndex, Index: 0, Raw: "[0]"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.address, func(t *testing.T) {
			t.Parallel()

			addr, err := dirnav.Parse(testCase.address)
			require.NoError(t, err)
			assert.Equal(t, testCase.head, addr.Tokens[0])
		})
	}

	assert.Equal(t, []string{"RTN", "DNL", "DL"}, dirnav.DefaultMarkers())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		address  string
		start    int
		expected int
	}{
		{"grandchild by index", "RTN/[0]/[1]", 5, 3},
		{"root from itself", "RTN/[1]", 0, 4},
		{"nearest root wins", "RTN/[0]", 7, 7},
		{"one from root", "RTN~/[0]", 2, 2},
		{"one from root on level zero", "DNL~/[0]", 6, 5},
		{"key strips markers", "RTN/[0]/[Two]", 0, 3},
		{"key is a prefix", "RTN/[Be]/[Th]", 1, 5},
		{"parent then child", "RTN./../[1]", 2, 3},
		{"self reference only", "RTN./.", 5, 5},
		{"trailing separator", "RTN/[1]/", 0, 4},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := dirnav.Resolve(fixture(), testCase.address, testCase.start, false)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, result.LineIndex)
			assert.False(t, result.Validated)
		})
	}
}

func TestResolve_Spans(t *testing.T) {
	t.Parallel()

	lines := fixture()
	result, err := dirnav.Resolve(lines, "RTN/[0]/[1]", 5, false)
	require.NoError(t, err)

	assert.Equal(t, dirnav.Result{
		LineIndex:            3,
		LeadingWhitespaceLen: 2,
		ContentLen:           len("- Two"),
		Offset:               len("Notes\n\tAlpha\n\t\tOne\n") + 2,
	}, result)

	document := strings.Join(lines, "\n")
	assert.Equal(t, "- Two", document[result.Offset:result.Offset+result.ContentLen])
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lines   []string
		address string
		start   int
		kind    error
		token   string
		line    int
	}{
		{"index past last child", fixture(), "RTN/[5]", 0, dirnav.ErrChildIndexExhausted, "[5]", 0},
		{"parent of level zero", fixture(), "RTN./..", 0, dirnav.ErrInvalidIndentLevel, "..", 0},
		{"parent after root", fixture(), "RTN/..", 3, dirnav.ErrInvalidIndentLevel, "..", 0},
		{"no level one line above", fixture(), "RTN~/[0]", 0, dirnav.ErrParentNotFound, "RTN~", 0},
		{"key is case sensitive", fixture(), "RTN/[0]/[two]", 0, dirnav.ErrChildKeyExhausted, "[two]", 1},
		{"key only searches own subtree", fixture(), "RTN/[Beta]", 7, dirnav.ErrChildKeyExhausted, "[Beta]", 6},
		{"leaf has no children", fixture(), "RTN./[0]", 2, dirnav.ErrChildIndexExhausted, "[0]", 2},
		{"child scan stops at end", fixture(), "RTN./[1]", 6, dirnav.ErrChildIndexExhausted, "[1]", 6},
		{"no line at parent level", []string{"A", "\t\t\tB"}, "RTN./..", 1, dirnav.ErrParentNotFound, "..", 1},
		{"no root above", []string{"\tA", "\t\tB"}, "RTN/[0]", 1, dirnav.ErrParentNotFound, "RTN", 1},
		{"start past end", fixture(), "RTN/[0]", 99, dirnav.ErrStartOutOfRange, "RTN/[0]", 99},
		{"negative start", fixture(), "RTN/[0]", -1, dirnav.ErrStartOutOfRange, "RTN/[0]", -1},
		{"empty document", nil, "RTN/[0]", 0, dirnav.ErrStartOutOfRange, "RTN/[0]", 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := dirnav.Resolve(testCase.lines, testCase.address, testCase.start, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.kind)

			var navErr *dirnav.NavError
			require.ErrorAs(t, err, &navErr)
			assert.Equal(t, testCase.token, navErr.Token)
			assert.Equal(t, testCase.line, navErr.Line)
		})
	}
}

// Ancestor searches pass over shallower lines and only fail at the top of
// the document.
func TestResolve_AncestorPassesShallowerLines(t *testing.T) {
	t.Parallel()

	lines := []string{"R", "\tP", "Q", "\t\tX"}

	tests := []struct {
		address string
		start   int
	}{
		{"RTN~/.", 2},
		{"RTN./..", 3},
		{"RTN~/.", 3},
		{"DL~/.", 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.address, func(t *testing.T) {
			t.Parallel()

			result, err := dirnav.Resolve(lines, testCase.address, testCase.start, false)
			require.NoError(t, err)
			assert.Equal(t, 1, result.LineIndex)
		})
	}
}

func TestResolver_CustomMarkerAndUnit(t *testing.T) {
	t.Parallel()

	resolver := dirnav.Resolver{Markers: []string{"HOME"}, Unit: '>'}
	lines := []string{"top", ">mid", ">>leaf"}

	result, err := resolver.Resolve(lines, "HOME/[0]/[leaf]", 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.LineIndex)

	_, err = resolver.Resolve(lines, "RTN/[0]", 0, false)
	assert.ErrorIs(t, err, dirnav.ErrMalformedAddress)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	lines := fixture()
	require.NoError(t, dirnav.Validate(lines, "RTN/[0]/[1]", 5))
	assert.ErrorIs(t, dirnav.Validate(lines, "RTN/[5]", 0), dirnav.ErrChildIndexExhausted)

	result, err := dirnav.Resolve(lines, "RTN/[1]", 0, true)
	require.NoError(t, err)
	assert.Equal(t, dirnav.Result{LineIndex: 4, Validated: true}, result)
}

var addressParts = []string{"/..", "/.", "/[0]", "/[1]", "/[2]", "/[7]", "/[One]", "/[Z]"}

func randomAddress(rng *rand.Rand) string {
	var sb strings.Builder
	sb.WriteString([]string{"RTN", "DNL~", "DL."}[rng.IntN(3)])
	for range 1 + rng.IntN(4) {
		sb.WriteString(addressParts[rng.IntN(len(addressParts))])
	}
	return sb.String()
}

func randomLines(rng *rand.Rand) []string {
	lines := make([]string, rng.IntN(12))
	for i := range lines {
		lines[i] = strings.Repeat("\t", rng.IntN(4)) + []string{"One", "Two", "", "- One"}[rng.IntN(4)]
	}
	return lines
}

func TestResolve_BoundsSafety(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	for range 500 {
		lines := randomLines(rng)
		address := randomAddress(rng)
		start := rng.IntN(len(lines)+2) - 1

		result, err := dirnav.Resolve(lines, address, start, false)
		if err != nil {
			var navErr *dirnav.NavError
			require.ErrorAs(t, err, &navErr, "address %q", address)
			continue
		}
		assert.GreaterOrEqual(t, result.LineIndex, 0)
		assert.Less(t, result.LineIndex, len(lines))
	}
}

func TestValidate_Purity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 4))
	for range 300 {
		lines := randomLines(rng)
		before := slices.Clone(lines)
		address := randomAddress(rng)
		start := rng.IntN(len(lines) + 1)

		validateErr := dirnav.Validate(lines, address, start)
		assert.Equal(t, before, lines)

		resolved, resolveErr := dirnav.Resolve(lines, address, start, false)
		assert.Equal(t, validateErr == nil, resolveErr == nil, "address %q", address)
		if validateErr != nil {
			assert.True(t, errors.Is(resolveErr, errors.Unwrap(validateErr)))
			continue
		}

		validated, err := dirnav.Resolve(lines, address, start, true)
		require.NoError(t, err)
		assert.Equal(t, resolved.LineIndex, validated.LineIndex)
	}
}

func TestDecorate(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Notes",
		"\tsee RTN/[1] and DNL/[9]",
		"\tBeta",
		"\tno links here",
	}

	links := dirnav.Decorate(lines)
	require.Len(t, links, 2)

	assert.Equal(t, "RTN/[1]", links[0].Address)
	assert.Equal(t, 1, links[0].Line)
	assert.Equal(t, 4, links[0].Start)
	assert.Equal(t, 11, links[0].End)
	assert.True(t, links[0].Valid)
	assert.Equal(t, 2, links[0].Target)
	require.NoError(t, links[0].Err)

	assert.Equal(t, "DNL/[9]", links[1].Address)
	assert.Equal(t, 16, links[1].Start)
	assert.False(t, links[1].Valid)
	assert.Equal(t, -1, links[1].Target)
	require.ErrorIs(t, links[1].Err, dirnav.ErrChildIndexExhausted)
	assert.NotEmpty(t, links[1].Reason)
}

func TestResolver_FindLinksCustomMarkers(t *testing.T) {
	t.Parallel()

	resolver := dirnav.Resolver{Markers: []string{"HOME", "RTN"}}
	links := resolver.FindLinks([]string{"HOME/[0] RTN/[0] DNL/[0]"})

	var found []string
	for _, link := range links {
		found = append(found, link.Address)
	}
	assert.Equal(t, []string{"HOME/[0]", "RTN/[0]"}, found)
}

func TestFindLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line     string
		expected []string
	}{
		{"RTN./../[2] tail", []string{"RTN./../[2]"}},
		{"RTN~/[a b]/[c]/ after", []string{"RTN~/[a b]/[c]/"}},
		{"RTN.txt and RTN", nil},
		{"x RTN/[0]RTN/[1]", []string{"RTN/[0]", "RTN/[1]"}},
		{"DL/[0] then DNL~/[1]", []string{"DL/[0]", "DNL~/[1]"}},
		{"ROOT/[0]", nil},
	}

	for _, testCase := range tests {
		t.Run(testCase.line, func(t *testing.T) {
			t.Parallel()

			var found []string
			for _, link := range dirnav.FindLinks([]string{testCase.line}) {
				found = append(found, link.Address)
			}
			assert.Equal(t, testCase.expected, found)
		})
	}
}
