package tree_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/tree"
)

func classify(entries ...outline.Entry) tree.Grid {
	return tree.Classify(tree.Build(entries))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	grid := tree.Build([]outline.Entry{
		{Level: 0, Content: "A"},
		{Level: 2, Content: ""},
	})

	require.Len(t, grid.Rows, 2)
	assert.Equal(t, []tree.Cell{{Kind: tree.Data, Payload: "A"}}, grid.Rows[0])
	assert.Equal(t, []tree.Cell{
		{Kind: tree.Unresolved},
		{Kind: tree.Unresolved},
		{Kind: tree.Blank},
	}, grid.Rows[1])
}

func TestAccess(t *testing.T) {
	t.Parallel()

	grid := tree.Build([]outline.Entry{{Level: 1, Content: "A"}})

	assert.Equal(t, tree.Unresolved, grid.Access(0, 0))
	assert.Equal(t, tree.Data, grid.Access(0, 1))
	assert.Equal(t, tree.OutOfBounds, grid.Access(0, 2))
	assert.Equal(t, tree.OutOfBounds, grid.Access(1, 0))
	assert.Equal(t, tree.OutOfBounds, grid.Access(-1, 0))
	assert.Equal(t, tree.OutOfBounds, grid.Access(0, -1))
}

func TestClassify_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entries  []outline.Entry
		expected [][]tree.Kind
	}{
		{
			name:    "two children",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}, {Level: 1, Content: "C"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Fork, tree.Data},
				{tree.Bend, tree.Data},
			},
		},
		{
			name:    "trunk continues past nested child",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}, {Level: 2, Content: "C"}, {Level: 1, Content: "D"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Fork, tree.Data},
				{tree.Line, tree.Bend, tree.Data},
				{tree.Bend, tree.Data},
			},
		},
		{
			name:    "closed branch leaves a gap",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}, {Level: 2, Content: "C"}, {Level: 2, Content: "D"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Bend, tree.Data},
				{tree.Gap, tree.Fork, tree.Data},
				{tree.Gap, tree.Bend, tree.Data},
			},
		},
		{
			name:    "blank line keeps the trunk open",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}, {Level: 1, Content: ""}, {Level: 1, Content: "C"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Fork, tree.Data},
				{tree.Line, tree.Blank},
				{tree.Bend, tree.Data},
			},
		},
		{
			name:    "separate roots",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}, {Level: 0, Content: "C"}, {Level: 1, Content: "D"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Bend, tree.Data},
				{tree.Data},
				{tree.Bend, tree.Data},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			grid := classify(testCase.entries...)
			assert.Equal(t, testCase.expected, grid.Kinds())
			assert.Empty(t, grid.Defects)
		})
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	built := tree.Build([]outline.Entry{{Level: 0, Content: "A"}, {Level: 1, Content: "B"}})
	_ = tree.Classify(built)

	assert.Equal(t, tree.Unresolved, built.Access(1, 0))
}

func TestClassify_DefectsBecomeGaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entries  []outline.Entry
		expected [][]tree.Kind
		defects  []tree.Position
	}{
		{
			name:     "blank first line with indentation",
			entries:  []outline.Entry{{Level: 1, Content: ""}},
			expected: [][]tree.Kind{{tree.Gap, tree.Blank}},
			defects:  []tree.Position{{Row: 0, Col: 0}},
		},
		{
			name:    "level jump under data",
			entries: []outline.Entry{{Level: 0, Content: "A"}, {Level: 2, Content: "B"}},
			expected: [][]tree.Kind{
				{tree.Data},
				{tree.Gap, tree.Bend, tree.Data},
			},
			defects: []tree.Position{{Row: 1, Col: 0}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			grid := classify(testCase.entries...)
			assert.Equal(t, testCase.expected, grid.Kinds())
			assert.Equal(t, testCase.defects, grid.Defects)
		})
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	document := "A\n\tB\n\t\tC\n\tD"
	result := tree.RenderText(document, tree.DefaultOptions())

	expected := strings.Join([]string{
		"A",
		"├── B",
		"│   └── C",
		"└── D",
	}, "\n")
	assert.Equal(t, expected, result.Text)
	assert.Len(t, result.Entries, 4)
}

func TestRenderText_Wide(t *testing.T) {
	t.Parallel()

	result := tree.RenderText("A\n\tB\n\tC", tree.Options{Glyphs: tree.Wide()})

	assert.Equal(t, "A\n├────── B\n└────── C", result.Text)
	assert.Equal(t, "A\n├── B\n└── C", tree.Shrink(result.Text))
}

func TestRenderText_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		expected string
	}{
		{"empty", "", ""},
		{"single newline", "\n", "\n"},
		{"only indentation", "\t\t\t", "            "},
		{"blank line inside trunk", "A\n\tB\n\t\n\tC", "A\n├── B\n│   \n└── C"},
		{"trailing newline continues the trunk", "A\n\tB\n\tC\n", "A\n├── B\n├── C\n│"},
		{"blank line under an open branch", "A\n\tB\n\t\tC\n\t\n\tD", "A\n├── B\n│   └── C\n│   │\n└── D"},
		{"blank line under a closed trunk", "A\n\tB\n\t\tC\n\t", "A\n└── B\n    ├── C\n    │"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := tree.RenderText(testCase.document, tree.Options{})
			assert.Equal(t, testCase.expected, result.Text)
		})
	}
}

func TestUnformat_RoundTrip(t *testing.T) {
	t.Parallel()

	documents := []string{
		"Root\n\tAlpha\n\t\tOne\n\t\n\t\tTwo\n\tBeta\n\t\t\tDeep\nOther\n\tLeaf",
		"A\n\tB\n\tC\n",
		"A\n\tB\n\t\tC\n\t\n\n\tD\n\n",
		"A\n\n\tB",
	}

	for _, document := range documents {
		original := outline.ToLines(document, outline.DefaultUnit)

		for _, glyphs := range []tree.Glyphs{tree.Narrow(), tree.Wide(), tree.Narrow().Marked(), tree.Wide().Marked()} {
			rendered := tree.RenderText(document, tree.Options{Glyphs: glyphs}).Text

			raw := tree.Unformat(rendered, glyphs, outline.DefaultUnit)
			assert.Equal(t, original, outline.ToLines(raw, outline.DefaultUnit), "%q", rendered)

			auto := tree.UnformatAuto(rendered, outline.DefaultUnit)
			assert.Equal(t, original, outline.ToLines(auto, outline.DefaultUnit), "%q", rendered)
		}
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tree.Narrow(), tree.Detect("A\n├── B\n└── C"))
	assert.Equal(t, tree.Wide(), tree.Detect("A\n├────── B\n└────── C"))
	assert.Equal(t, tree.Narrow().Marked(), tree.Detect("A\n└── "+tree.Marker+"B"))
}

func TestHasGlyphs(t *testing.T) {
	t.Parallel()

	assert.True(t, tree.HasGlyphs("A\n└── B"))
	assert.True(t, tree.HasGlyphs("A\n    │   x"))
	assert.False(t, tree.HasGlyphs("A\n\tB"))
}

// randomOutline generates a well formed outline: every line is at most one
// level deeper than the line above it. About one line in five is blank, and
// a blank line is never deeper than the line above it. Some outlines end in
// blank lines.
func randomOutline(rng *rand.Rand, size int) []outline.Entry {
	entries := make([]outline.Entry, 0, size+2)
	level := 0
	for i := range size {
		switch {
		case i == 0:
			level = 0
		case rng.IntN(5) == 0:
			level = rng.IntN(level + 1)
			entries = append(entries, outline.Entry{Level: level})
			continue
		default:
			level = rng.IntN(level + 2)
		}
		entries = append(entries, outline.Entry{Level: level, Content: "n" + strings.Repeat("x", rng.IntN(3))})
	}
	for range rng.IntN(3) {
		level = rng.IntN(level + 1)
		entries = append(entries, outline.Entry{Level: level})
	}
	return entries
}

func TestClassify_RowWidthInvariant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		entries := randomOutline(rng, 1+rng.IntN(40))
		grid := classify(entries...)

		require.Len(t, grid.Rows, len(entries))
		for i, row := range grid.Rows {
			assert.Len(t, row, entries[i].Level+1)
			for col := range entries[i].Level {
				assert.True(t, row[col].Kind.IsConnector(), "row %d col %d is %s", i, col, row[col].Kind)
			}
			assert.True(t, row[entries[i].Level].Kind.IsTerminal())
		}
		assert.Empty(t, grid.Defects)
	}
}

// lastChildKind is the connector expected for the last child of a parent at
// level-1. The branch stays open when the first line after the child that is
// shallower than it is a blank line at the parent's level.
func lastChildKind(entries []outline.Entry, child int) tree.Kind {
	level := entries[child].Level
	for _, next := range entries[child+1:] {
		if next.Level >= level {
			continue
		}
		if next.Content == "" && next.Level == level-1 {
			return tree.Fork
		}
		break
	}
	return tree.Bend
}

func TestClassify_BendUniqueness(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		entries := randomOutline(rng, 1+rng.IntN(40))
		grid := classify(entries...)

		children := map[int][]int{}
		for i, entry := range entries {
			if entry.Level == 0 || entry.Content == "" {
				continue
			}
			for p := i - 1; p >= 0; p-- {
				if entries[p].Level == entry.Level-1 && entries[p].Content != "" {
					children[p] = append(children[p], i)
					break
				}
			}
		}

		for parent, rows := range children {
			col := entries[parent].Level
			for idx, row := range rows {
				want := tree.Fork
				if idx == len(rows)-1 {
					want = lastChildKind(entries, row)
				}
				assert.Equal(t, want, grid.Access(row, col), "parent %d child row %d", parent, row)
			}
		}
	}
}

func TestRender_BlankRowsContinueConnectors(t *testing.T) {
	t.Parallel()

	glyphs := tree.Narrow()
	rng := rand.New(rand.NewPCG(3, 5))
	for range 50 {
		entries := randomOutline(rng, 1+rng.IntN(40))
		grid := classify(entries...)

		for i, entry := range entries {
			if entry.Content != "" {
				continue
			}
			above := i - 1
			for above >= 0 && entries[above].Content == "" && entries[above].Level == entry.Level {
				above--
			}

			open := false
			if above >= 0 && entries[above].Level > entry.Level {
				kind := grid.Access(above, entry.Level)
				open = kind == tree.Line || kind == tree.Fork
			}

			rendered := tree.RenderRow(grid, i, glyphs)
			prefix := tree.Render(tree.Grid{Rows: [][]tree.Cell{grid.Rows[i][:entry.Level]}}, glyphs)
			if open {
				assert.Equal(t, prefix+glyphs.Bar, rendered, "row %d", i)
			} else {
				assert.Equal(t, prefix, rendered, "row %d", i)
			}
		}
	}
}

func TestContinuation(t *testing.T) {
	t.Parallel()

	grid := tree.Grid{Rows: [][]tree.Cell{
		{{Kind: tree.Data, Payload: "A"}},
		{{Kind: tree.Fork}, {Kind: tree.Data, Payload: "B"}},
		{{Kind: tree.Line}, {Kind: tree.Bend}, {Kind: tree.Data, Payload: "C"}},
		{{Kind: tree.Line}, {Kind: tree.Blank}},
		{{Kind: tree.Line}, {Kind: tree.Gap}, {Kind: tree.Blank}},
		{{Kind: tree.Blank}},
		{{Kind: tree.Blank}},
	}}

	tests := []struct {
		name     string
		row, col int
		expected tree.Kind
	}{
		{"connector is itself", 2, 0, tree.Line},
		{"blank under bend", 3, 1, tree.Gap},
		{"blank under gap", 4, 2, tree.Blank},
		{"blank under line", 5, 0, tree.Line},
		{"blank under blank", 6, 0, tree.Line},
		{"data is itself", 1, 1, tree.Data},
		{"out of bounds", 7, 0, tree.OutOfBounds},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, grid.Continuation(testCase.row, testCase.col))
		})
	}

	top := tree.Grid{Rows: [][]tree.Cell{{{Kind: tree.Blank}}}}
	assert.Equal(t, tree.Blank, top.Continuation(0, 0))
}

func TestForBlank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "│", tree.Narrow().ForBlank(tree.Line))
	assert.Equal(t, "│"+tree.Marker, tree.Wide().Marked().ForBlank(tree.Line))
	for _, kind := range []tree.Kind{tree.Gap, tree.Blank, tree.Data, tree.OutOfBounds} {
		assert.Empty(t, tree.Narrow().ForBlank(kind), kind)
	}
}

func TestRenderRow(t *testing.T) {
	t.Parallel()

	grid := tree.Grid{Rows: [][]tree.Cell{
		{{Kind: tree.Line}, {Kind: tree.Gap}, {Kind: tree.Bend}, {Kind: tree.Data, Payload: "x"}},
		{{Kind: tree.Line}, {Kind: tree.Blank}},
	}}
	assert.Equal(t, "│       └── x", tree.RenderRow(grid, 0, tree.Narrow()))
	assert.Equal(t, "│   ", tree.RenderRow(grid, 1, tree.Narrow()))
}

func TestParseWidth(t *testing.T) {
	t.Parallel()

	width, err := tree.ParseWidth("")
	require.NoError(t, err)
	assert.Equal(t, tree.WidthNarrow, width)

	width, err = tree.ParseWidth("WIDE")
	require.NoError(t, err)
	assert.Equal(t, tree.WidthWide, width)

	_, err = tree.ParseWidth("huge")
	assert.Error(t, err)
}

func FuzzRenderText(f *testing.F) {
	for _, seed := range []string{"", "\n", "A\n\tB", "\t\t\tx\n\ty\n\n\t\t", "A\r\n\tB\r\n", "A\n\tB\n\tC\n"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, document string) {
		result := tree.RenderText(document, tree.Options{})

		require.Len(t, result.Grid.Rows, len(result.Entries))
		for i, row := range result.Grid.Rows {
			require.Len(t, row, result.Entries[i].Level+1)
			for _, cell := range row[:len(row)-1] {
				require.True(t, cell.Kind.IsConnector())
			}
		}
		assert.Equal(t, len(result.Entries)-1, strings.Count(result.Text, "\n"))
	})
}

func TestLeadingGlyphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		size  int
		count int
	}{
		{"connectors before content", "│       └── x", len("│       └── "), 3},
		{"plain text", "plain", 0, 0},
		{"bar alone", "│", len("│"), 0},
		{"bar after a line", "│   │", len("│   │"), 1},
		{"bar after a bend is content", "└── │", len("└── "), 1},
		{"bar before content is content", "│ x", 0, 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			size, count := tree.LeadingGlyphs(testCase.line, tree.Narrow())
			assert.Equal(t, testCase.size, size)
			assert.Equal(t, testCase.count, count)
		})
	}
}
