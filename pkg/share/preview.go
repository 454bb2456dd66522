package share

import (
	"strings"

	"github.com/yaklabco/rtn/pkg/tree"
)

// Preview is the summary shown when a link is unfurled.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewPreview splits pulled text into a title, its first line, and a
// description, the rest with glyphs in the narrow form.
func NewPreview(pulled string) Preview {
	shrunk := tree.Shrink(pulled)
	title, rest, _ := strings.Cut(shrunk, "\n")
	return Preview{
		Title:       strings.TrimSpace(title),
		Description: rest,
	}
}
