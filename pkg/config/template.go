package config

import (
	"fmt"
	"strings"
)

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// templateEntry is one documented setting of the generated template.
type templateEntry struct {
	section string
	key     string
	value   string
	doc     string
}

//nolint:gochecknoglobals // Read-only template table.
var templateEntries = []templateEntry{
	{key: "indent_unit", value: `"tab"`, doc: "Indentation unit: tab, space, or a single character."},
	{key: "color", value: `"auto"`, doc: "Colorized output: auto, always or never."},
	{key: "backups", value: "true", doc: "Keep a .rtn.bak copy when fmt --write replaces a file."},
	{key: "extensions", value: `[".txt", ".outline", ".tree"]`, doc: "Extensions that check and fmt discover."},
	{key: "ignore", value: `["vendor/**"]`, doc: "Glob patterns of files to skip."},
	{section: "glyphs", key: "width", value: `"narrow"`, doc: "Connector width: narrow or wide."},
	{section: "glyphs", key: "marked", value: "false", doc: "Append an invisible marker so pasted diagrams unformat exactly."},
	{section: "nav", key: "root_marker", value: `["RTN", "DNL", "DL"]`, doc: "Words that start a DirNav address; one string or a list."},
	{section: "share", key: "base_url", value: `""`, doc: "Viewer URL that share links point at."},
	{section: "share", key: "compression", value: `"LZMA2"`, doc: "Compression for new links: LZMA2 or ZLIB."},
	{section: "share", key: "encoding", value: `"URI-B64"`, doc: "Token encoding for new links."},
	{section: "share", key: "max_uri_length", value: "8192", doc: "Longest link share encode produces."},
	{section: "watch", key: "debounce", value: `"150ms"`, doc: "How long watch waits for writes to settle."},
	{section: "import", key: "flavor", value: `"gfm"`, doc: "Markdown flavor for import: commonmark or gfm."},
	{section: "import", key: "bullets", value: "false", doc: `Keep a "- " prefix on imported list items.`},
	{section: "import", key: "code_labels", value: "false", doc: "Nest imported code blocks under a line naming their language."},
}

// GenerateTemplate returns a commented configuration file holding the
// defaults, in YAML or TOML.
func GenerateTemplate(format string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(DefaultTemplateHeader())
	sb.WriteString("\n")

	switch format {
	case TemplateYAML, "":
		writeYAMLTemplate(&sb)
	case TemplateTOML:
		writeTOMLTemplate(&sb)
	default:
		return nil, fmt.Errorf("invalid template format %q: must be yaml or toml", format)
	}
	return []byte(sb.String()), nil
}

func writeYAMLTemplate(sb *strings.Builder) {
	section := ""
	for _, entry := range templateEntries {
		indent := ""
		if entry.section != "" {
			indent = strings.Repeat(" ", YAMLIndent())
			if entry.section != section {
				fmt.Fprintf(sb, "\n%s:\n", entry.section)
				section = entry.section
			}
		}
		fmt.Fprintf(sb, "%s# %s\n%s%s: %s\n", indent, entry.doc, indent, entry.key, entry.value)
	}
}

func writeTOMLTemplate(sb *strings.Builder) {
	section := ""
	for _, entry := range templateEntries {
		if entry.section != section {
			fmt.Fprintf(sb, "\n[%s]\n", entry.section)
			section = entry.section
		}
		fmt.Fprintf(sb, "# %s\n%s = %s\n", entry.doc, entry.key, entry.value)
	}
}

// DefaultTemplateHeader returns the comment block that opens a generated
// configuration file.
func DefaultTemplateHeader() string {
	return "# rtn configuration\n# Precedence: flags > RTN_* environment > this file > user > system.\n"
}
