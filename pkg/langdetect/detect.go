// Package langdetect guesses the language of a code snippet. The importer
// uses it to label Markdown code blocks whose fence carries no info string.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be told apart with confidence.
const Unknown = "text"

// candidates limits the classifier to languages that commonly appear in
// notes and READMEs.
var candidates = []string{ //nolint:gochecknoglobals // Read-only lookup table.
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "SQL", "JSON", "YAML", "HTML", "CSS", "Dockerfile",
}

// aliases maps enry names to the short tags used in fence info strings.
var aliases = map[string]string{ //nolint:gochecknoglobals // Read-only lookup table.
	"shell":      "sh",
	"javascript": "js",
	"typescript": "ts",
	"c++":        "cpp",
}

// Detect returns a lowercase fence tag for code, or Unknown.
func Detect(code []byte) string {
	code = bytes.TrimSpace(code)
	if len(code) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return tag(lang)
	}
	if lang := byLeadingToken(code); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(code, candidates); safe && lang != "" {
		return tag(lang)
	}
	return Unknown
}

// FromInfo returns the language named by a fence info string such as
// "go" or "python title=x.py", or the empty string.
func FromInfo(info string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	word = strings.Trim(word, "{}.")
	if word == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return tag(lang)
	}
	return strings.ToLower(word)
}

// byLeadingToken catches snippets too short for the classifier whose first
// token settles the question.
func byLeadingToken(code []byte) string {
	first, _, _ := bytes.Cut(code, []byte("\n"))
	switch {
	case bytes.HasPrefix(first, []byte("package ")):
		return "go"
	case bytes.HasPrefix(first, []byte("FROM ")):
		return "dockerfile"
	case bytes.HasPrefix(bytes.ToLower(first), []byte("<!doctype html")):
		return "html"
	case (first[0] == '{' || first[0] == '[') && bytes.Contains(code, []byte(`":`)):
		return "json"
	}

	upper := strings.ToUpper(string(first))
	for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, keyword) {
			return "sql"
		}
	}
	return ""
}

func tag(lang string) string {
	lower := strings.ToLower(lang)
	if short, ok := aliases[lower]; ok {
		return short
	}
	return lower
}
