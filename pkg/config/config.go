// Package config defines the configuration types for rtn.
// These types are pure data structures; loading and merging lives in
// internal/configloader.
package config

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/yaklabco/rtn/pkg/codec"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/importer"
	"github.com/yaklabco/rtn/pkg/share"
	"github.com/yaklabco/rtn/pkg/tree"
)

// Indentation unit names accepted by indent_unit besides a single character.
const (
	UnitTab   = "tab"
	UnitSpace = "space"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// GlyphsConfig selects the connector glyph set.
type GlyphsConfig struct {
	// Width is "narrow" or "wide".
	Width string `yaml:"width,omitempty" toml:"width,omitempty"`

	// Marked appends the invisible marker to every connector.
	Marked *bool `yaml:"marked,omitempty" toml:"marked"`
}

// NavConfig configures DirNav addresses.
type NavConfig struct {
	// RootMarkers are the words an address may start with.
	RootMarkers MarkerList `yaml:"root_marker,omitempty" toml:"root_marker,omitempty"`
}

// ShareConfig configures share links.
type ShareConfig struct {
	BaseURL      string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Compression  string `yaml:"compression,omitempty" toml:"compression,omitempty"`
	Encoding     string `yaml:"encoding,omitempty" toml:"encoding,omitempty"`
	MaxURILength int    `yaml:"max_uri_length,omitempty" toml:"max_uri_length,omitempty"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty" toml:"debounce,omitempty"`
}

// ImportConfig configures Markdown import.
type ImportConfig struct {
	// Flavor is "commonmark" or "gfm".
	Flavor string `yaml:"flavor,omitempty" toml:"flavor,omitempty"`

	// Bullets keeps a "- " prefix on unordered list items.
	Bullets *bool `yaml:"bullets,omitempty" toml:"bullets"`

	// CodeLabels nests each code block under a line naming its language.
	CodeLabels *bool `yaml:"code_labels,omitempty" toml:"code_labels"`
}

// Config is the root configuration structure for rtn.
type Config struct {
	// IndentUnit is "tab", "space", or a single character.
	IndentUnit string `yaml:"indent_unit,omitempty" toml:"indent_unit,omitempty"`

	Glyphs GlyphsConfig `yaml:"glyphs,omitempty" toml:"glyphs,omitempty"`
	Nav    NavConfig    `yaml:"nav,omitempty" toml:"nav,omitempty"`
	Share  ShareConfig  `yaml:"share,omitempty" toml:"share,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty" toml:"watch,omitempty"`
	Import ImportConfig `yaml:"import,omitempty" toml:"import,omitempty"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color,omitempty" toml:"color,omitempty"`

	// Backups creates a sidecar backup before fmt --write replaces a file.
	Backups *bool `yaml:"backups,omitempty" toml:"backups"`

	// Extensions are the file extensions check and fmt discover.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format is the output format.
	Format string `yaml:"-" toml:"-"`

	// Jobs is the number of parallel workers. Zero means GOMAXPROCS.
	Jobs int `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		IndentUnit: UnitTab,
		Glyphs: GlyphsConfig{
			Width:  string(tree.WidthNarrow),
			Marked: Bool(false),
		},
		Nav: NavConfig{RootMarkers: dirnav.DefaultMarkers()},
		Share: ShareConfig{
			Compression:  codec.LZMA2,
			Encoding:     codec.URIB64,
			MaxURILength: share.MaxURILength,
		},
		Watch:   WatchConfig{Debounce: DefaultDebounce},
		Import: ImportConfig{
			Flavor:     importer.FlavorGFM,
			Bullets:    Bool(false),
			CodeLabels: Bool(false),
		},
		Color:   ColorAuto,
		Backups: Bool(true),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// ParseUnit converts an indent_unit value to a rune.
func ParseUnit(value string) (rune, error) {
	switch value {
	case "", UnitTab:
		return '\t', nil
	case UnitSpace:
		return ' ', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("invalid indent unit %q; use tab, space or a single character", value)
	}
	unit, _ := utf8.DecodeRuneInString(value)
	if unit == '\n' || unit == '\r' {
		return 0, fmt.Errorf("invalid indent unit %q; line breaks cannot indent", value)
	}
	return unit, nil
}

// Unit returns the indentation unit. An invalid value gives tab; Validate
// reports it.
func (c *Config) Unit() rune {
	unit, err := ParseUnit(c.IndentUnit)
	if err != nil {
		return '\t'
	}
	return unit
}

// GlyphSet returns the configured connector glyphs.
func (c *Config) GlyphSet() tree.Glyphs {
	width, err := tree.ParseWidth(c.Glyphs.Width)
	if err != nil {
		width = tree.WidthNarrow
	}
	return tree.GlyphsFor(width, deref(c.Glyphs.Marked))
}

// RenderOptions returns the tree options for the configuration.
func (c *Config) RenderOptions() tree.Options {
	return tree.Options{Unit: c.Unit(), Glyphs: c.GlyphSet()}
}

// Resolver returns the DirNav resolver for the configuration.
func (c *Config) Resolver() dirnav.Resolver {
	return dirnav.Resolver{Markers: c.Nav.RootMarkers, Unit: c.Unit()}
}

// Linker returns the share linker for the configuration.
func (c *Config) Linker() share.Linker {
	linker := share.DefaultLinker()
	if c.Share.Compression != "" {
		linker.Compression = c.Share.Compression
	}
	if c.Share.Encoding != "" {
		linker.Encoding = c.Share.Encoding
	}
	if c.Share.MaxURILength > 0 {
		linker.MaxLength = c.Share.MaxURILength
	}
	return linker
}

// ImporterOptions returns the Markdown import options.
func (c *Config) ImporterOptions() importer.Options {
	return importer.Options{
		Flavor:     c.Import.Flavor,
		Unit:       c.Unit(),
		Bullets:    deref(c.Import.Bullets),
		CodeLabels: deref(c.Import.CodeLabels),
	}
}

// BackupsEnabled reports whether fmt --write keeps backups.
func (c *Config) BackupsEnabled() bool {
	return c.Backups == nil || *c.Backups
}

func deref(b *bool) bool {
	return b != nil && *b
}
