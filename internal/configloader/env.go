package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/rtn/pkg/config"
)

// envVarPrefix is the prefix for all rtn environment variables.
const envVarPrefix = "RTN_"

// envMapping binds one environment variable to a config field.
type envMapping struct {
	suffix string
	field  string
	help   string
	set    func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = []envMapping{
	{"INDENT_UNIT", "indent_unit", "Indentation unit: tab, space, or one character",
		stringField(func(c *config.Config) *string { return &c.IndentUnit })},
	{"GLYPHS_WIDTH", "glyphs.width", "Connector width: narrow or wide",
		stringField(func(c *config.Config) *string { return &c.Glyphs.Width })},
	{"GLYPHS_MARKED", "glyphs.marked", "Append the invisible marker: true or false",
		boolField(func(c *config.Config) **bool { return &c.Glyphs.Marked })},
	{"NAV_ROOT_MARKER", "nav.root_marker", "Comma-separated words that start DirNav addresses",
		sliceField(func(c *config.Config) *[]string { return (*[]string)(&c.Nav.RootMarkers) })},
	{"SHARE_BASE_URL", "share.base_url", "Viewer URL for share links",
		stringField(func(c *config.Config) *string { return &c.Share.BaseURL })},
	{"SHARE_COMPRESSION", "share.compression", "Share link compression: LZMA2 or ZLIB",
		stringField(func(c *config.Config) *string { return &c.Share.Compression })},
	{"SHARE_ENCODING", "share.encoding", "Share link encoding: URI-B64",
		stringField(func(c *config.Config) *string { return &c.Share.Encoding })},
	{"SHARE_MAX_URI_LENGTH", "share.max_uri_length", "Longest share link produced",
		intField(func(c *config.Config) *int { return &c.Share.MaxURILength })},
	{"WATCH_DEBOUNCE", "watch.debounce", "Watch debounce, e.g. 150ms",
		durationField(func(c *config.Config) *time.Duration { return &c.Watch.Debounce })},
	{"IMPORT_FLAVOR", "import.flavor", "Markdown flavor for import: commonmark or gfm",
		stringField(func(c *config.Config) *string { return &c.Import.Flavor })},
	{"IMPORT_BULLETS", "import.bullets", "Keep list bullets on import: true or false",
		boolField(func(c *config.Config) **bool { return &c.Import.Bullets })},
	{"IMPORT_CODE_LABELS", "import.code_labels", "Label imported code blocks: true or false",
		boolField(func(c *config.Config) **bool { return &c.Import.CodeLabels })},
	{"COLOR", "color", "Colorized output: auto, always or never",
		stringField(func(c *config.Config) *string { return &c.Color })},
	{"BACKUPS", "backups", "Keep backups on fmt --write: true or false",
		boolField(func(c *config.Config) **bool { return &c.Backups })},
	{"EXTENSIONS", "extensions", "Comma-separated extensions to discover",
		sliceField(func(c *config.Config) *[]string { return &c.Extensions })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		sliceField(func(c *config.Config) *[]string { return &c.Ignore })},
	{"FORMAT", "format", "Output format: text, color, json, table, diff or summary",
		stringField(func(c *config.Config) *string { return &c.Format })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intField(func(c *config.Config) *int { return &c.Jobs })},
}

// LoadFromEnv applies RTN_* environment variable overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return LoadFromEnvFunc(cfg, os.Getenv)
}

// LoadFromEnvFunc is LoadFromEnv with a custom variable lookup.
func LoadFromEnvFunc(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for _, mapping := range envMappings {
		envVar := envVarPrefix + mapping.suffix
		value := getenv(envVar)
		if value == "" {
			continue
		}
		if err := mapping.set(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envVar, err)
		}
	}

	return nil
}

func stringField(field func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}
}

func boolField(field func(*config.Config) **bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (expected true/false/1/0)", value)
		}
		*field(cfg) = config.Bool(b)
		return nil
	}
}

func intField(field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*field(cfg) = i
		return nil
	}
}

func durationField(field func(*config.Config) *time.Duration) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%q is not a duration", value)
		}
		*field(cfg) = d
		return nil
	}
}

func sliceField(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = parseSliceValue(value)
		return nil
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for _, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + mapping.suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for _, mapping := range envMappings {
		vars[envVarPrefix+mapping.suffix] = mapping.help
	}
	return vars
}
