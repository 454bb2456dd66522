package configloader

import "github.com/yaklabco/rtn/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil, so an
//     explicit false in a file beats a true below it
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	setString(&result.IndentUnit, override.IndentUnit)
	setString(&result.Color, override.Color)
	setString(&result.Format, override.Format)
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	setBool(&result.Backups, override.Backups)

	setString(&result.Glyphs.Width, override.Glyphs.Width)
	setBool(&result.Glyphs.Marked, override.Glyphs.Marked)

	if override.Nav.RootMarkers != nil {
		result.Nav.RootMarkers = override.Nav.RootMarkers
	}

	setString(&result.Share.BaseURL, override.Share.BaseURL)
	setString(&result.Share.Compression, override.Share.Compression)
	setString(&result.Share.Encoding, override.Share.Encoding)
	if override.Share.MaxURILength != 0 {
		result.Share.MaxURILength = override.Share.MaxURILength
	}

	if override.Watch.Debounce != 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}

	setString(&result.Import.Flavor, override.Import.Flavor)
	setBool(&result.Import.Bullets, override.Import.Bullets)
	setBool(&result.Import.CodeLabels, override.Import.CodeLabels)

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setBool(dst **bool, value *bool) {
	if value != nil {
		*dst = config.Bool(*value)
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
