package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarkerList holds the DirNav root markers. Files may give a single marker
// as a plain string or several as a list.
type MarkerList []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (m *MarkerList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var marker string
		if err := value.Decode(&marker); err != nil {
			return fmt.Errorf("root marker: %w", err)
		}
		*m = MarkerList{marker}
		return nil
	case yaml.SequenceNode:
		var markers []string
		if err := value.Decode(&markers); err != nil {
			return fmt.Errorf("root markers: %w", err)
		}
		*m = markers
		return nil
	default:
		return fmt.Errorf("line %d: root_marker must be a string or a list of strings", value.Line)
	}
}

// UnmarshalTOML accepts a string or an array of strings.
func (m *MarkerList) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*m = MarkerList{v}
		return nil
	case []any:
		markers := make(MarkerList, 0, len(v))
		for i, item := range v {
			marker, ok := item.(string)
			if !ok {
				return fmt.Errorf("root_marker[%d] must be a string, got %T", i, item)
			}
			markers = append(markers, marker)
		}
		*m = markers
		return nil
	default:
		return fmt.Errorf("root_marker must be a string or an array of strings, got %T", data)
	}
}
