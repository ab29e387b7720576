package tinyrec

import (
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	_ j.Marshaler    = (*Record)(nil)
	_ yaml.Marshaler = (*Record)(nil)
)

// MarshalJSON encodes the stored entries as a JSON object in declaration
// order. Nested records encode the same way, so any generic JSON encoder can
// serialize a record graph.
func (r *Record) MarshalJSON() ([]byte, error) { return r.store.MarshalJSON() }

// MarshalYAML encodes the stored entries as an ordered YAML mapping.
func (r *Record) MarshalYAML() (any, error) { return r.store.MarshalYAML() }

// EncodeJSON encodes a record (or any value) with go-json. indent switches to
// two-space indented output.
func EncodeJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return j.MarshalIndent(v, "", "  ")
	}
	return j.Marshal(v)
}

// EncodeYAML encodes a record (or any value) as a YAML document.
func EncodeYAML(v any) ([]byte, error) { return yaml.Marshal(v) }
