package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Title   string `json:"title,omitempty"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	// PropertyOrder lists the property names in declaration order; JSON object
	// keys of Properties are emitted sorted.
	PropertyOrder        []string `json:"propertyOrder,omitempty"`
	AdditionalProperties any      `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}
