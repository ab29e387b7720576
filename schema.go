package tinyrec

import (
	"slices"

	js "github.com/reoring/tinyrec/jsonschema"
)

// Type is a registered record type: an ordered table of declared fields,
// their defaults and the computed properties available on its records.
// A Type is immutable once built and may be shared between goroutines.
type Type struct {
	name     string
	base     *Type
	fields   []Field
	index    map[string]int
	defaults map[string]any
	props    map[string]Property
}

// Field is one entry of a record type's schema.
type Field struct {
	Name string
	Kind FieldKind
}

// Property is a computed attribute. Set is optional; without it the property
// is read-only.
type Property struct {
	Name string
	Get  func(r *Record) (any, error)
	Set  func(r *Record, v any) error
}

// Name returns the type name used in display output and errors.
func (t *Type) Name() string { return t.name }

// Base returns the type this one extends, or nil.
func (t *Type) Base() *Type { return t.base }

// IsA reports whether t is other or derives from it.
func (t *Type) IsA(other *Type) bool {
	for c := t; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}

// Fields returns the declared fields in declaration order, inherited fields
// first.
func (t *Type) Fields() []Field { return slices.Clone(t.fields) }

// FieldNames returns the declared field names in declaration order.
func (t *Type) FieldNames() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a declared field by name.
func (t *Type) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// Default returns the declared default for a field, if any.
func (t *Type) Default(name string) (any, bool) {
	v, ok := t.defaults[name]
	return v, ok
}

// Property looks up a computed property by name.
func (t *Type) Property(name string) (Property, bool) {
	p, ok := t.props[name]
	return p, ok
}

// PropertyNames returns the computed property names, sorted.
func (t *Type) PropertyNames() []string {
	out := make([]string, 0, len(t.props))
	for k := range t.props {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// JSONSchema projects the record type to a JSON Schema object. Nested record
// types are inlined; unknown keys are allowed since construction ignores them.
func (t *Type) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(t.fields))
	for _, f := range t.fields {
		var ps *js.Schema
		switch f.Kind.Kind() {
		case KindRecord:
			ps = f.Kind.Elem().JSONSchema()
		case KindRecordList:
			ps = &js.Schema{Type: "array", Items: f.Kind.Elem().JSONSchema()}
		default:
			ps = &js.Schema{}
		}
		if dv, ok := t.defaults[f.Name]; ok {
			ps.Default = dv
		}
		props[f.Name] = ps
	}
	return &js.Schema{
		Title:                t.name,
		Type:                 "object",
		Properties:           props,
		PropertyOrder:        t.FieldNames(),
		AdditionalProperties: true,
	}
}
