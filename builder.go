package tinyrec

import (
	"github.com/reoring/tinyrec/i18n"
)

type typeBuilder struct {
	name   string
	base   *Type
	fields []Field
	// defaults and props hold local declarations only; Build overlays them on
	// the base tables.
	defaults map[string]any
	props    map[string]Property
	issues   Issues
}

type fieldStep struct {
	b    *typeBuilder
	name string
}

// Define starts the declaration of a record type.
//
//	var Person = tinyrec.Define("Person").
//		Field("name", tinyrec.Scalar()).
//		Field("employed", tinyrec.Scalar()).Default(true).
//		MustBuild()
func Define(name string) *typeBuilder {
	b := &typeBuilder{name: name, defaults: map[string]any{}, props: map[string]Property{}}
	if name == "" {
		b.fail("/", "type name must not be empty")
	}
	return b
}

func (b *typeBuilder) fail(path, hint string) {
	b.issues = AppendIssues(b.issues, Issue{Path: path, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: hint})
}

// Extends makes the type inherit the fields, defaults and properties of base.
// Local declarations of the same name take precedence.
func (b *typeBuilder) Extends(base *Type) *typeBuilder {
	if base == nil {
		b.fail("/", "extends a nil type")
		return b
	}
	b.base = base
	return b
}

// Field declares a field with its kind. Redeclaring a name replaces the
// earlier declaration in place.
func (b *typeBuilder) Field(name string, kind FieldKind) *fieldStep {
	switch {
	case name == "":
		b.fail("/", "field name must not be empty")
	case kind.Kind() != KindScalar && kind.Elem() == nil:
		b.fail("/"+name, "nested kind without a record type")
	}
	for i := range b.fields {
		if b.fields[i].Name == name {
			b.fields[i].Kind = kind
			return &fieldStep{b: b, name: name}
		}
	}
	b.fields = append(b.fields, Field{Name: name, Kind: kind})
	return &fieldStep{b: b, name: name}
}

// Default sets the value materialized for the current field at construction.
// The value is captured as-is; mappings given for nested record fields are
// hydrated freshly for every record.
func (f *fieldStep) Default(v any) *typeBuilder {
	f.b.defaults[f.name] = v
	return f.b
}

func (f *fieldStep) Field(name string, kind FieldKind) *fieldStep { return f.b.Field(name, kind) }
func (f *fieldStep) Property(name string, get func(*Record) (any, error), set func(*Record, any) error) *typeBuilder {
	return f.b.Property(name, get, set)
}
func (f *fieldStep) Build() (*Type, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *Type      { return f.b.MustBuild() }

// Property declares a computed attribute. set may be nil for a read-only
// property.
func (b *typeBuilder) Property(name string, get func(*Record) (any, error), set func(*Record, any) error) *typeBuilder {
	if name == "" || get == nil {
		b.fail("/"+name, "property needs a name and a getter")
		return b
	}
	b.props[name] = Property{Name: name, Get: get, Set: set}
	return b
}

// Build composes the base tables with the local declarations and returns the
// immutable Type.
func (b *typeBuilder) Build() (*Type, error) {
	if len(b.issues) > 0 {
		return nil, b.issues
	}
	t := &Type{
		name:     b.name,
		base:     b.base,
		index:    map[string]int{},
		defaults: map[string]any{},
		props:    map[string]Property{},
	}
	if b.base != nil {
		t.fields = b.base.Fields()
		for k, v := range b.base.defaults {
			t.defaults[k] = v
		}
		for k, v := range b.base.props {
			t.props[k] = v
		}
	}
	for i, f := range t.fields {
		t.index[f.Name] = i
	}
	for _, f := range b.fields {
		if i, ok := t.index[f.Name]; ok {
			t.fields[i] = f
			continue
		}
		t.index[f.Name] = len(t.fields)
		t.fields = append(t.fields, f)
	}
	for k, v := range b.defaults {
		t.defaults[k] = v
	}
	for k, p := range b.props {
		t.props[k] = p
	}
	var iss Issues
	for k := range t.props {
		if _, ok := t.index[k]; ok {
			iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeInvalidSchema, Message: i18n.T(CodeInvalidSchema, nil), Hint: "property shadows a declared field"})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *typeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
