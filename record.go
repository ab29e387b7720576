package tinyrec

import (
	"github.com/reoring/tinyrec/i18n"
	"github.com/reoring/tinyrec/internal/ordered"
)

// Record is an instance of a record Type: a typed view over an ordered store
// whose keys are always declared fields of the type.
type Record struct {
	typ   *Type
	store *ordered.Map
}

// Arg is a named constructor argument.
type Arg struct {
	Name  string
	Value any
}

// KV builds a named constructor argument.
func KV(name string, value any) Arg { return Arg{Name: name, Value: value} }

type argList []Arg

func (a argList) Keys() []string {
	out := make([]string, len(a))
	for i, it := range a {
		out[i] = it.Name
	}
	return out
}

func (a argList) Get(key string) (any, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Name == key {
			return a[i].Value, true
		}
	}
	return nil, false
}

func (a argList) Len() int { return len(a) }

// New constructs a record from named arguments.
func (t *Type) New(args ...Arg) *Record { return t.fromMapping(argList(args)) }

// From constructs a record from a positional mapping (*Map, map[string]any or
// another *Record). When data is not a mapping the named arguments are used
// instead; when it is, the named arguments are ignored.
func (t *Type) From(data any, args ...Arg) *Record {
	if m, ok := asRawMapping(data); ok {
		return t.fromMapping(m)
	}
	if r, ok := data.(*Record); ok && r != nil {
		return t.fromMapping(r)
	}
	return t.fromMapping(argList(args))
}

// fromMapping runs the construction protocol: defaults are materialized
// first, then every declared key of the input overwrites them. Undeclared
// input keys are ignored.
func (t *Type) fromMapping(in Mapping) *Record {
	r := &Record{typ: t, store: ordered.New(len(t.fields))}
	for _, f := range t.fields {
		if dv, ok := t.defaults[f.Name]; ok {
			r.put(f.Name, f.Kind.resolve(dv))
		}
	}
	for _, f := range t.fields {
		if v, ok := in.Get(f.Name); ok {
			r.put(f.Name, f.Kind.resolve(v))
		}
	}
	return r
}

// put stores v under a declared field, keeping the store in declaration order.
func (r *Record) put(name string, v any) {
	if r.store.Has(name) {
		r.store.Set(name, v)
		return
	}
	idx := r.typ.index[name]
	pos := 0
	for k := range r.store.All() {
		if r.typ.index[k] < idx {
			pos++
		}
	}
	r.store.Insert(pos, name, v)
}

// Type returns the record's type.
func (r *Record) Type() *Type { return r.typ }

// Attr reads a declared field or a computed property. A declared field that
// was never set reads as its default, or nil without one.
func (r *Record) Attr(name string) (any, error) {
	if _, ok := r.typ.index[name]; ok {
		if v, ok := r.store.Get(name); ok {
			return v, nil
		}
		return r.typ.defaults[name], nil
	}
	if p, ok := r.typ.props[name]; ok {
		return p.Get(r)
	}
	return nil, &AttributeError{Type: r.typ.name, Name: name, Op: "get"}
}

// SetAttr writes a declared field verbatim or calls a property's setter.
// Values written here are not hydrated into nested records.
func (r *Record) SetAttr(name string, v any) error {
	if _, ok := r.typ.index[name]; ok {
		r.put(name, v)
		return nil
	}
	if p, ok := r.typ.props[name]; ok && p.Set != nil {
		return p.Set(r, v)
	}
	return &AttributeError{Type: r.typ.name, Name: name, Op: "set"}
}

// Unset removes a declared field from the store; later reads fall back to
// the default.
func (r *Record) Unset(name string) error {
	if _, ok := r.typ.index[name]; !ok {
		return &AttributeError{Type: r.typ.name, Name: name, Op: "set"}
	}
	r.store.Delete(name)
	return nil
}

// Nested reads a field holding a nested record. Absent values read as nil.
func (r *Record) Nested(name string) (*Record, error) { return AttrAs[*Record](r, name) }

// List reads a field holding a sequence of records. Elements that are not
// records make the call fail.
func (r *Record) List(name string) ([]*Record, error) {
	v, err := r.Attr(name)
	if err != nil || v == nil {
		return nil, err
	}
	seq, ok := asSequence(v)
	if !ok {
		return nil, invalidTypeAt(name, "expected a sequence of records")
	}
	out := make([]*Record, len(seq))
	for i, el := range seq {
		rec, ok := el.(*Record)
		if !ok {
			return nil, invalidTypeAt(name, "expected a sequence of records")
		}
		out[i] = rec
	}
	return out, nil
}

// AttrAs reads an attribute and asserts its Go type. nil reads as the zero
// value of T.
func AttrAs[T any](r *Record, name string) (T, error) {
	var zero T
	v, err := r.Attr(name)
	if err != nil || v == nil {
		return zero, err
	}
	tv, ok := v.(T)
	if !ok {
		return zero, invalidTypeAt(name, "stored value has a different type")
	}
	return tv, nil
}

func invalidTypeAt(name, hint string) Issues {
	return Issues{Issue{Path: "/" + name, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: hint}}
}
