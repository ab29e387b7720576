package tinyrec

import "reflect"

// FieldKind is the declared kind of a field: a scalar, a nested record of a
// type, or a list of nested records of a type. The variant is fixed when the
// type is declared.
type FieldKind struct {
	kind Kind
	elem *Type
}

// Scalar declares a field holding any value.
func Scalar() FieldKind { return FieldKind{kind: KindScalar} }

// RecordOf declares a field holding a nested record of type t.
func RecordOf(t *Type) FieldKind { return FieldKind{kind: KindRecord, elem: t} }

// ListOf declares a field holding a sequence of nested records of type t.
func ListOf(t *Type) FieldKind { return FieldKind{kind: KindRecordList, elem: t} }

// Kind returns the variant tag.
func (k FieldKind) Kind() Kind { return k.kind }

// Elem returns the nested record type, or nil for scalars.
func (k FieldKind) Elem() *Type { return k.elem }

func (k FieldKind) String() string {
	switch k.kind {
	case KindRecord:
		return k.elem.Name()
	case KindRecordList:
		return "[]" + k.elem.Name()
	}
	return "any"
}

// resolve turns a raw construction-time value into the value stored for a
// field of this kind. Raw mappings become records, sequences of raw mappings
// become sequences of records; everything else, records included, is kept.
func (k FieldKind) resolve(raw any) any {
	switch k.kind {
	case KindRecord:
		if m, ok := asRawMapping(raw); ok {
			return k.elem.fromMapping(m)
		}
	case KindRecordList:
		if seq, ok := asSequence(raw); ok {
			out := make([]any, len(seq))
			for i, el := range seq {
				if m, ok := asRawMapping(el); ok {
					out[i] = k.elem.fromMapping(m)
					continue
				}
				out[i] = el
			}
			return out
		}
	}
	return raw
}

// asRawMapping reports whether v is an untyped mapping. Records are not raw:
// they are stored without being wrapped again.
func asRawMapping(v any) (Mapping, bool) {
	switch m := v.(type) {
	case *Map:
		if m == nil {
			return nil, false
		}
		return m, true
	case map[string]any:
		if m == nil {
			return nil, false
		}
		return goMap(m), true
	}
	return nil, false
}

// asSequence views any Go slice or array as []any. Strings and byte slices are
// values, not sequences.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return s, s != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
