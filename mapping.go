package tinyrec

import (
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/reoring/tinyrec/internal/ordered"
)

// Mapping is the read contract shared by records, raw ordered maps and the
// named-argument form of construction.
type Mapping interface {
	Keys() []string
	Get(key string) (any, bool)
	Len() int
}

// Map is the untyped ordered mapping produced by the decoders and accepted by
// Type.From.
type Map = ordered.Map

// NewMap builds a Map from alternating key/value arguments.
func NewMap(kv ...any) *Map { return ordered.FromPairs(kv...) }

var (
	_ Mapping = (*Record)(nil)
	_ Mapping = (*Map)(nil)
)

// goMap adapts a plain Go map; keys are reported sorted.
type goMap map[string]any

func (m goMap) Keys() []string { return slices.Sorted(maps.Keys(m)) }
func (m goMap) Len() int       { return len(m) }

func (m goMap) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Get returns the stored value for key. Keys that were never stored, declared
// or not, report false.
func (r *Record) Get(key string) (any, bool) { return r.store.Get(key) }

// GetOr returns the stored value for key or fallback.
func (r *Record) GetOr(key string, fallback any) any {
	if v, ok := r.store.Get(key); ok {
		return v
	}
	return fallback
}

// Has reports whether key is stored.
func (r *Record) Has(key string) bool { return r.store.Has(key) }

// Keys returns the stored keys in declaration order.
func (r *Record) Keys() []string { return r.store.Keys() }

// Values returns the stored values in key order.
func (r *Record) Values() []any { return r.store.Values() }

// All iterates over the stored entries in key order.
func (r *Record) All() iter.Seq2[string, any] { return r.store.All() }

// Len returns the number of stored entries.
func (r *Record) Len() int { return r.store.Len() }

// Equal compares the stored entries with another mapping, recursing into
// nested mappings and sequences. Like mapping equality it ignores record
// types and entry order.
func (r *Record) Equal(other Mapping) bool { return mappingEqual(r, other) }

// ToMap returns a deep copy of the stored entries as plain Go values: every
// record or mapping becomes a map[string]any and every slice or array a
// []any.
func (r *Record) ToMap() map[string]any { return plainMapping(r) }

func mappingEqual(a, b Mapping) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	am, aok := asMapping(a)
	bm, bok := asMapping(b)
	if aok || bok {
		return aok && bok && mappingEqual(am, bm)
	}
	as, aok := asSequence(a)
	bs, bok := asSequence(b)
	if aok && bok {
		return slices.EqualFunc(as, bs, valueEqual)
	}
	return reflect.DeepEqual(a, b)
}

func asMapping(v any) (Mapping, bool) {
	if r, ok := v.(*Record); ok && r != nil {
		return r, true
	}
	return asRawMapping(v)
}

func plainMapping(m Mapping) map[string]any {
	out := make(map[string]any, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	if m, ok := asMapping(v); ok {
		return plainMapping(m)
	}
	if s, ok := asSequence(v); ok {
		out := make([]any, len(s))
		for i, el := range s {
			out[i] = plainValue(el)
		}
		return out
	}
	return v
}
