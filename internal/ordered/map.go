// Package ordered provides the insertion-ordered string-keyed container that
// backs records and raw decoded mappings.
package ordered

import (
	"bytes"
	"iter"
	"slices"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered map from string keys to arbitrary values.
// The zero value is ready to use.
type Map struct {
	keys  []string
	pairs map[string]any
}

// New returns an empty Map with room for n entries.
func New(n int) *Map {
	return &Map{keys: make([]string, 0, n), pairs: make(map[string]any, n)}
}

// FromPairs builds a Map from alternating key/value arguments. It panics when
// a key is not a string; intended for literals in tests and examples.
func FromPairs(kv ...any) *Map {
	m := New(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored for key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.pairs == nil {
		return nil, false
	}
	v, ok := m.pairs[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep their
// position.
func (m *Map) Set(key string, value any) {
	m.Insert(len(m.keys), key, value)
}

// Insert stores value under key. When key is new it is placed at position i
// (clamped to [0, Len]); when key exists only its value changes.
func (m *Map) Insert(i int, key string, value any) {
	if m.pairs == nil {
		m.pairs = make(map[string]any)
	}
	if _, ok := m.pairs[key]; ok {
		m.pairs[key] = value
		return
	}
	m.pairs[key] = value
	i = max(0, min(i, len(m.keys)))
	m.keys = slices.Insert(m.keys, i, key)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil || m.pairs == nil {
		return false
	}
	if _, ok := m.pairs[key]; !ok {
		return false
	}
	delete(m.pairs, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return true
}

// Keys returns a copy of the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Values returns the values in key order.
func (m *Map) Values() []any {
	if m == nil {
		return nil
	}
	out := make([]any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.pairs[k])
	}
	return out
}

// All iterates over the entries in order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.pairs[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the entries as a JSON object in key order. Values are
// encoded with go-json, so nested Marshalers encode themselves.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := j.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := j.Marshal(m.pairs[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the entries as a YAML mapping node in key order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		var vn yaml.Node
		if err := vn.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&vn,
		)
	}
	return node, nil
}
