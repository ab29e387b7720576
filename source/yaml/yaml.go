// Package yaml decodes YAML documents into ordered raw values: mappings become
// *ordered.Map in document order, sequences become []any.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/tinyrec/internal/ordered"
)

var (
	// ErrEmptyDocument is returned when the input holds no YAML document.
	ErrEmptyDocument = errors.New("yaml: empty document")
	// ErrDuplicateKey is returned when a mapping repeats a key.
	ErrDuplicateKey = errors.New("yaml: duplicate mapping key")
	// ErrExcessiveAliasing is returned when alias expansion grows the
	// document out of proportion to its source.
	ErrExcessiveAliasing = errors.New("yaml: document contains excessive aliasing")
)

// DecodeBytes decodes the first YAML document in data.
func DecodeBytes(data []byte) (any, error) { return DecodeReader(bytes.NewReader(data)) }

// DecodeReader decodes the first YAML document read from r.
func DecodeReader(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, err
	}
	return FromNode(&doc)
}

// FromNode converts an already parsed node tree. Aliases are expanded under
// the same budget yaml.v3 applies when unmarshaling, and "<<" merge keys are
// applied with explicit keys taking precedence.
func FromNode(n *yaml.Node) (any, error) {
	d := &decoder{aliases: make(map[*yaml.Node]bool)}
	return d.node(n)
}

type decoder struct {
	aliases     map[*yaml.Node]bool
	aliasDepth  int
	decodeCount int
	aliasCount  int
}

func (d *decoder) node(n *yaml.Node) (any, error) {
	d.decodeCount++
	if d.aliasDepth > 0 {
		d.aliasCount++
	}
	if d.aliasCount > 100 && d.decodeCount > 1000 &&
		float64(d.aliasCount)/float64(d.decodeCount) > allowedAliasRatio(d.decodeCount) {
		return nil, ErrExcessiveAliasing
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := d.node(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
}

func (d *decoder) alias(n *yaml.Node) (any, error) {
	if n.Alias == nil {
		return nil, fmt.Errorf("yaml: dangling alias at line %d", n.Line)
	}
	if d.aliases[n] {
		return nil, fmt.Errorf("yaml: anchor '%s' value contains itself", n.Value)
	}
	d.aliases[n] = true
	d.aliasDepth++
	v, err := d.node(n.Alias)
	d.aliasDepth--
	delete(d.aliases, n)
	return v, err
}

func (d *decoder) mapping(n *yaml.Node) (any, error) {
	m := ordered.New(len(n.Content) / 2)
	// line of the first occurrence of each key, merge key included
	seen := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("yaml: non-scalar key at line %d", k.Line)
		}
		if line, dup := seen[k.Value]; dup {
			return nil, fmt.Errorf("%w %q at line %d, first defined at line %d", ErrDuplicateKey, k.Value, k.Line, line)
		}
		seen[k.Value] = k.Line
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if isMerge(k) {
			if err := d.merge(m, v, seen); err != nil {
				return nil, err
			}
			continue
		}
		val, err := d.node(v)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, val)
	}
	return m, nil
}

// merge copies into m the entries of a merge source that are neither explicit
// keys of the enclosing mapping nor already merged. Earlier sources in a
// sequence win over later ones.
func (d *decoder) merge(m *ordered.Map, v *yaml.Node, explicit map[string]int) error {
	val, err := d.node(v)
	if err != nil {
		return err
	}
	var sources []*ordered.Map
	switch src := val.(type) {
	case *ordered.Map:
		sources = append(sources, src)
	case []any:
		for _, el := range src {
			sm, ok := el.(*ordered.Map)
			if !ok {
				return fmt.Errorf("yaml: map merge requires map or sequence of maps as the value at line %d", v.Line)
			}
			sources = append(sources, sm)
		}
	default:
		return fmt.Errorf("yaml: map merge requires map or sequence of maps as the value at line %d", v.Line)
	}
	for _, src := range sources {
		for key, el := range src.All() {
			if _, ok := explicit[key]; ok || m.Has(key) {
				continue
			}
			m.Set(key, el)
		}
	}
	return nil
}

// isMerge reports whether k is a plain "<<" key. Quoted or !!str tagged keys
// are ordinary strings.
func isMerge(k *yaml.Node) bool {
	return k.Value == "<<" && k.ShortTag() == "!!merge"
}

func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= 400000:
		return 0.99
	case decodeCount >= 4000000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-400000)/3600000)
	}
}
