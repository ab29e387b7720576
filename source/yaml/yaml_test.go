package yaml_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/tinyrec/internal/ordered"
	yamlsrc "github.com/reoring/tinyrec/source/yaml"
)

func TestDecodeBytes_OrderedMapping(t *testing.T) {
	doc := `
zeta: 1
alpha:
  inner: text
  flag: true
list:
  - a
  - {k: v}
empty: null
`
	v, err := yamlsrc.DecodeBytes([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(*ordered.Map)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "list", "empty"}) {
		t.Fatalf("keys: %v", got)
	}
	if z, _ := m.Get("zeta"); z != 1 {
		t.Fatalf("zeta: %#v", z)
	}
	a, _ := m.Get("alpha")
	if got := a.(*ordered.Map).Keys(); !reflect.DeepEqual(got, []string{"inner", "flag"}) {
		t.Fatalf("alpha keys: %v", got)
	}
	l, _ := m.Get("list")
	seq := l.([]any)
	if len(seq) != 2 || seq[0] != "a" {
		t.Fatalf("list: %#v", seq)
	}
	if k, _ := seq[1].(*ordered.Map).Get("k"); k != "v" {
		t.Fatalf("flow mapping: %#v", seq[1])
	}
	if e, ok := m.Get("empty"); !ok || e != nil {
		t.Fatalf("empty: %#v %v", e, ok)
	}
}

func TestDecodeReader_Alias(t *testing.T) {
	doc := "base: &b {x: 1}\ncopy: *b\n"
	v, err := yamlsrc.DecodeReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c, _ := v.(*ordered.Map).Get("copy")
	if x, _ := c.(*ordered.Map).Get("x"); x != 1 {
		t.Fatalf("alias not followed: %#v", c)
	}
}

func TestDecodeBytes_Errors(t *testing.T) {
	if _, err := yamlsrc.DecodeBytes(nil); !errors.Is(err, yamlsrc.ErrEmptyDocument) {
		t.Fatalf("want empty document, got %v", err)
	}
	if _, err := yamlsrc.DecodeBytes([]byte("? [a, b]\n: 1\n")); err == nil {
		t.Fatalf("expected error for non-scalar key")
	}
	if _, err := yamlsrc.DecodeBytes([]byte("a: [1, 2\n")); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestDecodeBytes_ExcessiveAliasing(t *testing.T) {
	// each level holds ten aliases to the previous one
	var b strings.Builder
	b.WriteString("a: &a [x, x, x, x, x, x, x, x, x, x]\n")
	prev := "a"
	for _, name := range []string{"b", "c", "d", "e", "f", "g", "h", "i"} {
		ref := "*" + prev
		b.WriteString(name + ": &" + name + " [" + strings.Repeat(ref+", ", 9) + ref + "]\n")
		prev = name
	}
	_, err := yamlsrc.DecodeBytes([]byte(b.String()))
	if !errors.Is(err, yamlsrc.ErrExcessiveAliasing) {
		t.Fatalf("want excessive aliasing, got %v", err)
	}
}

func TestDecodeBytes_ModerateAliasingAllowed(t *testing.T) {
	var b strings.Builder
	b.WriteString("base: &b {x: 1, y: 2}\nitems:\n")
	for range 200 {
		b.WriteString("  - *b\n")
	}
	v, err := yamlsrc.DecodeBytes([]byte(b.String()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, _ := v.(*ordered.Map).Get("items")
	if n := len(items.([]any)); n != 200 {
		t.Fatalf("items: %d", n)
	}
}

func TestDecodeBytes_SelfReferencingAnchor(t *testing.T) {
	_, err := yamlsrc.DecodeBytes([]byte("a: &x [1, *x]\n"))
	if err == nil || !strings.Contains(err.Error(), "contains itself") {
		t.Fatalf("want recursive anchor error, got %v", err)
	}
}

func TestDecodeBytes_DuplicateKey(t *testing.T) {
	_, err := yamlsrc.DecodeBytes([]byte("name: a\nage: 3\nname: b\n"))
	if !errors.Is(err, yamlsrc.ErrDuplicateKey) {
		t.Fatalf("want duplicate key, got %v", err)
	}
	if !strings.Contains(err.Error(), `"name" at line 3, first defined at line 1`) {
		t.Fatalf("message: %v", err)
	}
	_, err = yamlsrc.DecodeBytes([]byte("outer:\n  k: 1\n  k: 2\n"))
	if !errors.Is(err, yamlsrc.ErrDuplicateKey) {
		t.Fatalf("nested: want duplicate key, got %v", err)
	}
}

func TestDecodeBytes_MergeKeys(t *testing.T) {
	doc := `
base: &base {name: base, size: 1, color: red}
extra: &extra {size: 2, shape: round}
one:
  <<: *base
  size: 10
many:
  id: 7
  <<: [*extra, *base]
quoted:
  "<<": literal
`
	v, err := yamlsrc.DecodeBytes([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(*ordered.Map)

	one, _ := m.Get("one")
	om := one.(*ordered.Map)
	if got := om.Keys(); !reflect.DeepEqual(got, []string{"name", "color", "size"}) {
		t.Fatalf("one keys: %v", got)
	}
	if s, _ := om.Get("size"); s != 10 {
		t.Fatalf("explicit key must override merged value: %#v", s)
	}

	many, _ := m.Get("many")
	mm := many.(*ordered.Map)
	if got := mm.Keys(); !reflect.DeepEqual(got, []string{"id", "size", "shape", "name", "color"}) {
		t.Fatalf("many keys: %v", got)
	}
	if s, _ := mm.Get("size"); s != 2 {
		t.Fatalf("earlier merge source must win: %#v", s)
	}

	q, _ := m.Get("quoted")
	if l, ok := q.(*ordered.Map).Get("<<"); !ok || l != "literal" {
		t.Fatalf("quoted merge key must stay literal: %#v", q)
	}
}

func TestDecodeBytes_MergeRequiresMapping(t *testing.T) {
	for _, doc := range []string{"a:\n  <<: 1\n", "a:\n  <<: [1, 2]\n"} {
		if _, err := yamlsrc.DecodeBytes([]byte(doc)); err == nil || !strings.Contains(err.Error(), "map merge") {
			t.Fatalf("%q: want map merge error, got %v", doc, err)
		}
	}
}
