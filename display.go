package tinyrec

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// String renders the record as TypeName<{key: value, ...}>.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.name)
	b.WriteString("<{")
	i := 0
	for k, v := range r.store.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		i++
		fmt.Fprintf(&b, "%s: %s", k, displayValue(v))
	}
	b.WriteString("}>")
	return b.String()
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case *Record:
		return x.String()
	case *Map:
		parts := make([]string, 0, x.Len())
		for k, el := range x.All() {
			parts = append(parts, k+": "+displayValue(el))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = displayValue(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

var recordMethods = func() []string {
	rt := reflect.TypeOf((*Record)(nil))
	out := make([]string, rt.NumMethod())
	for i := range out {
		out[i] = rt.Method(i).Name
	}
	return out
}()

// Dir lists the attribute names of the record for tooling such as
// completion: declared fields and computed properties, plus the generic
// container methods when verbose is set.
func (r *Record) Dir(verbose bool) []string {
	out := append(r.typ.FieldNames(), r.typ.PropertyNames()...)
	if verbose {
		out = append(out, recordMethods...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// Dump renders the plain form of the record with go-spew for debugging.
func (r *Record) Dump() string {
	return r.typ.name + " " + dumpConfig.Sdump(r.ToMap())
}
