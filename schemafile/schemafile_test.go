package schemafile_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/tinyrec"
	"github.com/reoring/tinyrec/schemafile"
)

const employeeSchema = `
types:
  - name: Employee
    extends: Base
    fields:
      - {name: active, default: true}
      - {name: personal_info, type: Person}
      - {name: history, type: "[]Person"}
  - name: Base
    fields:
      - {name: id}
  - name: Person
    fields:
      - {name: name, type: any}
      - {name: last_name, type: scalar}
      - name: address
        default: {street: main, city: x}
`

func TestParse_BuildsTypesWithForwardReferences(t *testing.T) {
	reg, err := schemafile.Parse([]byte(employeeSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := reg.Names(); !reflect.DeepEqual(got, []string{"Employee", "Base", "Person"}) {
		t.Fatalf("names: %v", got)
	}
	emp, ok := reg.Lookup("Employee")
	if !ok {
		t.Fatalf("Employee not registered")
	}
	base, _ := reg.Lookup("Base")
	person, _ := reg.Lookup("Person")
	if !emp.IsA(base) {
		t.Fatalf("Employee must extend Base")
	}
	if got := emp.FieldNames(); !reflect.DeepEqual(got, []string{"id", "active", "personal_info", "history"}) {
		t.Fatalf("fields: %v", got)
	}
	f, _ := emp.Field("personal_info")
	if f.Kind.Kind() != tinyrec.KindRecord || f.Kind.Elem() != person {
		t.Fatalf("personal_info: %v", f.Kind)
	}
	f, _ = emp.Field("history")
	if f.Kind.Kind() != tinyrec.KindRecordList || f.Kind.Elem() != person {
		t.Fatalf("history: %v", f.Kind)
	}
	if v, ok := emp.Default("active"); !ok || v != true {
		t.Fatalf("default: %v %v", v, ok)
	}
	if _, ok := reg.Lookup("Missing"); ok {
		t.Fatalf("unexpected type")
	}
}

func TestParse_MappingDefaultKeepsOrder(t *testing.T) {
	reg, err := schemafile.Parse([]byte(employeeSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	person, _ := reg.Lookup("Person")
	r := person.New()
	addr, _ := r.Attr("address")
	m, ok := addr.(*tinyrec.Map)
	if !ok {
		t.Fatalf("want *Map default, got %T", addr)
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"street", "city"}) {
		t.Fatalf("keys: %v", got)
	}
}

func TestParse_RecordsHydrateFromJSON(t *testing.T) {
	reg, err := schemafile.Parse([]byte(employeeSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	emp, _ := reg.Lookup("Employee")
	r, err := emp.DecodeJSON([]byte(`{"history":[{"name":"a"},{"name":"b"}],"id":7}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list, err := r.List("history")
	if err != nil || len(list) != 2 || list[1].Type().Name() != "Person" {
		t.Fatalf("history: %v %v", list, err)
	}
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"id", "active", "history"}) {
		t.Fatalf("keys: %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		code string
		hint string
	}{
		"unknown type": {
			doc:  "types:\n  - name: A\n    fields:\n      - {name: b, type: Missing}\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "unknown type Missing",
		},
		"cycle": {
			doc:  "types:\n  - name: A\n    fields:\n      - {name: b, type: B}\n  - name: B\n    fields:\n      - {name: a, type: \"[]A\"}\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "cyclic reference",
		},
		"self extends": {
			doc:  "types:\n  - name: A\n    extends: A\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "cyclic reference",
		},
		"duplicate type": {
			doc:  "types:\n  - name: A\n  - name: A\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "declared twice",
		},
		"empty field name": {
			doc:  "types:\n  - name: A\n    fields:\n      - {type: any}\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "field name",
		},
		"reserved name": {
			doc:  "types:\n  - name: any\n",
			code: tinyrec.CodeInvalidSchema,
			hint: "reserved",
		},
		"unknown key": {
			doc:  "types:\n  - name: A\n    bogus: 1\n",
			code: tinyrec.CodeParseError,
		},
		"syntax": {
			doc:  "types: [\n",
			code: tinyrec.CodeParseError,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reg, err := schemafile.Parse([]byte(tc.doc))
			if err == nil || reg != nil {
				t.Fatalf("expected error")
			}
			iss, ok := tinyrec.AsIssues(err)
			if !ok || iss[0].Code != tc.code {
				t.Fatalf("want %s, got %v", tc.code, err)
			}
			if tc.hint != "" && !strings.Contains(iss[0].Hint, tc.hint) {
				t.Fatalf("hint %q does not mention %q", iss[0].Hint, tc.hint)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	reg, err := schemafile.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reg.Names()) != 0 {
		t.Fatalf("names: %v", reg.Names())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(employeeSchema), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := schemafile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := reg.Lookup("Person"); !ok {
		t.Fatalf("Person not registered")
	}
	if _, err := schemafile.Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}
