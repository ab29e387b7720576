// Package schemafile declares record types in YAML and registers them by
// name.
//
//	types:
//	  - name: Person
//	    fields:
//	      - {name: name}
//	      - {name: employed, default: true}
//	  - name: Employee
//	    fields:
//	      - {name: personal_info, type: Person}
//	      - {name: history, type: "[]Person"}
//
// A field type is empty, "any" or "scalar" for scalars, a type name for a
// nested record and "[]Name" for a list of nested records. Types may refer to
// types declared later in the file.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/tinyrec"
	"github.com/reoring/tinyrec/i18n"
	yamlsrc "github.com/reoring/tinyrec/source/yaml"
)

// File is the document layout of a schema file.
type File struct {
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares one record type.
type TypeDecl struct {
	Name    string      `yaml:"name"`
	Extends string      `yaml:"extends,omitempty"`
	Fields  []FieldDecl `yaml:"fields"`
}

// FieldDecl declares one field. Default is kept as a node so that mapping
// defaults keep their key order.
type FieldDecl struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type,omitempty"`
	Default *yaml.Node `yaml:"default,omitempty"`
}

// Registry holds the types built from a schema file.
type Registry struct {
	types map[string]*tinyrec.Type
	names []string
}

// Load reads and builds the schema file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds the types declared in data.
func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, tinyrec.Issues{tinyrec.Issue{Path: "/", Code: tinyrec.CodeParseError, Message: i18n.T(tinyrec.CodeParseError, nil), Cause: err}}
	}
	return Build(f)
}

// Build registers the declarations of f. Declaration errors are collected and
// returned together as tinyrec.Issues.
func Build(f File) (*Registry, error) {
	b := &builder{
		decls: make(map[string]int, len(f.Types)),
		state: make(map[string]int, len(f.Types)),
		reg:   &Registry{types: make(map[string]*tinyrec.Type, len(f.Types))},
		file:  f,
	}
	for i, td := range f.Types {
		path := fmt.Sprintf("/types/%d", i)
		switch {
		case td.Name == "":
			b.fail(path+"/name", "type name must not be empty")
			continue
		case isReserved(td.Name):
			b.fail(path+"/name", "type name "+td.Name+" is reserved")
			continue
		}
		if _, dup := b.decls[td.Name]; dup {
			b.fail(path+"/name", "type "+td.Name+" declared twice")
			continue
		}
		b.decls[td.Name] = i
		b.reg.names = append(b.reg.names, td.Name)
	}
	for _, name := range b.reg.names {
		b.build(name, "")
	}
	if len(b.issues) > 0 {
		return nil, b.issues
	}
	return b.reg, nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*tinyrec.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names in file order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

const (
	unvisited = iota
	visiting
	done
)

type builder struct {
	file   File
	decls  map[string]int
	state  map[string]int
	reg    *Registry
	issues tinyrec.Issues
}

func (b *builder) fail(path, hint string) {
	b.issues = tinyrec.AppendIssues(b.issues, tinyrec.Issue{
		Path:    path,
		Code:    tinyrec.CodeInvalidSchema,
		Message: i18n.T(tinyrec.CodeInvalidSchema, nil),
		Hint:    hint,
	})
}

// build returns the type registered under name, building its dependencies
// first. from is the JSON Pointer of the reference, used in issues.
func (b *builder) build(name, from string) *tinyrec.Type {
	idx, ok := b.decls[name]
	if !ok {
		b.fail(from, "unknown type "+name)
		return nil
	}
	switch b.state[name] {
	case done:
		return b.reg.types[name]
	case visiting:
		b.fail(from, "cyclic reference to type "+name)
		return nil
	}
	b.state[name] = visiting
	defer func() { b.state[name] = done }()

	td := b.file.Types[idx]
	path := fmt.Sprintf("/types/%d", idx)
	tb := tinyrec.Define(td.Name)
	if td.Extends != "" {
		base := b.build(td.Extends, path+"/extends")
		if base == nil {
			return nil
		}
		tb.Extends(base)
	}
	for i, fd := range td.Fields {
		fpath := fmt.Sprintf("%s/fields/%d", path, i)
		kind, ok := b.kind(fd.Type, fpath+"/type")
		if !ok {
			return nil
		}
		step := tb.Field(fd.Name, kind)
		if fd.Default != nil {
			dv, err := yamlsrc.FromNode(fd.Default)
			if err != nil {
				b.fail(fpath+"/default", err.Error())
				return nil
			}
			step.Default(dv)
		}
	}
	t, err := tb.Build()
	if err != nil {
		iss, _ := tinyrec.AsIssues(err)
		for _, it := range iss {
			it.Path = path + it.Path
			b.issues = tinyrec.AppendIssues(b.issues, it)
		}
		return nil
	}
	b.reg.types[name] = t
	return t
}

func (b *builder) kind(decl, path string) (tinyrec.FieldKind, bool) {
	decl = strings.TrimSpace(decl)
	if isReserved(decl) {
		return tinyrec.Scalar(), true
	}
	if elem, ok := strings.CutPrefix(decl, "[]"); ok {
		t := b.build(strings.TrimSpace(elem), path)
		return tinyrec.ListOf(t), t != nil
	}
	t := b.build(decl, path)
	return tinyrec.RecordOf(t), t != nil
}

func isReserved(name string) bool {
	switch name {
	case "", "any", "scalar":
		return true
	}
	return false
}
