package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/tinyrec"
	"github.com/reoring/tinyrec/schemafile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "load":
		loadCmd(os.Args[2:])
	case "fields":
		fieldsCmd(os.Args[2:])
	case "jsonschema":
		jsonSchemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "tinyrec CLI\n\nUsage:\n  tinyrec load -schema s.yaml -type T [-format json|yaml] [-indent] [-v] [file]\n  tinyrec fields -schema s.yaml -type T [-verbose]\n  tinyrec jsonschema -schema s.yaml -type T\n\nNotes:\n  - load reads stdin when no file is given; files ending in .yaml/.yml are decoded as YAML.")
}

// loadCmd hydrates a payload into a record of -type and prints the normalized
// record: undeclared keys dropped, defaults materialized.
func loadCmd(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	var schemaPath, typeName, format string
	var indent, verbose, strict bool
	var maxDepth int
	fs.StringVar(&schemaPath, "schema", "", "schema file (YAML)")
	fs.StringVar(&typeName, "type", "", "record type name")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	fs.BoolVar(&indent, "indent", false, "indent JSON output")
	fs.BoolVar(&strict, "strict", false, "reject duplicate JSON keys")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum JSON nesting depth (0 disables)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" || typeName == "" || fs.NArg() > 1 {
		fs.Usage()
		os.Exit(2)
	}

	logf := func(format string, a ...any) {
		if verbose {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	typ := lookupType(schemaPath, typeName)
	logf("load: schema=%s type=%s fields=%v", schemaPath, typeName, typ.FieldNames())

	var (
		data []byte
		err  error
		name = "-"
	)
	if fs.NArg() == 1 {
		name = fs.Arg(0)
		data, err = os.ReadFile(name)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fatalf("reading input: %v", err)
	}
	logf("read %d bytes from %s", len(data), name)

	var rec *tinyrec.Record
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		rec, err = typ.DecodeYAML(data)
	default:
		opt := tinyrec.DecodeOpt{MaxDepth: maxDepth}
		if strict {
			opt.OnDuplicateKey = tinyrec.Error
		}
		rec, err = typ.DecodeJSON(data, opt)
	}
	if err != nil {
		fatalf("decode %s: %v", name, err)
	}
	logf("record: %s", rec)

	var out []byte
	switch format {
	case "json":
		out, err = tinyrec.EncodeJSON(rec, indent)
		out = append(out, '\n')
	case "yaml":
		out, err = tinyrec.EncodeYAML(rec)
	default:
		fatalf("unknown format %q", format)
	}
	if err != nil {
		fatalf("encode: %v", err)
	}
	_, _ = os.Stdout.Write(out)
}

func fieldsCmd(args []string) {
	fs := flag.NewFlagSet("fields", flag.ExitOnError)
	var schemaPath, typeName string
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file (YAML)")
	fs.StringVar(&typeName, "type", "", "record type name")
	fs.BoolVar(&verbose, "verbose", false, "include generic record methods")
	_ = fs.Parse(args)
	if schemaPath == "" || typeName == "" {
		fs.Usage()
		os.Exit(2)
	}
	typ := lookupType(schemaPath, typeName)
	for _, name := range typ.New().Dir(verbose) {
		fmt.Println(name)
	}
}

func jsonSchemaCmd(args []string) {
	fs := flag.NewFlagSet("jsonschema", flag.ExitOnError)
	var schemaPath, typeName string
	fs.StringVar(&schemaPath, "schema", "", "schema file (YAML)")
	fs.StringVar(&typeName, "type", "", "record type name")
	_ = fs.Parse(args)
	if schemaPath == "" || typeName == "" {
		fs.Usage()
		os.Exit(2)
	}
	typ := lookupType(schemaPath, typeName)
	b, err := tinyrec.EncodeJSON(typ.JSONSchema(), true)
	if err != nil {
		fatalf("encode: %v", err)
	}
	fmt.Println(string(b))
}

func lookupType(schemaPath, typeName string) *tinyrec.Type {
	reg, err := schemafile.Load(schemaPath)
	if err != nil {
		fatalf("loading schema: %v", err)
	}
	typ, ok := reg.Lookup(typeName)
	if !ok {
		fatalf("type %s not declared in %s (have %s)", typeName, schemaPath, strings.Join(reg.Names(), ", "))
	}
	return typ
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
