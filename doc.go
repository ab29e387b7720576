// Package tinyrec provides typed records over an ordered key-value store:
//
// - Declare a record type once with a builder (fields, defaults, nested record
// types, computed properties, single inheritance)
// - Construct records from named arguments or from untyped mappings such as
// decoded JSON, hydrating nested records and lists of nested records
// - Read and write through attribute accessors that only accept declared
// names, or read the store directly through the mapping view
// - Serialize with any JSON or YAML encoder: a record encodes as its ordered
// store
//
// Design policy:
// - Keep the record core in the root package; decoders live under source/,
// the token engine and the ordered store under internal/.
// - Declared field kinds are advisory: values are never coerced or validated.
// - The only error of the core is the invalid attribute error; decoding and
// schema declaration report Issues.
//
// Typical usage:
//
//	Person := tinyrec.Define("Person").
//		Field("name", tinyrec.Scalar()).
//		Field("employed", tinyrec.Scalar()).Default(true).
//		MustBuild()
//	Employee := tinyrec.Define("Employee").
//		Field("active", tinyrec.Scalar()).
//		Field("personal_info", tinyrec.RecordOf(Person)).
//		MustBuild()
//
//	e, err := Employee.DecodeJSON(data)
//	p, err := e.Nested("personal_info")
//	err = e.SetAttr("active", false)
//	out, err := json.Marshal(e)
package tinyrec
