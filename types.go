package tinyrec

// Kind tags the declared kind of a record field.
type Kind int

const (
	KindScalar     Kind = iota // Any value; stored as given.
	KindRecord                 // A nested record of a declared type.
	KindRecordList             // A sequence of nested records of a declared type.
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	case KindRecordList:
		return "list"
	}
	return "unknown"
}

// NumberMode dictates how JSON numbers are decoded.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Decode as float64.
	NumberJSONNumber                   // Preserve json.Number.
)

// Severity expresses how a decode-time finding is treated.
type Severity int

const (
	Ignore Severity = iota
	Error
)

// DecodeOpt bundles decoding options. When several are passed to a decode
// function the last one wins.
type DecodeOpt struct {
	NumberMode     NumberMode
	MaxDepth       int      // 0 disables the check.
	OnDuplicateKey Severity // Ignore keeps the last value.
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}
