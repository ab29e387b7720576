package tinyrec

import (
	"errors"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/tinyrec/i18n"
	eng "github.com/reoring/tinyrec/internal/engine"
	"github.com/reoring/tinyrec/source/gojson"
	yamlsrc "github.com/reoring/tinyrec/source/yaml"
)

// DecodeJSONValue decodes JSON text into an untyped value. Objects decode to
// *Map in input order and arrays to []any.
func DecodeJSONValue(data []byte, opts ...DecodeOpt) (any, error) {
	return decodeJSON(data, lastOpt(opts))
}

// DecodeJSON decodes a JSON object and constructs a record from it. Keys the
// type does not declare are ignored.
func (t *Type) DecodeJSON(data []byte, opts ...DecodeOpt) (*Record, error) {
	v, err := decodeJSON(data, lastOpt(opts))
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(v)
}

// DecodeJSONReader is like DecodeJSON but reads r to EOF. The input must hold
// exactly one JSON value.
func (t *Type) DecodeJSONReader(r io.Reader, opts ...DecodeOpt) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, toIssues(err)
	}
	return t.DecodeJSON(data, opts...)
}

// DecodeYAML decodes the first YAML document and constructs a record from it.
// Repeated mapping keys fail with CodeDuplicateKey; other YAML errors,
// excessive alias expansion included, fail with CodeParseError.
func (t *Type) DecodeYAML(data []byte) (*Record, error) {
	v, err := yamlsrc.DecodeBytes(data)
	if errors.Is(err, yamlsrc.ErrDuplicateKey) {
		return nil, Issues{Issue{Path: "/", Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil), Hint: err.Error(), Cause: err}}
	}
	if err != nil {
		return nil, toIssues(err)
	}
	return t.fromDecoded(v)
}

func (t *Type) fromDecoded(v any) (*Record, error) {
	m, ok := v.(*Map)
	if !ok || m == nil {
		return nil, singleIssue("/", CodeInvalidType, "expected object")
	}
	return t.fromMapping(m), nil
}

// decodeJSON validates data as a single JSON value, then decodes it through
// the token engine. The go-json token stream does not check separators, so
// syntax is checked up front.
func decodeJSON(data []byte, opt DecodeOpt) (any, error) {
	if !j.Valid(data) {
		return nil, parseIssue(errMalformedJSON)
	}
	src := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
	})
	conv := eng.AsFloat64
	if opt.NumberMode == NumberJSONNumber {
		conv = eng.AsJSONNumber
	}
	v, err := eng.DecodeValue(src, conv)
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		return nil, parseIssue(errTrailingData)
	}
	return v, nil
}

var (
	errMalformedJSON = errors.New("malformed JSON")
	errTrailingData  = errors.New("unexpected data after top-level value")
)

func parseIssue(err error) Issues {
	return Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: err.Error(), Cause: err}}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	if s == Error {
		return eng.DupError
	}
	return eng.DupIgnore
}

func toIssues(err error) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{Issue{Code: ie.Code, Path: ie.Path, Message: i18n.T(ie.Code, nil), Hint: ie.Message}}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return parseIssue(err)
}
