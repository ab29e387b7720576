package tinyrec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/tinyrec/i18n"
)

// Issue codes
const (
	CodeInvalidAttribute = "invalid_attribute"
	CodeInvalidType      = "invalid_type"
	CodeInvalidSchema    = "invalid_schema"
	CodeParseError       = "parse_error"
	CodeDuplicateKey     = "duplicate_key"
	CodeTooDeep          = "too_deep"
)

// ErrInvalidAttribute is matched by every *AttributeError via errors.Is.
var ErrInvalidAttribute = errors.New("tinyrec: invalid attribute")

// AttributeError reports a read or write of a name that is neither a declared
// field nor a computed property of the record type.
type AttributeError struct {
	Type string // Record type name.
	Name string // Offending attribute.
	Op   string // "get" or "set".
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s (type %s)", i18n.T(CodeInvalidAttribute, nil), e.Name, e.Type)
}

func (e *AttributeError) Is(target error) bool { return target == ErrInvalidAttribute }

// Issue represents a single decode or schema finding.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional remediation hint.
	Cause   error  // Optional underlying error.
}

// Issues is a collection of findings that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = "/"
		}
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func singleIssue(path, code, hint string) Issues {
	return Issues{Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}}
}
