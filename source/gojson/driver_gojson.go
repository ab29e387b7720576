// Package gojson feeds JSON text into the decoding engine using the
// goccy/go-json token decoder. The token stream does not check the ',' and
// ':' separators, so callers validate the text first (tinyrec uses
// json.Valid).
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/tinyrec/internal/engine"
)

// state of an open container.
type state uint8

const (
	inArray state = iota
	wantKey
	wantValue
)

type source struct {
	dec   *j.Decoder
	stack []state
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	tok := eng.Token{Offset: -1}
	switch v := raw.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, wantKey)
			tok.Kind = eng.KindBeginObject
		case '[':
			s.stack = append(s.stack, inArray)
			tok.Kind = eng.KindBeginArray
		case '}':
			s.close()
			tok.Kind = eng.KindEndObject
		default:
			s.close()
			tok.Kind = eng.KindEndArray
		}
		return tok, nil
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1] == wantKey {
			s.stack[n-1] = wantValue
			tok.Kind, tok.String = eng.KindKey, v
			return tok, nil
		}
		tok.Kind, tok.String = eng.KindString, v
	case bool:
		tok.Kind, tok.Bool = eng.KindBool, v
	case j.Number:
		tok.Kind, tok.Number = eng.KindNumber, v.String()
	case float64:
		tok.Kind, tok.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		tok.Kind = eng.KindNull
	}
	s.valueDone()
	return tok, nil
}

// close pops the innermost container, which completes a value of its parent.
func (s *source) close() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1] == wantValue {
		s.stack[n-1] = wantKey
	}
}

func (s *source) Location() int64 { return -1 }
