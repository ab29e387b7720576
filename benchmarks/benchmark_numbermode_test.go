package tinyrec_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/reoring/tinyrec"
)

// Micro: small record with numeric fields
func numberModeSmallType(tb testing.TB) *tinyrec.Type {
	tb.Helper()
	t, err := tinyrec.Define("Small").
		Field("a", tinyrec.Scalar()).
		Field("b", tinyrec.Scalar()).
		Field("c", tinyrec.Scalar()).
		Build()
	if err != nil {
		tb.Fatalf("type build failed: %v", err)
	}
	return t
}

func Benchmark_NumberMode_Small_JSONNumber(b *testing.B) {
	t := numberModeSmallType(b)
	data := []byte(`{"a":1,"b":2.5,"c":-3.75,"unknown":true}`)
	opt := tinyrec.DecodeOpt{NumberMode: tinyrec.NumberJSONNumber}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := t.DecodeJSON(data, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_NumberMode_Small_Float64(b *testing.B) {
	t := numberModeSmallType(b)
	data := []byte(`{"a":1,"b":2.5,"c":-3.75,"unknown":true}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := t.DecodeJSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Macro: a record holding a huge list of small numeric records
func numberModeHugeType(tb testing.TB) *tinyrec.Type {
	tb.Helper()
	item, err := tinyrec.Define("Point").
		Field("x", tinyrec.Scalar()).
		Field("y", tinyrec.Scalar()).
		Field("z", tinyrec.Scalar()).
		Build()
	if err != nil {
		tb.Fatalf("type build failed: %v", err)
	}
	t, err := tinyrec.Define("Points").Field("items", tinyrec.ListOf(item)).Build()
	if err != nil {
		tb.Fatalf("type build failed: %v", err)
	}
	return t
}

func generateNumericJSON(num int) []byte {
	var buf bytes.Buffer
	buf.Grow(num*48 + 16)
	buf.WriteString(`{"items":[`)
	for i := 0; i < num; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		// oscillate values to avoid trivial constant folding
		buf.WriteString(`{"x":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`,"y":`)
		if i%2 == 0 {
			buf.WriteString("1.5")
		} else {
			buf.WriteString("2.5")
		}
		buf.WriteString(`,"z":-3.75}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

const numberModeHugeN = 50000

func Benchmark_NumberMode_HugeList_JSONNumber(b *testing.B) {
	t := numberModeHugeType(b)
	data := generateNumericJSON(numberModeHugeN)
	opt := tinyrec.DecodeOpt{NumberMode: tinyrec.NumberJSONNumber}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := t.DecodeJSON(data, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_NumberMode_HugeList_Float64(b *testing.B) {
	t := numberModeHugeType(b)
	data := generateNumericJSON(numberModeHugeN)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := t.DecodeJSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Encode_HugeList(b *testing.B) {
	t := numberModeHugeType(b)
	data := generateNumericJSON(numberModeHugeN)
	r, err := t.DecodeJSON(data)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tinyrec.EncodeJSON(r, false); err != nil {
			b.Fatal(err)
		}
	}
}
