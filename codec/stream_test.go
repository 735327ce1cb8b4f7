package codec

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestStreamPrimitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Uint8(7)
	w.Bool(true)
	w.Uint32(0xdeadbeef)
	w.Int32(-42)
	w.Uvarint(300)
	w.Float32(0.25)
	w.Float64(math.Pi)
	w.String("héllo")
	w.NullString("", false)
	w.NullString("clip", true)
	w.Matrix(gg.Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6})
	w.Rect(gg.Rect{Min: gg.Pt(0.1, 0.2), Max: gg.Pt(0.3, 0.7)})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if w.Written() != int64(buf.Len()) {
		t.Errorf("Written() = %d, buffer has %d", w.Written(), buf.Len())
	}

	r := NewReader(&buf)
	if got := r.Uint8(); got != 7 {
		t.Errorf("Uint8() = %d, want 7", got)
	}
	if !r.Bool() {
		t.Error("Bool() = false, want true")
	}
	if got := r.Uint32(); got != 0xdeadbeef {
		t.Errorf("Uint32() = %#x", got)
	}
	if got := r.Int32(); got != -42 {
		t.Errorf("Int32() = %d, want -42", got)
	}
	if got := r.Uvarint(); got != 300 {
		t.Errorf("Uvarint() = %d, want 300", got)
	}
	if got := r.Float32(); got != 0.25 {
		t.Errorf("Float32() = %v, want 0.25", got)
	}
	if got := r.Float64(); got != math.Pi {
		t.Errorf("Float64() = %v, want pi", got)
	}
	if got := r.String(); got != "héllo" {
		t.Errorf("String() = %q", got)
	}
	if _, ok := r.NullString(); ok {
		t.Error("NullString() ok = true for absent value")
	}
	if s, ok := r.NullString(); !ok || s != "clip" {
		t.Errorf("NullString() = %q, %v", s, ok)
	}
	if got := r.Matrix(); got != (gg.Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}) {
		t.Errorf("Matrix() = %+v", got)
	}
	if got := r.Rect(); got != (gg.Rect{Min: gg.Pt(0.1, 0.2), Max: gg.Pt(0.3, 0.7)}) {
		t.Errorf("Rect() = %+v", got)
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0, 0}))
	_ = r.Uint32()
	err := r.Err()
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Err() = %v, want ErrMalformed", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want io.ErrUnexpectedEOF", err)
	}
	// Sticky: later reads return zero values.
	if got := r.Float64(); got != 0 {
		t.Errorf("Float64() after error = %v, want 0", got)
	}
}

func TestReaderBadBool(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{2}))
	_ = r.Bool()
	if !errors.Is(r.Err(), ErrMalformed) {
		t.Errorf("Err() = %v, want ErrMalformed", r.Err())
	}
}

func TestReaderBadPath(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.String("m 0 0 w")
	_ = w.Flush()

	r := NewReader(&buf)
	if p := r.Path(); p != nil {
		t.Errorf("Path() = %v, want nil", p)
	}
	if !errors.Is(r.Err(), ErrMalformed) {
		t.Errorf("Err() = %v, want ErrMalformed", r.Err())
	}
}

func TestReaderStringLimit(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Uvarint(maxStringLen + 1)
	_ = w.Flush()

	r := NewReader(&buf)
	_ = r.String()
	if !errors.Is(r.Err(), ErrMalformed) {
		t.Errorf("Err() = %v, want ErrMalformed", r.Err())
	}
}
