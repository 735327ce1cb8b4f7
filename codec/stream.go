package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// maxStringLen bounds a single length-prefixed field so a corrupt length
// cannot trigger a huge allocation.
const maxStringLen = 1 << 28

// Writer writes big-endian primitives to an underlying stream.
// The first error is sticky: later writes are no-ops and Err reports it.
type Writer struct {
	w   *bufio.Writer
	n   int64
	err error
	buf [binary.MaxVarintLen64]byte
}

// NewWriter returns a Writer buffering into w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
}

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// Bool writes a boolean as one byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Uint32 writes a 4-byte unsigned integer.
func (w *Writer) Uint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

// Int32 writes a 4-byte signed integer.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v)) // #nosec G115 -- bit pattern preserved
}

// Uvarint writes an unsigned varint.
func (w *Writer) Uvarint(v uint64) {
	n := binary.PutUvarint(w.buf[:], v)
	w.write(w.buf[:n])
}

// Float32 writes an IEEE-754 single.
func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// Float64 writes an IEEE-754 double.
func (w *Writer) Float64(v float64) {
	binary.BigEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.write(w.buf[:8])
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.Uvarint(uint64(len(s)))
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
		w.n += int64(len(s))
	}
}

// NullString writes a presence flag followed by the string when present.
func (w *Writer) NullString(s string, ok bool) {
	w.Bool(ok)
	if ok {
		w.String(s)
	}
}

// Path writes the canonical encoding of p.
func (w *Writer) Path(p *gg.Path) {
	w.String(EncodePath(p))
}

// Matrix writes the six coefficients of m.
func (w *Writer) Matrix(m gg.Matrix) {
	for _, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		w.Float64(v)
	}
}

// Rect writes a rectangle as its two corners.
func (w *Writer) Rect(r gg.Rect) {
	w.Float64(r.Min.X)
	w.Float64(r.Min.Y)
	w.Float64(r.Max.X)
	w.Float64(r.Max.Y)
}

// Flush writes any buffered data and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Written returns the number of bytes accepted so far.
func (w *Writer) Written() int64 { return w.n }

// Reader reads primitives written by Writer.
// Like Writer it keeps the first error, which always wraps ErrMalformed
// (or io.ErrUnexpectedEOF for truncated input) and carries the offset.
type Reader struct {
	r   *bufio.Reader
	off int64
	err error
	buf [8]byte
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: offset %d: %s", ErrMalformed, r.off, fmt.Sprintf(format, args...))
	}
}

func (r *Reader) read(p []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.err = fmt.Errorf("%w: offset %d: %w", ErrMalformed, r.off, io.ErrUnexpectedEOF)
		} else {
			r.err = err
		}
		return false
	}
	return true
}

// Uint8 reads one byte.
func (r *Reader) Uint8() uint8 {
	if !r.read(r.buf[:1]) {
		return 0
	}
	return r.buf[0]
}

// Bool reads a boolean byte; anything other than 0 or 1 is malformed.
func (r *Reader) Bool() bool {
	b := r.Uint8()
	if b > 1 {
		r.fail("bad boolean %d", b)
		return false
	}
	return b == 1
}

// Uint32 reads a 4-byte unsigned integer.
func (r *Reader) Uint32() uint32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return binary.BigEndian.Uint32(r.buf[:4])
}

// Int32 reads a 4-byte signed integer.
func (r *Reader) Int32() int32 {
	return int32(r.Uint32()) // #nosec G115 -- bit pattern preserved
}

// Uvarint reads an unsigned varint.
func (r *Reader) Uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(byteCounter{r})
	if err != nil {
		if r.err == nil {
			r.fail("bad varint: %v", err)
		}
		return 0
	}
	return v
}

// byteCounter adapts Reader to io.ByteReader while tracking the offset.
type byteCounter struct{ r *Reader }

func (b byteCounter) ReadByte() (byte, error) {
	c, err := b.r.r.ReadByte()
	if err == nil {
		b.r.off++
	}
	return c, err
}

// Float32 reads an IEEE-754 single.
func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Float64 reads an IEEE-754 double.
func (r *Reader) Float64() float64 {
	if !r.read(r.buf[:8]) {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(r.buf[:8]))
}

// String reads a length-prefixed string.
func (r *Reader) String() string {
	n := r.Uvarint()
	if r.err != nil {
		return ""
	}
	if n > maxStringLen {
		r.fail("string length %d exceeds limit", n)
		return ""
	}
	p := make([]byte, n)
	if !r.read(p) {
		return ""
	}
	return string(p)
}

// NullString reads a value written by Writer.NullString.
func (r *Reader) NullString() (string, bool) {
	if !r.Bool() {
		return "", false
	}
	return r.String(), true
}

// Path reads a canonical path string and decodes it.
func (r *Reader) Path() *gg.Path {
	s := r.String()
	if r.err != nil {
		return nil
	}
	p, err := DecodePath(s)
	if err != nil {
		r.fail("%v", err)
		return nil
	}
	return p
}

// Matrix reads six coefficients.
func (r *Reader) Matrix() gg.Matrix {
	var v [6]float64
	for i := range v {
		v[i] = r.Float64()
	}
	return gg.Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}
}

// Rect reads a rectangle written by Writer.Rect.
func (r *Reader) Rect() gg.Rect {
	x0, y0, x1, y1 := r.Float64(), r.Float64(), r.Float64(), r.Float64()
	return gg.Rect{Min: gg.Pt(x0, y0), Max: gg.Pt(x1, y1)}
}

// Fail records a caller-detected format error at the current offset.
func (r *Reader) Fail(format string, args ...any) {
	r.fail(format, args...)
}

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int64 { return r.off }
