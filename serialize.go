package ggwriter

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// Record stream layout:
//
//	magic "GGWR" | version u8 | node | end tag 0
//
// A node is a kind tag followed by its fields. Records start with their
// state: attribution, nullable clip string, six transform coefficients
// and a float32 opacity. Groups carry their attribution, opacity and
// child count, followed by the children. Integers and floats are
// big-endian; strings are uvarint length-prefixed.
const (
	streamMagic = "GGWR"

	// StreamVersion is the version byte written after the magic.
	StreamVersion = 1

	tagEnd = 0

	maxPixels   = 1 << 26
	pixelChunk  = 1 << 16
	maxDash     = 1 << 16
	maxRuns     = 1 << 20
	maxChildren = 1 << 24
	maxDepth    = 512
)

// Encode writes n and its subtree to w as a record stream.
func Encode(w io.Writer, n Node) error {
	cw := codec.NewWriter(w)
	for i := 0; i < len(streamMagic); i++ {
		cw.Uint8(streamMagic[i])
	}
	cw.Uint8(StreamVersion)
	encodeNode(cw, n)
	cw.Uint8(tagEnd)
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("ggwriter: encode: %w", err)
	}
	return nil
}

// Marshal returns the record stream of n.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(cw *codec.Writer, n Node) {
	cw.Uint8(uint8(n.Kind()))
	switch v := n.(type) {
	case *Writer:
		children := v.Children()
		cw.String(v.attribution)
		cw.Float32(float32(v.opacity))
		cw.Uvarint(uint64(len(children)))
		for _, c := range children {
			encodeNode(cw, c)
		}
	case Record:
		v.encode(cw)
	}
}

// Decode reads a record stream into a new root context configured with
// opts. A stream holding a group becomes the root itself; a stream holding
// a single record becomes the root's only child. Records beyond the
// root's ceiling are dropped as they would be when recording. Every
// decoding failure wraps ErrSerialization.
func Decode(r io.Reader, opts ...Option) (*Writer, error) {
	d := &decoder{r: codec.NewReader(r)}
	root := New(opts...)
	if err := d.stream(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return root, nil
}

// Unmarshal decodes a record stream held in memory.
func Unmarshal(data []byte, opts ...Option) (*Writer, error) {
	return Decode(bytes.NewReader(data), opts...)
}

type decoder struct {
	r     *codec.Reader
	depth int
}

func (d *decoder) stream(root *Writer) error {
	var magic [4]byte
	for i := range magic {
		magic[i] = d.r.Uint8()
	}
	if d.r.Err() == nil && string(magic[:]) != streamMagic {
		d.r.Fail("bad magic %q", magic[:])
	}
	if v := d.r.Uint8(); d.r.Err() == nil && v != StreamVersion {
		d.r.Fail("unsupported version %d", v)
	}
	tag := Kind(d.r.Uint8())
	if d.r.Err() != nil {
		return d.r.Err()
	}
	if tag == KindGroup {
		root.attribution = d.r.String()
		d.groupBody(root)
	} else {
		d.record(root, tag)
	}
	if end := d.r.Uint8(); d.r.Err() == nil && end != tagEnd {
		d.r.Fail("expected end tag, got %d", end)
	}
	return d.r.Err()
}

// node reads one tagged node and appends it to parent.
func (d *decoder) node(parent *Writer) {
	tag := Kind(d.r.Uint8())
	if d.r.Err() != nil {
		return
	}
	if tag != KindGroup {
		d.record(parent, tag)
		return
	}
	g := &Writer{
		root:      parent.root,
		transform: gg.Identity(),
		paint:     Black,
		stroke:    DefaultStroke(),
		font:      DefaultFont,
	}
	g.list = &nodeList{owner: g}
	g.attribution = d.r.String()
	if !parent.Add(g) {
		g.seal(parent.root)
	}
	d.groupBody(g)
}

func (d *decoder) groupBody(g *Writer) {
	op := float64(d.r.Float32())
	if d.r.Err() == nil {
		if err := checkOpacity(op); err != nil {
			d.r.Fail("%v", err)
		}
	}
	g.opacity = op
	n := d.r.Uvarint()
	if d.r.Err() == nil && n > maxChildren {
		d.r.Fail("group of %d children exceeds limit", n)
	}
	d.depth++
	if d.depth > maxDepth {
		d.r.Fail("groups nested deeper than %d", maxDepth)
	}
	for i := uint64(0); i < n && d.r.Err() == nil; i++ {
		d.node(g)
	}
	d.depth--
}

func (d *decoder) record(parent *Writer, tag Kind) {
	var (
		rec Record
		err error
	)
	st := d.state()
	switch tag {
	case KindFill:
		p, paint := d.r.Path(), d.paint()
		if d.r.Err() == nil {
			rec, err = NewFill(p, paint, st)
		}
	case KindStroke:
		p, paint, style := d.r.Path(), d.paint(), d.stroke()
		if d.r.Err() == nil {
			rec, err = NewStroke(p, paint, style, st)
		}
	case KindCombinedShape:
		p, fill, stroke, style := d.r.Path(), d.nullPaint(), d.nullPaint(), d.stroke()
		if d.r.Err() == nil {
			rec, err = newCombinedShape(p, fill, stroke, style, st)
		}
	case KindImage:
		rec, err = d.image(st)
	case KindTextBox:
		rec, err = d.textBox(st)
	default:
		d.r.Fail("unknown record tag %d", tag)
	}
	if d.r.Err() != nil {
		return
	}
	if err != nil {
		d.r.Fail("%s: %v", tag, err)
		return
	}
	parent.Add(rec)
}

func (d *decoder) state() State {
	st := State{Attribution: d.r.String()}
	if s, ok := d.r.NullString(); ok && d.r.Err() == nil {
		clip, err := geom.ParseClip(s)
		if err != nil {
			d.r.Fail("clip: %v", err)
		}
		st.Clip = clip
	}
	st.Transform = d.r.Matrix()
	st.Opacity = float64(d.r.Float32())
	return st
}

func (d *decoder) paint() Paint {
	s := d.r.String()
	if d.r.Err() != nil {
		return nil
	}
	p, err := ParsePaint(s)
	if err != nil {
		d.r.Fail("paint: %v", err)
	}
	return p
}

func (d *decoder) nullPaint() Paint {
	if !d.r.Bool() {
		return nil
	}
	return d.paint()
}

func (d *decoder) stroke() StrokeStyle {
	s := StrokeStyle{
		Width: d.r.Float64(),
		Cap:   gg.LineCap(d.r.Uint8()),
		Join:  gg.LineJoin(d.r.Uint8()),
	}
	s.MiterLimit = d.r.Float64()
	n := d.r.Uvarint()
	if d.r.Err() == nil && n > maxDash {
		d.r.Fail("dash of %d entries exceeds limit", n)
	}
	if d.r.Err() != nil {
		return s
	}
	if n > 0 {
		s.Dash = make([]float64, n)
		for i := range s.Dash {
			s.Dash[i] = d.r.Float64()
		}
	}
	s.DashOffset = d.r.Float64()
	return s
}

func (d *decoder) image(st State) (Record, error) {
	dst := d.r.Rect()
	src := image.Rect(
		int(d.r.Int32()), int(d.r.Int32()),
		int(d.r.Int32()), int(d.r.Int32()),
	)
	w, h := d.r.Uint32(), d.r.Uint32()
	if d.r.Err() == nil && uint64(w)*uint64(h) > maxPixels {
		d.r.Fail("image of %dx%d pixels exceeds limit", w, h)
	}
	if d.r.Err() != nil {
		return nil, nil
	}
	// px grows with the input, not with the size the header claims.
	n := int(w) * int(h)
	px := make([]uint32, 0, min(n, pixelChunk))
	for i := 0; i < n && d.r.Err() == nil; i++ {
		px = append(px, d.r.Uint32())
	}
	if d.r.Err() != nil {
		return nil, nil
	}
	return newImageFromPixels(int(w), int(h), px, dst, src, st)
}

func (d *decoder) textBox(st State) (Record, error) {
	var b Box
	b.Rect = d.r.Rect()
	b.Insets = Insets{
		Top:    d.r.Float64(),
		Left:   d.r.Float64(),
		Bottom: d.r.Float64(),
		Right:  d.r.Float64(),
	}
	b.Frame = d.color()
	b.FrameThickness = d.r.Float64()
	b.Background = d.color()
	b.MaxLineWidth = d.r.Float64()
	b.Text.Text = d.r.String()
	n := d.r.Uvarint()
	if d.r.Err() == nil && n > maxRuns {
		d.r.Fail("%d text runs exceed limit", n)
	}
	for i := uint64(0); i < n && d.r.Err() == nil; i++ {
		b.Text.Runs = append(b.Text.Runs, Run{
			Start: int(d.r.Uint32()),
			End:   int(d.r.Uint32()),
			Attr:  Attribute(d.r.String()),
			Value: d.r.String(),
		})
	}
	if d.r.Err() != nil {
		return nil, nil
	}
	return NewTextBox(b, st)
}

func (d *decoder) color() *gg.RGBA {
	if !d.r.Bool() {
		return nil
	}
	return &gg.RGBA{R: d.r.Float64(), G: d.r.Float64(), B: d.r.Float64(), A: d.r.Float64()}
}
