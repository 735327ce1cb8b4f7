package ggwriter

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/geom"
)

func TestRecordBounds(t *testing.T) {
	st := DefaultState()
	scaled := DefaultState()
	scaled.Transform = gg.Scale(2, 3)
	clipped := DefaultState()
	clipped.Clip = geom.RectClip(geom.XYWH(0, 0, 4, 4))

	wide := DefaultStroke()
	wide.Width = 2
	round := wide.Clone()
	round.Cap = gg.LineCapRound
	hair := DefaultStroke()
	hair.Width = 0

	line := gg.NewPath()
	line.MoveTo(0, 0)
	line.LineTo(10, 0)

	mustRec := func(r Record, err error) Record {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return r
	}
	red := gg.RGBA{R: 1, A: 1}

	tests := []struct {
		name string
		rec  Record
		want gg.Rect
	}{
		{"fill", mustRec(NewFill(square(1, 2, 3), Black, st)), geom.XYWH(1, 2, 3, 3)},
		{"fill scaled", mustRec(NewFill(square(1, 1, 1), Black, scaled)), geom.XYWH(2, 3, 2, 3)},
		{"fill clipped", mustRec(NewFill(square(2, 2, 10), Black, clipped)), geom.XYWH(2, 2, 2, 2)},
		{"stroke butt", mustRec(NewStroke(line, Black, wide, st)), geom.XYWH(0, -1, 10, 2)},
		{"stroke round", mustRec(NewStroke(line, Black, round, st)), geom.XYWH(-1, -1, 12, 2)},
		{"stroke hairline", mustRec(NewStroke(line, Black, hair, st)), geom.XYWH(0, 0, 10, 0)},
		{"image", mustRec(NewImage(image.NewNRGBA(image.Rect(0, 0, 2, 2)), geom.XYWH(5, 5, 4, 4), image.Rect(0, 0, 1, 1), scaled)),
			geom.XYWH(10, 15, 8, 12)},
		{"text box framed", mustRec(NewTextBox(Box{Rect: geom.XYWH(0, 0, 10, 10), Frame: &red, FrameThickness: 2}, st)),
			geom.XYWH(-1, -1, 12, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Bounds(); !rectNear(got, tt.want) {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordRejectsBadOpacity(t *testing.T) {
	st := DefaultState()
	st.Opacity = 2
	if _, err := NewFill(square(0, 0, 1), Black, st); !errors.Is(err, ErrInvalidOpacity) {
		t.Errorf("NewFill() error = %v, want ErrInvalidOpacity", err)
	}
	if _, err := NewStroke(square(0, 0, 1), Black, DefaultStroke(), st); !errors.Is(err, ErrInvalidOpacity) {
		t.Errorf("NewStroke() error = %v, want ErrInvalidOpacity", err)
	}
}

func TestClipped(t *testing.T) {
	tests := []struct {
		name string
		clip *geom.Clip
		want bool
	}{
		{"no clip", nil, false},
		{"containing", geom.RectClip(geom.XYWH(-5, -5, 30, 30)), false},
		{"cutting", geom.RectClip(geom.XYWH(0, 0, 5, 20)), true},
		{"disjoint", geom.RectClip(geom.XYWH(50, 50, 5, 5)), true},
		{"circle around", geom.NewClip(circle(5, 5, 20)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultState()
			st.Clip = tt.clip
			f, err := NewFill(square(0, 0, 10), Black, st)
			if err != nil {
				t.Fatal(err)
			}
			if got := f.Clipped(); got != tt.want {
				t.Errorf("Clipped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokeClippedCountsOutline(t *testing.T) {
	st := DefaultState()
	st.Clip = geom.RectClip(geom.XYWH(0, 0, 10, 10))
	fill, _ := NewFill(square(0, 0, 10), Black, st)
	wide := DefaultStroke()
	wide.Width = 4
	stroke, _ := NewStroke(square(0, 0, 10), Black, wide, st)
	if fill.Clipped() {
		t.Error("fill exactly inside its clip reported clipped")
	}
	if !stroke.Clipped() {
		t.Error("stroke extending past its clip not reported clipped")
	}
}

func TestImageRecord(t *testing.T) {
	full := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	full.SetNRGBA(3, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	sub := full.SubImage(image.Rect(2, 2, 5, 5))

	rec, err := NewImage(sub, geom.XYWH(0, 0, 3, 3), image.Rect(3, 3, 4, 4), DefaultState())
	if err != nil {
		t.Fatal(err)
	}
	if w, h := rec.Size(); w != 3 || h != 3 {
		t.Errorf("Size() = %d, %d, want 3, 3", w, h)
	}
	if got, want := rec.Src(), image.Rect(1, 1, 2, 2); got != want {
		t.Errorf("Src() = %v, want %v", got, want)
	}
	if got, want := rec.Pixels()[4], uint32(0x04010203); got != want {
		t.Errorf("Pixels()[4] = %#x, want %#x", got, want)
	}
	if got := rec.Image().NRGBAAt(1, 1); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("Image().At(1, 1) = %v", got)
	}

	full.SetNRGBA(3, 3, color.NRGBA{})
	if rec.Pixels()[4] == 0 {
		t.Error("record shares pixels with the source image")
	}

	if _, err := NewImage(sub, geom.XYWH(0, 0, 1, 1), image.Rect(0, 0, 1, 1), DefaultState()); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("NewImage(src outside) error = %v, want ErrOutOfBounds", err)
	}
}

func TestStrokeStyle(t *testing.T) {
	s := DefaultStroke()
	if s.Width != 1 || s.Cap != gg.LineCapButt || s.Join != gg.LineJoinMiter || s.MiterLimit != 10 || s.Dashed() {
		t.Errorf("DefaultStroke() = %+v", s)
	}
	d := s.Clone()
	d.Dash = []float64{1, 2}
	if !d.Dashed() || s.Equal(d) {
		t.Error("dashed style compares equal to the solid one")
	}
	c := d.Clone()
	c.Dash[0] = 9
	if d.Dash[0] != 1 {
		t.Error("Clone() shares the dash slice")
	}
	if (StrokeStyle{Dash: []float64{0, 0}}).Dashed() {
		t.Error("all-zero dash reported as dashed")
	}
}

func TestDefaultState(t *testing.T) {
	st := DefaultState()
	if !st.Transform.IsIdentity() || st.Clip != nil || st.Opacity != 1 || st.Attribution != UnknownAttribution {
		t.Errorf("DefaultState() = %+v", st)
	}
	if math.IsNaN(st.Opacity) {
		t.Error("opacity is NaN")
	}
}
