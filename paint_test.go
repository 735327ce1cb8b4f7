package ggwriter

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
)

func TestPaintString(t *testing.T) {
	tests := []struct {
		name  string
		paint Paint
		want  string
	}{
		{"solid", Solid{Color: gg.RGBA{R: 1, G: 0.5, A: 1}}, "solid 1 0.5 0 1"},
		{"black", Black, "solid 0 0 0 1"},
		{"linear", LinearGradient{X1: 10, Y1: 5, Stops: []Stop{{0, gg.Black}, {1, gg.RGBA{B: 1, A: 1}}}},
			"linear 0 0 10 5 pad 2 0 0 0 0 1 1 0 0 1 1"},
		{"radial", RadialGradient{CX: 1, CY: 2, R0: 0, R1: 3, FX: 1, FY: 2, Extend: ExtendReflect},
			"radial 1 2 0 3 1 2 reflect 0"},
		{"checker", Checker{A: gg.Black, B: gg.RGBA{R: 1, G: 1, B: 1, A: 1}, Size: 4},
			"checker 4 0 0 0 1 1 1 1 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.paint.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			back, err := ParsePaint(tt.want)
			if err != nil {
				t.Fatalf("ParsePaint() error = %v", err)
			}
			if back.String() != tt.want {
				t.Errorf("ParsePaint().String() = %q, want %q", back.String(), tt.want)
			}
		})
	}
}

func TestParsePaintErrors(t *testing.T) {
	tests := []string{
		"",
		"plaid 1 2 3",
		"solid 1 0 0",
		"solid 1 0 0 1 9",
		"solid red 0 0 1",
		"linear 0 0 1 1 sideways 0",
		"linear 0 0 1 1 pad 2 0 0 0 0 1",
		"linear 0 0 1 1 pad -1",
		"checker",
	}
	for _, s := range tests {
		if _, err := ParsePaint(s); !errors.Is(err, codec.ErrMalformed) {
			t.Errorf("ParsePaint(%q) error = %v, want ErrMalformed", s, err)
		}
	}
}

func TestSolidColor(t *testing.T) {
	p := SolidColor(color.NRGBA{R: 255, A: 255})
	if p.Color.R != 1 || p.Color.A != 1 || p.Color.G != 0 {
		t.Errorf("SolidColor() = %v, want opaque red", p)
	}
}

func TestPaintIsolation(t *testing.T) {
	w := New()
	stops := []Stop{{0, gg.Black}, {1, gg.Black}}
	w.SetPaint(LinearGradient{X1: 1, Stops: stops})
	stops[0].Offset = 0.5
	if got := w.Paint().(LinearGradient).Stops[0].Offset; got != 0 {
		t.Errorf("stop offset = %v after caller mutation, want 0", got)
	}
	w.SetPaint(nil)
	if w.Paint() != Paint(Black) {
		t.Errorf("SetPaint(nil) gave %v, want black", w.Paint())
	}
}
