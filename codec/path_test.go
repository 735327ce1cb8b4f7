package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestEncodePath(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *gg.Path)
		want  string
	}{
		{"empty", func(*gg.Path) {}, ""},
		{"line", func(p *gg.Path) {
			p.MoveTo(0, 0)
			p.LineTo(10, 0.5)
		}, "m 0 0 l 10 0.5"},
		{"quad and close", func(p *gg.Path) {
			p.MoveTo(1, 2)
			p.QuadraticTo(3, 4, 5, 6)
			p.Close()
		}, "m 1 2 q 3 4 5 6 z"},
		{"cubic", func(p *gg.Path) {
			p.MoveTo(-1, -2)
			p.CubicTo(1, 2, 3, 4, 5, 6)
		}, "m -1 -2 c 1 2 3 4 5 6"},
		{"negative zero", func(p *gg.Path) {
			p.MoveTo(math.Copysign(0, -1), 0)
		}, "m 0 0"},
		{"precise", func(p *gg.Path) {
			p.MoveTo(0.1, 1.0/3)
		}, "m 0.1 0.3333333333333333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := gg.NewPath()
			tt.build(p)
			if got := EncodePath(p); got != tt.want {
				t.Errorf("EncodePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodePathNil(t *testing.T) {
	if got := EncodePath(nil); got != "" {
		t.Errorf("EncodePath(nil) = %q, want empty", got)
	}
}

func TestDecodePathRoundTrip(t *testing.T) {
	p := gg.NewPath()
	p.Circle(3.25, -7.125, 10.0/3)
	p.MoveTo(100, 100)
	p.QuadraticTo(110, 90, 120, 100)
	p.LineTo(1e-9, 1e12)
	p.Close()

	s := EncodePath(p)
	got, err := DecodePath(s)
	if err != nil {
		t.Fatalf("DecodePath() error = %v", err)
	}
	if again := EncodePath(got); again != s {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", again, s)
	}
	if !Equal(p, got) {
		t.Error("Equal() = false after round trip")
	}
}

func TestDecodePathErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown operator", "m 0 0 x 1 1"},
		{"missing coordinates", "m 0"},
		{"bad number", "m 0 zero"},
		{"nan", "m NaN 0"},
		{"inf", "l +Inf 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePath(tt.in)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodePath(%q) error = %v, want ErrMalformed", tt.in, err)
			}
		})
	}
}

func TestEqualDistinguishesEncoding(t *testing.T) {
	a := gg.NewPath()
	a.Rectangle(0, 0, 10, 10)

	// Same region, different element order.
	b := gg.NewPath()
	b.MoveTo(10, 0)
	b.LineTo(10, 10)
	b.LineTo(0, 10)
	b.LineTo(0, 0)
	b.Close()

	if Equal(a, b) {
		t.Error("Equal() = true for differently encoded paths")
	}
	if !Equal(a, a.Clone()) {
		t.Error("Equal() = false for a clone")
	}
}
