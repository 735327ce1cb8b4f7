package ggcanvas

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

func star() *gg.Path {
	p := gg.NewPath()
	for i := 0; i < 10; i++ {
		r := 20.0
		if i%2 == 1 {
			r = 8
		}
		a := float64(i) * math.Pi / 5
		x, y := 32+r*math.Sin(a), 32-r*math.Cos(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}

func render(t *testing.T, n ggwriter.Node) *Canvas {
	t.Helper()
	c := New(64, 64)
	if err := n.PaintTo(c); err != nil {
		t.Fatalf("PaintTo() error = %v", err)
	}
	return c
}

func TestMergedReplayMatchesDirect(t *testing.T) {
	style := ggwriter.DefaultStroke()
	style.Width = 3
	style.Join = gg.LineJoinRound

	tests := []struct {
		name  string
		setup func(c ggwriter.Canvas)
	}{
		{"plain", func(ggwriter.Canvas) {}},
		{"transformed", func(c ggwriter.Canvas) {
			c.Concat(gg.Translate(4, 2))
			c.Concat(gg.Rotate(0.2))
		}},
		{"translucent", func(c ggwriter.Canvas) { _ = c.SetOpacity(0.5) }},
		{"clipped", func(c ggwriter.Canvas) { c.ClipTo(rect(0, 0, 32, 64)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draw := func(c ggwriter.Canvas) {
				tt.setup(c)
				c.SetStrokeStyle(style)
				c.SetPaint(ggwriter.Solid{Color: blue})
				_ = c.Fill(star())
				c.SetPaint(ggwriter.Solid{Color: red})
				_ = c.Stroke(star())
			}

			w := ggwriter.New()
			draw(w)
			if w.Len() != 1 || w.At(0).Kind() != ggwriter.KindCombinedShape {
				t.Fatalf("recorded %d nodes, want one CombinedShape", w.Len())
			}

			direct := New(64, 64)
			draw(direct)
			samePixels(t, render(t, w), direct)
		})
	}
}

func TestUnmergedReplayMatchesDirect(t *testing.T) {
	draw := func(c ggwriter.Canvas) {
		c.SetPaint(ggwriter.Solid{Color: green})
		_ = c.Fill(rect(4, 4, 20, 20))
		c.SetPaint(ggwriter.Checker{A: red, B: blue, Size: 4})
		_ = c.Fill(star())
		s := ggwriter.DefaultStroke()
		s.Width = 2
		s.Dash = []float64{4, 2}
		c.SetStrokeStyle(s)
		_ = c.Stroke(rect(10, 10, 40, 40))
	}
	w := ggwriter.New()
	draw(w)
	direct := New(64, 64)
	draw(direct)
	samePixels(t, render(t, w), direct)
}

func TestRoundTripPixels(t *testing.T) {
	img := checkerImage()
	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}

	tests := []struct {
		name string
		draw func(c ggwriter.Canvas)
	}{
		{"fill", func(c ggwriter.Canvas) {
			c.SetPaint(ggwriter.RadialGradient{
				CX: 32, CY: 32, R1: 30, FX: 32, FY: 32,
				Stops:  []ggwriter.Stop{{Color: red}, {Offset: 1, Color: blue}},
				Extend: ggwriter.ExtendReflect,
			})
			_ = c.Fill(star())
		}},
		{"stroke", func(c ggwriter.Canvas) {
			s := ggwriter.DefaultStroke()
			s.Width = 2.5
			s.Cap = gg.LineCapRound
			s.Dash = []float64{5, 3, 1}
			s.DashOffset = 1.5
			c.SetStrokeStyle(s)
			c.SetPaint(ggwriter.LinearGradient{
				X1: 64, Y1: 64,
				Stops: []ggwriter.Stop{{Color: green}, {Offset: 1, Color: red}},
			})
			_ = c.Stroke(star())
		}},
		{"combined shape", func(c ggwriter.Canvas) {
			c.Concat(gg.Rotate(0.1))
			_ = c.SetOpacity(0.75)
			c.SetPaint(ggwriter.Solid{Color: green})
			_ = c.Fill(star())
			c.SetPaint(ggwriter.Solid{Color: red})
			_ = c.Stroke(star())
		}},
		{"image", func(c ggwriter.Canvas) {
			c.ClipTo(star())
			_ = c.DrawImage(img, geom.XYWH(8, 8, 48, 48), image.Rect(0, 0, 2, 2), &white)
		}},
		{"text box", func(c ggwriter.Canvas) {
			st := ggwriter.NewStyledText("round trip text box", ggwriter.Font{Family: "Go", Size: 11}, ggwriter.Solid{Color: blue})
			st.Runs = append(st.Runs, ggwriter.Run{Start: 6, End: 10, Attr: ggwriter.AttrWeight, Value: "bold"})
			frame := red
			_ = c.DrawTextBox(ggwriter.Box{
				Rect:           geom.XYWH(4, 4, 56, 56),
				Background:     &white,
				Frame:          &frame,
				FrameThickness: 2,
				Text:           st,
				Insets:         ggwriter.Insets{Top: 3, Left: 3, Bottom: 3, Right: 3},
			})
		}},
		{"string", func(c ggwriter.Canvas) {
			c.SetFont(ggwriter.Font{Family: "Go Mono", Size: 14})
			_ = c.DrawString("gg", 10, 40)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ggwriter.New()
			tt.draw(w)
			data, err := ggwriter.Marshal(w)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			back, err := ggwriter.Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			samePixels(t, render(t, back), render(t, w))
		})
	}
}

func TestGroupedReplay(t *testing.T) {
	w := ggwriter.New(ggwriter.WithForkPolicy(ggwriter.ForkGrouped))
	w.SetPaint(ggwriter.Solid{Color: red})
	_ = w.Fill(rect(0, 0, 32, 32))
	child := w.Fork()
	child.Concat(gg.Translate(32, 32))
	_ = child.Fill(rect(0, 0, 32, 32))

	c := render(t, w)
	if got := at(c, 48, 48); got.R != 255 || got.A != 255 {
		t.Errorf("at(48, 48) = %v, want red from the child group", got)
	}
	if got := at(c, 48, 16); got.A != 0 {
		t.Errorf("at(48, 16) = %v, want transparent", got)
	}
}
