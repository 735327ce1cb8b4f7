package main

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
)

// drawDemo paints the demo scene onto c, which is width x height units.
func drawDemo(c ggwriter.Canvas, width, height float64) error {
	return errors.Join(
		drawGradientBackground(c, width, height),
		drawShapesDemo(c),
		drawTransformDemo(c),
		drawPathDemo(c),
		drawTextDemo(c),
		drawImageDemo(c),
	)
}

func drawGradientBackground(c ggwriter.Canvas, w, h float64) error {
	c.SetPaint(ggwriter.LinearGradient{
		X1: 0, Y1: h,
		Stops: []ggwriter.Stop{
			{Offset: 0, Color: gg.RGB(0.1, 0.2, 0.4)},
			{Offset: 1, Color: gg.RGB(0.5, 0.5, 0.6)},
		},
	})
	p := gg.NewPath()
	p.Rectangle(0, 0, w, h)
	return c.Fill(p)
}

func drawShapesDemo(c ggwriter.Canvas) error {
	var errs []error
	circle := func(col gg.RGBA, x, y float64) {
		c.SetPaint(ggwriter.Solid{Color: col})
		p := gg.NewPath()
		p.Circle(x, y, 60)
		errs = append(errs, c.Fill(p))
	}
	circle(gg.RGBA2(1, 0.3, 0.3, 0.8), 150, 150)
	circle(gg.RGBA2(0.3, 1, 0.3, 0.8), 200, 150)
	circle(gg.RGBA2(0.3, 0.3, 1, 0.8), 175, 200)

	// A fill followed by a stroke of the same shape records one
	// combined shape.
	rect := gg.NewPath()
	rect.RoundedRectangle(350, 100, 120, 80, 15)
	c.SetPaint(ggwriter.Solid{Color: gg.RGB(1, 0.8, 0)})
	errs = append(errs, c.Fill(rect))
	s := ggwriter.DefaultStroke()
	s.Width = 4
	c.SetStrokeStyle(s)
	c.SetPaint(ggwriter.Solid{Color: gg.RGB(1, 1, 1)})
	errs = append(errs, c.Stroke(rect))
	return errors.Join(errs...)
}

func drawTransformDemo(c ggwriter.Canvas) error {
	var errs []error
	for i := 0; i < 8; i++ {
		f := c.Fork()
		f.Concat(gg.Translate(600, 150))
		f.Concat(gg.Rotate(float64(i) * math.Pi / 4))
		f.SetPaint(ggwriter.Solid{Color: gg.HSL(float64(i)*45, 0.8, 0.6)})
		sq := gg.NewPath()
		sq.Rectangle(-30, -30, 60, 60)
		errs = append(errs, f.Fill(sq))
		f.Dispose()
	}
	return errors.Join(errs...)
}

func drawPathDemo(c ggwriter.Canvas) error {
	f := c.Fork()
	defer f.Dispose()
	f.Concat(gg.Translate(150, 400))

	wave := gg.NewPath()
	wave.MoveTo(0, 0)
	wave.CubicTo(50, -50, 100, 50, 150, 0)
	wave.CubicTo(200, -30, 250, 30, 300, 0)
	s := ggwriter.DefaultStroke()
	s.Width = 6
	s.Cap = gg.LineCapRound
	f.SetStrokeStyle(s)
	f.SetPaint(ggwriter.Solid{Color: gg.RGB(1, 0.5, 0)})
	if err := f.Stroke(wave); err != nil {
		return err
	}

	f.Concat(gg.Translate(400, 0))
	f.SetPaint(ggwriter.RadialGradient{
		R1: 60,
		Stops: []ggwriter.Stop{
			{Offset: 0, Color: gg.RGB(1, 1, 0.6)},
			{Offset: 1, Color: gg.RGB(1, 0.8, 0)},
		},
	})
	return f.Fill(star(5, 60, 30))
}

// star returns a closed star polygon centered on the origin.
func star(points int, outer, inner float64) *gg.Path {
	p := gg.NewPath()
	for i := 0; i < points*2; i++ {
		angle := float64(i) * math.Pi / float64(points)
		r := outer
		if i%2 == 1 {
			r = inner
		}
		x := r * math.Cos(angle-math.Pi/2)
		y := r * math.Sin(angle-math.Pi/2)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}

func drawTextDemo(c ggwriter.Canvas) error {
	title := ggwriter.NewStyledText("ggwriter demo", ggwriter.Font{Family: "Go", Size: 28, Bold: true}, ggwriter.Solid{Color: gg.RGB(1, 1, 1)})
	if err := c.DrawStyledText(title, 40, 560); err != nil {
		return err
	}
	bg, frame := gg.RGBA2(0, 0, 0, 0.4), gg.RGB(1, 1, 1)
	body := ggwriter.NewStyledText(
		"Every call on this canvas was recorded as a paint record, merged where possible and replayed.",
		ggwriter.DefaultFont, ggwriter.Solid{Color: gg.RGB(1, 1, 1)},
	)
	body.Runs = append(body.Runs,
		ggwriter.Run{Start: 6, End: 10, Attr: ggwriter.AttrForeground, Value: ggwriter.Solid{Color: gg.RGB(1, 0.8, 0)}.String()},
		ggwriter.Run{Start: 6, End: 10, Attr: ggwriter.AttrWeight, Value: "bold"},
	)
	return c.DrawTextBox(ggwriter.Box{
		Rect:           gg.Rect{Min: gg.Pt(520, 360), Max: gg.Pt(760, 440)},
		Background:     &bg,
		Frame:          &frame,
		FrameThickness: 2,
		Text:           body,
		Insets:         ggwriter.Insets{Top: 6, Left: 6, Bottom: 6, Right: 6},
	})
}

func drawImageDemo(c ggwriter.Canvas) error {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(32 * (x ^ y))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: 128, A: 255})
		}
	}
	white := gg.RGB(1, 1, 1)
	return c.DrawImage(img, gg.Rect{Min: gg.Pt(40, 460), Max: gg.Pt(104, 524)}, img.Bounds(), &white)
}
