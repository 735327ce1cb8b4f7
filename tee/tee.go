// Package tee provides Canvas combinators: Canvas fans every call out to
// several canvases, and TextOnly drops everything but text.
//
// A typical use records a drawing while rendering it:
//
//	w := ggwriter.New()
//	c := tee.New(w, ggcanvas.New(640, 480))
//	draw(c)
package tee

import (
	"errors"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

// Canvas relays every call to each of its targets in order. Queries answer
// from the first target.
type Canvas struct {
	targets []ggwriter.Canvas
}

var _ ggwriter.Canvas = (*Canvas)(nil)

// New returns a canvas relaying to first and rest.
func New(first ggwriter.Canvas, rest ...ggwriter.Canvas) *Canvas {
	targets := make([]ggwriter.Canvas, 0, 1+len(rest))
	targets = append(targets, first)
	targets = append(targets, rest...)
	return &Canvas{targets: targets}
}

// Targets returns the canvases c relays to.
func (c *Canvas) Targets() []ggwriter.Canvas {
	return append([]ggwriter.Canvas(nil), c.targets...)
}

func (c *Canvas) each(fn func(ggwriter.Canvas)) {
	for _, t := range c.targets {
		fn(t)
	}
}

// all calls fn on every target and joins the errors.
func (c *Canvas) all(fn func(ggwriter.Canvas) error) error {
	var errs []error
	for _, t := range c.targets {
		if err := fn(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Canvas) Transform() gg.Matrix { return c.targets[0].Transform() }

func (c *Canvas) SetTransform(m gg.Matrix) {
	c.each(func(t ggwriter.Canvas) { t.SetTransform(m) })
}

func (c *Canvas) Concat(m gg.Matrix) {
	c.each(func(t ggwriter.Canvas) { t.Concat(m) })
}

func (c *Canvas) Clip() (*geom.Clip, error) { return c.targets[0].Clip() }

func (c *Canvas) SetClip(p *gg.Path) {
	c.each(func(t ggwriter.Canvas) { t.SetClip(p) })
}

func (c *Canvas) ClipTo(p *gg.Path) {
	c.each(func(t ggwriter.Canvas) { t.ClipTo(p) })
}

func (c *Canvas) Paint() ggwriter.Paint { return c.targets[0].Paint() }

func (c *Canvas) SetPaint(p ggwriter.Paint) {
	c.each(func(t ggwriter.Canvas) { t.SetPaint(p) })
}

func (c *Canvas) StrokeStyle() ggwriter.StrokeStyle { return c.targets[0].StrokeStyle() }

func (c *Canvas) SetStrokeStyle(s ggwriter.StrokeStyle) {
	c.each(func(t ggwriter.Canvas) { t.SetStrokeStyle(s) })
}

func (c *Canvas) Font() ggwriter.Font { return c.targets[0].Font() }

func (c *Canvas) SetFont(f ggwriter.Font) {
	c.each(func(t ggwriter.Canvas) { t.SetFont(f) })
}

func (c *Canvas) Opacity() float64 { return c.targets[0].Opacity() }

func (c *Canvas) SetOpacity(a float64) error {
	return c.all(func(t ggwriter.Canvas) error { return t.SetOpacity(a) })
}

func (c *Canvas) SetComposite(m ggwriter.Composite) error {
	return c.all(func(t ggwriter.Canvas) error { return t.SetComposite(m) })
}

func (c *Canvas) Fill(p *gg.Path) error {
	return c.all(func(t ggwriter.Canvas) error { return t.Fill(p) })
}

func (c *Canvas) Stroke(p *gg.Path) error {
	return c.all(func(t ggwriter.Canvas) error { return t.Stroke(p) })
}

func (c *Canvas) DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error {
	return c.all(func(t ggwriter.Canvas) error { return t.DrawImage(img, dst, src, bg) })
}

func (c *Canvas) DrawString(s string, x, y float64) error {
	return c.all(func(t ggwriter.Canvas) error { return t.DrawString(s, x, y) })
}

func (c *Canvas) DrawStyledText(st ggwriter.StyledText, x, y float64) error {
	return c.all(func(t ggwriter.Canvas) error { return t.DrawStyledText(st, x, y) })
}

func (c *Canvas) DrawTextBox(b ggwriter.Box) error {
	return c.all(func(t ggwriter.Canvas) error { return t.DrawTextBox(b) })
}

// Fork forks every target.
func (c *Canvas) Fork() ggwriter.Canvas {
	f := &Canvas{targets: make([]ggwriter.Canvas, len(c.targets))}
	for i, t := range c.targets {
		f.targets[i] = t.Fork()
	}
	return f
}

func (c *Canvas) Dispose() {
	c.each(ggwriter.Canvas.Dispose)
}
