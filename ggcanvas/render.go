package ggcanvas

import (
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

// Render paints n onto a new canvas just large enough to hold its bounds.
// The canvas origin stays at device (0, 0), so content at negative
// coordinates is cut off.
func Render(n ggwriter.Node) (*Canvas, error) {
	w, h := extent(n.Bounds())
	c := New(w, h)
	if err := n.PaintTo(c); err != nil {
		return c, err
	}
	return c, nil
}

// RenderSize paints n onto a new canvas of the given size, filled with bg
// first when bg is not nil.
func RenderSize(n ggwriter.Node, width, height int, bg *gg.RGBA) (*Canvas, error) {
	c := New(width, height)
	if bg != nil {
		c.Clear(*bg)
	}
	return c, n.PaintTo(c)
}

// EncodePNG renders n and writes it to w as PNG.
func EncodePNG(w io.Writer, n ggwriter.Node) error {
	c, err := Render(n)
	if err != nil {
		return err
	}
	return imaging.Encode(w, c.NRGBA(), imaging.PNG)
}

// SavePNG renders n to a PNG file.
func SavePNG(path string, n ggwriter.Node) error {
	c, err := Render(n)
	if err != nil {
		return err
	}
	return c.SaveToFile(path)
}

func extent(b gg.Rect) (int, int) {
	if geom.IsEmpty(b) {
		return 1, 1
	}
	return max(1, int(math.Ceil(b.Max.X))), max(1, int(math.Ceil(b.Max.Y)))
}
