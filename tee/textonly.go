package tee

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
)

// TextOnly relays state changes and text to the wrapped canvas and drops
// fills, strokes and images. A text box keeps its text but loses its
// background and frame.
type TextOnly struct {
	ggwriter.Canvas
}

// NewTextOnly wraps c.
func NewTextOnly(c ggwriter.Canvas) *TextOnly {
	return &TextOnly{Canvas: c}
}

func (t *TextOnly) Fill(*gg.Path) error { return nil }

func (t *TextOnly) Stroke(*gg.Path) error { return nil }

func (t *TextOnly) DrawImage(image.Image, gg.Rect, image.Rectangle, *gg.RGBA) error {
	return nil
}

func (t *TextOnly) DrawTextBox(b ggwriter.Box) error {
	b.Background = nil
	b.Frame = nil
	return t.Canvas.DrawTextBox(b)
}

// Fork keeps the filter on the fork.
func (t *TextOnly) Fork() ggwriter.Canvas {
	return &TextOnly{Canvas: t.Canvas.Fork()}
}
