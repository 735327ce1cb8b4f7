package ggwriter

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// TextBox records a laid-out block of styled text with an optional
// background and frame.
type TextBox struct {
	base
	box Box
}

// NewTextBox returns a TextBox record of b. The box is copied.
func NewTextBox(b Box, st State) (*TextBox, error) {
	if err := b.Text.Validate(); err != nil {
		return nil, fmt.Errorf("ggwriter: text box: %w", err)
	}
	t := &TextBox{box: b.Clone()}
	if err := t.init(st); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TextBox) Kind() Kind { return KindTextBox }

// Box returns a copy of the recorded box.
func (t *TextBox) Box() Box { return t.box.Clone() }

// Text returns the plain text of the box.
func (t *TextBox) Text() string { return t.box.Text.Text }

func (t *TextBox) RemoveFromParent() { removeFromParent(t) }

func (t *TextBox) Bounds() gg.Rect {
	return geom.RectBounds(t.box.Outer(), t.transform, t.clip)
}

func (t *TextBox) Region() []*gg.Path {
	return []*gg.Path{geom.RectPath(t.box.Outer()).Transform(t.transform)}
}

func (t *TextBox) Clipped() bool { return t.clippedBy(t.Region) }

func (t *TextBox) PaintTo(c Canvas) error {
	g, err := t.prepare(c)
	if err != nil {
		return err
	}
	defer g.Dispose()
	return PaintBox(g, t.box)
}

func (t *TextBox) encode(w *codec.Writer) {
	t.encodeState(w)
	b := t.box
	w.Rect(b.Rect)
	w.Float64(b.Insets.Top)
	w.Float64(b.Insets.Left)
	w.Float64(b.Insets.Bottom)
	w.Float64(b.Insets.Right)
	encodeColor(w, b.Frame)
	w.Float64(b.FrameThickness)
	encodeColor(w, b.Background)
	w.Float64(b.MaxLineWidth)
	w.String(b.Text.Text)
	w.Uvarint(uint64(len(b.Text.Runs)))
	for _, r := range b.Text.Runs {
		w.Uint32(uint32(r.Start)) // #nosec G115 -- validated rune index
		w.Uint32(uint32(r.End))   // #nosec G115 -- validated rune index
		w.String(string(r.Attr))
		w.String(r.Value)
	}
}

func encodeColor(w *codec.Writer, c *gg.RGBA) {
	w.Bool(c != nil)
	if c != nil {
		w.Float64(c.R)
		w.Float64(c.G)
		w.Float64(c.B)
		w.Float64(c.A)
	}
}
