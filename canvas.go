package ggwriter

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/geom"
)

// Canvas is a stateful 2D drawing surface. A Writer records calls made on
// it; ggcanvas renders them to pixels; trace logs them. Records replay
// themselves onto any Canvas through Node.PaintTo.
//
// Paths passed to a Canvas belong to the caller and are never modified or
// retained; implementations copy what they keep.
type Canvas interface {
	// Transform returns the current user-to-device transform.
	Transform() gg.Matrix
	// SetTransform replaces the current transform.
	SetTransform(m gg.Matrix)
	// Concat post-multiplies the current transform by m, so m applies to
	// coordinates first.
	Concat(m gg.Matrix)

	// Clip returns the current clip in user space, or nil when there is
	// none.
	Clip() (*geom.Clip, error)
	// SetClip replaces the clip with the interior of p in user space.
	// A nil path removes the clip.
	SetClip(p *gg.Path)
	// ClipTo intersects the clip with the interior of p in user space.
	ClipTo(p *gg.Path)

	Paint() Paint
	SetPaint(p Paint)
	StrokeStyle() StrokeStyle
	SetStrokeStyle(s StrokeStyle)
	Font() Font
	SetFont(f Font)

	// Opacity returns the source-over alpha applied to every draw call.
	Opacity() float64
	// SetOpacity sets the source-over alpha. It fails with
	// ErrInvalidOpacity outside [0, 1].
	SetOpacity(a float64) error
	// SetComposite selects the compositing rule.
	SetComposite(c Composite) error

	Fill(p *gg.Path) error
	Stroke(p *gg.Path) error
	// DrawImage draws the src region of img scaled into dst. A non-nil bg
	// is painted under the image first.
	DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error
	// DrawString draws s with its baseline origin at (x, y).
	DrawString(s string, x, y float64) error
	// DrawStyledText draws st on one line per mandatory break with the
	// first baseline origin at (x, y).
	DrawStyledText(st StyledText, x, y float64) error
	// DrawTextBox draws a framed, wrapped text box.
	DrawTextBox(b Box) error

	// Fork returns an independent canvas that starts with a copy of this
	// canvas's state and draws to the same destination.
	Fork() Canvas
	// Dispose releases a forked canvas.
	Dispose()
}

// CompositeMode is a Porter-Duff compositing rule.
type CompositeMode uint8

const (
	CompositeSourceOver CompositeMode = iota
	CompositeClear
	CompositeSource
	CompositeSourceIn
	CompositeSourceOut
	CompositeDestinationOver
	CompositeXor
)

var compositeNames = [...]string{
	CompositeSourceOver:      "SourceOver",
	CompositeClear:           "Clear",
	CompositeSource:          "Source",
	CompositeSourceIn:        "SourceIn",
	CompositeSourceOut:       "SourceOut",
	CompositeDestinationOver: "DestinationOver",
	CompositeXor:             "Xor",
}

// String returns the rule name.
func (m CompositeMode) String() string {
	if int(m) < len(compositeNames) {
		return compositeNames[m]
	}
	return "Unknown"
}

// Composite is a compositing rule with a constant source alpha.
type Composite struct {
	Mode  CompositeMode
	Alpha float64
}

// SourceOver returns the source-over rule with alpha a.
func SourceOver(a float64) Composite {
	return Composite{Mode: CompositeSourceOver, Alpha: a}
}

// Insets are distances from the edges of a text box to its text area.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// Box describes a text box: an optional background and frame around
// styled text that wraps to MaxLineWidth and is centered horizontally.
type Box struct {
	Rect           gg.Rect
	Background     *gg.RGBA
	Frame          *gg.RGBA
	FrameThickness float64
	Text           StyledText
	Insets         Insets
	// MaxLineWidth is the wrapping width before insets and frame are
	// removed. Zero means the width of Rect; +Inf disables wrapping.
	MaxLineWidth float64
}

// Clone returns a copy that shares no memory with b.
func (b Box) Clone() Box {
	if b.Background != nil {
		c := *b.Background
		b.Background = &c
	}
	if b.Frame != nil {
		c := *b.Frame
		b.Frame = &c
	}
	b.Text = b.Text.Clone()
	return b
}

// Outer returns the box rectangle grown by half the frame thickness,
// which is the area the box can paint.
func (b Box) Outer() gg.Rect {
	if b.Frame == nil || b.FrameThickness <= 0 {
		return b.Rect
	}
	return geom.Inset(b.Rect, -b.FrameThickness/2)
}

// WrapWidth returns the width available to a line of text.
func (b Box) WrapWidth() float64 {
	w := b.MaxLineWidth
	if w == 0 {
		w = b.Rect.Width()
	}
	return w - b.frame()/2 - b.Insets.Left - b.Insets.Right
}

func (b Box) frame() float64 {
	if b.Frame == nil {
		return 0
	}
	return max(0, b.FrameThickness)
}

// PaintBox draws b onto c in c's current state: the background, then the
// frame, then the text lines clipped to the box. Lines are centered on
// the box and stop once a line starts below its bottom edge. Canvases use
// it to implement DrawTextBox in terms of Fill, Stroke and DrawString.
func PaintBox(c Canvas, b Box) error {
	g := c.Fork()
	defer g.Dispose()

	rect := geom.RectPath(b.Rect)
	if b.Background != nil {
		g.SetPaint(Solid{Color: *b.Background})
		if err := g.Fill(rect); err != nil {
			return err
		}
	}
	frame := b.frame()
	if b.Frame != nil && frame > 0 {
		s := DefaultStroke()
		s.Width = frame
		g.SetPaint(Solid{Color: *b.Frame})
		g.SetStrokeStyle(s)
		if err := g.Stroke(rect); err != nil {
			return err
		}
	}
	g.ClipTo(rect)

	center := (b.Rect.Min.X + b.Rect.Max.X) / 2
	y := b.Rect.Min.Y + b.Insets.Top + frame/2
	for _, line := range LayoutText(b.Text, b.WrapWidth()) {
		if y > b.Rect.Max.Y {
			break
		}
		baseline := y + line.Ascent
		x := center - line.Width/2
		for _, pc := range line.Pieces {
			g.SetFont(pc.Font)
			g.SetPaint(pc.Paint)
			if err := g.DrawString(pc.Text, x+pc.X, baseline); err != nil {
				return err
			}
		}
		y += line.Height()
	}
	return nil
}

// StyledTextBox returns the box DrawStyledText paints: the unwrapped
// layout of st with its first baseline origin at (x, y), grown by one
// unit on each side.
func StyledTextBox(st StyledText, x, y float64) Box {
	lines := LayoutText(st, math.Inf(1))
	var width, height float64
	for _, l := range lines {
		width = max(width, l.Width)
		height += l.Height()
	}
	top := y
	if len(lines) > 0 {
		top -= lines[0].Ascent
	}
	return Box{
		Rect:         geom.XYWH(x-1, top-1, width+2, height+2),
		Text:         st,
		Insets:       Insets{Top: 1, Left: 1, Bottom: 1, Right: 1},
		MaxLineWidth: math.Inf(1),
	}
}

// PaintStyledText draws st onto c the way a recorded DrawStyledText
// replays.
func PaintStyledText(c Canvas, st StyledText, x, y float64) error {
	if st.Text == "" {
		return nil
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("ggwriter: styled text: %w", err)
	}
	return PaintBox(c, StyledTextBox(st, x, y))
}
