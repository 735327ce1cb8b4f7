package ggwriter

import (
	"fmt"
	"image"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// spyLog collects the calls made on a spy canvas and its forks.
type spyLog struct {
	calls []string
}

func (l *spyLog) String() string { return strings.Join(l.calls, "\n") }

// spyCanvas is a Canvas that logs draw calls with the state they were
// made in.
type spyCanvas struct {
	log       *spyLog
	transform gg.Matrix
	clip      *geom.Clip
	paint     Paint
	stroke    StrokeStyle
	font      Font
	opacity   float64
	width     int
	height    int
}

var _ Surface = (*spyCanvas)(nil)

func newSpy() *spyCanvas {
	return &spyCanvas{
		log:       &spyLog{},
		transform: gg.Identity(),
		paint:     Black,
		stroke:    DefaultStroke(),
		font:      DefaultFont,
		opacity:   1,
	}
}

func (s *spyCanvas) record(format string, args ...any) {
	s.log.calls = append(s.log.calls, fmt.Sprintf(format, args...))
}

func (s *spyCanvas) Size() (int, int)   { return s.width, s.height }
func (s *spyCanvas) Image() image.Image { return image.NewNRGBA(image.Rect(0, 0, s.width, s.height)) }

func (s *spyCanvas) Transform() gg.Matrix     { return s.transform }
func (s *spyCanvas) SetTransform(m gg.Matrix) { s.transform = m }
func (s *spyCanvas) Concat(m gg.Matrix)       { s.transform = s.transform.Multiply(m) }

func (s *spyCanvas) Clip() (*geom.Clip, error) { return s.clip, nil }
func (s *spyCanvas) SetClip(p *gg.Path)        { s.clip = geom.NewClip(p.Transform(s.transform)) }
func (s *spyCanvas) ClipTo(p *gg.Path)         { s.clip = s.clip.Intersect(p.Transform(s.transform)) }

func (s *spyCanvas) Paint() Paint                 { return s.paint }
func (s *spyCanvas) SetPaint(p Paint)             { s.paint = p }
func (s *spyCanvas) StrokeStyle() StrokeStyle     { return s.stroke }
func (s *spyCanvas) SetStrokeStyle(v StrokeStyle) { s.stroke = v }
func (s *spyCanvas) Font() Font                   { return s.font }
func (s *spyCanvas) SetFont(f Font)               { s.font = f }
func (s *spyCanvas) Opacity() float64             { return s.opacity }

func (s *spyCanvas) SetOpacity(a float64) error {
	if err := checkOpacity(a); err != nil {
		return err
	}
	s.opacity = a
	return nil
}

func (s *spyCanvas) SetComposite(c Composite) error {
	if c.Mode != CompositeSourceOver {
		return ErrUnsupportedCompositeMode
	}
	return s.SetOpacity(c.Alpha)
}

func (s *spyCanvas) state() string {
	return fmt.Sprintf("paint=%s clip=%q opacity=%g", s.paint, s.clip.String(), s.opacity)
}

func (s *spyCanvas) Fill(p *gg.Path) error {
	s.record("fill %s %s", codec.EncodePath(p.Transform(s.transform)), s.state())
	return nil
}

func (s *spyCanvas) Stroke(p *gg.Path) error {
	s.record("stroke %s width=%g %s", codec.EncodePath(p.Transform(s.transform)), s.stroke.Width, s.state())
	return nil
}

func (s *spyCanvas) DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error {
	s.record("image %v %v %s", dst, src, s.state())
	return nil
}

func (s *spyCanvas) DrawString(str string, x, y float64) error {
	s.record("string %q %s %g,%g %s", str, s.font, x, y, s.state())
	return nil
}

func (s *spyCanvas) DrawStyledText(st StyledText, x, y float64) error {
	return PaintStyledText(s, st, x, y)
}

func (s *spyCanvas) DrawTextBox(b Box) error { return PaintBox(s, b) }

func (s *spyCanvas) Fork() Canvas {
	f := *s
	return &f
}

func (s *spyCanvas) Dispose() {}

func mustPath(s string) *gg.Path {
	p, err := codec.DecodePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func circle(cx, cy, r float64) *gg.Path {
	p := gg.NewPath()
	p.Circle(cx, cy, r)
	return p
}

func square(x, y, side float64) *gg.Path {
	return geom.RectPath(geom.XYWH(x, y, side, side))
}
