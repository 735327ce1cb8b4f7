// Package trace provides a Canvas that logs every call it receives through
// log/slog before relaying it to another Canvas.
//
// Each trace canvas carries an id; forks get fresh ids. Calls that nest
// (a record replaying itself, or PaintBox drawing a frame and its lines)
// are logged with increasing depth.
//
//	tc := trace.New(ggcanvas.New(640, 480), slog.Default())
//	_ = root.PaintTo(tc)
package trace

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// maxPathLen is the length after which logged path strings are shortened.
const maxPathLen = 80

var errNoEncoder = errors.New("trace: target surface cannot encode")

var nextID atomic.Int64

// Canvas logs and relays calls to an inner canvas.
type Canvas struct {
	inner ggwriter.Canvas
	log   *slog.Logger
	level slog.Level
	id    int64
	depth *atomic.Int32
}

var _ ggwriter.Canvas = (*Canvas)(nil)

// New wraps c. A nil logger uses ggwriter.Logger(). Wrapping another
// trace canvas shares its nesting depth, so the inner calls log one level
// deeper.
func New(c ggwriter.Canvas, l *slog.Logger) *Canvas {
	if l == nil {
		l = ggwriter.Logger()
	}
	depth := new(atomic.Int32)
	if t, ok := c.(*Canvas); ok {
		depth = t.depth
	}
	return &Canvas{
		inner: c,
		log:   l,
		level: slog.LevelInfo,
		id:    nextID.Add(1) - 1,
		depth: depth,
	}
}

// SetLevel sets the level calls are logged at. The default is Info.
func (c *Canvas) SetLevel(l slog.Level) { c.level = l }

// ID returns the canvas id.
func (c *Canvas) ID() int64 { return c.id }

// Inner returns the wrapped canvas.
func (c *Canvas) Inner() ggwriter.Canvas { return c.inner }

func (c *Canvas) call(op string, args ...any) func() {
	attrs := make([]any, 0, len(args)+4)
	attrs = append(attrs, "id", c.id, "depth", c.depth.Load())
	attrs = append(attrs, args...)
	c.log.Log(context.Background(), c.level, op, attrs...)
	c.depth.Add(1)
	return func() { c.depth.Add(-1) }
}

// Transform relays without logging; queries do not change output.
func (c *Canvas) Transform() gg.Matrix { return c.inner.Transform() }

func (c *Canvas) SetTransform(m gg.Matrix) {
	defer c.call("SetTransform", "m", matrixString(m))()
	c.inner.SetTransform(m)
}

func (c *Canvas) Concat(m gg.Matrix) {
	defer c.call("Concat", "m", matrixString(m))()
	c.inner.Concat(m)
}

func (c *Canvas) Clip() (*geom.Clip, error) { return c.inner.Clip() }

func (c *Canvas) SetClip(p *gg.Path) {
	defer c.call("SetClip", "path", pathString(p))()
	c.inner.SetClip(p)
}

func (c *Canvas) ClipTo(p *gg.Path) {
	defer c.call("ClipTo", "path", pathString(p))()
	c.inner.ClipTo(p)
}

func (c *Canvas) Paint() ggwriter.Paint { return c.inner.Paint() }

func (c *Canvas) SetPaint(p ggwriter.Paint) {
	defer c.call("SetPaint", "paint", paintString(p))()
	c.inner.SetPaint(p)
}

func (c *Canvas) StrokeStyle() ggwriter.StrokeStyle { return c.inner.StrokeStyle() }

func (c *Canvas) SetStrokeStyle(s ggwriter.StrokeStyle) {
	defer c.call("SetStrokeStyle", "width", s.Width, "dashed", s.Dashed())()
	c.inner.SetStrokeStyle(s)
}

func (c *Canvas) Font() ggwriter.Font { return c.inner.Font() }

func (c *Canvas) SetFont(f ggwriter.Font) {
	defer c.call("SetFont", "font", f.String())()
	c.inner.SetFont(f)
}

func (c *Canvas) Opacity() float64 { return c.inner.Opacity() }

func (c *Canvas) SetOpacity(a float64) error {
	defer c.call("SetOpacity", "alpha", a)()
	return c.inner.SetOpacity(a)
}

func (c *Canvas) SetComposite(m ggwriter.Composite) error {
	defer c.call("SetComposite", "mode", m.Mode.String(), "alpha", m.Alpha)()
	return c.inner.SetComposite(m)
}

func (c *Canvas) Fill(p *gg.Path) error {
	defer c.call("Fill", "path", pathString(p))()
	return c.inner.Fill(p)
}

func (c *Canvas) Stroke(p *gg.Path) error {
	defer c.call("Stroke", "path", pathString(p))()
	return c.inner.Stroke(p)
}

func (c *Canvas) DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error {
	defer c.call("DrawImage", "dst", rectString(dst), "src", src.String(), "bg", bg != nil)()
	return c.inner.DrawImage(img, dst, src, bg)
}

func (c *Canvas) DrawString(s string, x, y float64) error {
	defer c.call("DrawString", "text", s, "x", x, "y", y)()
	return c.inner.DrawString(s, x, y)
}

func (c *Canvas) DrawStyledText(st ggwriter.StyledText, x, y float64) error {
	defer c.call("DrawStyledText", "text", st.Text, "runs", len(st.Runs), "x", x, "y", y)()
	return c.inner.DrawStyledText(st, x, y)
}

func (c *Canvas) DrawTextBox(b ggwriter.Box) error {
	defer c.call("DrawTextBox", "text", b.Text.Text, "rect", rectString(b.Rect))()
	return c.inner.DrawTextBox(b)
}

// Fork logs the fork and wraps the inner fork in a new trace canvas that
// shares this canvas's logger and nesting depth.
func (c *Canvas) Fork() ggwriter.Canvas {
	f := &Canvas{
		log:   c.log,
		level: c.level,
		id:    nextID.Add(1) - 1,
		depth: c.depth,
	}
	defer c.call("Fork", "child", f.id)()
	f.inner = c.inner.Fork()
	return f
}

func (c *Canvas) Dispose() {
	defer c.call("Dispose")()
	c.inner.Dispose()
}

func pathString(p *gg.Path) string {
	if p == nil {
		return "<nil>"
	}
	return shorten(codec.EncodePath(p))
}

// shorten cuts s at the last space before maxPathLen.
func shorten(s string) string {
	if len(s) <= maxPathLen {
		return s
	}
	s = s[:maxPathLen]
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	return s + " ..."
}

func paintString(p ggwriter.Paint) string {
	if p == nil {
		return "<nil>"
	}
	return p.String()
}

func matrixString(m gg.Matrix) string {
	var sb strings.Builder
	for i, v := range [6]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(codec.FormatFloat(v))
	}
	return sb.String()
}

func rectString(r gg.Rect) string {
	return codec.FormatFloat(r.Min.X) + " " + codec.FormatFloat(r.Min.Y) + " " +
		codec.FormatFloat(r.Width()) + " " + codec.FormatFloat(r.Height())
}
