// Package ggcanvas renders recorded drawing onto pixels.
//
// Canvas is a software ggwriter.Surface: every Fill, Stroke, image and
// glyph run is rasterized into an anti-aliased coverage mask, intersected
// with the device-space clip and composited source-over into an NRGBA
// image. Paints are sampled per pixel through gg brushes in the user space
// of the draw call, so gradients and checkerboards follow the transform.
//
// # Example
//
//	// Import to register the surface
//	import _ "github.com/gogpu/ggwriter/ggcanvas"
//
//	// Create via registry
//	s, _ := ggwriter.NewSurface("raster", 256, 256)
//
//	// Or create directly
//	c := ggcanvas.New(256, 256)
//
//	// Replay a recording
//	_ = w.PaintTo(c)
//	_ = c.SaveToFile("output.png")
package ggcanvas

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

func init() {
	ggwriter.RegisterSurface("raster", func(width, height int) ggwriter.Surface {
		return New(width, height)
	})
}

// target is the pixel buffer shared by a canvas and its forks.
type target struct {
	mu  sync.Mutex
	img *image.NRGBA
}

// Canvas renders drawing calls into an image.
type Canvas struct {
	t *target

	transform gg.Matrix
	clip      *geom.Clip
	paint     ggwriter.Paint
	stroke    ggwriter.StrokeStyle
	font      ggwriter.Font
	opacity   float64
}

// Ensure Canvas implements all surface interfaces.
var (
	_ ggwriter.Surface       = (*Canvas)(nil)
	_ ggwriter.WriterSurface = (*Canvas)(nil)
	_ ggwriter.FileSurface   = (*Canvas)(nil)
)

// New returns a transparent canvas of the given size.
func New(width, height int) *Canvas {
	return &Canvas{
		t:         &target{img: image.NewNRGBA(image.Rect(0, 0, width, height))},
		transform: gg.Identity(),
		paint:     ggwriter.Black,
		stroke:    ggwriter.DefaultStroke(),
		font:      ggwriter.DefaultFont,
		opacity:   1,
	}
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (width, height int) {
	b := c.t.img.Rect
	return b.Dx(), b.Dy()
}

// Image returns the rendered pixels. The image is live: later drawing
// changes it.
func (c *Canvas) Image() image.Image { return c.t.img }

// NRGBA returns the rendered pixels.
func (c *Canvas) NRGBA() *image.NRGBA { return c.t.img }

// Clear fills the whole canvas with col, ignoring clip and opacity.
func (c *Canvas) Clear(col gg.RGBA) {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	draw.Draw(c.t.img, c.t.img.Rect, image.NewUniform(col.Color()), image.Point{}, draw.Src)
}

// WriteTo encodes the image as PNG.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := imaging.Encode(cw, c.t.img, imaging.PNG)
	return cw.n, err
}

// SaveToFile saves the image as PNG.
func (c *Canvas) SaveToFile(path string) error {
	return imaging.Save(c.t.img, path)
}

// ----------------------------------------------------------------------------
// State
// ----------------------------------------------------------------------------

func (c *Canvas) Transform() gg.Matrix     { return c.transform }
func (c *Canvas) SetTransform(m gg.Matrix) { c.transform = m }
func (c *Canvas) Concat(m gg.Matrix)       { c.transform = c.transform.Multiply(m) }

func (c *Canvas) Clip() (*geom.Clip, error) {
	if c.clip == nil {
		return nil, nil
	}
	if !geom.Invertible(c.transform) {
		return nil, ggwriter.ErrNonInvertibleTransform
	}
	return c.clip.Transform(c.transform.Invert()), nil
}

func (c *Canvas) SetClip(p *gg.Path) {
	if p == nil {
		c.clip = nil
		return
	}
	c.clip = geom.NewClip(p.Transform(c.transform))
}

func (c *Canvas) ClipTo(p *gg.Path) {
	if p != nil {
		c.clip = c.clip.Intersect(p.Transform(c.transform))
	}
}

func (c *Canvas) Paint() ggwriter.Paint { return c.paint }

func (c *Canvas) SetPaint(p ggwriter.Paint) {
	if p == nil {
		p = ggwriter.Black
	}
	c.paint = p
}

func (c *Canvas) StrokeStyle() ggwriter.StrokeStyle     { return c.stroke.Clone() }
func (c *Canvas) SetStrokeStyle(s ggwriter.StrokeStyle) { c.stroke = s.Clone() }
func (c *Canvas) Font() ggwriter.Font                   { return c.font }
func (c *Canvas) SetFont(f ggwriter.Font)               { c.font = f }
func (c *Canvas) Opacity() float64                      { return c.opacity }

func (c *Canvas) SetOpacity(a float64) error {
	if !(a >= 0 && a <= 1) {
		return fmt.Errorf("%w: %v", ggwriter.ErrInvalidOpacity, a)
	}
	c.opacity = a
	return nil
}

// SetComposite supports source-over only.
func (c *Canvas) SetComposite(comp ggwriter.Composite) error {
	if comp.Mode != ggwriter.CompositeSourceOver {
		return fmt.Errorf("%w: %s", ggwriter.ErrUnsupportedCompositeMode, comp.Mode)
	}
	return c.SetOpacity(comp.Alpha)
}

// Fork returns a canvas drawing into the same image with a copy of the
// current state.
func (c *Canvas) Fork() ggwriter.Canvas {
	f := *c
	f.stroke = c.stroke.Clone()
	return &f
}

func (c *Canvas) Dispose() {}

// ----------------------------------------------------------------------------
// Drawing
// ----------------------------------------------------------------------------

func (c *Canvas) Fill(p *gg.Path) error {
	if p == nil {
		return nil
	}
	c.composite([]*gg.Path{p.Transform(c.transform)}, c.brush())
	return nil
}

func (c *Canvas) Stroke(p *gg.Path) error {
	if p == nil {
		return nil
	}
	s := c.stroke
	outline := geom.Outline(p, c.transform, geom.Stroke{
		Width:      s.Width,
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: s.MiterLimit,
	}, s.Dash, s.DashOffset)
	c.composite(outline, c.brush())
	return nil
}

// DrawImage maps each covered device pixel back into src and samples the
// nearest source pixel.
func (c *Canvas) DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error {
	if img == nil {
		return nil
	}
	if b := img.Bounds(); !src.In(b) {
		return fmt.Errorf("%w: %v not in %v", ggwriter.ErrOutOfBounds, src, b)
	}
	if bg != nil {
		g := c.Fork()
		g.SetPaint(ggwriter.Solid{Color: *bg})
		if err := g.Fill(geom.RectPath(dst)); err != nil {
			return err
		}
	}
	if src.Empty() || geom.IsEmpty(dst) || !geom.Invertible(c.transform) {
		return nil
	}
	sub := imaging.Crop(img, src)
	sw, sh := sub.Rect.Dx(), sub.Rect.Dy()
	sx := float64(sw) / dst.Width()
	sy := float64(sh) / dst.Height()
	sample := func(x, y float64) gg.RGBA {
		ix := clampInt(int(math.Floor((x-dst.Min.X)*sx)), 0, sw-1)
		iy := clampInt(int(math.Floor((y-dst.Min.Y)*sy)), 0, sh-1)
		o := sub.PixOffset(ix, iy)
		px := sub.Pix[o : o+4 : o+4]
		return gg.RGBA{
			R: float64(px[0]) / 255,
			G: float64(px[1]) / 255,
			B: float64(px[2]) / 255,
			A: float64(px[3]) / 255,
		}
	}
	c.composite([]*gg.Path{geom.RectPath(dst).Transform(c.transform)}, sample)
	return nil
}

// DrawString fills the glyph outlines of s in the current font.
func (c *Canvas) DrawString(s string, x, y float64) error {
	if s == "" {
		return nil
	}
	return c.Fill(ggwriter.TextPath(c.font, s, x, y))
}

func (c *Canvas) DrawStyledText(st ggwriter.StyledText, x, y float64) error {
	return ggwriter.PaintStyledText(c, st, x, y)
}

func (c *Canvas) DrawTextBox(b ggwriter.Box) error {
	return ggwriter.PaintBox(c, b)
}

// ----------------------------------------------------------------------------
// Compositing
// ----------------------------------------------------------------------------

// sampler returns the straight-alpha source color at a user-space point.
type sampler func(x, y float64) gg.RGBA

func (c *Canvas) brush() sampler {
	b := brushFor(c.paint)
	return b.ColorAt
}

// composite blends src through the coverage of the device-space region,
// the clip and the opacity.
func (c *Canvas) composite(region []*gg.Path, src sampler) {
	if c.opacity == 0 || len(region) == 0 || !geom.Invertible(c.transform) {
		return
	}
	var bounds gg.Rect
	for i, p := range region {
		if i == 0 {
			bounds = p.BoundingBox()
		} else {
			bounds = bounds.Union(p.BoundingBox())
		}
	}
	if c.clip != nil {
		bounds = geom.Intersect(bounds, c.clip.Bounds())
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	dst := c.t.img
	r := geom.PixelBounds(bounds).Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	cov := geom.Mask(region, r)
	var clips []*image.Alpha
	for _, p := range c.clip.Paths() {
		clips = append(clips, geom.Mask([]*gg.Path{p}, r))
	}
	inv := c.transform.Invert()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := cov.PixOffset(x, y)
			a := float64(cov.Pix[i]) / 255
			for _, m := range clips {
				a *= float64(m.Pix[i]) / 255
			}
			if a == 0 {
				continue
			}
			u := inv.TransformPoint(gg.Pt(float64(x)+0.5, float64(y)+0.5))
			blend(dst, x, y, src(u.X, u.Y), a*c.opacity)
		}
	}
}

// blend composites col with extra alpha a over the pixel at (x, y).
func blend(dst *image.NRGBA, x, y int, col gg.RGBA, a float64) {
	sa := col.A * a
	if sa <= 0 {
		return
	}
	o := dst.PixOffset(x, y)
	px := dst.Pix[o : o+4 : o+4]
	da := float64(px[3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return
	}
	mix := func(s float64, d uint8) uint8 {
		v := (s*sa + float64(d)/255*da*(1-sa)) / oa
		return uint8(math.Round(clamp01(v) * 255))
	}
	px[0] = mix(col.R, px[0])
	px[1] = mix(col.G, px[1])
	px[2] = mix(col.B, px[2])
	px[3] = uint8(math.Round(clamp01(oa) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
