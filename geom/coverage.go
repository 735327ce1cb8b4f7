package geom

import (
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/vector"
)

// Resolution is the minimum number of coverage samples along the longer
// side of the painted region when testing whether a clip removes visible
// area.
const Resolution = 256

// maxSamples caps the side of a coverage mask. Regions up to this many
// device units on their longer side are sampled at least once per unit.
const maxSamples = 4096

// clipTolerance is the area a clip may remove before the region counts as
// clipped, in square device units and in samples, whichever is smaller.
// Half a sample absorbs anti-aliasing noise along edges that the clip
// shares with the region.
const clipTolerance = 0.5

// Clipped reports whether clip removes visible area from the union of the
// region paths. Region and clip must be in the same (device) space. A nil
// clip never clips.
//
// The test rasterizes the region and every clip path into coverage masks
// over the region's bounds and sums the region coverage lying outside the
// clip. It is exact up to the sampling resolution and does not depend on
// whether the region is a filled area or a stroke outline.
func Clipped(region []*gg.Path, clip *Clip) bool {
	return ClippedLayers([][]*gg.Path{region}, clip)
}

// ClippedLayers is Clipped for a region made of several layers, such as a
// fill and the outline of its stroke. Each layer is rasterized on its own
// and the layers are combined by per-pixel maximum, so layers wound in
// opposite directions do not cancel where they overlap.
func ClippedLayers(layers [][]*gg.Path, clip *Clip) bool {
	if clip == nil {
		return false
	}
	rb, ok := layersBounds(layers)
	if !ok {
		return false
	}
	if r, ok := clip.Rect(); ok && ContainsRect(r, rb) {
		return false
	}
	side := math.Max(rb.Width(), rb.Height())
	if side <= 0 {
		return false
	}
	s := sampleScale(side)
	w := int(math.Ceil(rb.Width()*s)) + 2
	h := int(math.Ceil(rb.Height()*s)) + 2
	ox, oy := rb.Min.X-1/s, rb.Min.Y-1/s
	to := func(pt gg.Point) (float32, float32) {
		return float32((pt.X - ox) * s), float32((pt.Y - oy) * s)
	}

	reg := image.NewAlpha(image.Rect(0, 0, w, h))
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		m := rasterize(layer, w, h, to)
		for i, a := range m.Pix {
			if a > reg.Pix[i] {
				reg.Pix[i] = a
			}
		}
	}
	masks := make([]*image.Alpha, 0, clip.Len())
	for _, p := range clip.paths {
		masks = append(masks, rasterize([]*gg.Path{p}, w, h, to))
	}

	var outside float64
	for i, r := range reg.Pix {
		if r == 0 {
			continue
		}
		c := uint8(255)
		for _, m := range masks {
			if m.Pix[i] < c {
				c = m.Pix[i]
			}
		}
		if r > c {
			outside += float64(r - c)
		}
	}
	// outside/255 is in samples; one square device unit holds s*s samples.
	return outside/255 > clipTolerance*math.Min(1, s*s)
}

// sampleScale returns the number of samples per device unit for a region
// whose longer side is side units long.
func sampleScale(side float64) float64 {
	s := Resolution / side
	if s < 1 {
		s = math.Min(1, maxSamples/side)
	}
	return s
}

func layersBounds(layers [][]*gg.Path) (gg.Rect, bool) {
	var (
		out   gg.Rect
		found bool
	)
	for _, layer := range layers {
		b, ok := unionBounds(layer)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// Coverage returns the painted area of the union of paths, in square
// device units, measured at the given number of samples along the longer
// side.
func Coverage(paths []*gg.Path, samples int) float64 {
	rb, ok := unionBounds(paths)
	if !ok {
		return 0
	}
	side := math.Max(rb.Width(), rb.Height())
	if side <= 0 || samples <= 0 {
		return 0
	}
	s := float64(samples) / side
	w := int(math.Ceil(rb.Width()*s)) + 2
	h := int(math.Ceil(rb.Height()*s)) + 2
	ox, oy := rb.Min.X-1/s, rb.Min.Y-1/s
	mask := rasterize(paths, w, h, func(pt gg.Point) (float32, float32) {
		return float32((pt.X - ox) * s), float32((pt.Y - oy) * s)
	})
	var sum float64
	for _, a := range mask.Pix {
		sum += float64(a)
	}
	return sum / 255 / (s * s)
}

func unionBounds(paths []*gg.Path) (gg.Rect, bool) {
	var (
		out   gg.Rect
		found bool
	)
	for _, p := range paths {
		if p == nil || len(p.Elements()) == 0 {
			continue
		}
		b := p.BoundingBox()
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// rasterize accumulates paths into one non-zero coverage mask.
func rasterize(paths []*gg.Path, w, h int, to func(gg.Point) (float32, float32)) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	for _, p := range paths {
		addPath(z, p, to)
	}
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

func addPath(z *vector.Rasterizer, p *gg.Path, to func(gg.Point) (float32, float32)) {
	if p == nil {
		return
	}
	open := false
	var current, start gg.Point
	begin := func() {
		if !open {
			x, y := to(current)
			z.MoveTo(x, y)
			open = true
			start = current
		}
	}
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case gg.MoveTo:
			if open {
				z.ClosePath()
			}
			x, y := to(e.Point)
			z.MoveTo(x, y)
			open = true
			current, start = e.Point, e.Point
		case gg.LineTo:
			begin()
			x, y := to(e.Point)
			z.LineTo(x, y)
			current = e.Point
		case gg.QuadTo:
			begin()
			cx, cy := to(e.Control)
			x, y := to(e.Point)
			z.QuadTo(cx, cy, x, y)
			current = e.Point
		case gg.CubicTo:
			begin()
			c1x, c1y := to(e.Control1)
			c2x, c2y := to(e.Control2)
			x, y := to(e.Point)
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
			current = e.Point
		case gg.Close:
			if open {
				z.ClosePath()
				open = false
			}
			current = start
		}
	}
	if open {
		z.ClosePath()
	}
}

// Mask rasterizes the union of device-space paths into an alpha mask
// covering the pixel rectangle r. Pixel (x, y) holds the coverage of the
// unit square with its top-left corner at (x, y).
func Mask(paths []*gg.Path, r image.Rectangle) *image.Alpha {
	dst := image.NewAlpha(r)
	if r.Empty() {
		return dst
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	to := func(pt gg.Point) (float32, float32) {
		return float32(pt.X - ox), float32(pt.Y - oy)
	}
	for _, p := range paths {
		addPath(z, p, to)
	}
	z.Draw(dst, r, image.Opaque, image.Point{})
	return dst
}

// PixelBounds returns the smallest pixel rectangle covering r.
func PixelBounds(r gg.Rect) image.Rectangle {
	if IsEmpty(r) {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}
