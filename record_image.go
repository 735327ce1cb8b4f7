package ggwriter

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// Image records a region of a raster image drawn into a destination
// rectangle. The pixels are copied at record time and kept as
// non-premultiplied ARGB words.
type Image struct {
	base
	dst    gg.Rect
	src    image.Rectangle
	width  int
	height int
	pixels []uint32

	once sync.Once
	img  *image.NRGBA
}

// NewImage returns an Image record drawing the src region of img into dst.
// src is in img's coordinate space and must lie within img.Bounds().
func NewImage(img image.Image, dst gg.Rect, src image.Rectangle, st State) (*Image, error) {
	b := img.Bounds()
	if !src.In(b) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, src, b)
	}
	nrgba := imaging.Clone(img)
	r := &Image{
		dst:    dst,
		src:    src.Sub(b.Min),
		width:  b.Dx(),
		height: b.Dy(),
		pixels: toARGB(nrgba),
	}
	if err := r.init(st); err != nil {
		return nil, err
	}
	return r, nil
}

func newImageFromPixels(width, height int, pixels []uint32, dst gg.Rect, src image.Rectangle, st State) (*Image, error) {
	if !src.In(image.Rect(0, 0, width, height)) {
		return nil, fmt.Errorf("%w: %v not in %dx%d", ErrOutOfBounds, src, width, height)
	}
	r := &Image{dst: dst, src: src, width: width, height: height, pixels: pixels}
	if err := r.init(st); err != nil {
		return nil, err
	}
	return r, nil
}

func toARGB(img *image.NRGBA) []uint32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]uint32, 0, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			out = append(out, uint32(row[x+3])<<24|uint32(row[x])<<16|uint32(row[x+1])<<8|uint32(row[x+2]))
		}
	}
	return out
}

func fromARGB(w, h int, px []uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, v := range px {
		o := i * 4
		img.Pix[o] = uint8(v >> 16)   // #nosec G115 -- byte extraction
		img.Pix[o+1] = uint8(v >> 8)  // #nosec G115 -- byte extraction
		img.Pix[o+2] = uint8(v)       // #nosec G115 -- byte extraction
		img.Pix[o+3] = uint8(v >> 24) // #nosec G115 -- byte extraction
	}
	return img
}

func (r *Image) Kind() Kind { return KindImage }

// Dst returns the destination rectangle in user space.
func (r *Image) Dst() gg.Rect { return r.dst }

// Src returns the source rectangle in the coordinates of Image().
func (r *Image) Src() image.Rectangle { return r.src }

// Size returns the dimensions of the captured image.
func (r *Image) Size() (width, height int) { return r.width, r.height }

// Pixels returns a copy of the captured ARGB pixels in row-major order.
func (r *Image) Pixels() []uint32 { return append([]uint32(nil), r.pixels...) }

// Image returns the captured image with its origin at (0, 0). The result
// is shared and must not be modified.
func (r *Image) Image() *image.NRGBA {
	r.once.Do(func() {
		r.img = fromARGB(r.width, r.height, r.pixels)
	})
	return r.img
}

func (r *Image) RemoveFromParent() { removeFromParent(r) }

func (r *Image) Bounds() gg.Rect {
	return geom.RectBounds(r.dst, r.transform, r.clip)
}

func (r *Image) Region() []*gg.Path {
	return []*gg.Path{geom.RectPath(r.dst).Transform(r.transform)}
}

func (r *Image) Clipped() bool { return r.clippedBy(r.Region) }

func (r *Image) PaintTo(c Canvas) error {
	g, err := r.prepare(c)
	if err != nil {
		return err
	}
	defer g.Dispose()
	return g.DrawImage(r.Image(), r.dst, r.src, nil)
}

func (r *Image) encode(w *codec.Writer) {
	r.encodeState(w)
	w.Rect(r.dst)
	w.Int32(int32(r.src.Min.X)) // #nosec G115 -- image coordinates fit in int32
	w.Int32(int32(r.src.Min.Y)) // #nosec G115 -- image coordinates fit in int32
	w.Int32(int32(r.src.Max.X)) // #nosec G115 -- image coordinates fit in int32
	w.Int32(int32(r.src.Max.Y)) // #nosec G115 -- image coordinates fit in int32
	w.Uint32(uint32(r.width))   // #nosec G115 -- non-negative dimension
	w.Uint32(uint32(r.height))  // #nosec G115 -- non-negative dimension
	for _, v := range r.pixels {
		w.Uint32(v)
	}
}
