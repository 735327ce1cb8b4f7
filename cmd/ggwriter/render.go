package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

func runRender(a *app, ctx context.Context, args []string) error {
	fs := a.flags("render")
	in := fs.String("i", "", "input record stream")
	out := fs.String("o", "out.png", "output PNG file")
	surface := fs.String("surface", "raster", "registered surface to render with")
	width := fs.Int("width", a.cfg.Render.Width, "image width (0 fits the tree)")
	height := fs.Int("height", a.cfg.Render.Height, "image height (0 fits the tree)")
	thumb := fs.Bool("thumb", false, "fit the image into the configured thumbnail size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, err := a.load(*in)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := a.render(root, *surface, *width, *height)
	if err != nil {
		return err
	}
	if *thumb {
		n := a.cfg.Render.Thumbnail
		img = imaging.Fit(img, n, n, imaging.Lanczos)
	}
	if err := imaging.Save(img, *out); err != nil {
		return err
	}
	a.logger.Info("rendered", "input", *in, "output", *out, "size", img.Bounds().Size().String())
	return nil
}

// render rasterizes n with the named surface, over the configured
// background when there is one.
func (a *app) render(n ggwriter.Node, surface string, width, height int) (*image.NRGBA, error) {
	fw, fh := fitSize(n.Bounds())
	if width == 0 {
		width = fw
	}
	if height == 0 {
		height = fh
	}
	s, err := ggwriter.Render(surface, n, width, height)
	if s == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("render incomplete", "error", err)
	}
	bg := color.Color(color.Transparent)
	if h := a.cfg.Render.Background; h != "" {
		c, err := parseHex(h)
		if err != nil {
			return nil, err
		}
		bg = c.Color()
	}
	return imaging.Overlay(imaging.New(width, height, bg), s.Image(), image.Point{}, 1), nil
}

// fitSize returns the pixel size holding b with the origin kept at (0, 0).
func fitSize(b gg.Rect) (int, int) {
	if geom.IsEmpty(b) {
		return 1, 1
	}
	return max(1, int(math.Ceil(b.Max.X))), max(1, int(math.Ceil(b.Max.Y)))
}

func parseHex(s string) (gg.RGBA, error) {
	t := strings.TrimPrefix(s, "#")
	switch len(t) {
	case 3, 4, 6, 8:
	default:
		return gg.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	for _, r := range t {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return gg.RGBA{}, fmt.Errorf("bad color %q", s)
		}
	}
	return gg.Hex(s), nil
}
