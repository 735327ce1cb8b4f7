package main

import (
	"context"
	"log/slog"

	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/ggcanvas"
	"github.com/gogpu/ggwriter/tee"
	"github.com/gogpu/ggwriter/trace"
)

func runDemo(a *app, ctx context.Context, args []string) error {
	fs := a.flags("demo")
	out := fs.String("o", "demo.ggw", "output record stream")
	pngOut := fs.String("png", "", "also render the scene to this PNG file while recording")
	traced := fs.Bool("trace", false, "log every canvas call to stderr")
	width := fs.Int("width", 800, "scene width")
	height := fs.Int("height", 600, "scene height")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := ggwriter.New(a.cfg.Options()...)
	var (
		c      ggwriter.Canvas = root
		pixels *ggcanvas.Canvas
	)
	if *pngOut != "" {
		pixels = ggcanvas.New(*width, *height)
		c = tee.New(root, pixels)
	}
	if *traced {
		c = trace.New(c, slog.New(slog.NewTextHandler(a.stderr, nil)))
	}
	if err := drawDemo(c, float64(*width), float64(*height)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := save(*out, root); err != nil {
		return err
	}
	a.logger.Info("demo recorded", "path", *out, "nodes", root.Count())
	if pixels != nil {
		if err := pixels.SaveToFile(*pngOut); err != nil {
			return err
		}
		a.logger.Info("demo rendered", "path", *pngOut)
	}
	return nil
}
