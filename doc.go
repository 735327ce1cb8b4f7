// Package ggwriter records 2D drawing calls as a tree of immutable paint
// records that can be inspected, optimized, serialized and replayed.
//
// # Overview
//
// A Writer implements the Canvas interface. Instead of rasterizing, every
// draw call is captured together with the drawing state in effect (the
// transform, the clip, the paint, the stroke style and the opacity) as a
// Record:
//
//   - Fill: the interior of a path
//   - Stroke: the outline of a path
//   - CombinedShape: a fill and a stroke of the same path, produced by
//     merging a Fill immediately followed by a matching Stroke
//   - Image: a region of a raster image drawn into a rectangle
//   - TextBox: a block of styled text with optional background and frame
//
// # Quick Start
//
//	w := ggwriter.New()
//
//	p := gg.NewPath()
//	p.Circle(0, 0, 10)
//	w.SetPaint(ggwriter.Solid{Color: gg.Red})
//	_ = w.Fill(p)
//	_ = w.Stroke(p) // merged with the fill into one CombinedShape
//
//	fmt.Println(w.Count(), w.Bounds())
//
//	// Replay onto pixels.
//	c := ggcanvas.New(64, 64)
//	_ = w.PaintTo(c)
//	_ = c.SaveToFile("out.png")
//
// # Instruction Tree
//
// A Writer is also a group node. With the default ForkGrouped policy every
// Fork becomes a child group, so the tree mirrors the structure of the
// drawing code. With ForkFlat forks share their parent's record list. Each
// node reports its children, parent, device-space bounds and, when
// enabled, the call site that produced it.
//
// # Backpressure
//
// WithCeiling caps the number of nodes in a tree. Draw calls beyond it are
// dropped silently and a single warning is logged.
//
// # Coordinate System
//
// Paths are recorded in user space together with the user-to-device
// transform. Clips are stored in device space, so record bounds are the
// transformed geometry intersected with the clip bounds without any
// inverse mapping.
package ggwriter
