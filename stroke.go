package ggwriter

import (
	"slices"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/geom"
)

// StrokeStyle describes the outline drawn along a path.
// Width is in user space; zero draws a one-pixel hairline.
type StrokeStyle struct {
	Width      float64
	Cap        gg.LineCap
	Join       gg.LineJoin
	MiterLimit float64
	Dash       []float64
	DashOffset float64
}

// DefaultStroke returns the stroke style of a new context: one unit wide,
// butt caps, miter joins with limit 10 and no dashes.
func DefaultStroke() StrokeStyle {
	return StrokeStyle{
		Width:      1,
		Cap:        gg.LineCapButt,
		Join:       gg.LineJoinMiter,
		MiterLimit: 10,
	}
}

// Clone returns a copy that shares no memory with s.
func (s StrokeStyle) Clone() StrokeStyle {
	s.Dash = slices.Clone(s.Dash)
	return s
}

// Equal reports whether two styles draw identical outlines.
func (s StrokeStyle) Equal(o StrokeStyle) bool {
	return s.Width == o.Width &&
		s.Cap == o.Cap &&
		s.Join == o.Join &&
		s.MiterLimit == o.MiterLimit &&
		s.DashOffset == o.DashOffset &&
		slices.Equal(s.Dash, o.Dash)
}

// Dashed reports whether the style has a non-empty dash pattern.
func (s StrokeStyle) Dashed() bool {
	for _, d := range s.Dash {
		if d > 0 {
			return true
		}
	}
	return false
}

func (s StrokeStyle) geom() geom.Stroke {
	return geom.Stroke{Width: s.Width, Cap: s.Cap, Join: s.Join, MiterLimit: s.MiterLimit}
}
