package geom

import "github.com/gogpu/gg"

// Bounds returns the tight bounding rectangle of p mapped through m and
// clipped by clip. The clip is expressed in the space m maps into, so it is
// applied after the transform without any inverse mapping. An empty result
// is the zero Rect.
func Bounds(p *gg.Path, m gg.Matrix, clip *Clip) gg.Rect {
	if p == nil {
		return gg.Rect{}
	}
	return ClipBounds(p.Transform(m).BoundingBox(), clip)
}

// ClipBounds intersects device-space bounds r with the clip's bounds.
func ClipBounds(r gg.Rect, clip *Clip) gg.Rect {
	if clip == nil {
		return r
	}
	return Intersect(r, clip.Bounds())
}

// RectBounds returns the bounds of rectangle r mapped through m and
// clipped by clip.
func RectBounds(r gg.Rect, m gg.Matrix, clip *Clip) gg.Rect {
	return ClipBounds(TransformRect(r, m), clip)
}

// StrokedBounds returns the bounds of the stroke of p, mapped through m and
// clipped by clip.
func StrokedBounds(p *gg.Path, m gg.Matrix, s Stroke, clip *Clip) gg.Rect {
	if p == nil {
		return gg.Rect{}
	}
	return ClipBounds(StrokeBounds(p, m, s), clip)
}
