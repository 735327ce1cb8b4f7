// Package geom is the geometry service used by the recorder: tight bounds
// of transformed and clipped shapes, stroke outline extents, immutable clip
// regions and the coverage test that decides whether a clip removes any
// visible area.
//
// Coordinates follow gg: y grows downward and matrices map local
// coordinates to the enclosing (device) space.
package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// IsEmpty reports whether r covers no area.
func IsEmpty(r gg.Rect) bool {
	return !(r.Max.X > r.Min.X && r.Max.Y > r.Min.Y)
}

// Intersect returns the intersection of a and b. Disjoint rectangles yield
// the zero Rect.
func Intersect(a, b gg.Rect) gg.Rect {
	r := gg.Rect{
		Min: gg.Pt(math.Max(a.Min.X, b.Min.X), math.Max(a.Min.Y, b.Min.Y)),
		Max: gg.Pt(math.Min(a.Max.X, b.Max.X), math.Min(a.Max.Y, b.Max.Y)),
	}
	if r.Max.X < r.Min.X || r.Max.Y < r.Min.Y {
		return gg.Rect{}
	}
	return r
}

// ContainsRect reports whether outer fully contains inner.
func ContainsRect(outer, inner gg.Rect) bool {
	return inner.Min.X >= outer.Min.X && inner.Min.Y >= outer.Min.Y &&
		inner.Max.X <= outer.Max.X && inner.Max.Y <= outer.Max.Y
}

// Overlaps reports whether a and b share interior area.
func Overlaps(a, b gg.Rect) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

// XYWH builds a rectangle from its origin and size. Negative sizes are
// normalized.
func XYWH(x, y, w, h float64) gg.Rect {
	return gg.NewRect(gg.Pt(x, y), gg.Pt(x+w, y+h))
}

// Inset shrinks r by d on every side (grows it when d is negative).
func Inset(r gg.Rect, d float64) gg.Rect {
	return gg.Rect{
		Min: gg.Pt(r.Min.X+d, r.Min.Y+d),
		Max: gg.Pt(r.Max.X-d, r.Max.Y-d),
	}
}

// RectPath returns a closed path tracing r clockwise from its minimum corner.
func RectPath(r gg.Rect) *gg.Path {
	p := gg.NewPath()
	p.MoveTo(r.Min.X, r.Min.Y)
	p.LineTo(r.Max.X, r.Min.Y)
	p.LineTo(r.Max.X, r.Max.Y)
	p.LineTo(r.Min.X, r.Max.Y)
	p.Close()
	return p
}

// TransformRect returns the bounds of r mapped through m.
func TransformRect(r gg.Rect, m gg.Matrix) gg.Rect {
	if m.IsIdentity() {
		return r
	}
	pts := [4]gg.Point{
		m.TransformPoint(r.Min),
		m.TransformPoint(gg.Pt(r.Max.X, r.Min.Y)),
		m.TransformPoint(r.Max),
		m.TransformPoint(gg.Pt(r.Min.X, r.Max.Y)),
	}
	out := gg.Rect{Min: pts[0], Max: pts[0]}
	for _, pt := range pts[1:] {
		out = extend(out, pt)
	}
	return out
}

// AsRect reports whether p is a single axis-aligned rectangle and returns it.
// Both traversal directions are accepted; the closing edge may be explicit.
func AsRect(p *gg.Path) (gg.Rect, bool) {
	if p == nil {
		return gg.Rect{}, false
	}
	var pts []gg.Point
	elems := p.Elements()
	for i, elem := range elems {
		switch e := elem.(type) {
		case gg.MoveTo:
			if i != 0 {
				return gg.Rect{}, false
			}
			pts = append(pts, e.Point)
		case gg.LineTo:
			if i == 0 {
				return gg.Rect{}, false
			}
			pts = append(pts, e.Point)
		case gg.Close:
			if i != len(elems)-1 {
				return gg.Rect{}, false
			}
		default:
			return gg.Rect{}, false
		}
	}
	if len(pts) == 5 && pts[4] == pts[0] {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return gg.Rect{}, false
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		if a.X != b.X && a.Y != b.Y {
			return gg.Rect{}, false
		}
	}
	// Consecutive edges must alternate between horizontal and vertical.
	h0 := pts[0].Y == pts[1].Y
	h1 := pts[1].Y == pts[2].Y
	if h0 == h1 {
		return gg.Rect{}, false
	}
	return gg.NewRect(pts[0], pts[2]), true
}

func extend(r gg.Rect, pt gg.Point) gg.Rect {
	return gg.Rect{
		Min: gg.Pt(math.Min(r.Min.X, pt.X), math.Min(r.Min.Y, pt.Y)),
		Max: gg.Pt(math.Max(r.Max.X, pt.X), math.Max(r.Max.Y, pt.Y)),
	}
}

// Invertible reports whether m has a usable inverse.
func Invertible(m gg.Matrix) bool {
	det := m.A*m.E - m.B*m.D
	return !math.IsNaN(det) && math.Abs(det) >= 1e-10
}
