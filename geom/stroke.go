package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Stroke holds the outline parameters that affect geometry. Dashes are
// ignored: a dashed outline is always a subset of the solid one.
type Stroke struct {
	Width      float64
	Cap        gg.LineCap
	Join       gg.LineJoin
	MiterLimit float64
}

// halfExtents returns the half width and half height of the image of a
// disc of radius r under the linear part of m.
func halfExtents(m gg.Matrix, r float64) (float64, float64) {
	return r * math.Hypot(m.A, m.B), r * math.Hypot(m.D, m.E)
}

// maxScale returns an upper bound of the length factor m applies to any
// vector.
func maxScale(m gg.Matrix) float64 {
	return math.Max(math.Hypot(m.A, m.D), math.Hypot(m.B, m.E)) * math.Sqrt2
}

// localFlatten flattens p in local space with a tolerance that stays under
// DefaultTolerance once mapped through m.
func localFlatten(p *gg.Path, m gg.Matrix) []Polyline {
	tol := DefaultTolerance
	if s := maxScale(m); s > 0 {
		tol /= s
	}
	return Flatten(p, gg.Identity(), tol)
}

// StrokeBounds returns the bounds of the stroked outline of p, drawn in
// local space with style s and mapped through m. Caps and joins are
// honored; a zero width yields the bounds of the centerline.
func StrokeBounds(p *gg.Path, m gg.Matrix, s Stroke) gg.Rect {
	if s.Width <= 0 {
		return p.Transform(m).BoundingBox()
	}
	hw := s.Width / 2
	ex, ey := halfExtents(m, hw)
	var (
		out   gg.Rect
		first = true
	)
	add := func(pt gg.Point) {
		d := m.TransformPoint(pt)
		if first {
			out = gg.Rect{Min: d, Max: d}
			first = false
			return
		}
		out = extend(out, d)
	}
	disc := func(pt gg.Point) {
		d := m.TransformPoint(pt)
		r := gg.Rect{Min: gg.Pt(d.X-ex, d.Y-ey), Max: gg.Pt(d.X+ex, d.Y+ey)}
		if first {
			out = r
			first = false
			return
		}
		out = out.Union(r)
	}

	for _, pl := range localFlatten(p, m) {
		pts := dedupe(pl.Points, pl.Closed)
		if len(pts) == 1 {
			// Zero-length subpath: only round and square caps paint.
			switch s.Cap {
			case gg.LineCapRound:
				disc(pts[0])
			case gg.LineCapSquare:
				add(pts[0].Add(gg.Pt(-hw, -hw)))
				add(pts[0].Add(gg.Pt(hw, hw)))
				add(pts[0].Add(gg.Pt(-hw, hw)))
				add(pts[0].Add(gg.Pt(hw, -hw)))
			}
			continue
		}
		n := len(pts)
		segs := n - 1
		if pl.Closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			a, b := pts[i], pts[(i+1)%n]
			nrm := normal(a, b).Mul(hw)
			add(a.Add(nrm))
			add(a.Sub(nrm))
			add(b.Add(nrm))
			add(b.Sub(nrm))
		}
		// Joins.
		for i := 0; i < n; i++ {
			if !pl.Closed && (i == 0 || i == n-1) {
				continue
			}
			prev, pt, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
			switch s.Join {
			case gg.LineJoinRound:
				disc(pt)
			case gg.LineJoinMiter:
				if tip, ok := miterTip(prev, pt, next, hw, s.MiterLimit); ok {
					add(tip)
				}
			}
		}
		if pl.Closed {
			continue
		}
		// Caps.
		for _, end := range [2][2]gg.Point{{pts[1], pts[0]}, {pts[n-2], pts[n-1]}} {
			from, at := end[0], end[1]
			switch s.Cap {
			case gg.LineCapRound:
				disc(at)
			case gg.LineCapSquare:
				dir := at.Sub(from).Normalize().Mul(hw)
				nrm := normal(from, at).Mul(hw)
				add(at.Add(dir).Add(nrm))
				add(at.Add(dir).Sub(nrm))
			}
		}
	}
	return out
}

// miterTip returns the outer miter point at pt, or false when the miter
// limit turns the join into a bevel.
func miterTip(prev, pt, next gg.Point, hw, limit float64) (gg.Point, bool) {
	if limit <= 0 {
		limit = 10
	}
	d0 := pt.Sub(prev).Normalize()
	d1 := next.Sub(pt).Normalize()
	cos := d0.Dot(d1)
	// theta is the angle between the two segments as drawn.
	sinHalf := math.Sqrt(math.Max(0, (1+cos)/2))
	if sinHalf < 1e-9 {
		return gg.Point{}, false
	}
	ratio := 1 / sinHalf
	if ratio > limit {
		return gg.Point{}, false
	}
	bis := d0.Sub(d1)
	if bis.Length() < 1e-12 {
		// Straight continuation: no tip beyond the segment offsets.
		return gg.Point{}, false
	}
	return pt.Add(bis.Normalize().Mul(hw * ratio)), true
}

// normal returns the unit left normal of the segment a→b, or zero for a
// degenerate segment.
func normal(a, b gg.Point) gg.Point {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return gg.Point{}
	}
	return gg.Pt(-d.Y/l, d.X/l)
}

// dedupe drops consecutive duplicate points (and the closing duplicate of a
// closed polyline).
func dedupe(pts []gg.Point, closed bool) []gg.Point {
	out := make([]gg.Point, 0, len(pts))
	for _, pt := range pts {
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	if closed && len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// StrokeOutline returns the stroked outline of p with butt caps and bevel
// joins as a set of closed polygons in device space. The union of the
// polygons is the painted area; they overlap at joins.
func StrokeOutline(p *gg.Path, m gg.Matrix, width float64) []*gg.Path {
	if width <= 0 {
		return nil
	}
	hw := width / 2
	var out []*gg.Path
	poly := func(pts ...gg.Point) {
		// Uniform orientation keeps overlapping pieces from cancelling
		// in the coverage accumulator.
		if signedArea(pts) < 0 {
			for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
				pts[i], pts[j] = pts[j], pts[i]
			}
		}
		q := gg.NewPath()
		for i, pt := range pts {
			d := m.TransformPoint(pt)
			if i == 0 {
				q.MoveTo(d.X, d.Y)
			} else {
				q.LineTo(d.X, d.Y)
			}
		}
		q.Close()
		out = append(out, q)
	}
	for _, pl := range localFlatten(p, m) {
		pts := dedupe(pl.Points, pl.Closed)
		n := len(pts)
		if n < 2 {
			continue
		}
		segs := n - 1
		if pl.Closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			a, b := pts[i], pts[(i+1)%n]
			nrm := normal(a, b).Mul(hw)
			poly(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
		}
		for i := 0; i < n; i++ {
			if !pl.Closed && (i == 0 || i == n-1) {
				continue
			}
			prev, pt, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
			n0 := normal(prev, pt).Mul(hw)
			n1 := normal(pt, next).Mul(hw)
			if turn := pt.Sub(prev).Cross(next.Sub(pt)); turn > 0 {
				poly(pt, pt.Sub(n0), pt.Sub(n1))
			} else if turn < 0 {
				poly(pt, pt.Add(n0), pt.Add(n1))
			}
		}
	}
	return out
}

func signedArea(pts []gg.Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}
