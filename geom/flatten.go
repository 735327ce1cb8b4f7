package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// DefaultTolerance is the flattening tolerance used for bounds and coverage,
// in device units.
const DefaultTolerance = 0.05

// maxSegments caps the subdivision of a single curve.
const maxSegments = 512

// Polyline is one flattened subpath.
type Polyline struct {
	Points []gg.Point
	Closed bool
}

// Flatten maps p through m and approximates every subpath with line
// segments no farther than tol from the true curve.
func Flatten(p *gg.Path, m gg.Matrix, tol float64) []Polyline {
	if p == nil {
		return nil
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	var (
		out     []Polyline
		cur     []gg.Point
		current gg.Point
		start   gg.Point
	)
	flush := func(closed bool) {
		if len(cur) > 0 {
			out = append(out, Polyline{Points: cur, Closed: closed})
		}
		cur = nil
	}
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case gg.MoveTo:
			flush(false)
			current = m.TransformPoint(e.Point)
			start = current
			cur = append(cur, current)
		case gg.LineTo:
			pt := m.TransformPoint(e.Point)
			if len(cur) == 0 {
				cur = append(cur, current)
				start = current
			}
			cur = append(cur, pt)
			current = pt
		case gg.QuadTo:
			ctrl := m.TransformPoint(e.Control)
			pt := m.TransformPoint(e.Point)
			if len(cur) == 0 {
				cur = append(cur, current)
				start = current
			}
			q := gg.NewQuadBez(current, ctrl, pt)
			n := segmentsFor(tol, current, ctrl, pt)
			for i := 1; i <= n; i++ {
				cur = append(cur, q.Eval(float64(i)/float64(n)))
			}
			cur[len(cur)-1] = pt
			current = pt
		case gg.CubicTo:
			c1 := m.TransformPoint(e.Control1)
			c2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			if len(cur) == 0 {
				cur = append(cur, current)
				start = current
			}
			c := gg.NewCubicBez(current, c1, c2, pt)
			n := segmentsFor(tol, current, c1, c2, pt)
			for i := 1; i <= n; i++ {
				cur = append(cur, c.Eval(float64(i)/float64(n)))
			}
			cur[len(cur)-1] = pt
			current = pt
		case gg.Close:
			flush(true)
			current = start
		}
	}
	flush(false)
	return out
}

// segmentsFor estimates how many line segments keep the chord error of a
// Bezier with the given control polygon under tol. The bound uses the
// largest second difference of the control points.
func segmentsFor(tol float64, pts ...gg.Point) int {
	var dd float64
	for i := 0; i+2 < len(pts); i++ {
		d := pts[i].Sub(pts[i+1].Mul(2)).Add(pts[i+2])
		dd = math.Max(dd, d.Length())
	}
	degree := float64(len(pts) - 1)
	n := math.Ceil(math.Sqrt(degree * (degree - 1) * dd / (8 * tol)))
	switch {
	case math.IsNaN(n) || n < 1:
		return 1
	case n > maxSegments:
		return maxSegments
	}
	return int(n)
}
