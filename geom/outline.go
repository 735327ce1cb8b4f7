package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Outline returns the painted area of the stroke of p, drawn in local
// space with style s and mapped through m, as closed device-space
// polygons of uniform orientation. The union of the polygons is the
// stroke. A non-empty dash pattern splits the centerline first. A zero
// width draws a hairline one device unit wide.
func Outline(p *gg.Path, m gg.Matrix, s Stroke, dash []float64, offset float64) []*gg.Path {
	if p == nil {
		return nil
	}
	if s.Width <= 0 {
		hair := Stroke{Width: 1, Cap: gg.LineCapButt, Join: gg.LineJoinBevel}
		return Outline(p.Transform(m), gg.Identity(), hair, dash, offset)
	}
	hw := s.Width / 2
	lines := localFlatten(p, m)
	if len(dash) > 0 {
		lines = Dash(lines, dash, offset)
	}
	ob := &outliner{m: m, hw: hw, discN: discSegments(hw * maxScale(m))}
	for _, pl := range lines {
		ob.polyline(pl, s)
	}
	return ob.out
}

type outliner struct {
	m     gg.Matrix
	hw    float64
	discN int
	out   []*gg.Path
}

func (o *outliner) polyline(pl Polyline, s Stroke) {
	pts := dedupe(pl.Points, pl.Closed)
	n := len(pts)
	hw := o.hw
	if n == 0 {
		return
	}
	if n == 1 {
		switch s.Cap {
		case gg.LineCapRound:
			o.disc(pts[0])
		case gg.LineCapSquare:
			c := pts[0]
			o.poly(c.Add(gg.Pt(-hw, -hw)), c.Add(gg.Pt(hw, -hw)), c.Add(gg.Pt(hw, hw)), c.Add(gg.Pt(-hw, hw)))
		}
		return
	}
	segs := n - 1
	if pl.Closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		nrm := normal(a, b).Mul(hw)
		o.poly(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}
	for i := 0; i < n; i++ {
		if !pl.Closed && (i == 0 || i == n-1) {
			continue
		}
		o.join(pts[(i+n-1)%n], pts[i], pts[(i+1)%n], s)
	}
	if pl.Closed {
		return
	}
	for _, end := range [2][2]gg.Point{{pts[1], pts[0]}, {pts[n-2], pts[n-1]}} {
		from, at := end[0], end[1]
		switch s.Cap {
		case gg.LineCapRound:
			o.disc(at)
		case gg.LineCapSquare:
			dir := at.Sub(from).Normalize().Mul(hw)
			nrm := normal(from, at).Mul(hw)
			o.poly(at.Add(nrm), at.Add(dir).Add(nrm), at.Add(dir).Sub(nrm), at.Sub(nrm))
		}
	}
}

func (o *outliner) join(prev, pt, next gg.Point, s Stroke) {
	if s.Join == gg.LineJoinRound {
		o.disc(pt)
		return
	}
	turn := pt.Sub(prev).Cross(next.Sub(pt))
	if turn == 0 {
		return
	}
	side := 1.0
	if turn > 0 {
		side = -1
	}
	o0 := pt.Add(normal(prev, pt).Mul(side * o.hw))
	o1 := pt.Add(normal(pt, next).Mul(side * o.hw))
	if s.Join == gg.LineJoinMiter {
		if tip, ok := miterTip(prev, pt, next, o.hw, s.MiterLimit); ok {
			o.poly(pt, o0, tip, o1)
			return
		}
	}
	o.poly(pt, o0, o1)
}

func (o *outliner) disc(c gg.Point) {
	pts := make([]gg.Point, o.discN)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(o.discN)
		pts[i] = gg.Pt(c.X+o.hw*math.Cos(a), c.Y+o.hw*math.Sin(a))
	}
	o.poly(pts...)
}

// poly appends a polygon given in local space. Orientation is normalized
// before mapping so overlapping pieces never cancel.
func (o *outliner) poly(pts ...gg.Point) {
	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	q := gg.NewPath()
	for i, pt := range pts {
		d := o.m.TransformPoint(pt)
		if i == 0 {
			q.MoveTo(d.X, d.Y)
		} else {
			q.LineTo(d.X, d.Y)
		}
	}
	q.Close()
	o.out = append(o.out, q)
}

// discSegments picks the polygon resolution of a round cap or join with
// device radius r.
func discSegments(r float64) int {
	if r <= 0 {
		return 8
	}
	n := int(math.Ceil(math.Pi / math.Acos(math.Max(-1, 1-DefaultTolerance/r))))
	return min(max(n, 8), 256)
}

// Dash splits polylines into the "on" intervals of a dash pattern that
// starts offset units into the pattern at the beginning of every
// polyline. An odd-length pattern is repeated once. A pattern with a
// negative entry or a zero total returns lines unchanged.
func Dash(lines []Polyline, pattern []float64, offset float64) []Polyline {
	var total float64
	for _, d := range pattern {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return lines
		}
		total += d
	}
	if total <= 0 {
		return lines
	}
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64(nil), pattern...), pattern...)
		total *= 2
	}

	var out []Polyline
	for _, pl := range lines {
		pts := pl.Points
		if pl.Closed && len(pts) > 1 && pts[len(pts)-1] != pts[0] {
			pts = append(append([]gg.Point(nil), pts...), pts[0])
		}
		if len(pts) < 2 {
			continue
		}
		// Locate the dash phase at the start of the polyline.
		idx, left := 0, math.Mod(offset, total)
		if left < 0 {
			left += total
		}
		for left >= pattern[idx] {
			left -= pattern[idx]
			idx = (idx + 1) % len(pattern)
		}
		remain := pattern[idx] - left
		on := idx%2 == 0

		var cur []gg.Point
		if on {
			cur = []gg.Point{pts[0]}
		}
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			seg := b.Sub(a).Length()
			pos := 0.0
			for seg-pos > remain {
				pos += remain
				pt := a.Add(b.Sub(a).Mul(pos / seg))
				if on {
					cur = append(cur, pt)
					out = append(out, Polyline{Points: cur})
					cur = nil
				} else {
					cur = []gg.Point{pt}
				}
				on = !on
				idx = (idx + 1) % len(pattern)
				remain = pattern[idx]
			}
			remain -= seg - pos
			if on {
				cur = append(cur, b)
			}
		}
		if on && len(cur) > 1 {
			out = append(out, Polyline{Points: cur})
		}
	}
	return out
}
