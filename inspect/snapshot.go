// Package inspect exposes instruction trees for debugging: JSON snapshots,
// statistics and an HTTP inspector mounted on a chi router.
package inspect

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/geom"
)

// Rect is a JSON-friendly rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func toRect(r gg.Rect) Rect {
	if geom.IsEmpty(r) {
		return Rect{}
	}
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

// Node is the JSON form of a tree node.
type Node struct {
	Kind        string  `json:"kind"`
	Bounds      Rect    `json:"bounds"`
	Attribution string  `json:"attribution"`
	Clipped     bool    `json:"clipped"`
	Opacity     float64 `json:"opacity"`
	Text        string  `json:"text,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// Snapshot converts n and its subtree.
func Snapshot(n ggwriter.Node) *Node {
	out := &Node{
		Kind:        n.Kind().String(),
		Bounds:      toRect(n.Bounds()),
		Attribution: n.Attribution(),
	}
	switch v := n.(type) {
	case *ggwriter.Writer:
		out.Opacity = v.Opacity()
	case ggwriter.Record:
		out.Opacity = v.Opacity()
		out.Clipped = v.Clipped()
		if tb, ok := v.(*ggwriter.TextBox); ok {
			out.Text = tb.Text()
		}
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, Snapshot(c))
	}
	return out
}

// Stats summarizes a tree.
type Stats struct {
	Nodes   int            `json:"nodes"`
	Records int            `json:"records"`
	Groups  int            `json:"groups"`
	Clipped int            `json:"clipped"`
	Depth   int            `json:"depth"`
	Kinds   map[string]int `json:"kinds"`
	Bounds  Rect           `json:"bounds"`
}

// Collect walks n and counts its nodes. Depth is the number of levels
// below n.
func Collect(n ggwriter.Node) Stats {
	s := Stats{Kinds: make(map[string]int), Bounds: toRect(n.Bounds())}
	s.walk(n, 0)
	return s
}

func (s *Stats) walk(n ggwriter.Node, depth int) {
	s.Nodes++
	s.Kinds[n.Kind().String()]++
	s.Depth = max(s.Depth, depth)
	if r, ok := n.(ggwriter.Record); ok {
		s.Records++
		if r.Clipped() {
			s.Clipped++
		}
	} else {
		s.Groups++
	}
	for _, c := range n.Children() {
		s.walk(c, depth+1)
	}
}

// Resolve follows a path of child indices from n. It reports false when an
// index is out of range.
func Resolve(n ggwriter.Node, path []int) (ggwriter.Node, bool) {
	for _, i := range path {
		children := n.Children()
		if i < 0 || i >= len(children) {
			return nil, false
		}
		n = children[i]
	}
	return n, true
}
