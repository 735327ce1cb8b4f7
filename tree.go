package ggwriter

import (
	"errors"
	"slices"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/geom"
)

// Kind returns KindGroup.
func (w *Writer) Kind() Kind { return KindGroup }

// Parent returns the group this context was forked into, or nil for the
// root, a flat fork or a detached group.
func (w *Writer) Parent() *Writer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.parent
}

func (w *Writer) setParent(p *Writer) {
	w.mu.Lock()
	w.parent = p
	w.mu.Unlock()
}

// Attribution returns the call site that created the context.
func (w *Writer) Attribution() string { return w.attribution }

// Children returns a snapshot of the context's record list.
func (w *Writer) Children() []Node {
	w.list.mu.Lock()
	defer w.list.mu.Unlock()
	return slices.Clone(w.list.nodes)
}

// RemoveFromParent detaches the group from its parent.
func (w *Writer) RemoveFromParent() { removeFromParent(w) }

// Len returns the number of direct children.
func (w *Writer) Len() int {
	w.list.mu.Lock()
	defer w.list.mu.Unlock()
	return len(w.list.nodes)
}

// At returns the child at index i. It panics if i is out of range.
func (w *Writer) At(i int) Node {
	w.list.mu.Lock()
	defer w.list.mu.Unlock()
	return w.list.nodes[i]
}

// IndexOf returns the index of n among the direct children, or -1.
func (w *Writer) IndexOf(n Node) int {
	w.list.mu.Lock()
	defer w.list.mu.Unlock()
	return slices.Index(w.list.nodes, n)
}

// IsEmpty reports whether the context holds no records, looking through
// nested groups.
func (w *Writer) IsEmpty() bool {
	for _, n := range w.Children() {
		g, ok := n.(*Writer)
		if !ok || !g.IsEmpty() {
			return false
		}
	}
	return true
}

// Bounds returns the union of the bounds of all children.
func (w *Writer) Bounds() gg.Rect {
	var (
		out   gg.Rect
		found bool
	)
	for _, n := range w.Children() {
		b := n.Bounds()
		if geom.IsEmpty(b) {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out
}

// Instructions returns the direct children. With simplify set, empty
// groups are dropped and a lone remaining group is replaced by its own
// simplified instructions.
func (w *Writer) Instructions(simplify bool) []Node {
	nodes := w.Children()
	if !simplify {
		return nodes
	}
	out := nodes[:0]
	for _, n := range nodes {
		if g, ok := n.(*Writer); ok && g.IsEmpty() {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 1 {
		if g, ok := out[0].(*Writer); ok {
			return g.Instructions(true)
		}
	}
	return out
}

// PaintTo replays every child onto c in order. Replay continues past a
// failing child; the errors are joined.
func (w *Writer) PaintTo(c Canvas) error {
	g := c.Fork()
	defer g.Dispose()
	var errs []error
	for _, n := range w.Children() {
		if err := n.PaintTo(g); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add appends n to the list. See Insert.
func (w *Writer) Add(n Node) bool {
	return w.Insert(-1, n)
}

// Insert links n into the list at index i; a negative or too large index
// appends. A node attached elsewhere is detached first. It reports false,
// leaving n detached, when the tree's ceiling has no room for n and its
// subtree, and when n is this context or one of its ancestors.
func (w *Writer) Insert(i int, n Node) bool {
	if n == nil {
		return false
	}
	owner := w.list.owner
	if g, ok := n.(*Writer); ok && g.isAncestorOf(owner) {
		return false
	}
	removeFromParent(n)
	if !w.reserve(size(n)) {
		return false
	}
	if g, ok := n.(*Writer); ok {
		g.rebase(w.root)
	}
	l := w.list
	l.mu.Lock()
	if i < 0 || i > len(l.nodes) {
		i = len(l.nodes)
	}
	l.nodes = slices.Insert(l.nodes, i, n)
	n.setParent(owner)
	l.mu.Unlock()
	return true
}

// Remove unlinks n from the list, clearing its parent and releasing its
// subtree from the root counter. It reports whether n was a child.
func (w *Writer) Remove(n Node) bool {
	l := w.list
	l.mu.Lock()
	i := slices.Index(l.nodes, n)
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	l.nodes = slices.Delete(l.nodes, i, i+1)
	l.mu.Unlock()
	n.setParent(nil)
	w.release(size(n))
	if g, ok := n.(*Writer); ok {
		g.detach()
	}
	return true
}

// detach makes a removed group the root of its own tree, so later draw
// calls on it no longer count against the tree it left.
func (w *Writer) detach() {
	w.rebase(w)
	w.sealed = false
	w.count.Store(size(w) - 1)
}

// RemoveAt unlinks and returns the child at index i. It panics if i is
// out of range.
func (w *Writer) RemoveAt(i int) Node {
	n := w.At(i)
	w.Remove(n)
	return n
}

// isAncestorOf reports whether w is g or one of g's ancestors.
func (w *Writer) isAncestorOf(g *Writer) bool {
	for p := g; p != nil; p = p.Parent() {
		if p == w {
			return true
		}
	}
	return false
}

// rebase moves a group, and every group below it, onto root r.
func (w *Writer) rebase(r *Writer) {
	if w.root == r {
		return
	}
	w.root = r
	for _, n := range w.Children() {
		if g, ok := n.(*Writer); ok {
			g.rebase(r)
		}
	}
}
