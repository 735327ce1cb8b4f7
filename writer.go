package ggwriter

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/geom"
)

// Writer is a recording Canvas. Every draw call made on it is captured,
// together with the current drawing state, as an immutable Record in an
// ordered list. A Writer is also a group node of the instruction tree:
// forks made with the ForkGrouped policy become child groups.
//
// All contexts forked from one root share the root's instruction counter
// and ceiling. The counter is updated atomically, so sibling contexts may
// record from different goroutines; a single record list must have one
// writer at a time.
type Writer struct {
	root        *Writer
	list        *nodeList
	attribution string

	mu     sync.Mutex
	parent *Writer

	// Root-only fields.
	count   atomic.Int64
	ceiling int64
	policy  ForkPolicy
	capture bool
	logger  *slog.Logger
	warned  atomic.Bool
	sealed  bool

	transform gg.Matrix
	clip      *geom.Clip
	paint     Paint
	stroke    StrokeStyle
	font      Font
	opacity   float64
}

// nodeList is the ordered child list of a group. Under ForkFlat it is
// shared by every context forked from its owner.
type nodeList struct {
	mu    sync.Mutex
	owner *Writer
	nodes []Node
}

var _ Canvas = (*Writer)(nil)
var _ Node = (*Writer)(nil)

// New returns an empty root recording context.
func New(opts ...Option) *Writer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := &Writer{
		ceiling: o.ceiling,
		policy:  o.policy,
		capture: o.attribution,
		logger:  o.logger,
	}
	w.root = w
	w.list = &nodeList{owner: w}
	w.transform = gg.Identity()
	w.paint = Black
	w.stroke = DefaultStroke()
	w.font = DefaultFont
	w.opacity = 1
	w.attribution = captureAttribution(w.capture)
	return w
}

func (w *Writer) log() *slog.Logger {
	if l := w.root.logger; l != nil {
		return l
	}
	return Logger()
}

// Root returns the root of the tree this context records into.
func (w *Writer) Root() *Writer { return w.root }

// Policy returns the fork policy of the tree.
func (w *Writer) Policy() ForkPolicy { return w.root.policy }

// Count returns the number of tree nodes recorded under the root.
func (w *Writer) Count() int { return int(w.root.count.Load()) }

// Ceiling returns the maximum node count of the tree, or 0 when
// unlimited.
func (w *Writer) Ceiling() int { return int(w.root.ceiling) }

// ----------------------------------------------------------------------------
// Ceiling
// ----------------------------------------------------------------------------

func (w *Writer) full() bool {
	r := w.root
	if r.sealed || r.ceiling > 0 && r.count.Load() >= r.ceiling {
		r.dropped()
		return true
	}
	return false
}

// reserve claims n slots of the root counter, or reports false when that
// would exceed the ceiling.
func (w *Writer) reserve(n int64) bool {
	r := w.root
	for {
		cur := r.count.Load()
		if r.sealed || r.ceiling > 0 && cur+n > r.ceiling {
			r.dropped()
			return false
		}
		if r.count.CompareAndSwap(cur, cur+n) {
			return true
		}
	}
}

// seal makes w, a group that root had no room for, the root of its own
// tree that accepts nothing, so its draw calls are dropped instead of
// claiming slots of a tree it is not part of.
func (w *Writer) seal(root *Writer) {
	w.rebase(w)
	w.ceiling = root.ceiling
	w.policy = root.policy
	w.capture = root.capture
	w.logger = root.logger
	w.sealed = true
	w.warned.Store(true)
	w.count.Store(size(w) - 1)
}

func (w *Writer) release(n int64) {
	w.root.count.Add(-n)
}

func (w *Writer) dropped() {
	if w.warned.CompareAndSwap(false, true) {
		w.log().Warn("ggwriter: instruction ceiling reached, dropping draw calls",
			"ceiling", w.ceiling)
	}
}

// size returns the number of tree nodes in the subtree rooted at n.
func size(n Node) int64 {
	total := int64(1)
	for _, c := range n.Children() {
		total += size(c)
	}
	return total
}

// ----------------------------------------------------------------------------
// State
// ----------------------------------------------------------------------------

func (w *Writer) state() State {
	return State{
		Transform:   w.transform,
		Clip:        w.clip,
		Opacity:     w.opacity,
		Attribution: captureAttribution(w.root.capture),
	}
}

// Transform returns the current user-to-device transform.
func (w *Writer) Transform() gg.Matrix { return w.transform }

// SetTransform replaces the current transform.
func (w *Writer) SetTransform(m gg.Matrix) { w.transform = m }

// Concat applies m before the current transform.
func (w *Writer) Concat(m gg.Matrix) { w.transform = w.transform.Multiply(m) }

// Translate concatenates a translation.
func (w *Writer) Translate(x, y float64) { w.Concat(gg.Translate(x, y)) }

// Scale concatenates a scale.
func (w *Writer) Scale(sx, sy float64) { w.Concat(gg.Scale(sx, sy)) }

// Rotate concatenates a rotation by angle radians.
func (w *Writer) Rotate(angle float64) { w.Concat(gg.Rotate(angle)) }

// Clip returns the clip in the current user space. It fails with
// ErrNonInvertibleTransform when the transform is singular.
func (w *Writer) Clip() (*geom.Clip, error) {
	if w.clip == nil {
		return nil, nil
	}
	if !geom.Invertible(w.transform) {
		return nil, ErrNonInvertibleTransform
	}
	return w.clip.Transform(w.transform.Invert()), nil
}

// DeviceClip returns the clip as stored, in device space.
func (w *Writer) DeviceClip() *geom.Clip { return w.clip }

// SetClip replaces the clip with the interior of p, given in user space.
// A nil path removes the clip.
func (w *Writer) SetClip(p *gg.Path) {
	if p == nil {
		w.clip = nil
		return
	}
	w.clip = geom.NewClip(p.Transform(w.transform))
}

// ClipTo intersects the clip with the interior of p, given in user space.
func (w *Writer) ClipTo(p *gg.Path) {
	if p == nil {
		return
	}
	w.clip = w.clip.Intersect(p.Transform(w.transform))
}

// Paint returns the paint of later draw calls.
func (w *Writer) Paint() Paint { return clonePaint(w.paint) }

// SetPaint sets the paint of later draw calls. A nil paint means Black.
func (w *Writer) SetPaint(p Paint) {
	if p == nil {
		p = Black
	}
	w.paint = clonePaint(p)
}

// StrokeStyle returns a copy of the current stroke style.
func (w *Writer) StrokeStyle() StrokeStyle { return w.stroke.Clone() }

// SetStrokeStyle sets the stroke style of later Stroke calls.
func (w *Writer) SetStrokeStyle(s StrokeStyle) { w.stroke = s.Clone() }

// Font returns the font of later text calls.
func (w *Writer) Font() Font { return w.font }

// SetFont sets the font of later text calls.
func (w *Writer) SetFont(f Font) { w.font = f }

// Opacity returns the opacity applied to later draw calls.
func (w *Writer) Opacity() float64 { return w.opacity }

// SetOpacity sets the opacity of later draw calls. It fails with
// ErrInvalidOpacity when a is outside [0, 1] or NaN.
func (w *Writer) SetOpacity(a float64) error {
	if err := checkOpacity(a); err != nil {
		return err
	}
	w.opacity = a
	return nil
}

// SetComposite accepts source-over with any valid alpha, and clear only
// while nothing has been recorded in this context, which sets the opacity
// to zero.
func (w *Writer) SetComposite(c Composite) error {
	switch c.Mode {
	case CompositeSourceOver:
		return w.SetOpacity(c.Alpha)
	case CompositeClear:
		if w.IsEmpty() {
			w.opacity = 0
			return nil
		}
		return fmt.Errorf("%w: %s on a non-empty context", ErrUnsupportedCompositeMode, c.Mode)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedCompositeMode, c.Mode)
}

// Fork returns a child context inheriting the current state.
func (w *Writer) Fork() Canvas { return w.ForkWriter() }

// ForkWriter is Fork with a concrete result type. Under ForkGrouped the
// child is appended to this context's list as a group; when the ceiling
// has been reached the child is left detached and its records are
// dropped, even after the tree frees room.
func (w *Writer) ForkWriter() *Writer {
	child := &Writer{
		root:      w.root,
		transform: w.transform,
		clip:      w.clip,
		paint:     w.paint,
		stroke:    w.stroke.Clone(),
		font:      w.font,
		opacity:   w.opacity,
	}
	child.attribution = captureAttribution(w.root.capture)
	if w.root.policy == ForkFlat {
		child.list = w.list
		return child
	}
	child.list = &nodeList{owner: child}
	if !w.Add(child) {
		child.seal(w.root)
		return child
	}
	w.log().Debug("ggwriter: fork", "depth", child.depth())
	return child
}

func (w *Writer) depth() int {
	d := 0
	for p := w.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// Dispose is a no-op: records outlive the context that made them.
func (w *Writer) Dispose() {}

// ----------------------------------------------------------------------------
// Draw calls
// ----------------------------------------------------------------------------

// Fill records the interior of p. A nil path is ignored.
func (w *Writer) Fill(p *gg.Path) error {
	if p == nil || w.full() {
		return nil
	}
	rec, err := NewFill(p, w.paint, w.state())
	if err != nil {
		return err
	}
	w.append(rec)
	return nil
}

// Stroke records the outline of p, merging it into the previous record
// when that is a Fill of the same path under the same state.
func (w *Writer) Stroke(p *gg.Path) error {
	if p == nil || w.full() {
		return nil
	}
	rec, err := NewStroke(p, w.paint, w.stroke, w.state())
	if err != nil {
		return err
	}
	if w.merge(rec) {
		return nil
	}
	w.append(rec)
	return nil
}

func (w *Writer) merge(s *Stroke) bool {
	l := w.list
	l.mu.Lock()
	k := len(l.nodes) - 1
	if k < 0 {
		l.mu.Unlock()
		return false
	}
	prev, ok := l.nodes[k].(*Fill)
	if !ok {
		l.mu.Unlock()
		return false
	}
	m := Merge(prev, s)
	if m == nil {
		l.mu.Unlock()
		return false
	}
	m.setParent(l.owner)
	l.nodes[k] = m
	l.mu.Unlock()
	prev.setParent(nil)
	w.log().Debug("ggwriter: merged fill and stroke", "index", k)
	return true
}

// append links rec into the list, subject to the ceiling.
func (w *Writer) append(rec Record) {
	if !w.reserve(1) {
		return
	}
	l := w.list
	l.mu.Lock()
	rec.setParent(l.owner)
	l.nodes = append(l.nodes, rec)
	l.mu.Unlock()
}

// DrawImage records the src region of img drawn into dst. A non-nil bg
// records a Fill of dst in that color first.
func (w *Writer) DrawImage(img image.Image, dst gg.Rect, src image.Rectangle, bg *gg.RGBA) error {
	if img == nil {
		return nil
	}
	if b := img.Bounds(); !src.In(b) {
		return fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, src, b)
	}
	if w.full() {
		return nil
	}
	if bg != nil {
		fill, err := NewFill(geom.RectPath(dst), Solid{Color: *bg}, w.state())
		if err != nil {
			return err
		}
		w.append(fill)
	}
	rec, err := NewImage(img, dst, src, w.state())
	if err != nil {
		return err
	}
	w.append(rec)
	return nil
}

// DrawString records s in the current font and paint with its baseline
// origin at (x, y).
func (w *Writer) DrawString(s string, x, y float64) error {
	if s == "" {
		return nil
	}
	return w.DrawStyledText(NewStyledText(s, w.font, w.paint), x, y)
}

// DrawStyledText records st as a TextBox tightly enclosing its layout,
// grown by one unit on each side, with no wrapping.
func (w *Writer) DrawStyledText(st StyledText, x, y float64) error {
	if st.Text == "" {
		return nil
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("ggwriter: styled text: %w", err)
	}
	if w.full() {
		return nil
	}
	box := StyledTextBox(st, x, y)
	rec, err := NewTextBox(box, w.state())
	if err != nil {
		return err
	}
	w.append(rec)
	return nil
}

// DrawTextBox records b. A zero MaxLineWidth wraps at the box width.
func (w *Writer) DrawTextBox(b Box) error {
	if w.full() {
		return nil
	}
	if b.MaxLineWidth == 0 {
		b.MaxLineWidth = b.Rect.Width()
	}
	rec, err := NewTextBox(b, w.state())
	if err != nil {
		return err
	}
	w.append(rec)
	return nil
}
