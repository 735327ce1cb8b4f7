package ggwriter

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// Kind identifies the variant of a tree node.
type Kind uint8

// Node kinds. The numeric values are the wire tags of the record stream.
const (
	KindFill          Kind = 1
	KindStroke        Kind = 2
	KindCombinedShape Kind = 3
	KindImage         Kind = 4
	KindTextBox       Kind = 5
	KindGroup         Kind = 6
)

var kindNames = [...]string{
	KindFill:          "Fill",
	KindStroke:        "Stroke",
	KindCombinedShape: "CombinedShape",
	KindImage:         "Image",
	KindTextBox:       "TextBox",
	KindGroup:         "Group",
}

// String returns the kind name.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is an element of the instruction tree: a Record leaf or a Writer
// group. Node implementations are provided by this package only.
type Node interface {
	Kind() Kind
	// Parent returns the group holding the node, or nil when detached.
	Parent() *Writer
	// Children returns the node's children. Records have none.
	Children() []Node
	// RemoveFromParent detaches the node from its group.
	RemoveFromParent()
	// Bounds returns the device-space area the node can paint, already
	// intersected with its clip. An empty node returns the zero Rect.
	Bounds() gg.Rect
	// Attribution returns the captured call site of the draw call that
	// produced the node.
	Attribution() string
	// PaintTo replays the node onto c. It leaves c's state unchanged.
	PaintTo(c Canvas) error

	setParent(w *Writer)
}

// Record is an immutable leaf of the instruction tree capturing one draw
// call together with the drawing state in effect when it was made.
type Record interface {
	Node
	// Transform returns the user-to-device transform of the draw call.
	Transform() gg.Matrix
	// Clip returns the device-space clip, or nil.
	Clip() *geom.Clip
	// Opacity returns the source-over alpha of the draw call.
	Opacity() float64
	// Clipped reports whether the clip removes any visible area from the
	// painted region. The answer is computed once.
	Clipped() bool
	// Region returns the device-space outline of the painted area as a
	// union of closed paths. It ignores the clip.
	Region() []*gg.Path

	encode(w *codec.Writer)
}

// State is the drawing state captured by a record.
type State struct {
	Transform   gg.Matrix
	Clip        *geom.Clip
	Opacity     float64
	Attribution string
}

// DefaultState returns the identity transform, no clip, full opacity and
// unknown attribution.
func DefaultState() State {
	return State{Transform: gg.Identity(), Opacity: 1, Attribution: UnknownAttribution}
}

func checkOpacity(a float64) error {
	if !(a >= 0 && a <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidOpacity, a)
	}
	return nil
}

// base carries the state shared by all record variants.
type base struct {
	mu          sync.Mutex
	parent      *Writer
	attribution string
	transform   gg.Matrix
	clip        *geom.Clip
	opacity     float32

	clippedOnce sync.Once
	clipped     bool
}

func (b *base) init(st State) error {
	if err := checkOpacity(st.Opacity); err != nil {
		return err
	}
	b.attribution = st.Attribution
	b.transform = st.Transform
	b.clip = st.Clip
	b.opacity = float32(st.Opacity)
	return nil
}

func (b *base) Parent() *Writer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

func (b *base) setParent(w *Writer) {
	b.mu.Lock()
	b.parent = w
	b.mu.Unlock()
}

func (b *base) Children() []Node     { return nil }
func (b *base) Attribution() string  { return b.attribution }
func (b *base) Transform() gg.Matrix { return b.transform }
func (b *base) Clip() *geom.Clip     { return b.clip }
func (b *base) Opacity() float64     { return float64(b.opacity) }

func (b *base) state() State {
	return State{Transform: b.transform, Clip: b.clip, Opacity: float64(b.opacity), Attribution: b.attribution}
}

func (b *base) clippedBy(region func() []*gg.Path) bool {
	return b.clippedByLayers(func() [][]*gg.Path { return [][]*gg.Path{region()} })
}

func (b *base) clippedByLayers(layers func() [][]*gg.Path) bool {
	b.clippedOnce.Do(func() {
		b.clipped = geom.ClippedLayers(layers(), b.clip)
	})
	return b.clipped
}

// prepare forks c and applies the record's clip, transform and opacity.
func (b *base) prepare(c Canvas) (Canvas, error) {
	g := c.Fork()
	for _, p := range b.clip.Paths() {
		g.ClipTo(p)
	}
	g.Concat(b.transform)
	if err := g.SetOpacity(float64(b.opacity)); err != nil {
		g.Dispose()
		return nil, err
	}
	return g, nil
}

func (b *base) encodeState(w *codec.Writer) {
	w.String(b.attribution)
	w.NullString(b.clip.String(), b.clip != nil)
	w.Matrix(b.transform)
	w.Float32(b.opacity)
}

func removeFromParent(n Node) {
	if p := n.Parent(); p != nil {
		p.Remove(n)
	}
}
