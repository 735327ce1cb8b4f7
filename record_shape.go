package ggwriter

import (
	"errors"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/geom"
)

// Fill records the interior of a path painted with one paint.
type Fill struct {
	base
	path  *gg.Path
	paint Paint
}

// NewFill returns a Fill record of p. The path and paint are copied; a nil
// paint means Black.
func NewFill(p *gg.Path, paint Paint, st State) (*Fill, error) {
	if paint == nil {
		paint = Black
	}
	f := &Fill{path: clonePath(p), paint: clonePaint(paint)}
	if err := f.init(st); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fill) Kind() Kind { return KindFill }

// Path returns a copy of the local-space path.
func (f *Fill) Path() *gg.Path { return f.path.Clone() }

// Paint returns the fill paint.
func (f *Fill) Paint() Paint { return clonePaint(f.paint) }

func (f *Fill) RemoveFromParent() { removeFromParent(f) }

func (f *Fill) Bounds() gg.Rect {
	return geom.Bounds(f.path, f.transform, f.clip)
}

func (f *Fill) Region() []*gg.Path {
	return []*gg.Path{f.path.Transform(f.transform)}
}

func (f *Fill) Clipped() bool { return f.clippedBy(f.Region) }

func (f *Fill) PaintTo(c Canvas) error {
	g, err := f.prepare(c)
	if err != nil {
		return err
	}
	defer g.Dispose()
	g.SetPaint(f.paint)
	return g.Fill(f.path)
}

func (f *Fill) encode(w *codec.Writer) {
	f.encodeState(w)
	w.Path(f.path)
	w.String(f.paint.String())
}

// Stroke records the outline of a path.
type Stroke struct {
	base
	path  *gg.Path
	paint Paint
	style StrokeStyle
}

// NewStroke returns a Stroke record of p. All arguments are copied; a nil
// paint means Black.
func NewStroke(p *gg.Path, paint Paint, style StrokeStyle, st State) (*Stroke, error) {
	if paint == nil {
		paint = Black
	}
	s := &Stroke{path: clonePath(p), paint: clonePaint(paint), style: style.Clone()}
	if err := s.init(st); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stroke) Kind() Kind { return KindStroke }

// Path returns a copy of the local-space path.
func (s *Stroke) Path() *gg.Path { return s.path.Clone() }

// Paint returns the stroke paint.
func (s *Stroke) Paint() Paint { return clonePaint(s.paint) }

// Style returns the stroke style.
func (s *Stroke) Style() StrokeStyle { return s.style.Clone() }

func (s *Stroke) RemoveFromParent() { removeFromParent(s) }

func (s *Stroke) Bounds() gg.Rect {
	return geom.StrokedBounds(s.path, s.transform, s.style.geom(), s.clip)
}

func (s *Stroke) Region() []*gg.Path {
	return strokeRegion(s.path, s.transform, s.style)
}

func (s *Stroke) Clipped() bool { return s.clippedBy(s.Region) }

func (s *Stroke) PaintTo(c Canvas) error {
	g, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer g.Dispose()
	g.SetPaint(s.paint)
	g.SetStrokeStyle(s.style)
	return g.Stroke(s.path)
}

func (s *Stroke) encode(w *codec.Writer) {
	s.encodeState(w)
	w.Path(s.path)
	w.String(s.paint.String())
	encodeStroke(w, s.style)
}

// strokeRegion approximates the painted outline with butt caps and bevel
// joins. A hairline is one device unit wide.
func strokeRegion(p *gg.Path, m gg.Matrix, style StrokeStyle) []*gg.Path {
	if style.Width <= 0 {
		return geom.StrokeOutline(p.Transform(m), gg.Identity(), 1)
	}
	return geom.StrokeOutline(p, m, style.Width)
}

// CombinedShape records a fill and a stroke of the same path drawn under
// the same state. The fill is painted first. It is produced by Merge only.
type CombinedShape struct {
	base
	path        *gg.Path
	fillPaint   Paint
	strokePaint Paint
	style       StrokeStyle
}

var errEmptyCombined = errors.New("ggwriter: combined shape has neither fill nor stroke")

func newCombinedShape(p *gg.Path, fill, stroke Paint, style StrokeStyle, st State) (*CombinedShape, error) {
	if fill == nil && stroke == nil {
		return nil, errEmptyCombined
	}
	cs := &CombinedShape{
		path:        clonePath(p),
		fillPaint:   clonePaint(fill),
		strokePaint: clonePaint(stroke),
		style:       style.Clone(),
	}
	if err := cs.init(st); err != nil {
		return nil, err
	}
	return cs, nil
}

func (cs *CombinedShape) Kind() Kind { return KindCombinedShape }

// Path returns a copy of the local-space path.
func (cs *CombinedShape) Path() *gg.Path { return cs.path.Clone() }

// FillPaint returns the fill paint, or nil when the shape is not filled.
func (cs *CombinedShape) FillPaint() Paint { return clonePaint(cs.fillPaint) }

// StrokePaint returns the stroke paint, or nil when the shape is not
// stroked.
func (cs *CombinedShape) StrokePaint() Paint { return clonePaint(cs.strokePaint) }

// Style returns the stroke style. It is meaningful only when StrokePaint
// is non-nil.
func (cs *CombinedShape) Style() StrokeStyle { return cs.style.Clone() }

func (cs *CombinedShape) RemoveFromParent() { removeFromParent(cs) }

func (cs *CombinedShape) Bounds() gg.Rect {
	var r gg.Rect
	if cs.fillPaint != nil {
		r = geom.Bounds(cs.path, cs.transform, cs.clip)
	}
	if cs.strokePaint != nil {
		sb := geom.StrokedBounds(cs.path, cs.transform, cs.style.geom(), cs.clip)
		if cs.fillPaint == nil || geom.IsEmpty(r) {
			r = sb
		} else if !geom.IsEmpty(sb) {
			r = r.Union(sb)
		}
	}
	return r
}

func (cs *CombinedShape) Region() []*gg.Path {
	var out []*gg.Path
	if cs.fillPaint != nil {
		out = append(out, cs.path.Transform(cs.transform))
	}
	if cs.strokePaint != nil {
		out = append(out, strokeRegion(cs.path, cs.transform, cs.style)...)
	}
	return out
}

// Clipped tests the fill and the stroke outline as separate layers.
func (cs *CombinedShape) Clipped() bool { return cs.clippedByLayers(cs.layers) }

func (cs *CombinedShape) layers() [][]*gg.Path {
	var out [][]*gg.Path
	if cs.fillPaint != nil {
		out = append(out, []*gg.Path{cs.path.Transform(cs.transform)})
	}
	if cs.strokePaint != nil {
		out = append(out, strokeRegion(cs.path, cs.transform, cs.style))
	}
	return out
}

func (cs *CombinedShape) PaintTo(c Canvas) error {
	g, err := cs.prepare(c)
	if err != nil {
		return err
	}
	defer g.Dispose()
	if cs.fillPaint != nil {
		g.SetPaint(cs.fillPaint)
		if err := g.Fill(cs.path); err != nil {
			return err
		}
	}
	if cs.strokePaint != nil {
		g.SetPaint(cs.strokePaint)
		g.SetStrokeStyle(cs.style)
		return g.Stroke(cs.path)
	}
	return nil
}

func (cs *CombinedShape) encode(w *codec.Writer) {
	cs.encodeState(w)
	w.Path(cs.path)
	w.NullString(paintString(cs.fillPaint))
	w.NullString(paintString(cs.strokePaint))
	encodeStroke(w, cs.style)
}

func clonePath(p *gg.Path) *gg.Path {
	if p == nil {
		return gg.NewPath()
	}
	return p.Clone()
}

func encodeStroke(w *codec.Writer, s StrokeStyle) {
	w.Float64(s.Width)
	w.Uint8(uint8(s.Cap))  // #nosec G115 -- small enum
	w.Uint8(uint8(s.Join)) // #nosec G115 -- small enum
	w.Float64(s.MiterLimit)
	w.Uvarint(uint64(len(s.Dash)))
	for _, d := range s.Dash {
		w.Float64(d)
	}
	w.Float64(s.DashOffset)
}
