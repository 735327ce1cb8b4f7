package ggwriter

import "github.com/gogpu/ggwriter/codec"

// Merge collapses a Fill immediately followed by a Stroke of the same
// path into one CombinedShape. It returns nil when the pair does not
// qualify:
//
//   - prev must be a Fill and next a Stroke;
//   - their local-space paths must encode to the same canonical string;
//   - their transforms and opacities must be equal;
//   - their clips must be canonically equal and their Clipped results
//     must agree.
//
// The merged record keeps the fill's attribution.
func Merge(prev, next Record) *CombinedShape {
	f, ok := prev.(*Fill)
	if !ok {
		return nil
	}
	s, ok := next.(*Stroke)
	if !ok {
		return nil
	}
	if f.transform != s.transform || f.opacity != s.opacity {
		return nil
	}
	if !f.clip.Equal(s.clip) {
		return nil
	}
	if !codec.Equal(f.path, s.path) {
		return nil
	}
	if f.Clipped() != s.Clipped() {
		return nil
	}
	st := f.state()
	cs, err := newCombinedShape(f.path, f.paint, s.paint, s.style, st)
	if err != nil {
		return nil
	}
	return cs
}
