package geom

import (
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
)

// Clip is an immutable clip region: the intersection of one or more closed
// paths, all expressed in the same coordinate space. Intersecting two
// axis-aligned rectangles collapses to one rectangle, so the common case
// stays a single path.
//
// A nil *Clip means "no clip" and is valid for every method.
type Clip struct {
	paths  []*gg.Path
	bounds gg.Rect
	key    string
}

// NewClip returns a clip covering the interior of p. The path is copied.
// A nil path returns nil.
func NewClip(p *gg.Path) *Clip {
	if p == nil {
		return nil
	}
	if r, ok := AsRect(p); ok {
		return newClip([]*gg.Path{RectPath(r)})
	}
	return newClip([]*gg.Path{p.Clone()})
}

// RectClip returns a clip covering r.
func RectClip(r gg.Rect) *Clip {
	return newClip([]*gg.Path{RectPath(r)})
}

func newClip(paths []*gg.Path) *Clip {
	c := &Clip{paths: paths}
	keys := make([]string, len(paths))
	for i, p := range paths {
		b := p.BoundingBox()
		if i == 0 {
			c.bounds = b
		} else {
			c.bounds = Intersect(c.bounds, b)
		}
		keys[i] = codec.EncodePath(p)
	}
	c.key = strings.Join(keys, " | ")
	return c
}

// Intersect returns a new clip covering the intersection of c and p.
// When c is nil the result covers p alone.
func (c *Clip) Intersect(p *gg.Path) *Clip {
	if p == nil {
		return c
	}
	if c == nil {
		return NewClip(p)
	}
	if r, ok := AsRect(p); ok {
		if cr, ok := c.Rect(); ok {
			return RectClip(Intersect(cr, r))
		}
		p = RectPath(r)
	} else {
		p = p.Clone()
	}
	paths := make([]*gg.Path, 0, len(c.paths)+1)
	paths = append(paths, c.paths...)
	paths = append(paths, p)
	return newClip(paths)
}

// IntersectClip returns the intersection of c and o.
func (c *Clip) IntersectClip(o *Clip) *Clip {
	if o == nil {
		return c
	}
	out := c
	for _, p := range o.paths {
		out = out.Intersect(p)
	}
	return out
}

// Transform returns the clip mapped through m.
func (c *Clip) Transform(m gg.Matrix) *Clip {
	if c == nil {
		return nil
	}
	paths := make([]*gg.Path, len(c.paths))
	for i, p := range c.paths {
		paths[i] = p.Transform(m)
	}
	return newClip(paths)
}

// Paths returns copies of the paths whose interiors intersect to form the
// clip.
func (c *Clip) Paths() []*gg.Path {
	if c == nil {
		return nil
	}
	out := make([]*gg.Path, len(c.paths))
	for i, p := range c.paths {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of paths in the clip.
func (c *Clip) Len() int {
	if c == nil {
		return 0
	}
	return len(c.paths)
}

// Rect reports whether the clip is a single axis-aligned rectangle.
func (c *Clip) Rect() (gg.Rect, bool) {
	if c == nil || len(c.paths) != 1 {
		return gg.Rect{}, false
	}
	return AsRect(c.paths[0])
}

// Bounds returns the bounds of the clip region.
func (c *Clip) Bounds() gg.Rect {
	if c == nil {
		return gg.Rect{}
	}
	return c.bounds
}

// Contains reports whether pt lies inside every clip path (non-zero rule).
func (c *Clip) Contains(pt gg.Point) bool {
	if c == nil {
		return true
	}
	for _, p := range c.paths {
		if !p.Contains(pt) {
			return false
		}
	}
	return true
}

// String returns the canonical encoding: the canonical path strings of the
// clip's paths joined by " | ". Two clips are canonically equal when their
// strings are equal.
func (c *Clip) String() string {
	if c == nil {
		return ""
	}
	return c.key
}

// Equal reports canonical equality of two clips. Two nil clips are equal.
func (c *Clip) Equal(o *Clip) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	return c.key == o.key
}

// ParseClip decodes a string produced by String.
func ParseClip(s string) (*Clip, error) {
	parts := strings.Split(s, " | ")
	paths := make([]*gg.Path, 0, len(parts))
	for _, part := range parts {
		p, err := codec.DecodePath(part)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return newClip(paths), nil
}
