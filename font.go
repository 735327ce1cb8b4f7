package ggwriter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font selects a registered typeface and a size in user-space units.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// DefaultFont is the font of a new context.
var DefaultFont = Font{Family: "Go", Size: 12}

// String returns "family size" or "family bold size".
func (f Font) String() string {
	s := f.Family
	if f.Bold {
		s += " bold"
	}
	return s + " " + strconv.FormatFloat(f.Size, 'g', -1, 64)
}

type fontKey struct {
	family string
	bold   bool
}

var (
	fontsMu sync.RWMutex
	fonts   = make(map[fontKey]*sfnt.Font)
)

// bufPool holds sfnt buffers; an sfnt.Buffer must not be shared between
// goroutines.
var bufPool = sync.Pool{New: func() any { return new(sfnt.Buffer) }}

func init() {
	for _, f := range []struct {
		family string
		bold   bool
		ttf    []byte
	}{
		{"Go", false, goregular.TTF},
		{"Go", true, gobold.TTF},
		{"Go Mono", false, gomono.TTF},
		{"Go Mono", true, gomonobold.TTF},
	} {
		if err := RegisterFont(f.family, f.bold, f.ttf); err != nil {
			panic(err)
		}
	}
}

// RegisterFont parses a TrueType or OpenType font and makes it available
// under family. A later registration of the same family and weight
// replaces the earlier one.
func RegisterFont(family string, bold bool, data []byte) error {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("ggwriter: register font %q: %w", family, err)
	}
	fontsMu.Lock()
	defer fontsMu.Unlock()
	fonts[fontKey{family, bold}] = parsed
	return nil
}

// Families returns the sorted names of registered font families.
func Families() []string {
	fontsMu.RLock()
	defer fontsMu.RUnlock()
	seen := make(map[string]bool)
	names := make([]string, 0, len(fonts))
	for k := range fonts {
		if !seen[k.family] {
			seen[k.family] = true
			names = append(names, k.family)
		}
	}
	sort.Strings(names)
	return names
}

// lookup resolves f to a parsed font, falling back to the regular weight
// of the family and then to the default family.
func lookup(f Font) *sfnt.Font {
	fontsMu.RLock()
	defer fontsMu.RUnlock()
	for _, k := range []fontKey{
		{f.Family, f.Bold},
		{f.Family, false},
		{DefaultFont.Family, f.Bold},
		{DefaultFont.Family, false},
	} {
		if sf, ok := fonts[k]; ok {
			return sf
		}
	}
	return nil
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(size * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// FontMetrics holds the vertical metrics of a font at a given size.
type FontMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Height returns the distance between consecutive baselines.
func (m FontMetrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// MeasureFont returns the vertical metrics of f.
func MeasureFont(f Font) FontMetrics {
	sf := lookup(f)
	if sf == nil || f.Size <= 0 {
		return FontMetrics{}
	}
	buf := bufPool.Get().(*sfnt.Buffer)
	defer bufPool.Put(buf)
	m, err := sf.Metrics(buf, ppem(f.Size), font.HintingNone)
	if err != nil {
		return FontMetrics{}
	}
	out := FontMetrics{Ascent: fromFixed(m.Ascent), Descent: fromFixed(m.Descent)}
	out.LineGap = math.Max(0, fromFixed(m.Height)-out.Ascent-out.Descent)
	return out
}

// MeasureString returns the advance width of s set in f, kerning
// included.
func MeasureString(f Font, s string) float64 {
	var w float64
	walkGlyphs(f, s, func(_ *sfnt.Font, _ *sfnt.Buffer, _ sfnt.GlyphIndex, pen, advance float64) {
		w = pen + advance
	})
	return w
}

// walkGlyphs calls fn for each glyph of s with its pen position relative
// to the start of the string and its kerned advance.
func walkGlyphs(f Font, s string, fn func(sf *sfnt.Font, buf *sfnt.Buffer, gi sfnt.GlyphIndex, pen, advance float64)) {
	sf := lookup(f)
	if sf == nil || f.Size <= 0 {
		return
	}
	buf := bufPool.Get().(*sfnt.Buffer)
	defer bufPool.Put(buf)
	size := ppem(f.Size)
	var (
		pen  float64
		prev sfnt.GlyphIndex
	)
	for i, r := range s {
		gi, err := sf.GlyphIndex(buf, r)
		if err != nil {
			continue
		}
		if i > 0 && prev != 0 {
			if k, err := sf.Kern(buf, prev, gi, size, font.HintingNone); err == nil {
				pen += fromFixed(k)
			}
		}
		adv, err := sf.GlyphAdvance(buf, gi, size, font.HintingNone)
		if err != nil {
			continue
		}
		fn(sf, buf, gi, pen, fromFixed(adv))
		pen += fromFixed(adv)
		prev = gi
	}
}

// TextPath returns the glyph outlines of s set in f with the baseline
// origin at (x, y). Filling the path with the non-zero rule draws the
// text.
func TextPath(f Font, s string, x, y float64) *gg.Path {
	p := gg.NewPath()
	walkGlyphs(f, s, func(sf *sfnt.Font, buf *sfnt.Buffer, gi sfnt.GlyphIndex, pen, _ float64) {
		segs, err := sf.LoadGlyph(buf, gi, ppem(f.Size), nil)
		if err != nil {
			return
		}
		ox := x + pen
		pt := func(v fixed.Point26_6) (float64, float64) {
			return ox + fromFixed(v.X), y + fromFixed(v.Y)
		}
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					p.Close()
				}
				p.MoveTo(pt(seg.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				p.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				cx, cy := pt(seg.Args[0])
				ex, ey := pt(seg.Args[1])
				p.QuadraticTo(cx, cy, ex, ey)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := pt(seg.Args[0])
				c2x, c2y := pt(seg.Args[1])
				ex, ey := pt(seg.Args[2])
				p.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
			}
		}
		if open {
			p.Close()
		}
	})
	return p
}
