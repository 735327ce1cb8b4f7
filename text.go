package ggwriter

import (
	"fmt"
	"slices"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/unicode/bidi"
)

// Attribute names a style property carried by a styled-text run.
type Attribute string

// Recognized attributes. Values are strings: a family name, a decimal
// size, "bold" or "regular", and a paint in its text form.
const (
	AttrFamily     Attribute = "family"
	AttrSize       Attribute = "size"
	AttrWeight     Attribute = "weight"
	AttrForeground Attribute = "foreground"
)

// Run applies one attribute value to the rune range [Start, End).
type Run struct {
	Start, End int
	Attr       Attribute
	Value      string
}

// StyledText is plain text with attribute runs. Runs may overlap; a later
// run overrides an earlier one for the same attribute. Text not covered
// by a run uses DefaultFont and the Black paint.
type StyledText struct {
	Text string
	Runs []Run
}

// NewStyledText returns text styled uniformly with f and p.
func NewStyledText(s string, f Font, p Paint) StyledText {
	n := utf8.RuneCountInString(s)
	st := StyledText{Text: s}
	st.Runs = append(st.Runs,
		Run{0, n, AttrFamily, f.Family},
		Run{0, n, AttrSize, strconv.FormatFloat(f.Size, 'g', -1, 64)},
	)
	if f.Bold {
		st.Runs = append(st.Runs, Run{0, n, AttrWeight, "bold"})
	}
	if s, ok := paintString(p); ok {
		st.Runs = append(st.Runs, Run{0, n, AttrForeground, s})
	}
	return st
}

// Len returns the length of the text in runes.
func (st StyledText) Len() int {
	return utf8.RuneCountInString(st.Text)
}

// Clone returns a copy that shares no memory with st.
func (st StyledText) Clone() StyledText {
	st.Runs = slices.Clone(st.Runs)
	return st
}

// Equal reports whether two styled texts have identical text and runs.
func (st StyledText) Equal(o StyledText) bool {
	return st.Text == o.Text && slices.Equal(st.Runs, o.Runs)
}

// Validate checks that every run lies within the text and that every
// value parses for its attribute.
func (st StyledText) Validate() error {
	n := st.Len()
	for i, r := range st.Runs {
		if r.Start < 0 || r.End < r.Start || r.End > n {
			return fmt.Errorf("run %d: range [%d, %d) outside text of length %d", i, r.Start, r.End, n)
		}
		switch r.Attr {
		case AttrSize:
			if _, err := strconv.ParseFloat(r.Value, 64); err != nil {
				return fmt.Errorf("run %d: size %q: %w", i, r.Value, err)
			}
		case AttrForeground:
			if _, err := ParsePaint(r.Value); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
		}
	}
	return nil
}

// StyleAt returns the font and paint in effect at rune index i.
func (st StyledText) StyleAt(i int) (Font, Paint) {
	f := DefaultFont
	var p Paint = Black
	for _, r := range st.Runs {
		if i < r.Start || i >= r.End {
			continue
		}
		switch r.Attr {
		case AttrFamily:
			f.Family = r.Value
		case AttrSize:
			if v, err := strconv.ParseFloat(r.Value, 64); err == nil {
				f.Size = v
			}
		case AttrWeight:
			f.Bold = r.Value == "bold"
		case AttrForeground:
			if v, err := ParsePaint(r.Value); err == nil {
				p = v
			}
		}
	}
	return f, p
}

// Span is a maximal rune range of constant style.
type Span struct {
	Start, End int
	Font       Font
	Paint      Paint
}

// Spans splits the text into ranges of constant style, in text order.
func (st StyledText) Spans() []Span {
	n := st.Len()
	if n == 0 {
		return nil
	}
	cuts := []int{0, n}
	for _, r := range st.Runs {
		cuts = append(cuts, r.Start, r.End)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var spans []Span
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		if a < 0 || b > n || a == b {
			continue
		}
		f, p := st.StyleAt(a)
		if k := len(spans) - 1; k >= 0 && spans[k].End == a &&
			spans[k].Font == f && spans[k].Paint.String() == p.String() {
			spans[k].End = b
			continue
		}
		spans = append(spans, Span{Start: a, End: b, Font: f, Paint: p})
	}
	return spans
}

// Piece is a run of text drawn with one style on a laid-out line. Its
// text is in visual order and X is its offset from the line start.
type Piece struct {
	Text  string
	Font  Font
	Paint Paint
	X     float64
	Width float64
}

// Line is one laid-out line of styled text.
type Line struct {
	Pieces  []Piece
	Width   float64
	Ascent  float64
	Descent float64
	LineGap float64
	// RTL is set when most of the line runs right to left; its pieces are
	// then placed from the right.
	RTL bool
}

// Height returns the distance from this line's top to the next line's top.
func (l Line) Height() float64 {
	return l.Ascent + l.Descent + l.LineGap
}

// LayoutText breaks st into lines no wider than maxWidth, breaking at
// Unicode line-break opportunities and always at mandatory breaks. A
// segment wider than maxWidth gets a line of its own. Trailing white space
// does not count toward a line's width.
func LayoutText(st StyledText, maxWidth float64) []Line {
	runes := []rune(st.Text)
	if len(runes) == 0 {
		return nil
	}
	l := &layout{runes: runes, spans: st.Spans(), st: st}

	var seg segmenter.Segmenter
	seg.Init(runes)
	it := seg.LineIterator()

	var (
		lines      []Line
		start, end int
	)
	for it.Next() {
		s := it.Line()
		next := s.Offset + len(s.Text)
		if end > start && l.width(start, l.trim(start, next)) > maxWidth {
			lines = append(lines, l.line(start, end))
			start = s.Offset
		}
		end = next
		if s.IsMandatoryBreak {
			lines = append(lines, l.line(start, end))
			start = end
		}
	}
	if end > start {
		lines = append(lines, l.line(start, end))
	}
	return lines
}

type layout struct {
	st    StyledText
	runes []rune
	spans []Span
}

// trim drops trailing white space from [a, b).
func (l *layout) trim(a, b int) int {
	for b > a && unicode.IsSpace(l.runes[b-1]) {
		b--
	}
	return b
}

func (l *layout) width(a, b int) float64 {
	var w float64
	for _, sp := range l.spans {
		lo, hi := max(a, sp.Start), min(b, sp.End)
		if lo < hi {
			w += MeasureString(sp.Font, string(l.runes[lo:hi]))
		}
	}
	return w
}

func (l *layout) line(a, b int) Line {
	b = l.trim(a, b)
	var out Line
	metrics := func(f Font) {
		m := MeasureFont(f)
		out.Ascent = max(out.Ascent, m.Ascent)
		out.Descent = max(out.Descent, m.Descent)
		out.LineGap = max(out.LineGap, m.LineGap)
	}
	if a == b {
		f, _ := l.st.StyleAt(min(a, len(l.runes)-1))
		metrics(f)
		return out
	}

	rtl := directions(l.runes[a:b])
	var rtlCount int
	for _, r := range rtl {
		if r {
			rtlCount++
		}
	}
	out.RTL = rtlCount*2 > len(rtl)

	for _, sp := range l.spans {
		lo, hi := max(a, sp.Start), min(b, sp.End)
		if lo >= hi {
			continue
		}
		metrics(sp.Font)
		for lo < hi {
			dir := rtl[lo-a]
			j := lo + 1
			for j < hi && rtl[j-a] == dir {
				j++
			}
			text := slices.Clone(l.runes[lo:j])
			if dir {
				slices.Reverse(text)
			}
			out.Pieces = append(out.Pieces, Piece{
				Text:  string(text),
				Font:  sp.Font,
				Paint: sp.Paint,
				Width: MeasureString(sp.Font, string(text)),
			})
			lo = j
		}
	}
	if out.RTL {
		slices.Reverse(out.Pieces)
	}
	for i := range out.Pieces {
		out.Pieces[i].X = out.Width
		out.Width += out.Pieces[i].Width
	}
	return out
}

// directions reports, per rune, whether the rune belongs to a right-to-left
// bidi run.
func directions(runes []rune) []bool {
	out := make([]bool, len(runes))
	p := bidi.Paragraph{}
	_, _ = p.SetString(string(runes), bidi.DefaultDirection(bidi.LeftToRight))
	ordering, err := p.Order()
	if err != nil {
		return out
	}
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() != bidi.RightToLeft {
			continue
		}
		// Pos returns inclusive rune indices.
		start, end := run.Pos()
		for j := start; j <= end && j < len(out); j++ {
			out[j] = true
		}
	}
	return out
}
