package ggwriter

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter/codec"
)

// Paint describes how the interior of a fill, stroke or glyph is colored.
// The set of paints is closed: Solid, LinearGradient, RadialGradient and
// Checker. Paint coordinates are in the user space in effect when the
// draw call was made.
//
// Every paint has a canonical text form (String) that ParsePaint reads
// back exactly.
type Paint interface {
	String() string
	clone() Paint
}

// Solid paints a single color.
type Solid struct {
	Color gg.RGBA
}

// SolidColor returns a Solid paint for any color.Color.
func SolidColor(c color.Color) Solid {
	return Solid{Color: gg.FromColor(c)}
}

// Black is the default paint of a new context.
var Black = Solid{Color: gg.Black}

// Extend selects how a gradient continues beyond its end stops.
type Extend uint8

const (
	ExtendPad Extend = iota
	ExtendRepeat
	ExtendReflect
)

var extendNames = [...]string{
	ExtendPad:     "pad",
	ExtendRepeat:  "repeat",
	ExtendReflect: "reflect",
}

// String returns the extend mode name.
func (e Extend) String() string {
	if int(e) < len(extendNames) {
		return extendNames[e]
	}
	return "Unknown"
}

// Stop is a gradient color stop. Offset is in [0, 1].
type Stop struct {
	Offset float64
	Color  gg.RGBA
}

// LinearGradient interpolates colors along the line from (X0, Y0) to
// (X1, Y1).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []Stop
	Extend         Extend
}

// RadialGradient interpolates colors between a start circle of radius R0
// and an end circle of radius R1, both centered at (CX, CY). The focal
// point (FX, FY) defaults to the center when equal to it.
type RadialGradient struct {
	CX, CY, R0, R1 float64
	FX, FY         float64
	Stops          []Stop
	Extend         Extend
}

// Checker paints an axis-aligned checkerboard of square cells.
type Checker struct {
	A, B gg.RGBA
	Size float64
}

func (p Solid) clone() Paint { return p }

func (p Checker) clone() Paint { return p }

func (p LinearGradient) clone() Paint {
	p.Stops = append([]Stop(nil), p.Stops...)
	return p
}

func (p RadialGradient) clone() Paint {
	p.Stops = append([]Stop(nil), p.Stops...)
	return p
}

// String returns "solid r g b a".
func (p Solid) String() string {
	var sb strings.Builder
	sb.WriteString("solid")
	writeColor(&sb, p.Color)
	return sb.String()
}

// String returns "linear x0 y0 x1 y1 extend n" followed by n stops.
func (p LinearGradient) String() string {
	var sb strings.Builder
	sb.WriteString("linear")
	writeFloats(&sb, p.X0, p.Y0, p.X1, p.Y1)
	writeStops(&sb, p.Extend, p.Stops)
	return sb.String()
}

// String returns "radial cx cy r0 r1 fx fy extend n" followed by n stops.
func (p RadialGradient) String() string {
	var sb strings.Builder
	sb.WriteString("radial")
	writeFloats(&sb, p.CX, p.CY, p.R0, p.R1, p.FX, p.FY)
	writeStops(&sb, p.Extend, p.Stops)
	return sb.String()
}

// String returns "checker size" followed by both colors.
func (p Checker) String() string {
	var sb strings.Builder
	sb.WriteString("checker")
	writeFloats(&sb, p.Size)
	writeColor(&sb, p.A)
	writeColor(&sb, p.B)
	return sb.String()
}

func writeFloats(sb *strings.Builder, vs ...float64) {
	for _, v := range vs {
		sb.WriteByte(' ')
		sb.WriteString(codec.FormatFloat(v))
	}
}

func writeColor(sb *strings.Builder, c gg.RGBA) {
	writeFloats(sb, c.R, c.G, c.B, c.A)
}

func writeStops(sb *strings.Builder, e Extend, stops []Stop) {
	sb.WriteByte(' ')
	sb.WriteString(e.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(len(stops)))
	for _, s := range stops {
		writeFloats(sb, s.Offset)
		writeColor(sb, s.Color)
	}
}

// ParsePaint decodes the canonical text form produced by a paint's String
// method.
func ParsePaint(s string) (Paint, error) {
	t := &tokens{fields: strings.Fields(s)}
	var p Paint
	switch kind := t.next(); kind {
	case "solid":
		p = Solid{Color: t.color()}
	case "linear":
		g := LinearGradient{X0: t.float(), Y0: t.float(), X1: t.float(), Y1: t.float()}
		g.Extend, g.Stops = t.stops()
		p = g
	case "radial":
		g := RadialGradient{
			CX: t.float(), CY: t.float(), R0: t.float(), R1: t.float(),
			FX: t.float(), FY: t.float(),
		}
		g.Extend, g.Stops = t.stops()
		p = g
	case "checker":
		size := t.float()
		p = Checker{Size: size, A: t.color(), B: t.color()}
	default:
		return nil, fmt.Errorf("%w: unknown paint %q", codec.ErrMalformed, kind)
	}
	if t.err == nil && t.pos != len(t.fields) {
		t.err = fmt.Errorf("%w: trailing paint fields", codec.ErrMalformed)
	}
	if t.err != nil {
		return nil, t.err
	}
	return p, nil
}

// tokens reads whitespace-separated fields with a sticky error.
type tokens struct {
	fields []string
	pos    int
	err    error
}

func (t *tokens) next() string {
	if t.err != nil {
		return ""
	}
	if t.pos >= len(t.fields) {
		t.err = fmt.Errorf("%w: paint truncated", codec.ErrMalformed)
		return ""
	}
	f := t.fields[t.pos]
	t.pos++
	return f
}

func (t *tokens) float() float64 {
	f := t.next()
	if t.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		t.err = fmt.Errorf("%w: paint field %q", codec.ErrMalformed, f)
	}
	return v
}

func (t *tokens) color() gg.RGBA {
	return gg.RGBA{R: t.float(), G: t.float(), B: t.float(), A: t.float()}
}

func (t *tokens) stops() (Extend, []Stop) {
	name := t.next()
	e := Extend(0)
	found := false
	for i, n := range extendNames {
		if n == name {
			e, found = Extend(i), true // #nosec G115 -- index of a three-entry table
		}
	}
	if !found && t.err == nil {
		t.err = fmt.Errorf("%w: unknown extend %q", codec.ErrMalformed, name)
	}
	count := t.next()
	n, err := strconv.Atoi(count)
	if t.err == nil && (err != nil || n < 0 || n > len(t.fields)) {
		t.err = fmt.Errorf("%w: stop count %q", codec.ErrMalformed, count)
	}
	if t.err != nil {
		return e, nil
	}
	stops := make([]Stop, 0, n)
	for i := 0; i < n && t.err == nil; i++ {
		stops = append(stops, Stop{Offset: t.float(), Color: t.color()})
	}
	return e, stops
}

// clonePaint returns an independent copy of p. A nil paint stays nil.
func clonePaint(p Paint) Paint {
	if p == nil {
		return nil
	}
	return p.clone()
}

// paintString returns the text form of p and whether p is set.
func paintString(p Paint) (string, bool) {
	if p == nil {
		return "", false
	}
	return p.String(), true
}
