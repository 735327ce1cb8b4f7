// Package codec converts recorded geometry to and from its persisted form.
//
// Paths are encoded as a canonical string: one lower-case operator letter
// per element followed by its coordinates, all separated by single spaces.
// Coordinates use the shortest decimal form that round-trips to the same
// float64, so two paths encode to equal strings exactly when their element
// lists are equal.
//
//	m 0 0 l 10 0 q 15 5 10 10 c 5 12 2 12 0 10 z
//
// The canonical string doubles as the equality key used when deciding
// whether two records draw the same geometry.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// ErrMalformed is returned when a path string or record stream cannot be
// decoded.
var ErrMalformed = errors.New("codec: malformed input")

// Path operators.
const (
	opMove  = "m"
	opLine  = "l"
	opQuad  = "q"
	opCubic = "c"
	opClose = "z"
)

// EncodePath returns the canonical string for p.
// A nil or empty path encodes to the empty string.
func EncodePath(p *gg.Path) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for _, elem := range p.Elements() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch e := elem.(type) {
		case gg.MoveTo:
			sb.WriteString(opMove)
			writePoints(&sb, e.Point)
		case gg.LineTo:
			sb.WriteString(opLine)
			writePoints(&sb, e.Point)
		case gg.QuadTo:
			sb.WriteString(opQuad)
			writePoints(&sb, e.Control, e.Point)
		case gg.CubicTo:
			sb.WriteString(opCubic)
			writePoints(&sb, e.Control1, e.Control2, e.Point)
		case gg.Close:
			sb.WriteString(opClose)
		}
	}
	return sb.String()
}

func writePoints(sb *strings.Builder, pts ...gg.Point) {
	for _, pt := range pts {
		sb.WriteByte(' ')
		sb.WriteString(FormatFloat(pt.X))
		sb.WriteByte(' ')
		sb.WriteString(FormatFloat(pt.Y))
	}
}

// FormatFloat formats v in its shortest round-trip form.
// Negative zero is written as 0 so that it compares equal to positive zero.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DecodePath parses a canonical path string.
// The empty string decodes to an empty path.
func DecodePath(s string) (*gg.Path, error) {
	p := gg.NewPath()
	fields := strings.Fields(s)
	for i := 0; i < len(fields); {
		op := fields[i]
		i++
		var n int
		switch op {
		case opMove, opLine:
			n = 2
		case opQuad:
			n = 4
		case opCubic:
			n = 6
		case opClose:
			p.Close()
			continue
		default:
			return nil, fmt.Errorf("%w: unknown path operator %q at field %d", ErrMalformed, op, i-1)
		}
		if i+n > len(fields) {
			return nil, fmt.Errorf("%w: operator %q needs %d coordinates, have %d", ErrMalformed, op, n, len(fields)-i)
		}
		var v [6]float64
		for k := 0; k < n; k++ {
			f, err := strconv.ParseFloat(fields[i+k], 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: bad coordinate %q at field %d", ErrMalformed, fields[i+k], i+k)
			}
			v[k] = f
		}
		i += n
		switch op {
		case opMove:
			p.MoveTo(v[0], v[1])
		case opLine:
			p.LineTo(v[0], v[1])
		case opQuad:
			p.QuadraticTo(v[0], v[1], v[2], v[3])
		case opCubic:
			p.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	}
	return p, nil
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b *gg.Path) bool {
	return EncodePath(a) == EncodePath(b)
}
