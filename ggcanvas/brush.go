package ggcanvas

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
)

// brushFor converts a recorded paint to the gg brush that samples it.
// Unknown paints fall back to opaque black.
func brushFor(p ggwriter.Paint) gg.Brush {
	switch p := p.(type) {
	case ggwriter.Solid:
		return gg.Solid(p.Color)
	case ggwriter.LinearGradient:
		b := gg.NewLinearGradientBrush(p.X0, p.Y0, p.X1, p.Y1)
		for _, s := range p.Stops {
			b.AddColorStop(s.Offset, s.Color)
		}
		return b.SetExtend(extendMode(p.Extend))
	case ggwriter.RadialGradient:
		b := gg.NewRadialGradientBrush(p.CX, p.CY, p.R0, p.R1)
		if p.FX != p.CX || p.FY != p.CY {
			b.SetFocus(p.FX, p.FY)
		}
		for _, s := range p.Stops {
			b.AddColorStop(s.Offset, s.Color)
		}
		return b.SetExtend(extendMode(p.Extend))
	case ggwriter.Checker:
		return gg.Checkerboard(p.A, p.B, p.Size)
	default:
		return gg.Solid(gg.Black)
	}
}

func extendMode(e ggwriter.Extend) gg.ExtendMode {
	switch e {
	case ggwriter.ExtendRepeat:
		return gg.ExtendRepeat
	case ggwriter.ExtendReflect:
		return gg.ExtendReflect
	default:
		return gg.ExtendPad
	}
}
