package trace

import (
	"image"
	"io"
	"log/slog"

	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/ggcanvas"
)

func init() {
	ggwriter.RegisterSurface("trace", func(w, h int) ggwriter.Surface {
		return NewSurface(ggcanvas.New(w, h), nil)
	})
}

// Surface is a trace Canvas over a pixel surface.
type Surface struct {
	*Canvas
	target ggwriter.Surface
}

var (
	_ ggwriter.Surface       = (*Surface)(nil)
	_ ggwriter.WriterSurface = (*Surface)(nil)
)

// NewSurface wraps s. A nil logger uses ggwriter.Logger().
func NewSurface(s ggwriter.Surface, l *slog.Logger) *Surface {
	return &Surface{Canvas: New(s, l), target: s}
}

func (s *Surface) Size() (width, height int) { return s.target.Size() }

func (s *Surface) Image() image.Image { return s.target.Image() }

// WriteTo encodes the target when it supports encoding.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	ws, ok := s.target.(ggwriter.WriterSurface)
	if !ok {
		return 0, errNoEncoder
	}
	return ws.WriteTo(w)
}
