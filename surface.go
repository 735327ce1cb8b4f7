package ggwriter

import (
	"fmt"
	"image"
	"io"
	"sort"
	"sync"
)

// Surface is a Canvas that renders into an image of fixed size.
type Surface interface {
	Canvas

	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Image returns the rendered pixels.
	Image() image.Image
}

// WriterSurface is a Surface that can encode its contents to a stream.
type WriterSurface interface {
	Surface

	// WriteTo writes the encoded image to w.
	WriteTo(w io.Writer) (int64, error)
}

// FileSurface is a Surface that can save its contents to a file.
type FileSurface interface {
	Surface

	// SaveToFile writes the encoded image to path.
	SaveToFile(path string) error
}

// SurfaceFactory creates a surface of the given size.
type SurfaceFactory func(width, height int) Surface

var (
	registryMu sync.RWMutex
	surfaces   = make(map[string]SurfaceFactory)
)

// RegisterSurface registers a surface factory under name. It is typically
// called from init in the implementing package:
//
//	func init() {
//	    ggwriter.RegisterSurface("raster", func(w, h int) ggwriter.Surface {
//	        return New(w, h)
//	    })
//	}
//
// RegisterSurface panics when factory is nil or name is already taken.
func RegisterSurface(name string, factory SurfaceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("ggwriter: RegisterSurface factory is nil")
	}
	if _, dup := surfaces[name]; dup {
		panic("ggwriter: RegisterSurface called twice for " + name)
	}
	surfaces[name] = factory
}

// UnregisterSurface removes a surface factory. It is a no-op for unknown
// names.
func UnregisterSurface(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(surfaces, name)
}

// NewSurface creates a surface by name.
//
//	import _ "github.com/gogpu/ggwriter/ggcanvas" // registers "raster"
//
//	s, err := ggwriter.NewSurface("raster", 640, 480)
func NewSurface(name string, width, height int) (Surface, error) {
	registryMu.RLock()
	factory, ok := surfaces[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("ggwriter: unknown surface %q (forgotten import?)", name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ggwriter: invalid surface size %dx%d", width, height)
	}
	return factory(width, height), nil
}

// MustSurface is like NewSurface but panics on error.
func MustSurface(name string, width, height int) Surface {
	s, err := NewSurface(name, width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// Surfaces returns the sorted names of registered surfaces.
func Surfaces() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(surfaces))
	for name := range surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a surface named name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := surfaces[name]
	return ok
}

// Render replays n onto a new surface named name, sized to the given
// dimensions.
func Render(name string, n Node, width, height int) (Surface, error) {
	s, err := NewSurface(name, width, height)
	if err != nil {
		return nil, err
	}
	if err := n.PaintTo(s); err != nil {
		return s, err
	}
	return s, nil
}
