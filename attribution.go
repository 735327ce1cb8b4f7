package ggwriter

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
)

// AttributionDepth is the maximum number of caller frames kept per record.
const AttributionDepth = 12

// UnknownAttribution is stored when attribution capture is disabled.
const UnknownAttribution = "unknown"

const selfPrefix = "github.com/gogpu/ggwriter"

// enginePackages are the packages whose frames never appear in an
// attribution. Commands built on the module keep their frames.
var enginePackages = []string{
	selfPrefix + ".",
	selfPrefix + "/codec.",
	selfPrefix + "/geom.",
	selfPrefix + "/ggcanvas.",
	selfPrefix + "/tee.",
	selfPrefix + "/trace.",
}

var attributionOff atomic.Bool

// SetAttributionDefault sets whether new root contexts capture call sites
// when no WithAttribution option is given. It is on by default.
func SetAttributionDefault(on bool) {
	attributionOff.Store(!on)
}

// AttributionDefault reports the current default for new root contexts.
func AttributionDefault() bool {
	return !attributionOff.Load()
}

// captureAttribution returns the caller frames that led to the current
// draw call, innermost first, with frames of the engine packages removed. Frames
// from test files are kept so tests can see their own call sites.
func captureAttribution(enabled bool) string {
	if !enabled {
		return UnknownAttribution
	}
	var pcs [64]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	lines := make([]string, 0, AttributionDepth)
	for len(lines) < AttributionDepth {
		f, more := frames.Next()
		if !skipFrame(f) {
			lines = append(lines, fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line))
		}
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return UnknownAttribution
	}
	return strings.Join(lines, "\n")
}

func skipFrame(f runtime.Frame) bool {
	switch {
	case f.Function == "":
		return true
	case strings.HasPrefix(f.Function, "runtime."):
		return true
	case strings.HasSuffix(f.File, "_test.go"):
		return false
	}
	for _, pkg := range enginePackages {
		if strings.HasPrefix(f.Function, pkg) {
			return true
		}
	}
	return false
}
