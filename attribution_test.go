package ggwriter

import (
	"runtime"
	"strings"
	"testing"
)

func TestAttributionCapturesCaller(t *testing.T) {
	w := New(WithAttribution(true))
	_ = w.Fill(square(0, 0, 1))

	got := w.At(0).Attribution()
	first, _, _ := strings.Cut(got, "\n")
	if !strings.Contains(first, "TestAttributionCapturesCaller") || !strings.Contains(first, "attribution_test.go") {
		t.Errorf("first frame = %q, want this test", first)
	}
	if strings.Contains(got, "writer.go") {
		t.Errorf("attribution includes recorder frames:\n%s", got)
	}
	if n := strings.Count(got, "\n") + 1; n > AttributionDepth {
		t.Errorf("attribution has %d frames, want at most %d", n, AttributionDepth)
	}
}

func TestAttributionOff(t *testing.T) {
	w := New(WithAttribution(false))
	_ = w.Fill(square(0, 0, 1))
	child := w.ForkWriter()

	for _, n := range []Node{w, w.At(0), child} {
		if got := n.Attribution(); got != UnknownAttribution {
			t.Errorf("%v Attribution() = %q, want %q", n.Kind(), got, UnknownAttribution)
		}
	}
}

func TestAttributionDefault(t *testing.T) {
	t.Cleanup(func() { SetAttributionDefault(true) })

	if !AttributionDefault() {
		t.Fatal("AttributionDefault() = false, want true")
	}
	SetAttributionDefault(false)
	w := New()
	_ = w.Fill(square(0, 0, 1))
	if got := w.At(0).Attribution(); got != UnknownAttribution {
		t.Errorf("Attribution() = %q, want %q", got, UnknownAttribution)
	}
	if w := New(WithAttribution(true)); w.Attribution() == UnknownAttribution {
		t.Error("WithAttribution(true) did not override the default")
	}
}

func TestMergedRecordKeepsFillAttribution(t *testing.T) {
	w := New(WithAttribution(true))
	fillAt := func() { _ = w.Fill(square(0, 0, 4)) }
	fillAt()
	_ = w.Stroke(square(0, 0, 4))

	got := w.At(0).Attribution()
	if !strings.Contains(got, "TestMergedRecordKeepsFillAttribution.func1") {
		t.Errorf("merged attribution = %q, want the fill's call site", got)
	}
}

func TestSkipFrame(t *testing.T) {
	tests := []struct {
		fn, file string
		want     bool
	}{
		{"", "", true},
		{"runtime.goexit", "/go/src/runtime/asm_amd64.s", true},
		{"github.com/gogpu/ggwriter.(*Writer).Fill", "/src/ggwriter/writer.go", true},
		{"github.com/gogpu/ggwriter/tee.(*Canvas).Fill", "/src/ggwriter/tee/tee.go", true},
		{"github.com/gogpu/ggwriter/trace.(*Canvas).Stroke", "/src/ggwriter/trace/trace.go", true},
		{"github.com/gogpu/ggwriter.TestFill", "/src/ggwriter/writer_test.go", false},
		{"github.com/gogpu/ggwriter/cmd/ggwriter.drawShapesDemo", "/src/ggwriter/cmd/ggwriter/demo.go", false},
		{"main.drawShapesDemo", "/src/ggwriter/cmd/ggwriter/demo.go", false},
		{"github.com/gogpu/ggwriterx.Draw", "/src/other/draw.go", false},
	}
	for _, tt := range tests {
		got := skipFrame(runtime.Frame{Function: tt.fn, File: tt.file})
		if got != tt.want {
			t.Errorf("skipFrame(%q, %q) = %v, want %v", tt.fn, tt.file, got, tt.want)
		}
	}
}
