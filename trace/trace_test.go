package trace

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func square() *gg.Path {
	p := gg.NewPath()
	p.Rectangle(0, 0, 2, 2)
	return p
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestRelaysCalls(t *testing.T) {
	var buf bytes.Buffer
	w := ggwriter.New(ggwriter.WithAttribution(false))
	c := New(w, newLogger(&buf))

	c.SetPaint(ggwriter.Solid{Color: gg.RGBA{R: 1, A: 1}})
	if err := c.Fill(square()); err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	if got := w.Len(); got != 1 {
		t.Fatalf("recorded %d nodes, want 1", got)
	}
	if _, ok := w.At(0).(*ggwriter.Fill); !ok {
		t.Errorf("recorded %T, want *ggwriter.Fill", w.At(0))
	}

	got := lines(&buf)
	if len(got) != 2 {
		t.Fatalf("logged %d lines, want 2:\n%s", len(got), buf.String())
	}
	if !strings.Contains(got[0], "msg=SetPaint") || !strings.Contains(got[0], `paint="solid 1 0 0 1"`) {
		t.Errorf("line 0 = %q", got[0])
	}
	if !strings.Contains(got[1], "msg=Fill") || !strings.Contains(got[1], `path="m 0 0 l 2 0 l 2 2 l 0 2 z"`) {
		t.Errorf("line 1 = %q", got[1])
	}
	if !strings.Contains(got[1], "depth=0") {
		t.Errorf("line 1 = %q, want depth=0", got[1])
	}
}

func TestQueriesAreSilent(t *testing.T) {
	var buf bytes.Buffer
	c := New(ggwriter.New(), newLogger(&buf))
	c.Transform()
	c.Paint()
	c.Font()
	c.Opacity()
	c.StrokeStyle()
	if _, err := c.Clip(); err != nil {
		t.Fatalf("Clip() = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("queries logged %q", buf.String())
	}
}

func TestNestedDepth(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	inner := New(ggwriter.New(), l)
	outer := New(inner, l)

	if err := outer.Fill(square()); err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	got := lines(&buf)
	if len(got) != 2 {
		t.Fatalf("logged %d lines, want 2:\n%s", len(got), buf.String())
	}
	if !strings.Contains(got[0], "depth=0") {
		t.Errorf("outer line = %q, want depth=0", got[0])
	}
	if !strings.Contains(got[1], "depth=1") {
		t.Errorf("inner line = %q, want depth=1", got[1])
	}
	if d := outer.depth.Load(); d != 0 {
		t.Errorf("depth after call = %d, want 0", d)
	}
}

func TestForkIDs(t *testing.T) {
	var buf bytes.Buffer
	c := New(ggwriter.New(), newLogger(&buf))
	f, ok := c.Fork().(*Canvas)
	if !ok {
		t.Fatalf("Fork() returned %T", c.Fork())
	}
	if f.ID() == c.ID() {
		t.Errorf("fork id = %d, same as parent", f.ID())
	}
	if _, ok := f.Inner().(*ggwriter.Writer); !ok {
		t.Errorf("fork inner = %T, want *ggwriter.Writer", f.Inner())
	}
	f.Dispose()

	got := lines(&buf)
	if len(got) < 2 || !strings.Contains(got[0], "msg=Fork") || !strings.Contains(got[len(got)-1], "msg=Dispose") {
		t.Errorf("log = %q", got)
	}
}

func TestReplayThroughTrace(t *testing.T) {
	w := ggwriter.New(ggwriter.WithAttribution(false))
	w.Translate(5, 5)
	if err := w.Fill(square()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	c := New(ggwriter.New(), newLogger(&buf))
	if err := w.PaintTo(c); err != nil {
		t.Fatalf("PaintTo() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"msg=Fork", "msg=Concat", `m="1 0 5 0 1 5"`, "msg=Fill", "msg=Dispose"} {
		if !strings.Contains(out, want) {
			t.Errorf("replay log missing %q:\n%s", want, out)
		}
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"m 0 0 z", "m 0 0 z"},
		{strings.Repeat("l 1 1 ", 20), strings.TrimSpace(strings.Repeat("l 1 1 ", 13)) + " l ..."},
	}
	for _, tt := range tests {
		got := shorten(tt.in)
		if got != tt.want {
			t.Errorf("shorten(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) > maxPathLen+4 {
			t.Errorf("shorten(%q) length %d", tt.in, len(got))
		}
	}
}

func TestSurfaceRegistered(t *testing.T) {
	if !ggwriter.IsRegistered("trace") {
		t.Fatal(`surface "trace" not registered`)
	}
	s, err := ggwriter.NewSurface("trace", 4, 3)
	if err != nil {
		t.Fatalf("NewSurface() = %v", err)
	}
	if w, h := s.Size(); w != 4 || h != 3 {
		t.Errorf("Size() = %d, %d, want 4, 3", w, h)
	}
	var buf bytes.Buffer
	if _, err := s.(*Surface).WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("WriteTo() did not write a PNG")
	}
}
