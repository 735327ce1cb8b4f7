package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/inspect"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

func runDump(a *app, ctx context.Context, args []string) error {
	fs := a.flags("dump")
	in := fs.String("i", "", "input record stream")
	asJSON := fs.Bool("json", false, "print the tree as JSON")
	stats := fs.Bool("stats", false, "print node counts instead of the tree")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, err := a.load(*in)
	if err != nil {
		return err
	}
	switch {
	case *stats:
		return writeJSON(a.stdout, inspect.Collect(root))
	case *asJSON:
		return writeJSON(a.stdout, inspect.Snapshot(root))
	}
	d := &dumper{w: a.stdout, color: a.colorful()}
	d.node(root, 0)
	return d.err
}

// colorful reports whether dump output should carry ANSI colors.
func (a *app) colorful() bool {
	switch a.cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := a.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type dumper struct {
	w     io.Writer
	color bool
	err   error
}

func (d *dumper) style(s, code string) string {
	if !d.color {
		return s
	}
	return code + s + ansiReset
}

// node prints n as "Kind x y w h [clipped] [alpha] @site" and recurses.
func (d *dumper) node(n ggwriter.Node, depth int) {
	if d.err != nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(d.style(n.Kind().String(), ansiBold))
	b := n.Bounds()
	sb.WriteString(" ")
	sb.WriteString(codec.FormatFloat(b.Min.X) + " " + codec.FormatFloat(b.Min.Y) + " " +
		codec.FormatFloat(b.Width()) + " " + codec.FormatFloat(b.Height()))
	var opacity float64
	switch v := n.(type) {
	case *ggwriter.Writer:
		opacity = v.Opacity()
	case ggwriter.Record:
		opacity = v.Opacity()
		if v.Clipped() {
			sb.WriteString(" " + d.style("clipped", ansiYellow))
		}
		if tb, ok := v.(*ggwriter.TextBox); ok {
			sb.WriteString(fmt.Sprintf(" %q", tb.Text()))
		}
	}
	if opacity != 1 {
		sb.WriteString(" alpha=" + codec.FormatFloat(opacity))
	}
	if site := callSite(n.Attribution()); site != "" {
		sb.WriteString(" " + d.style("@"+site, ansiDim+ansiCyan))
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(d.w, sb.String()); err != nil {
		d.err = err
		return
	}
	for _, c := range n.Children() {
		d.node(c, depth+1)
	}
}

// callSite returns the innermost frame of an attribution, or "" when it
// is unknown.
func callSite(attr string) string {
	if attr == "" || attr == ggwriter.UnknownAttribution {
		return ""
	}
	first, _, _ := strings.Cut(attr, "\n")
	return first
}
