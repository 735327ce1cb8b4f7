// Command ggwriter records, renders, inspects and stores instruction trees.
//
// Usage:
//
//	ggwriter [-config file.yaml] <command> [flags]
//
// Commands:
//
//	demo    record the demo scene to a .ggw file
//	render  rasterize a .ggw file to PNG
//	dump    print the tree of a .ggw file
//	serve   serve the HTTP inspector for a .ggw file
//	store   put, get, list and remove recordings in a database
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gogpu/ggwriter"
	_ "github.com/gogpu/ggwriter/ggcanvas" // registers the "raster" surface
	_ "github.com/gogpu/ggwriter/trace"    // registers the "trace" surface
)

type app struct {
	cfg    *Config
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

type command struct {
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"demo":   {"demo [-o out.ggw] [-png out.png] [-trace]", runDemo},
	"render": {"render -i in.ggw [-o out.png] [-surface raster] [-thumb]", runRender},
	"dump":   {"dump -i in.ggw [-json] [-stats]", runDump},
	"serve":  {"serve -i in.ggw [-addr :8080]", runServe},
	"store":  {"store [-db file] put|get|ls|rm ...", runStore},
}

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ggwriter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "ggwriter:", err)
		return 1
	}
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ggwriter.SetLogger(logger)
	defer ggwriter.SetLogger(nil)

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "ggwriter: unknown command %q\n", name)
		usage(stderr)
		return 2
	}
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr, logger: logger}
	if err := cmd.run(a, ctx, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "ggwriter %s: %v\n", name, err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: ggwriter %s\n", cmd.usage)
			return 2
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: ggwriter [-config file.yaml] <command> [flags]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  ggwriter %s\n", commands[name].usage)
	}
}

// flags returns a flag set for a subcommand that reports errors to the
// app's stderr.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// load decodes a record stream file with the configured options.
func (a *app) load(path string) (*ggwriter.Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: missing -i", errUsage)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	root, err := ggwriter.Decode(f, a.cfg.Options()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// save writes the record stream of n to path.
func save(path string, n ggwriter.Node) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return ggwriter.Encode(f, n)
}
