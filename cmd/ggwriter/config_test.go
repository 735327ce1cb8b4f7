package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ggwriter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggwriter.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") = %v", err)
	}
	want := Config{
		LogLevel: "warn",
		Color:    "auto",
		Store:    "ggwriter.db",
		Addr:     ":8080",
		Record:   RecordConfig{ForkPolicy: "grouped"},
		Render:   RenderConfig{Thumbnail: 256},
	}
	if *cfg != want {
		t.Errorf("LoadConfig(\"\") = %+v, want %+v", *cfg, want)
	}
	if got := len(cfg.Options()); got != 1 {
		t.Errorf("Options() has %d entries, want 1", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
addr: 127.0.0.1:9000
record:
  ceiling: 10
  fork_policy: flat
  attribution: false
render:
  background: "#fff"
  thumbnail: 64
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Render.Thumbnail != 64 || cfg.Store != "ggwriter.db" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}

	w := ggwriter.New(cfg.Options()...)
	if w.Policy() != ggwriter.ForkFlat {
		t.Errorf("Policy() = %v, want flat", w.Policy())
	}
	if w.Ceiling() != 10 {
		t.Errorf("Ceiling() = %d, want 10", w.Ceiling())
	}
	if w.Attribution() != ggwriter.UnknownAttribution {
		t.Errorf("Attribution() = %q, want unknown", w.Attribution())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"log level", "log_level: loud\n"},
		{"color", "color: sometimes\n"},
		{"policy", "record:\n  fork_policy: tree\n"},
		{"ceiling", "record:\n  ceiling: -1\n"},
		{"background", "render:\n  background: red\n"},
		{"size", "render:\n  width: -5\n"},
		{"yaml", "record: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("LoadConfig() = nil error")
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"#fff", true},
		{"ff000080", true},
		{"#12345", false},
		{"zzz", false},
	}
	for _, tt := range tests {
		_, err := parseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseHex(%q) error = %v, want ok %v", tt.in, err, tt.ok)
		}
	}
}
