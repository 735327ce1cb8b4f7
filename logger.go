package ggwriter

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package-wide logger used by ggwriter and its
// sub-packages. By default nothing is logged. Pass nil to restore the
// silent default. A root context created with WithLogger uses its own
// logger instead.
//
// Log levels used by ggwriter:
//   - [slog.LevelDebug]: merges, forks, replay of individual records
//   - [slog.LevelWarn]: the instruction ceiling was reached and draw calls
//     are being dropped
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger. Sub-packages (ggcanvas,
// trace, store, inspect) call it to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
