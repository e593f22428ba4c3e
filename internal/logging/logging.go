// Package logging provides logger plumbing for timelog.
//
// Loggers are dependency-injected, never global: the CLI builds one logger in
// the command layer and threads it into the components that trace their work.
// Components receiving no logger use a discard logger, so library code never
// checks for nil.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// discardHandler is a handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns the provided logger if non-nil, otherwise a discard logger.
// This is the standard pattern for optional logger parameters:
//
//	func New(logger *slog.Logger) *Component {
//	    return &Component{log: logging.Default(logger)}
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}

// New builds the CLI logger writing to w. verbose enables Info-level
// progress output; debug additionally enables per-probe Debug tracing.
// With neither set, the logger discards everything.
func New(w io.Writer, verbose, debug bool) *slog.Logger {
	if !verbose && !debug {
		return Discard()
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
