// Package bootlog builds the loggers used across the boot-stage
// engine. Every logger writes structured lines to a terminal handler
// and keeps a bounded tail in memory, so the record of what the stage
// decided survives into the hand-off report.
package bootlog

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// New returns a logger fanned out to a text handler on w and to a
// fresh Capture ring. The text handler filters at level; the ring
// keeps everything down to debug.
func New(w io.Writer, level slog.Level) (*slog.Logger, *Capture) {
	capture := NewCapture(0)
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(text, capture)), capture
}

// Nop returns a logger that drops everything. Callers that pass no
// logger get this one, so logging calls never need nil checks.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
