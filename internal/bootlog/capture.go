package bootlog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

const defaultRingSize = 64

// Capture is a slog.Handler that retains the most recent log lines in
// a fixed-size ring. Handlers derived through WithAttrs and WithGroup
// share the ring, so the tail reflects the whole stage regardless of
// which component logged.
type Capture struct {
	ring   *ring
	attrs  string
	prefix string
}

type ring struct {
	mu    sync.Mutex
	lines []string
	next  int
}

// NewCapture returns a Capture retaining up to n lines. n <= 0 selects
// the default ring size.
func NewCapture(n int) *Capture {
	if n <= 0 {
		n = defaultRingSize
	}
	return &Capture{ring: &ring{lines: make([]string, 0, n)}}
}

// Enabled reports true for every level: the terminal handler does the
// filtering, the ring keeps the full story.
func (c *Capture) Enabled(context.Context, slog.Level) bool { return true }

// Handle formats the record into a single line and stores it.
func (c *Capture) Handle(_ context.Context, rec slog.Record) error {
	var sb strings.Builder
	sb.WriteString(rec.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(rec.Message)
	sb.WriteString(c.attrs)
	rec.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, c.prefix, a)
		return true
	})
	c.ring.add(sb.String())
	return nil
}

// WithAttrs returns a handler whose lines carry the given attributes,
// writing into the same ring.
func (c *Capture) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	var sb strings.Builder
	sb.WriteString(c.attrs)
	for _, a := range attrs {
		writeAttr(&sb, c.prefix, a)
	}
	clone.attrs = sb.String()
	return &clone
}

// WithGroup returns a handler prefixing subsequent attribute keys with
// the group name, writing into the same ring.
func (c *Capture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	clone := *c
	clone.prefix = c.prefix + name + "."
	return &clone
}

// Lines returns the retained tail, oldest first.
func (c *Capture) Lines() []string {
	return c.ring.snapshot()
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

func (r *ring) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) < cap(r.lines) {
		r.lines = append(r.lines, line)
		return
	}
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
}

func (r *ring) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}
