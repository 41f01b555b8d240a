package handoff

import (
	"fmt"
	"io"
)

// Cursor tracks the write position while assembling the parameter area
// the next stage will receive. Appends land back to back; the caller
// finishes the area with its own terminator after the last append.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor writing into buf from its start.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Append copies b at the cursor position and advances the cursor by
// exactly len(b). A copy that would overrun the output area writes
// nothing.
func (c *Cursor) Append(b []byte) (int, error) {
	if c.off+len(b) > len(c.buf) {
		return 0, fmt.Errorf("handoff: %d bytes at offset %d overrun the %d-byte output area: %w",
			len(b), c.off, len(c.buf), io.ErrShortBuffer)
	}
	n := copy(c.buf[c.off:], b)
	c.off += n
	return n, nil
}

// Offset returns how many bytes have been appended so far.
func (c *Cursor) Offset() int { return c.off }

// Bytes returns the written prefix of the output area.
func (c *Cursor) Bytes() []byte { return c.buf[:c.off] }
