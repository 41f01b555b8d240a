package atag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidList reports a buffer that does not hold a record list:
// too short for a header, or not led by a Core record.
var ErrInvalidList = errors.New("atag: invalid record list")

// List is a validated, borrowed view of a record list buffer. The
// underlying buffer belongs to the primary bootloader and is never
// mutated through a List.
type List struct {
	buf []byte
}

// Parse checks that buf plausibly holds a record list and returns a
// view of it. Only the leading tag is validated here; structural
// faults deeper in the list surface from the Walker.
func Parse(buf []byte) (List, error) {
	if len(buf) < HeaderBytes {
		return List{}, fmt.Errorf("%w: %d bytes", ErrInvalidList, len(buf))
	}
	if t := Tag(binary.LittleEndian.Uint32(buf)); t != Core {
		return List{}, fmt.Errorf("%w: leads with %v", ErrInvalidList, t)
	}
	return List{buf: buf}, nil
}

// Walk returns a Walker over the list's records, the Core lead
// included.
func (l List) Walk() *Walker { return Walk(l.buf) }

// Len returns the length of the underlying buffer in bytes.
func (l List) Len() int { return len(l.buf) }
