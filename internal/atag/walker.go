package atag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed reports a structurally broken record list: a truncated
// header, a record declaring fewer words than its own header, a record
// overrunning the buffer, or a missing terminator.
var ErrMalformed = errors.New("atag: malformed record list")

// Walker steps through the records of a list buffer without copying.
// The walk ends at the None terminator (excluded) or at the first
// structural fault; Err distinguishes the two. The buffer length bounds
// the walk, so a corrupt size field can never push reads outside it.
type Walker struct {
	buf  []byte
	off  int
	rec  Record
	done bool
	err  error
}

// Walk returns a Walker positioned before the first record of buf.
func Walk(buf []byte) *Walker {
	return &Walker{buf: buf}
}

// Next advances to the next record, returning false at the terminator,
// on a malformed list, or once the buffer is exhausted.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}
	if w.off+HeaderBytes > len(w.buf) {
		w.done = true
		w.err = fmt.Errorf("%w: no terminator before offset %d", ErrMalformed, len(w.buf))
		return false
	}
	tag := Tag(binary.LittleEndian.Uint32(w.buf[w.off:]))
	size := binary.LittleEndian.Uint32(w.buf[w.off+WordSize:])
	if tag == None {
		w.done = true
		return false
	}
	if size < HeaderWords {
		// A zero size would never advance the cursor again.
		w.done = true
		w.err = fmt.Errorf("%w: %v record declares %d words at offset %d", ErrMalformed, tag, size, w.off)
		return false
	}
	// A 32-bit int cannot hold size*4 for every u32 size, so the
	// bound runs in uint64 before the conversion.
	if uint64(size)*WordSize > uint64(len(w.buf)-w.off) {
		w.done = true
		w.err = fmt.Errorf("%w: %v record at offset %d overruns the buffer", ErrMalformed, tag, w.off)
		return false
	}
	end := w.off + int(size)*WordSize
	w.rec = Record{Tag: tag, Size: size, Raw: w.buf[w.off:end]}
	w.off = end
	return true
}

// Record returns the record the last Next advanced to.
func (w *Walker) Record() Record { return w.rec }

// Err returns the fault that ended the walk, or nil after a clean
// terminator.
func (w *Walker) Err() error { return w.err }
