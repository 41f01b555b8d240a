package atag

import (
	"encoding/binary"
	"fmt"
)

// Builder assembles a record list buffer. Every Add declares a record
// size in its header and appends exactly that many bytes; Finish
// verifies the two stayed equal, so a list can never leave the Builder
// with headers disagreeing with its actual layout.
type Builder struct {
	buf      []byte
	declared int
}

// NewBuilder returns a Builder growing its buffer as records are added.
func NewBuilder() *Builder { return &Builder{} }

// NewBuilderInto assembles records into buf, which the caller sizes in
// advance. Appending past its capacity grows a new buffer like any
// slice append.
func NewBuilderInto(buf []byte) *Builder { return &Builder{buf: buf[:0]} }

// Add appends a record of the given kind. The payload must be a whole
// number of words; variable-length payloads are padded by the typed
// helpers before they reach Add.
func (b *Builder) Add(t Tag, payload []byte) error {
	if len(payload)%WordSize != 0 {
		return fmt.Errorf("atag: %v payload of %d bytes is not word-aligned", t, len(payload))
	}
	words := HeaderWords + len(payload)/WordSize
	var hdr [HeaderBytes]byte
	binary.LittleEndian.PutUint32(hdr[:WordSize], uint32(t))
	binary.LittleEndian.PutUint32(hdr[WordSize:], uint32(words))
	b.buf = append(b.buf, hdr[:]...)
	b.buf = append(b.buf, payload...)
	b.declared += words * WordSize
	return nil
}

// AppendRaw copies an existing record verbatim, header included.
func (b *Builder) AppendRaw(r Record) error {
	if len(r.Raw) < HeaderBytes {
		return fmt.Errorf("atag: raw %v record of %d bytes is shorter than a header", r.Tag, len(r.Raw))
	}
	b.buf = append(b.buf, r.Raw...)
	b.declared += r.Bytes()
	return nil
}

// AddCore appends the bare Core record that leads a list.
func (b *Builder) AddCore() error { return b.Add(Core, nil) }

// AddMem appends a RAM bank record.
func (b *Builder) AddMem(start, size uint32) error {
	return b.Add(Mem, words(start, size))
}

// AddSerial appends the board serial number record.
func (b *Builder) AddSerial(low, high uint32) error {
	return b.Add(Serial, words(low, high))
}

// AddInitrd appends a physical-address ramdisk record.
func (b *Builder) AddInitrd(start, size uint32) error {
	return b.Add(Initrd2, words(start, size))
}

// AddRevision appends a board revision record.
func (b *Builder) AddRevision(rev uint32) error {
	return b.Add(Revision, words(rev))
}

// AddCmdline appends a kernel command line record. The text is
// NUL-terminated and padded to a word boundary, as consumers expect.
func (b *Builder) AddCmdline(s string) error {
	n := len(s) + 1 // keep room for the terminating NUL
	padded := (n + WordSize - 1) &^ (WordSize - 1)
	payload := make([]byte, padded)
	copy(payload, s)
	return b.Add(Cmdline, payload)
}

// Terminate appends the None record that ends a list.
func (b *Builder) Terminate() error { return b.Add(None, nil) }

// Len returns the bytes assembled so far.
func (b *Builder) Len() int { return len(b.buf) }

// Finish returns the assembled buffer after checking that the bytes
// written match the sizes the record headers declare.
func (b *Builder) Finish() ([]byte, error) {
	if len(b.buf) != b.declared {
		return nil, fmt.Errorf("atag: headers declare %d bytes but %d were written", b.declared, len(b.buf))
	}
	return b.buf, nil
}

func words(vs ...uint32) []byte {
	out := make([]byte, len(vs)*WordSize)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*WordSize:], v)
	}
	return out
}
