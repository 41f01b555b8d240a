package atag

import (
	"encoding/binary"
	"fmt"
)

// Record is a view of a single tagged record inside a list buffer.
// Raw spans the whole record, header included, and borrows the list
// buffer: a Record must never outlive or mutate the list it came from.
type Record struct {
	Tag  Tag
	Size uint32 // declared length in words, header included
	Raw  []byte
}

// Bytes returns the declared record length in bytes.
func (r Record) Bytes() int { return int(r.Size) * WordSize }

// Payload returns the bytes following the header.
func (r Record) Payload() []byte { return r.Raw[HeaderBytes:] }

// MemBank returns the start address and byte size carried by a Mem
// record. A record too short to carry both words yields zeros.
func (r Record) MemBank() (start, size uint32) {
	p := r.Payload()
	if len(p) < 2*WordSize {
		return 0, 0
	}
	return binary.LittleEndian.Uint32(p), binary.LittleEndian.Uint32(p[WordSize:])
}

// SerialNr returns the low and high words of the serial number carried
// by a Serial record. A record too short to carry both words yields
// zeros.
func (r Record) SerialNr() (low, high uint32) {
	p := r.Payload()
	if len(p) < 2*WordSize {
		return 0, 0
	}
	return binary.LittleEndian.Uint32(p), binary.LittleEndian.Uint32(p[WordSize:])
}

func (t Tag) String() string {
	switch t {
	case None:
		return "NONE"
	case Core:
		return "CORE"
	case Mem:
		return "MEM"
	case VideoText:
		return "VIDEOTEXT"
	case Ramdisk:
		return "RAMDISK"
	case Initrd:
		return "INITRD"
	case Initrd2:
		return "INITRD2"
	case Serial:
		return "SERIAL"
	case Revision:
		return "REVISION"
	case VideoLFB:
		return "VIDEOLFB"
	case Cmdline:
		return "CMDLINE"
	}
	return fmt.Sprintf("TAG(%#08x)", uint32(t))
}
