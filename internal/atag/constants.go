// Package atag implements the tagged boot-parameter records handed from
// one boot stage to the next on ARM machines.
package atag

// Tag identifies the kind of a boot-parameter record.
type Tag uint32

// Tag values defined by the ARM boot protocol.
const (
	// None terminates a record list.
	None Tag = 0x00000000
	// Core leads every record list.
	Core Tag = 0x54410001
	// Mem describes one physical RAM bank.
	Mem Tag = 0x54410002
	// VideoText describes a VGA text display.
	VideoText Tag = 0x54410003
	// Ramdisk describes how the ramdisk is to be used by the kernel.
	Ramdisk Tag = 0x54410004
	// Initrd is the deprecated virtual-address form of Initrd2.
	Initrd Tag = 0x54410005
	// Initrd2 locates a compressed ramdisk image by physical address.
	Initrd2 Tag = 0x54420005
	// Serial carries the 64-bit board serial number.
	Serial Tag = 0x54410006
	// Revision carries the board revision.
	Revision Tag = 0x54410007
	// VideoLFB describes a linear framebuffer.
	VideoLFB Tag = 0x54410008
	// Cmdline carries the kernel command line.
	Cmdline Tag = 0x54410009
)

// WordSize is the number of bytes per list word. Record sizes are
// declared in words.
const WordSize = 4

// HeaderWords is the record header length in words: tag, then size.
const HeaderWords = 2

// HeaderBytes is the record header length in bytes.
const HeaderBytes = HeaderWords * WordSize
