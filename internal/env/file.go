package env

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
	"sync"

	"github.com/novathor-mainline/bootstage/internal/flash"
)

// ErrCorrupt reports that the stored environment failed its checksum.
// The caller gets an empty store alongside it and decides whether to
// continue with defaults.
var ErrCorrupt = errors.New("env: stored environment fails its checksum")

const crcBytes = 4

// File persists an environment on a flash.Handle.
//
// Layout: [4 bytes CRC32, little-endian][key=value entries, each
// NUL-terminated][one extra NUL closing the list]. The checksum covers
// everything after itself.
type File struct {
	mu  sync.Mutex
	dev flash.Handle
}

// NewFile wraps the environment partition behind dev.
func NewFile(dev flash.Handle) *File {
	return &File{dev: dev}
}

// Load reads the stored environment. An empty device yields an empty
// store and no error; a short or checksum-failing image yields an
// empty store and ErrCorrupt.
func (f *File) Load() (*Map, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := NewMap()

	info, err := f.dev.Stat()
	if err != nil {
		return m, fmt.Errorf("env: stat store: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return m, nil
	}
	if size < crcBytes {
		return m, fmt.Errorf("%w: %d bytes is shorter than the checksum", ErrCorrupt, size)
	}

	buf := make([]byte, size)
	if _, err := f.dev.ReadAt(buf, 0); err != nil {
		return m, fmt.Errorf("env: read store: %w", err)
	}

	payload := buf[crcBytes:]
	want := binary.LittleEndian.Uint32(buf)
	if got := crc32.ChecksumIEEE(payload); got != want {
		return m, fmt.Errorf("%w: have %#08x, want %#08x", ErrCorrupt, got, want)
	}

	for _, entry := range bytes.Split(payload, []byte{0}) {
		if len(entry) == 0 {
			break
		}
		key, value, ok := strings.Cut(string(entry), "=")
		if !ok || key == "" {
			continue
		}
		m.Set(key, value)
	}
	return m, nil
}

// Save writes the environment back, replacing whatever image was
// stored before.
func (f *File) Save(m *Map) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var payload bytes.Buffer
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		payload.WriteString(key)
		payload.WriteByte('=')
		payload.WriteString(value)
		payload.WriteByte(0)
	}
	payload.WriteByte(0)

	buf := make([]byte, crcBytes+payload.Len())
	binary.LittleEndian.PutUint32(buf, crc32.ChecksumIEEE(payload.Bytes()))
	copy(buf[crcBytes:], payload.Bytes())

	if _, err := f.dev.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("env: write store: %w", err)
	}
	// Shrink away any tail left over from a longer previous image.
	if err := f.dev.Truncate(int64(len(buf))); err != nil {
		return fmt.Errorf("env: truncate store: %w", err)
	}
	if err := f.dev.Sync(); err != nil {
		return fmt.Errorf("env: sync store: %w", err)
	}
	return nil
}
