// Package mockflash backs the environment store with an in-memory
// device, so tests exercise the image format without touching disk.
package mockflash

import (
	"io"
	"os"
	"time"
)

// File is an in-memory flash.Handle. It behaves like a small
// partition image: writes grow it, reads past the end return io.EOF.
type File struct {
	data []byte
	name string
}

// NewFile returns an empty device reporting name from Stat.
func NewFile(name string) *File {
	return &File{name: name}
}

// WriteAt copies b into the image at off, growing it to fit.
func (f *File) WriteAt(b []byte, off int64) (int, error) {
	if need := int(off) + len(b); need > len(f.data) {
		grown := make([]byte, need)
		copy(grown, f.data)
		f.data = grown
	}
	return copy(f.data[off:], b), nil
}

// ReadAt fills b from the image at off. Reading past the end returns
// io.EOF, matching *os.File.
func (f *File) ReadAt(b []byte, off int64) (int, error) {
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(b, f.data[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

// Truncate cuts the image down to size, or zero-extends it.
func (f *File) Truncate(size int64) error {
	if size <= int64(len(f.data)) {
		f.data = f.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, f.data)
	f.data = grown
	return nil
}

// Sync is a no-op: there is no stable storage behind the image.
func (f *File) Sync() error { return nil }

// Close is a no-op.
func (f *File) Close() error { return nil }

// Stat reports the image's name and current size.
func (f *File) Stat() (os.FileInfo, error) {
	return fileInfo{name: f.name, size: int64(len(f.data))}, nil
}

type fileInfo struct {
	name string
	size int64
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() os.FileMode  { return 0644 }
func (fi fileInfo) ModTime() time.Time { return time.Now() }
func (fi fileInfo) IsDir() bool        { return false }
func (fi fileInfo) Sys() any           { return nil }
