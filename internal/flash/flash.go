// Package flash provides the storage abstraction for the persistent
// boot environment. On hardware the environment lives in a flash
// partition; in development and tests it is backed by a plain file or
// an in-memory mock.
package flash

import (
	"os"
)

// Handle abstracts the environment partition with random access,
// truncation and syncing.
type Handle interface {
	// ReadAt reads len(b) bytes starting at byte offset off.
	ReadAt(b []byte, off int64) (int, error)
	// WriteAt writes len(b) bytes starting at byte offset off.
	WriteAt(b []byte, off int64) (int, error)
	// Truncate changes the size of the backing store.
	Truncate(size int64) error
	// Sync commits the current contents to stable storage.
	Sync() error
	// Close closes the handle, rendering it unusable for I/O.
	Close() error
	// Stat returns the backing store's stat.
	Stat() (os.FileInfo, error)
}

type fileHandle struct {
	file *os.File
}

// NewHandle wraps an *os.File into a Handle implementation.
func NewHandle(file *os.File) Handle { return &fileHandle{file: file} }

// OpenFile opens the file backing an environment store, creating it if
// it does not exist yet.
func OpenFile(path string) (Handle, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return NewHandle(file), nil
}

func (fh *fileHandle) ReadAt(b []byte, off int64) (int, error) { return fh.file.ReadAt(b, off) }

func (fh *fileHandle) WriteAt(b []byte, off int64) (int, error) { return fh.file.WriteAt(b, off) }

func (fh *fileHandle) Truncate(size int64) error { return fh.file.Truncate(size) }

func (fh *fileHandle) Sync() error { return fh.file.Sync() }

func (fh *fileHandle) Close() error { return fh.file.Close() }

func (fh *fileHandle) Stat() (os.FileInfo, error) { return fh.file.Stat() }
