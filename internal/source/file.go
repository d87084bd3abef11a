// Package source turns a folder selection into a one-shot batch of files.
package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"
)

// ErrNotDirectory is returned by ReadDir when the path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// File is a raw selected file: a name, a MIME type hint and bytes on demand.
type File interface {
	Name() string
	Type() string // may be empty when unknown
	Size() int64
	ModTime() time.Time
	Open() (io.ReadSeekCloser, error)
}

// Releaser is implemented by files that hold a backing resource of their own,
// such as a spooled upload. Release is called once the file leaves the active set.
type Releaser interface {
	Release() error
}

// diskFile is a file backed by a path on the local filesystem.
type diskFile struct {
	path    string
	name    string
	typ     string
	size    int64
	modTime time.Time
}

func (f *diskFile) Name() string       { return f.name }
func (f *diskFile) Type() string       { return f.typ }
func (f *diskFile) Size() int64        { return f.size }
func (f *diskFile) ModTime() time.Time { return f.modTime }

func (f *diskFile) Open() (io.ReadSeekCloser, error) {
	return os.Open(f.path)
}

type memFile struct {
	name    string
	typ     string
	data    []byte
	modTime time.Time
}

// Bytes returns an in-memory file.
func Bytes(name, contentType string, data []byte) File {
	return &memFile{name: name, typ: contentType, data: data, modTime: time.Now()}
}

func (f *memFile) Name() string       { return f.name }
func (f *memFile) Type() string       { return f.typ }
func (f *memFile) Size() int64        { return int64(len(f.data)) }
func (f *memFile) ModTime() time.Time { return f.modTime }

func (f *memFile) Open() (io.ReadSeekCloser, error) {
	return readSeekNopCloser{bytes.NewReader(f.data)}, nil
}

type readSeekNopCloser struct {
	io.ReadSeeker
}

func (readSeekNopCloser) Close() error { return nil }
