package handle

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

type memoryResource struct {
	name    string
	typ     string
	data    []byte
	modTime time.Time
}

// NewMemoryResource wraps data held in memory, e.g. decoded subtitle text.
func NewMemoryResource(name, contentType string, data []byte, modTime time.Time) Resource {
	return &memoryResource{name: name, typ: contentType, data: data, modTime: modTime}
}

func (m *memoryResource) Name() string       { return m.name }
func (m *memoryResource) Type() string       { return m.typ }
func (m *memoryResource) Size() int64        { return int64(len(m.data)) }
func (m *memoryResource) ModTime() time.Time { return m.modTime }

func (m *memoryResource) Open() (io.ReadSeekCloser, error) {
	return nopCloser{bytes.NewReader(m.data)}, nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }

// Serve streams res with range support.
func Serve(w http.ResponseWriter, r *http.Request, res Resource) {
	rs, err := res.Open()
	if err != nil {
		http.Error(w, "Resource unavailable", http.StatusNotFound)
		return
	}
	defer rs.Close()

	contentType := res.Type()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, res.Name(), res.ModTime(), rs)
}
