// Package probe inspects a video's container to tell whether a browser can
// start playing it before the whole file has been read.
package probe

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shapedtime/reelbox/internal/source"
)

// Format is a detected container format.
type Format string

const (
	FormatMP4      Format = "mp4"
	FormatMatroska Format = "matroska"
	FormatOther    Format = "other"
)

// Container describes a video's layout.
type Container struct {
	Format Format `json:"format"`
	// FastStart is true when playback metadata precedes the media data, so
	// progressive playback needs no read from the end of the file.
	FastStart  bool  `json:"fast_start"`
	MoovOffset int64 `json:"moov_offset,omitempty"` // MP4 only, -1 when missing
	MoovSize   int64 `json:"moov_size,omitempty"`
}

// File opens f and inspects its container.
func File(f source.File) (Container, error) {
	rc, err := f.Open()
	if err != nil {
		return Container{}, fmt.Errorf("failed to open video: %w", err)
	}
	defer rc.Close()

	return Detect(asReaderAt(rc), f.Size(), f.Name()), nil
}

// Detect inspects r, trying the format suggested by name first. It never
// fails: unrecognised data is reported as FormatOther.
func Detect(r io.ReaderAt, size int64, name string) Container {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mkv", ".webm", ".mka":
		if c, err := analyzeMatroska(r); err == nil {
			return c
		}
	}

	if c, err := analyzeMP4(r, size); err == nil {
		return c
	}
	if c, err := analyzeMatroska(r); err == nil {
		return c
	}
	return Container{Format: FormatOther}
}

// asReaderAt returns rs itself when it supports ReadAt, else a seeking adapter.
func asReaderAt(rs io.ReadSeeker) io.ReaderAt {
	if ra, ok := rs.(io.ReaderAt); ok {
		return ra
	}
	return &seekReaderAt{rs: rs}
}

type seekReaderAt struct {
	rs io.ReadSeeker
}

func (s *seekReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.rs, p)
}
