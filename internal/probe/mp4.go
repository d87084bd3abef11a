package probe

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	atomHeaderSize = 8
	maxScanBytes   = 100 * 1024 * 1024
)

var (
	ErrNotMP4      = errors.New("not an MP4 file")
	ErrNotMatroska = errors.New("not a Matroska file")
)

// analyzeMP4 walks the top-level atoms looking for moov. The file is fast
// start when moov comes before mdat.
func analyzeMP4(r io.ReaderAt, size int64) (Container, error) {
	buf := make([]byte, 16)
	if n, err := r.ReadAt(buf[:atomHeaderSize], 0); n < atomHeaderSize {
		if err == nil {
			err = ErrNotMP4
		}
		return Container{}, err
	}
	if !isTopLevelAtom(string(buf[4:8])) {
		return Container{}, ErrNotMP4
	}

	c := Container{Format: FormatMP4, MoovOffset: -1}
	end := min(size, maxScanBytes)
	sawMdat := false

	for pos := int64(0); pos < end; {
		n, err := r.ReadAt(buf[:atomHeaderSize], pos)
		if n < atomHeaderSize {
			if err != nil && err != io.EOF && !errors.Is(err, io.ErrUnexpectedEOF) {
				return Container{}, err
			}
			break
		}

		atomSize := int64(binary.BigEndian.Uint32(buf[:4]))
		atomType := string(buf[4:8])

		// size 1: a 64-bit size follows the type
		if atomSize == 1 {
			if n, _ := r.ReadAt(buf[8:16], pos+8); n < 8 {
				break
			}
			atomSize = int64(binary.BigEndian.Uint64(buf[8:16]))
		}
		// size 0: the atom runs to end of file
		if atomSize == 0 {
			atomSize = size - pos
		}

		switch atomType {
		case "moov":
			c.MoovOffset = pos
			c.MoovSize = atomSize
			c.FastStart = !sawMdat
			return c, nil
		case "mdat":
			sawMdat = true
		}

		if atomSize < atomHeaderSize {
			break
		}
		pos += atomSize
	}

	return c, nil
}

func isTopLevelAtom(atomType string) bool {
	switch atomType {
	case "ftyp", "moov", "mdat", "free", "skip", "wide", "pnot", "pict":
		return true
	default:
		return false
	}
}
