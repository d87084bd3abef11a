package probe

import (
	"bytes"
	"io"
)

// EBML magic at the start of every Matroska and WebM file.
var ebmlSignature = []byte{0x1A, 0x45, 0xDF, 0xA3}

// analyzeMatroska checks the EBML signature. Matroska players seek through
// the SeekHead, so any Matroska file can start progressively.
func analyzeMatroska(r io.ReaderAt) (Container, error) {
	buf := make([]byte, len(ebmlSignature))
	n, err := r.ReadAt(buf, 0)
	if n < len(buf) {
		if err == nil || err == io.EOF {
			err = ErrNotMatroska
		}
		return Container{}, err
	}
	if !bytes.Equal(buf, ebmlSignature) {
		return Container{}, ErrNotMatroska
	}
	return Container{Format: FormatMatroska, FastStart: true}, nil
}
