package probe

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/reelbox/internal/source"
)

// atom builds an MP4 atom of the given type around data.
func atom(atomType string, data []byte) []byte {
	size := uint32(8 + len(data))
	buf := make([]byte, size)
	binary.BigEndian.PutUint32(buf[:4], size)
	copy(buf[4:8], atomType)
	copy(buf[8:], data)
	return buf
}

func mp4(atoms ...[]byte) []byte {
	return bytes.Join(atoms, nil)
}

func TestDetectMP4(t *testing.T) {
	ftyp := atom("ftyp", make([]byte, 12))
	free := atom("free", make([]byte, 100))
	moov := atom("moov", make([]byte, 92))
	mdat := atom("mdat", make([]byte, 1000))

	tests := []struct {
		name       string
		data       []byte
		fastStart  bool
		moovOffset int64
	}{
		{"moov first", mp4(ftyp, moov, mdat), true, 20},
		{"moov last", mp4(ftyp, mdat, moov), false, 20 + 1008},
		{"free padding", mp4(ftyp, free, moov, mdat), true, 20 + 108},
		{"no moov", mp4(ftyp, mdat), false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Detect(bytes.NewReader(tt.data), int64(len(tt.data)), "movie.mp4")
			require.Equal(t, FormatMP4, c.Format)
			require.Equal(t, tt.fastStart, c.FastStart)
			require.Equal(t, tt.moovOffset, c.MoovOffset)
		})
	}
}

func TestDetectMP4ExtendedSize(t *testing.T) {
	ftyp := atom("ftyp", make([]byte, 12))

	// mdat with a 64-bit size field
	mdat := make([]byte, 16+64)
	binary.BigEndian.PutUint32(mdat[:4], 1)
	copy(mdat[4:8], "mdat")
	binary.BigEndian.PutUint64(mdat[8:16], uint64(len(mdat)))

	data := mp4(ftyp, mdat, atom("moov", nil))
	c := Detect(bytes.NewReader(data), int64(len(data)), "movie.mp4")
	require.Equal(t, FormatMP4, c.Format)
	require.False(t, c.FastStart)
	require.Equal(t, int64(len(ftyp)+len(mdat)), c.MoovOffset)
}

func TestDetectMatroska(t *testing.T) {
	data := make([]byte, 64)
	copy(data, ebmlSignature)

	for _, name := range []string{"show.mkv", "clip.webm", "noext"} {
		c := Detect(bytes.NewReader(data), int64(len(data)), name)
		require.Equal(t, FormatMatroska, c.Format, name)
		require.True(t, c.FastStart)
	}
}

func TestDetectOther(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("This is not a video file, just some text"),
		{},
		{0x1A, 0x45},
	} {
		c := Detect(bytes.NewReader(data), int64(len(data)), "movie.mp4")
		require.Equal(t, FormatOther, c.Format)
		require.False(t, c.FastStart)
	}
}

func TestFileUsesSeekingReader(t *testing.T) {
	t.Parallel()

	data := mp4(atom("ftyp", make([]byte, 12)), atom("moov", nil), atom("mdat", make([]byte, 32)))
	c, err := File(source.Bytes("movie.mp4", "video/mp4", data))
	require.NoError(t, err)
	require.Equal(t, FormatMP4, c.Format)
	require.True(t, c.FastStart)
	require.Equal(t, int64(20), c.MoovOffset)
}
