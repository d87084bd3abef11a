// Package subtitle reads WebVTT caption files for attachment to a video.
package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/shapedtime/reelbox/internal/source"
)

// ContentType is served for materialized subtitle text.
const ContentType = "text/vtt; charset=utf-8"

// Extension is the only accepted subtitle file extension.
const Extension = ".vtt"

// ErrTooLarge is returned when a subtitle file exceeds the decoder limit.
var ErrTooLarge = errors.New("subtitle file too large")

// IsSubtitleName reports whether name carries the WebVTT extension, in any case.
func IsSubtitleName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

// Decoder turns raw subtitle bytes into UTF-8 text.
type Decoder struct {
	MaxBytes int64
}

// NewDecoder creates a decoder that rejects files above maxBytes.
func NewDecoder(maxBytes int64) *Decoder {
	return &Decoder{MaxBytes: maxBytes}
}

// Decode reads f and returns its text. A UTF-8 or UTF-16 byte order mark is
// honoured and stripped; anything without one is read as UTF-8 with invalid
// sequences replaced.
func (d *Decoder) Decode(ctx context.Context, f source.File) (string, error) {
	if d.MaxBytes > 0 && f.Size() > d.MaxBytes {
		return "", fmt.Errorf("%s: %w", f.Name(), ErrTooLarge)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open subtitle: %w", err)
	}
	defer rc.Close()

	var r io.Reader = &ctxReader{ctx: ctx, r: rc}
	if d.MaxBytes > 0 {
		r = io.LimitReader(r, d.MaxBytes+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read subtitle: %w", err)
	}
	if d.MaxBytes > 0 && int64(len(raw)) > d.MaxBytes {
		return "", fmt.Errorf("%s: %w", f.Name(), ErrTooLarge)
	}

	return DecodeText(raw)
}

// DecodeText converts raw caption bytes to UTF-8.
func DecodeText(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode subtitle text: %w", err)
	}
	return string(out), nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
