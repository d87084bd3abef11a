package source

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Spool stores browser folder uploads in per-batch temp directories. The
// files it returns delete themselves on Release.
type Spool struct {
	dir string
	log *slog.Logger
}

// NewSpool creates a spool rooted at dir, which must exist.
func NewSpool(dir string) *Spool {
	return &Spool{dir: dir, log: slog.With("component", "spool")}
}

// Receive copies every uploaded part into a new batch directory, preserving
// upload order. On error nothing of the batch is left on disk.
func (s *Spool) Receive(headers []*multipart.FileHeader) ([]File, error) {
	batchDir, err := os.MkdirTemp(s.dir, "batch-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create batch dir: %w", err)
	}

	b := &batch{dir: batchDir, remaining: len(headers), log: s.log}
	files := make([]File, 0, len(headers))

	for i, h := range headers {
		name := path.Base(filepath.ToSlash(h.Filename))
		stored := filepath.Join(batchDir, fmt.Sprintf("%04d%s", i, strings.ToLower(filepath.Ext(name))))

		size, err := copyPart(h, stored)
		if err != nil {
			os.RemoveAll(batchDir)
			return nil, fmt.Errorf("failed to spool %s: %w", name, err)
		}

		typ := stripParams(h.Header.Get("Content-Type"))
		if typ == "" || typ == "application/octet-stream" {
			typ = DetectType(stored)
		}

		files = append(files, &spooledFile{
			diskFile: diskFile{
				path:    stored,
				name:    name,
				typ:     typ,
				size:    size,
				modTime: time.Now(),
			},
			batch: b,
		})
	}

	if len(headers) == 0 {
		os.RemoveAll(batchDir)
	}

	s.log.Info("Upload spooled", "dir", batchDir, "files", len(files))
	return files, nil
}

// Clean removes batch directories left behind by an earlier process.
func (s *Spool) Clean() error {
	stale, err := filepath.Glob(filepath.Join(s.dir, "batch-*"))
	if err != nil {
		return err
	}
	for _, dir := range stale {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	if len(stale) > 0 {
		s.log.Info("Removed stale upload batches", "count", len(stale))
	}
	return nil
}

func copyPart(h *multipart.FileHeader, dst string) (int64, error) {
	src, err := h.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, src)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}

// batch removes its directory once every file in it has been released.
type batch struct {
	mu        sync.Mutex
	dir       string
	remaining int
	log       *slog.Logger
}

func (b *batch) done() {
	b.mu.Lock()
	b.remaining--
	last := b.remaining == 0
	b.mu.Unlock()

	if last {
		if err := os.RemoveAll(b.dir); err != nil {
			b.log.Error("Failed to remove batch dir", "dir", b.dir, "error", err)
		}
	}
}

type spooledFile struct {
	diskFile
	once  sync.Once
	batch *batch
}

// Release deletes the spooled copy. Later calls are no-ops.
func (f *spooledFile) Release() error {
	var err error
	f.once.Do(func() {
		if rmErr := os.Remove(f.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = fmt.Errorf("failed to remove spooled file: %w", rmErr)
		}
		f.batch.done()
	})
	return err
}
