// Package webdav shares the active media set as a flat, read-only WebDAV
// directory so external players can open the same files.
package webdav

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/webdav"

	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/source"
)

// SetProvider returns the active media set.
type SetProvider interface {
	Current() *media.MediaSet
}

// Server wraps a WebDAV server
type Server struct {
	handler *webdav.Handler
}

// NewServer creates a new WebDAV server over the sets returned by p.
func NewServer(p SetProvider) *Server {
	log := slog.With("component", "webdav")

	return &Server{
		handler: &webdav.Handler{
			FileSystem: &setFS{sets: p},
			LockSystem: webdav.NewMemLS(),
			Logger: func(r *http.Request, err error) {
				if err != nil {
					log.Debug("WebDAV request", "method", r.Method, "path", r.URL.Path, "error", err)
					return
				}
				log.Debug("WebDAV request", "method", r.Method, "path", r.URL.Path)
			},
		},
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setFS adapts the active media set to webdav.FileSystem. The root directory
// lists every video and subtitle by name; nothing can be written.
type setFS struct {
	sets SetProvider
}

func (fs *setFS) Mkdir(ctx context.Context, name string, perm os.FileMode) error {
	return os.ErrPermission
}

func (fs *setFS) RemoveAll(ctx context.Context, name string) error {
	return os.ErrPermission
}

func (fs *setFS) Rename(ctx context.Context, oldName, newName string) error {
	return os.ErrPermission
}

func (fs *setFS) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, os.ErrPermission
	}

	set := fs.sets.Current()
	name = cleanPath(name)
	if name == "/" {
		return &dirFile{set: set, info: rootInfo(set)}, nil
	}

	f, ok := lookup(set, strings.TrimPrefix(name, "/"))
	if !ok {
		return nil, os.ErrNotExist
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	return &file{ReadSeekCloser: rc, src: f}, nil
}

func (fs *setFS) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	set := fs.sets.Current()
	name = cleanPath(name)
	if name == "/" {
		return rootInfo(set), nil
	}

	f, ok := lookup(set, strings.TrimPrefix(name, "/"))
	if !ok {
		return nil, os.ErrNotExist
	}
	return infoOf(f), nil
}

// lookup finds a file of the set by name. Videos shadow subtitles of the same name.
func lookup(set *media.MediaSet, name string) (source.File, bool) {
	for _, v := range set.Videos {
		if v.Name() == name {
			return v.Source, true
		}
	}
	for _, s := range set.Subtitles {
		if s.Name() == name {
			return s.Source, true
		}
	}
	return nil, false
}

// file is an open video or subtitle of the set.
type file struct {
	io.ReadSeekCloser
	src source.File
}

func (f *file) Readdir(count int) ([]os.FileInfo, error) {
	return nil, os.ErrInvalid
}

func (f *file) Stat() (os.FileInfo, error) {
	return infoOf(f.src), nil
}

func (f *file) Write(p []byte) (int, error) {
	return 0, os.ErrPermission
}

// ContentType returns the MIME type recorded for the file
func (f *file) ContentType(ctx context.Context) (string, error) {
	if t := f.src.Type(); t != "" {
		return t, nil
	}
	return "application/octet-stream", nil
}

// dirFile is the root listing, snapshotted from the set at open time.
type dirFile struct {
	set  *media.MediaSet
	info os.FileInfo

	mu      sync.Mutex
	entries []os.FileInfo
	pos     int
}

func (d *dirFile) Close() error { return nil }

func (d *dirFile) Read(p []byte) (int, error) {
	return 0, os.ErrInvalid
}

func (d *dirFile) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}

func (d *dirFile) Write(p []byte) (int, error) {
	return 0, os.ErrPermission
}

func (d *dirFile) Stat() (os.FileInfo, error) {
	return d.info, nil
}

func (d *dirFile) Readdir(count int) ([]os.FileInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entries == nil {
		d.entries = listing(d.set)
	}

	if count <= 0 {
		entries := d.entries[d.pos:]
		d.pos = len(d.entries)
		return entries, nil
	}

	if d.pos >= len(d.entries) {
		return nil, io.EOF
	}

	end := min(d.pos+count, len(d.entries))
	entries := d.entries[d.pos:end]
	d.pos = end
	return entries, nil
}

// listing returns one entry per distinct name, sorted.
func listing(set *media.MediaSet) []os.FileInfo {
	seen := make(map[string]bool)
	entries := make([]os.FileInfo, 0, len(set.Videos)+len(set.Subtitles))

	add := func(f source.File) {
		if seen[f.Name()] {
			return
		}
		seen[f.Name()] = true
		entries = append(entries, infoOf(f))
	}
	for _, v := range set.Videos {
		add(v.Source)
	}
	for _, s := range set.Subtitles {
		add(s.Source)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries
}

func rootInfo(set *media.MediaSet) os.FileInfo {
	var mod time.Time
	if set != nil {
		mod = set.LoadedAt
	}
	return &fileInfo{name: "/", isDir: true, modTime: mod}
}

func infoOf(f source.File) os.FileInfo {
	return &fileInfo{name: f.Name(), size: f.Size(), modTime: f.ModTime()}
}

func cleanPath(p string) string {
	p = path.Clean(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
