package media

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/metrics"
	"github.com/shapedtime/reelbox/internal/source"
	"github.com/shapedtime/reelbox/internal/subtitle"
)

// Manager owns the active MediaSet and every playable handle in it.
type Manager struct {
	mu       sync.RWMutex
	registry *handle.Registry
	current  *MediaSet
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewManager creates a manager with an empty active set. m may be nil.
func NewManager(registry *handle.Registry, m *metrics.Metrics) *Manager {
	return &Manager{
		registry: registry,
		current:  &MediaSet{ID: uuid.NewString(), LoadedAt: time.Now()},
		metrics:  m,
		log:      slog.With("component", "media"),
	}
}

// LoadFolder replaces the active set with the videos and subtitles in files.
// Every handle of the outgoing set is revoked first, even when files is empty.
func (m *Manager) LoadFolder(files []source.File) *MediaSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	set := &MediaSet{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
	}

	var ignored []source.File
	for _, f := range files {
		switch {
		case IsVideo(f):
			set.Videos = append(set.Videos, MediaEntry{
				Index:  len(set.Videos),
				Source: f,
				Handle: m.registry.Create(f),
			})
		case subtitle.IsSubtitleName(f.Name()):
			code, name, _ := subtitle.DetectLanguage(f.Name())
			set.Subtitles = append(set.Subtitles, SubtitleEntry{
				Index:        len(set.Subtitles),
				Source:       f,
				Handle:       m.registry.Create(f),
				Language:     code,
				LanguageName: name,
			})
		default:
			ignored = append(ignored, f)
		}
	}

	// Files outside the set are never handed out, so release their backing now.
	releaseFiles(m.log, ignored)

	m.current = set
	m.metrics.FolderLoaded()

	m.log.Info("Folder loaded",
		"set_id", set.ID,
		"videos", len(set.Videos),
		"subtitles", len(set.Subtitles),
		"ignored", len(ignored),
	)
	return set
}

// Current returns the active set. Never nil.
func (m *Manager) Current() *MediaSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Close revokes the active set and leaves an empty one in its place.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()
	m.current = &MediaSet{ID: uuid.NewString(), LoadedAt: time.Now()}
}

// releaseLocked revokes every handle of the current set and releases its files.
func (m *Manager) releaseLocked() {
	set := m.current
	if set == nil {
		return
	}

	files := make([]source.File, 0, len(set.Videos)+len(set.Subtitles))
	for _, v := range set.Videos {
		m.revoke(v.Handle)
		files = append(files, v.Source)
	}
	for _, s := range set.Subtitles {
		m.revoke(s.Handle)
		files = append(files, s.Source)
	}
	releaseFiles(m.log, files)

	if len(files) > 0 {
		m.log.Debug("Set released", "set_id", set.ID, "files", len(files))
	}
	m.current = nil
}

func (m *Manager) revoke(h handle.Handle) {
	if err := m.registry.Revoke(h); err != nil {
		m.log.Warn("Handle already revoked", "handle", h, "error", err)
	}
}

func releaseFiles(log *slog.Logger, files []source.File) {
	for _, f := range files {
		r, ok := f.(source.Releaser)
		if !ok {
			continue
		}
		if err := r.Release(); err != nil {
			log.Error("Failed to release file", "name", f.Name(), "error", err)
		}
	}
}
