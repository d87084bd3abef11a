// Package media owns the active set of selected videos and subtitles and the
// playable handles derived from them.
package media

import (
	"strings"
	"time"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/source"
)

// VideoTypePrefix selects video files by their declared MIME type.
const VideoTypePrefix = "video/"

// MediaEntry is a video in the active set.
type MediaEntry struct {
	Index  int // position in MediaSet.Videos, stable across filtering
	Source source.File
	Handle handle.Handle
}

// Name returns the raw filename.
func (e MediaEntry) Name() string {
	return e.Source.Name()
}

// SubtitleEntry is a WebVTT file in the active set.
type SubtitleEntry struct {
	Index        int // position in MediaSet.Subtitles
	Source       source.File
	Handle       handle.Handle // raw file handle, not the materialized text
	Language     string        // ISO 639-1 code or "unknown"
	LanguageName string
}

// Name returns the raw filename.
func (e SubtitleEntry) Name() string {
	return e.Source.Name()
}

// MediaSet is one loaded folder. It is immutable once built.
type MediaSet struct {
	ID        string
	Videos    []MediaEntry
	Subtitles []SubtitleEntry
	LoadedAt  time.Time
}

// Empty reports whether the set holds no videos.
func (s *MediaSet) Empty() bool {
	return s == nil || len(s.Videos) == 0
}

// Video returns the video at index i.
func (s *MediaSet) Video(i int) (MediaEntry, bool) {
	if s == nil || i < 0 || i >= len(s.Videos) {
		return MediaEntry{}, false
	}
	return s.Videos[i], true
}

// Subtitle returns the subtitle at index i.
func (s *MediaSet) Subtitle(i int) (SubtitleEntry, bool) {
	if s == nil || i < 0 || i >= len(s.Subtitles) {
		return SubtitleEntry{}, false
	}
	return s.Subtitles[i], true
}

// IsVideo reports whether f declares a video MIME type.
func IsVideo(f source.File) bool {
	return strings.HasPrefix(f.Type(), VideoTypePrefix)
}
