package playback

import (
	"context"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/media"
)

// NoSubtitle selects no subtitle track.
const NoSubtitle = -1

// session is the open playback state. It references entries of set and owns
// only the materialized subtitle resource.
type session struct {
	set      *media.MediaSet
	video    int
	subtitle int // NoSubtitle when none
	resource handle.Handle
	pending  bool
	cancel   context.CancelFunc // cancels the in-flight decode, if any
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Open     bool
	SetID    string
	Video    *media.MediaEntry
	Subtitle *media.SubtitleEntry
	Track    handle.Handle // materialized subtitle, empty until published
	Pending  bool
	Token    uint64
}

func (s *session) snapshot(token uint64) Snapshot {
	snap := Snapshot{
		Open:    true,
		SetID:   s.set.ID,
		Track:   s.resource,
		Pending: s.pending,
		Token:   token,
	}
	if v, ok := s.set.Video(s.video); ok {
		snap.Video = &v
	}
	if sub, ok := s.set.Subtitle(s.subtitle); ok {
		snap.Subtitle = &sub
	}
	return snap
}
