package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fixedStats MediaStats

func (f fixedStats) MediaStats() MediaStats { return MediaStats(f) }

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.HandleCreated()
	m.HandleRevoked()
	m.FolderLoaded()
	m.SubtitleDecoded(DecodeFailed, 0.1)
}

func TestHandleLifecycle(t *testing.T) {
	require := require.New(t)

	m := New(prometheus.NewRegistry())
	m.HandleCreated()
	m.HandleCreated()
	m.HandleRevoked()
	m.FolderLoaded()
	m.SubtitleDecoded(DecodePublished, 0.002)
	m.SubtitleDecoded(DecodeStale, 0.002)

	require.Equal(1.0, testutil.ToFloat64(m.HandlesLive))
	require.Equal(2.0, testutil.ToFloat64(m.HandlesCreated))
	require.Equal(1.0, testutil.ToFloat64(m.HandlesRevoked))
	require.Equal(1.0, testutil.ToFloat64(m.FolderLoads))
	require.Equal(1.0, testutil.ToFloat64(m.SubtitleDecodes.WithLabelValues(DecodePublished)))
	require.Equal(1, testutil.CollectAndCount(m.SubtitleDecodeSeconds))
}

func TestMediaCollector(t *testing.T) {
	c := NewMediaCollector(fixedStats{Videos: 2, Subtitles: 1, SessionOpen: true})

	expected := `
# HELP reelbox_media_subtitles Subtitle files in the active set.
# TYPE reelbox_media_subtitles gauge
reelbox_media_subtitles 1
# HELP reelbox_media_videos Videos in the active set.
# TYPE reelbox_media_videos gauge
reelbox_media_videos 2
# HELP reelbox_session_open 1 while a video is open for playback.
# TYPE reelbox_session_open gauge
reelbox_session_open 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}
