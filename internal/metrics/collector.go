package metrics

import "github.com/prometheus/client_golang/prometheus"

// MediaStats is a point-in-time view of the active set and session.
type MediaStats struct {
	Videos      int
	Subtitles   int
	SessionOpen bool
}

// StatsProvider is implemented by the playback controller.
type StatsProvider interface {
	MediaStats() MediaStats
}

// MediaCollector implements prometheus.Collector for the active media set.
// It reads the provider on each scrape instead of mirroring state.
type MediaCollector struct {
	provider StatsProvider

	videos      *prometheus.Desc
	subtitles   *prometheus.Desc
	sessionOpen *prometheus.Desc
}

// NewMediaCollector creates a collector that scrapes the provider on demand.
func NewMediaCollector(p StatsProvider) *MediaCollector {
	return &MediaCollector{
		provider: p,
		videos: prometheus.NewDesc(
			"reelbox_media_videos",
			"Videos in the active set.",
			nil, nil,
		),
		subtitles: prometheus.NewDesc(
			"reelbox_media_subtitles",
			"Subtitle files in the active set.",
			nil, nil,
		),
		sessionOpen: prometheus.NewDesc(
			"reelbox_session_open",
			"1 while a video is open for playback.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *MediaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.videos
	ch <- c.subtitles
	ch <- c.sessionOpen
}

// Collect implements prometheus.Collector.
func (c *MediaCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.provider.MediaStats()

	open := 0.0
	if stats.SessionOpen {
		open = 1
	}

	ch <- prometheus.MustNewConstMetric(c.videos, prometheus.GaugeValue, float64(stats.Videos))
	ch <- prometheus.MustNewConstMetric(c.subtitles, prometheus.GaugeValue, float64(stats.Subtitles))
	ch <- prometheus.MustNewConstMetric(c.sessionOpen, prometheus.GaugeValue, open)
}
