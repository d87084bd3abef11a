package metrics

import "github.com/prometheus/client_golang/prometheus"

// Decode results recorded by SubtitleDecoded.
const (
	DecodePublished = "published"
	DecodeStale     = "stale"
	DecodeFailed    = "failed"
)

// Metrics holds resource lifecycle instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HandlesLive           prometheus.Gauge
	HandlesCreated        prometheus.Counter
	HandlesRevoked        prometheus.Counter
	FolderLoads           prometheus.Counter
	SubtitleDecodes       *prometheus.CounterVec
	SubtitleDecodeSeconds prometheus.Histogram
}

// New creates and registers metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HandlesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reelbox",
			Subsystem: "handles",
			Name:      "live",
			Help:      "Playable handles currently resolvable.",
		}),
		HandlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reelbox",
			Subsystem: "handles",
			Name:      "created_total",
			Help:      "Total playable handles created.",
		}),
		HandlesRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reelbox",
			Subsystem: "handles",
			Name:      "revoked_total",
			Help:      "Total playable handles revoked.",
		}),
		FolderLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reelbox",
			Name:      "folder_loads_total",
			Help:      "Total folder selections loaded into the active set.",
		}),
		SubtitleDecodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelbox",
			Subsystem: "subtitle",
			Name:      "decodes_total",
			Help:      "Subtitle materializations by result.",
		}, []string{"result"}),
		SubtitleDecodeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reelbox",
			Subsystem: "subtitle",
			Name:      "decode_duration_seconds",
			Help:      "Duration of subtitle text decoding.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	reg.MustRegister(
		m.HandlesLive,
		m.HandlesCreated,
		m.HandlesRevoked,
		m.FolderLoads,
		m.SubtitleDecodes,
		m.SubtitleDecodeSeconds,
	)

	return m
}

func (m *Metrics) HandleCreated() {
	if m == nil {
		return
	}
	m.HandlesCreated.Inc()
	m.HandlesLive.Inc()
}

func (m *Metrics) HandleRevoked() {
	if m == nil {
		return
	}
	m.HandlesRevoked.Inc()
	m.HandlesLive.Dec()
}

func (m *Metrics) FolderLoaded() {
	if m == nil {
		return
	}
	m.FolderLoads.Inc()
}

// SubtitleDecoded records one finished materialization.
func (m *Metrics) SubtitleDecoded(result string, seconds float64) {
	if m == nil {
		return
	}
	m.SubtitleDecodes.WithLabelValues(result).Inc()
	m.SubtitleDecodeSeconds.Observe(seconds)
}
