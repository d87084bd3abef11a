// Package handle issues revocable playable URLs over byte resources, the way a
// browser issues object URLs over blobs. A handle resolves only while live.
package handle

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shapedtime/reelbox/internal/metrics"
)

// Prefix is the URL path under which live handles are served.
const Prefix = "/blob/"

// ErrNotLive is returned when revoking a handle that is unknown or already revoked.
var ErrNotLive = errors.New("handle not live")

// Handle is a revocable URL of the form /blob/<id>.
type Handle string

// ID returns the opaque identifier part of the handle.
func (h Handle) ID() string {
	return strings.TrimPrefix(string(h), Prefix)
}

func (h Handle) String() string {
	return string(h)
}

// Resource is anything a handle can stream.
type Resource interface {
	Name() string
	Type() string
	Size() int64
	ModTime() time.Time
	Open() (io.ReadSeekCloser, error)
}

// Registry tracks live handles. Each handle is revoked at most once.
type Registry struct {
	mu      sync.RWMutex
	live    map[string]Resource
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		live:    make(map[string]Resource),
		metrics: m,
		log:     slog.With("component", "handles"),
	}
}

// Create registers res and returns a new live handle for it.
func (r *Registry) Create(res Resource) Handle {
	id := uuid.NewString()

	r.mu.Lock()
	r.live[id] = res
	r.mu.Unlock()

	r.metrics.HandleCreated()
	r.log.Debug("handle created", "id", id, "name", res.Name())
	return Handle(Prefix + id)
}

// Resolve returns the resource behind h while h is live.
func (r *Registry) Resolve(h Handle) (Resource, bool) {
	return r.Lookup(h.ID())
}

// Lookup resolves a bare handle id.
func (r *Registry) Lookup(id string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.live[id]
	return res, ok
}

// Revoke invalidates h. Revoking a handle twice returns ErrNotLive.
func (r *Registry) Revoke(h Handle) error {
	id := h.ID()

	r.mu.Lock()
	res, ok := r.live[id]
	if ok {
		delete(r.live, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotLive
	}

	r.metrics.HandleRevoked()
	r.log.Debug("handle revoked", "id", id, "name", res.Name())
	return nil
}

// Live reports the number of live handles.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}
