package handle

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/shapedtime/reelbox/internal/metrics"
)

func textResource(name, body string) Resource {
	return NewMemoryResource(name, "text/plain", []byte(body), time.Unix(0, 0))
}

func TestCreateResolveRevoke(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := NewRegistry(nil)
	h := r.Create(textResource("a.txt", "hello"))

	require.True(strings.HasPrefix(h.String(), Prefix))
	require.Equal(1, r.Live())

	res, ok := r.Resolve(h)
	require.True(ok)
	require.Equal("a.txt", res.Name())

	require.NoError(r.Revoke(h))
	require.Equal(0, r.Live())

	_, ok = r.Resolve(h)
	require.False(ok, "revoked handle must not resolve")
}

func TestRevokeTwiceIsNotLive(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := NewRegistry(m)

	h := r.Create(textResource("a.txt", "hello"))
	require.NoError(r.Revoke(h))
	require.ErrorIs(r.Revoke(h), ErrNotLive)
	require.ErrorIs(r.Revoke(Handle(Prefix+"unknown")), ErrNotLive)

	require.Equal(1.0, testutil.ToFloat64(m.HandlesCreated))
	require.Equal(1.0, testutil.ToFloat64(m.HandlesRevoked))
	require.Equal(0.0, testutil.ToFloat64(m.HandlesLive))
}

func TestHandlesAreUnique(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	seen := make(map[Handle]bool)
	for i := 0; i < 100; i++ {
		h := r.Create(textResource("same.txt", "x"))
		if seen[h] {
			t.Fatalf("duplicate handle %s", h)
		}
		seen[h] = true
	}
	if r.Live() != 100 {
		t.Errorf("Live() = %d, want 100", r.Live())
	}
}

func TestServeSupportsRanges(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	res := NewMemoryResource("clip.vtt", "text/vtt; charset=utf-8", []byte("WEBVTT\n\nbody"), time.Unix(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/blob/x", nil)
	req.Header.Set("Range", "bytes=0-5")
	rec := httptest.NewRecorder()
	Serve(rec, req, res)

	require.Equal(http.StatusPartialContent, rec.Code)
	require.Equal("text/vtt; charset=utf-8", rec.Header().Get("Content-Type"))
	body, err := io.ReadAll(rec.Body)
	require.NoError(err)
	require.Equal("WEBVTT", string(body))
}
