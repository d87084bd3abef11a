package webdav

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/source"
)

func newShare(t *testing.T) (*httptest.Server, *media.Manager) {
	t.Helper()

	m := media.NewManager(handle.NewRegistry(nil), nil)
	m.LoadFolder([]source.File{
		source.Bytes("movie.mp4", "video/mp4", []byte("0123456789")),
		source.Bytes("movie.vtt", "", []byte("WEBVTT\n")),
		source.Bytes("notes.txt", "text/plain", []byte("ignored")),
	})

	srv := httptest.NewServer(NewServer(m).Handler())
	t.Cleanup(srv.Close)
	return srv, m
}

func send(t *testing.T, method, url string, body io.Reader, header map[string]string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestListRoot(t *testing.T) {
	t.Parallel()
	srv, _ := newShare(t)

	resp, body := send(t, "PROPFIND", srv.URL+"/", nil, map[string]string{"Depth": "1"})
	require.Equal(t, http.StatusMultiStatus, resp.StatusCode)
	require.Contains(t, body, "movie.mp4")
	require.Contains(t, body, "movie.vtt")
	require.NotContains(t, body, "notes.txt")
}

func TestGetFile(t *testing.T) {
	t.Parallel()
	srv, _ := newShare(t)

	resp, body := send(t, http.MethodGet, srv.URL+"/movie.mp4", nil, map[string]string{"Range": "bytes=0-3"})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	require.Equal(t, "0123", body)

	resp, _ = send(t, http.MethodGet, srv.URL+"/notes.txt", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReadOnly(t *testing.T) {
	t.Parallel()
	srv, _ := newShare(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete, "MKCOL"} {
		resp, _ := send(t, method, srv.URL+"/new.mp4", strings.NewReader("x"), nil)
		require.GreaterOrEqual(t, resp.StatusCode, 400, method)
	}

	resp, _ := send(t, http.MethodDelete, srv.URL+"/movie.mp4", nil, nil)
	require.GreaterOrEqual(t, resp.StatusCode, 400)
}

func TestFollowsActiveSet(t *testing.T) {
	t.Parallel()
	srv, m := newShare(t)

	m.LoadFolder([]source.File{source.Bytes("clip.mov", "video/quicktime", []byte("mov"))})

	resp, _ := send(t, http.MethodGet, srv.URL+"/movie.mp4", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := send(t, http.MethodGet, srv.URL+"/clip.mov", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "mov", body)
}
