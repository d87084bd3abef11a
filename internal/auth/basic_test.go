package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/reelbox/internal/config"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestWrapDisabled(t *testing.T) {
	h := Wrap(ok, config.AuthConfig{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth(t *testing.T) {
	h := Wrap(ok, config.AuthConfig{Enabled: true, Username: "user", Password: "secret123"})

	tests := []struct {
		name   string
		method string
		user   string
		pass   string
		set    bool
		status int
	}{
		{"valid", http.MethodGet, "user", "secret123", true, http.StatusOK},
		{"missing", http.MethodGet, "", "", false, http.StatusUnauthorized},
		{"wrong password", http.MethodGet, "user", "nope", true, http.StatusUnauthorized},
		{"wrong user", http.MethodGet, "other", "secret123", true, http.StatusUnauthorized},
		{"preflight", http.MethodOptions, "", "", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/status", nil)
			if tt.set {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				require.Contains(t, w.Header().Get("WWW-Authenticate"), Realm)
			}
		})
	}
}
