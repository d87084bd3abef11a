// Package auth provides HTTP basic authentication shared by the API and the
// WebDAV share.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/shapedtime/reelbox/internal/config"
)

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "reelbox"

// Basic wraps an http.Handler with HTTP Basic Authentication.
type Basic struct {
	next     http.Handler
	username string
	password string
	log      *slog.Logger
}

// Wrap returns next guarded by cfg. If auth is disabled, next is returned unwrapped.
func Wrap(next http.Handler, cfg config.AuthConfig) http.Handler {
	if !cfg.Enabled {
		return next
	}

	return &Basic{
		next:     next,
		username: cfg.Username,
		password: cfg.Password,
		log:      slog.With("component", "auth"),
	}
}

// ServeHTTP implements http.Handler
func (b *Basic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Preflight requests carry no credentials.
	if r.Method == http.MethodOptions {
		b.next.ServeHTTP(w, r)
		return
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		b.unauthorized(w, r, "missing credentials")
		return
	}

	if !b.validate(username, password) {
		b.unauthorized(w, r, "invalid credentials")
		return
	}

	b.next.ServeHTTP(w, r)
}

// validate compares both fields in constant time.
func (b *Basic) validate(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(b.username)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(b.password)) == 1
	return usernameMatch && passwordMatch
}

func (b *Basic) unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	b.log.Warn("Auth failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
	http.Error(w, "401 Unauthorized", http.StatusUnauthorized)
}

// CheckConfig logs warnings for weak or incomplete auth settings.
func CheckConfig(cfg config.AuthConfig) {
	if !cfg.Enabled {
		slog.Info("HTTP authentication is disabled")
		return
	}

	if cfg.Username == "" {
		slog.Warn("Auth enabled but username is empty")
	}

	if cfg.Password == "" {
		slog.Warn("Auth enabled but password is empty")
	} else if len(cfg.Password) < 8 {
		slog.Warn("Auth password is less than 8 characters, consider using a stronger password")
	}
}
