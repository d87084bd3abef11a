package playback

import "errors"

// ErrSessionClosed is returned by operations that need an open session.
var ErrSessionClosed = errors.New("no video is open")
