package media

import "errors"

// Sentinel errors for media set lookups.
var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrSubtitleNotFound = errors.New("subtitle not found")
)
