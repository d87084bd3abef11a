package source

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// knownTypes pins the container and caption types browsers play, so the
// result does not depend on the host's mime.types.
var knownTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".ogv":  "video/ogg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
	".vtt":  "text/vtt",
}

// TypeByName returns the MIME type implied by the file extension, or "".
func TypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	return stripParams(mime.TypeByExtension(ext))
}

// DetectType resolves a type hint for a file on disk: extension first, then
// content sniffing. Returns "" when nothing better than octet-stream is known.
func DetectType(path string) string {
	if t := TypeByName(path); t != "" {
		return t
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	t := stripParams(mt.String())
	if t == "application/octet-stream" {
		return ""
	}
	return t
}

func stripParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
