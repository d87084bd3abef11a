package media

import "strings"

// BaseName strips the final extension (the last "." and everything after it).
// A name without an extension, or ending in ".", is returned unchanged.
func BaseName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 || strings.ContainsRune(name[i:], '/') {
		return name
	}
	return name[:i]
}

// MatchSubtitle returns the first subtitle, in set order, whose name starts
// with the video's base name. The match is case-sensitive and only advisory:
// it picks the default track, nothing more.
//
// Prefix matching means "ep1.mp4" also matches "ep10.vtt" when it is listed first.
func MatchSubtitle(video MediaEntry, subtitles []SubtitleEntry) (SubtitleEntry, bool) {
	base := BaseName(video.Name())
	for _, sub := range subtitles {
		if strings.HasPrefix(sub.Name(), base) {
			return sub, true
		}
	}
	return SubtitleEntry{}, false
}

// Filter returns the videos whose name contains term, ignoring case. Order and
// Index are preserved; an empty term returns every video.
func Filter(videos []MediaEntry, term string) []MediaEntry {
	out := make([]MediaEntry, 0, len(videos))
	if term == "" {
		return append(out, videos...)
	}

	needle := strings.ToLower(term)
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Name()), needle) {
			out = append(out, v)
		}
	}
	return out
}
