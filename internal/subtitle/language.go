package subtitle

import (
	"strings"
)

type language struct {
	code    string
	name    string
	aliases []string // lowercase filename tags besides code
}

// languages recognised in subtitle filenames, e.g. movie.en.vtt, movie.eng.vtt,
// movie.english.vtt.
var languages = []language{
	{"en", "English", []string{"eng", "english"}},
	{"ru", "Russian", []string{"rus", "russian"}},
	{"tr", "Turkish", []string{"tur", "turkish"}},
	{"az", "Azerbaijani", []string{"aze", "azerbaijani"}},
	{"es", "Spanish", []string{"spa", "spanish"}},
	{"de", "German", []string{"deu", "ger", "german"}},
	{"fr", "French", []string{"fra", "fre", "french"}},
	{"it", "Italian", []string{"ita", "italian"}},
	{"pt", "Portuguese", []string{"por", "portuguese"}},
	{"ja", "Japanese", []string{"jpn", "japanese"}},
	{"ko", "Korean", []string{"kor", "korean"}},
	{"zh", "Chinese", []string{"chi", "chs", "cht", "zho", "chinese"}},
	{"ar", "Arabic", []string{"ara", "arabic"}},
	{"hi", "Hindi", []string{"hin", "hindi"}},
	{"pl", "Polish", []string{"pol", "polish"}},
	{"nl", "Dutch", []string{"dut", "nld", "dutch"}},
	{"sv", "Swedish", []string{"swe", "swedish"}},
	{"no", "Norwegian", []string{"nor", "norwegian"}},
	{"da", "Danish", []string{"dan", "danish"}},
	{"fi", "Finnish", []string{"fin", "finnish"}},
	{"cs", "Czech", []string{"cze", "ces", "czech"}},
	{"hu", "Hungarian", []string{"hun", "hungarian"}},
	{"ro", "Romanian", []string{"ron", "rum", "romanian"}},
	{"el", "Greek", []string{"gre", "ell", "greek"}},
	{"he", "Hebrew", []string{"heb", "hebrew"}},
	{"th", "Thai", []string{"tha", "thai"}},
	{"vi", "Vietnamese", []string{"vie", "vietnamese"}},
	{"id", "Indonesian", []string{"ind", "indonesian"}},
	{"uk", "Ukrainian", []string{"ukr", "ukrainian"}},
	{"bg", "Bulgarian", []string{"bul", "bulgarian"}},
	{"hr", "Croatian", []string{"hrv", "croatian"}},
	{"sr", "Serbian", []string{"srp", "serbian"}},
}

var languageTags = buildLanguageTags()

func buildLanguageTags() map[string]language {
	tags := make(map[string]language, len(languages)*3)
	for _, l := range languages {
		tags[l.code] = l
		for _, a := range l.aliases {
			tags[a] = l
		}
	}
	return tags
}

// DetectLanguage reads the language tag between the base name and the
// extension ("movie.en.vtt" -> "en", "English").
// If no language is detected, returns ("unknown", "Unknown", false).
func DetectLanguage(filename string) (code string, name string, detected bool) {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return "unknown", "Unknown", false
	}

	tag := strings.ToLower(parts[len(parts)-2])
	if l, ok := languageTags[tag]; ok {
		return l.code, l.name, true
	}
	return "unknown", "Unknown", false
}
