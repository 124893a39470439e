package translate

// LangAuto asks the provider to detect the source language.
const LangAuto = "auto"

// TargetLang is the fixed output language.
const TargetLang = "en"

// SupportedLanguages maps source language names to ISO 639-1 codes.
var SupportedLanguages = map[string]string{
	"finnish":    "fi",
	"french":     "fr",
	"spanish":    "es",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"dutch":      "nl",
	"swedish":    "sv",
	"norwegian":  "no",
	"danish":     "da",
	"polish":     "pl",
}

// IsSupportedSource reports whether code is a usable source language
// selection. "auto" is always accepted.
func IsSupportedSource(code string) bool {
	if code == LangAuto {
		return true
	}
	for _, c := range SupportedLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// LanguageName returns the display name for a code, or the code itself when
// the language is outside the supported set.
func LanguageName(code string) string {
	for name, c := range SupportedLanguages {
		if c == code {
			return name
		}
	}
	return code
}
