package config

const (
	LangEN = "en"
	LangES = "es"
)

// ResolveLanguage maps a requested language to a supported one. The second
// result is false when the fallback (English) was used.
func ResolveLanguage(lang string) (string, bool) {
	switch lang {
	case LangEN:
		return LangEN, true
	case LangES:
		return LangES, true
	default:
		return LangEN, false
	}
}
