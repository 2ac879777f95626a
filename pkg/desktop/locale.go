package desktop

import "strings"

// Locale is a POSIX locale split into the parts used for key matching.
// The encoding is parsed and dropped; it never takes part in matching.
type Locale struct {
	Lang     string
	Country  string
	Modifier string
}

// ParseLocale parses lang_COUNTRY.ENCODING@MODIFIER. "C", "POSIX" and the
// empty string yield the zero Locale, which matches only unsuffixed keys.
func ParseLocale(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" || s == "C" || s == "POSIX" || strings.HasPrefix(s, "C.") {
		return Locale{}
	}

	var l Locale
	if i := strings.IndexByte(s, '@'); i >= 0 {
		l.Modifier = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '_'); i >= 0 {
		l.Country = s[i+1:]
		s = s[:i]
	}
	l.Lang = s
	return l
}

// LocaleFromEnv picks the message locale the way gettext does:
// LC_ALL, then LC_MESSAGES, then LANG.
func LocaleFromEnv(getenv func(string) string) Locale {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			return ParseLocale(v)
		}
	}
	return Locale{}
}

// IsZero reports whether l matches only unsuffixed keys
func (l Locale) IsZero() bool {
	return l.Lang == ""
}

// String renders the locale without encoding
func (l Locale) String() string {
	s := l.Lang
	if l.Country != "" {
		s += "_" + l.Country
	}
	if l.Modifier != "" {
		s += "@" + l.Modifier
	}
	return s
}

// Candidates returns the locale suffixes to try, most specific first.
func (l Locale) Candidates() []string {
	if l.IsZero() {
		return nil
	}
	var out []string
	if l.Country != "" && l.Modifier != "" {
		out = append(out, l.Lang+"_"+l.Country+"@"+l.Modifier)
	}
	if l.Country != "" {
		out = append(out, l.Lang+"_"+l.Country)
	}
	if l.Modifier != "" {
		out = append(out, l.Lang+"@"+l.Modifier)
	}
	return append(out, l.Lang)
}
