// Package locale negotiates the request locale from the locale cookie and
// the Accept-Language header.
package locale

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a routing prefix and string-table selector, e.g. "en".
type Locale string

const (
	English    Locale = "en"
	Indonesian Locale = "id"
)

func (l Locale) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag for the locale.
func (l Locale) Tag() language.Tag {
	tag, err := language.Parse(string(l))
	if err != nil {
		return language.Und
	}
	return tag
}

// Set is an ordered, closed set of supported locales with a default member.
type Set struct {
	supported []Locale
	def       Locale
}

// NewSet builds a Set. def is added to the set if missing.
func NewSet(def Locale, supported ...Locale) Set {
	s := Set{def: def}
	for _, l := range supported {
		if l != "" && !slices.Contains(s.supported, l) {
			s.supported = append(s.supported, l)
		}
	}
	if !slices.Contains(s.supported, def) {
		s.supported = append(s.supported, def)
	}
	return s
}

// FromStrings is NewSet for config values.
func FromStrings(def string, supported []string) Set {
	locales := make([]Locale, 0, len(supported))
	for _, s := range supported {
		locales = append(locales, Locale(strings.TrimSpace(s)))
	}
	return NewSet(Locale(strings.TrimSpace(def)), locales...)
}

func (s Set) Default() Locale {
	return s.def
}

func (s Set) Supported() []Locale {
	return slices.Clone(s.supported)
}

// Contains reports exact membership; "EN" is not "en".
func (s Set) Contains(value string) bool {
	return slices.Contains(s.supported, Locale(value))
}

// Negotiate picks the request locale. A supported cookie value always wins.
// Otherwise the highest-weighted Accept-Language tag whose full form or
// primary language subtag is supported is used. Anything else, including a
// malformed header, yields the default.
func (s Set) Negotiate(acceptLanguage, cookieLocale string) Locale {
	return Negotiate(acceptLanguage, cookieLocale, s.supported, s.def)
}

// Negotiate is the set-free form of Set.Negotiate.
func Negotiate(acceptLanguage, cookieLocale string, supported []Locale, def Locale) Locale {
	if cookieLocale != "" && slices.Contains(supported, Locale(cookieLocale)) {
		return Locale(cookieLocale)
	}

	header := strings.TrimSpace(acceptLanguage)
	if header == "" {
		return def
	}

	// Tags come back sorted by weight; q=0 entries are dropped.
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return def
	}

	for _, tag := range tags {
		if l, ok := match(tag, supported); ok {
			return l
		}
	}
	return def
}

func match(tag language.Tag, supported []Locale) (Locale, bool) {
	full := tag.String()
	for _, l := range supported {
		if strings.EqualFold(full, string(l)) {
			return l, true
		}
	}

	// Only an explicit language subtag counts; "*" must not be inferred to "en".
	base, conf := tag.Base()
	if conf != language.Exact {
		return "", false
	}
	for _, l := range supported {
		if strings.EqualFold(base.String(), string(l)) {
			return l, true
		}
	}
	return "", false
}
