// Package route classifies request paths and decides whether a request must
// be redirected to its canonical /{locale}/... form.
package route

import (
	"slices"
	"strings"
)

// Class is the outcome of classifying a request path.
type Class int

const (
	// MissingLocale is any path without a recognized locale prefix that is
	// neither reserved nor a bare profile, including "/".
	MissingLocale Class = iota
	// Reserved paths belong to the system (api, auth, dashboard, assets...).
	Reserved
	// LocalePrefixed paths start with a supported locale code.
	LocalePrefixed
	// BareProfile is a single segment read as a public username.
	BareProfile
)

func (c Class) String() string {
	switch c {
	case Reserved:
		return "reserved"
	case LocalePrefixed:
		return "locale_prefixed"
	case BareProfile:
		return "bare_profile"
	default:
		return "missing_locale"
	}
}

// Classifier holds the supported locale codes and reserved first segments.
type Classifier struct {
	locales  []string
	reserved []string
}

func NewClassifier(locales, reservedPrefixes []string) *Classifier {
	c := &Classifier{}
	for _, l := range locales {
		if l = strings.TrimSpace(l); l != "" {
			c.locales = append(c.locales, l)
		}
	}
	for _, p := range reservedPrefixes {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			c.reserved = append(c.reserved, strings.ToLower(p))
		}
	}
	return c
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsReserved reports whether segment is a reserved first segment.
// Comparison is case-insensitive so "/Dashboard" is never taken as a username.
func (c *Classifier) IsReserved(segment string) bool {
	return slices.Contains(c.reserved, strings.ToLower(segment))
}

// IsLocale reports whether segment is exactly a supported locale code.
func (c *Classifier) IsLocale(segment string) bool {
	return slices.Contains(c.locales, segment)
}

// Classify applies the reserved check first, then the locale check, then the
// single-segment profile rule.
func (c *Classifier) Classify(path string) Class {
	segs := Segments(path)
	if len(segs) == 0 {
		return MissingLocale
	}
	first := segs[0]
	switch {
	case c.IsReserved(first):
		return Reserved
	case c.IsLocale(first):
		return LocalePrefixed
	case len(segs) == 1:
		return BareProfile
	default:
		return MissingLocale
	}
}
