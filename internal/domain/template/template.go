// Package template defines the closed set of portfolio presentation variants.
package template

import "strings"

// Variant selects how a profile page is laid out.
type Variant int

const (
	// Classic is the default variant; every unknown identifier maps to it.
	Classic Variant = iota
	Minimal
	Modern
	Developer
)

// All lists every variant in declaration order.
var All = []Variant{Classic, Minimal, Modern, Developer}

// ID is the identifier stored on profiles.
func (v Variant) ID() string {
	switch v {
	case Minimal:
		return "minimal"
	case Modern:
		return "modern"
	case Developer:
		return "developer"
	default:
		return "classic"
	}
}

func (v Variant) String() string {
	return v.ID()
}

// Dispatch maps a stored template identifier to a variant. Empty or unknown
// identifiers resolve to Classic.
func Dispatch(templateID string) Variant {
	switch strings.ToLower(strings.TrimSpace(templateID)) {
	case "minimal":
		return Minimal
	case "modern":
		return Modern
	case "developer":
		return Developer
	default:
		return Classic
	}
}

// IsKnown reports whether templateID names a variant exactly, so writes can
// reject typos instead of silently storing a Classic fallback.
func IsKnown(templateID string) bool {
	for _, v := range All {
		if v.ID() == templateID {
			return true
		}
	}
	return false
}
