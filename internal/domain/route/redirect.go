package route

import "strings"

// Decision is either NoAction or a redirect to Location.
type Decision struct {
	Redirect bool
	Location string
}

func NoAction() Decision {
	return Decision{}
}

func RedirectTo(location string) Decision {
	return Decision{Redirect: true, Location: location}
}

// Decide maps a classification to an action. Reserved and locale-prefixed
// paths pass through; a bare profile goes to /{locale}/{username}; anything
// else gets the locale prepended, with "/" becoming /{locale}. path must be
// the escaped form; it and the query string are copied into the target as
// is. Applying Decide to a redirect target always yields NoAction.
func Decide(class Class, path, rawQuery, locale string) Decision {
	if locale == "" {
		return NoAction()
	}

	var target string
	switch class {
	case Reserved, LocalePrefixed:
		return NoAction()
	case BareProfile:
		segs := Segments(path)
		if len(segs) != 1 {
			return NoAction()
		}
		target = "/" + locale + "/" + segs[0]
	default:
		if len(Segments(path)) == 0 {
			target = "/" + locale
		} else {
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			target = "/" + locale + path
		}
	}

	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return RedirectTo(target)
}

// Decide classifies path and applies the redirect policy in one step.
func (c *Classifier) Decide(path, rawQuery, locale string) (Class, Decision) {
	class := c.Classify(path)
	return class, Decide(class, path, rawQuery, locale)
}
