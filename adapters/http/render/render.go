// Package render holds the HTML pages of the public site. Templates are
// parsed once at startup; a parse failure is a startup error.
package render

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"strings"
	"unicode"

	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/template"
	"github.com/khoahotran/folio/internal/i18n"
)

//go:embed templates/*.html static/*
var files embed.FS

const layoutName = "layout"

// LocaleLink points at the same page in another locale.
type LocaleLink struct {
	Locale locale.Locale
	Name   string
	URL    string
	Active bool
}

// Page is shared by every page. L carries the request's string table.
type Page struct {
	L          *i18n.Localizer
	Locale     locale.Locale
	Title      string
	Alternates []LocaleLink
}

type ProjectView struct {
	profile.Project
	ImageURL string
}

type ProfilePage struct {
	Page
	Profile   *profile.Profile
	AvatarURL string
	BannerURL string
	Projects  []ProjectView
}

type NotFoundPage struct {
	Page
	Username string
	HomeURL  string
}

type LandingPage struct {
	Page
}

// Registry maps presentation variants to parsed templates.
type Registry struct {
	classic   *htmltemplate.Template
	minimal   *htmltemplate.Template
	modern    *htmltemplate.Template
	developer *htmltemplate.Template
	notFound  *htmltemplate.Template
	landing   *htmltemplate.Template
}

func NewRegistry() (*Registry, error) {
	base, err := htmltemplate.New(layoutName).Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Registry{}
	pages := []struct {
		dst  **htmltemplate.Template
		file string
	}{
		{&r.classic, "classic.html"},
		{&r.minimal, "minimal.html"},
		{&r.modern, "modern.html"},
		{&r.developer, "developer.html"},
		{&r.notFound, "not_found.html"},
		{&r.landing, "landing.html"},
	}
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if *p.dst, err = clone.ParseFS(files, "templates/"+p.file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.file, err)
		}
	}
	return r, nil
}

// Get returns the template for v. Every variant has an entry; anything
// else falls back to the classic layout.
func (r *Registry) Get(v template.Variant) *htmltemplate.Template {
	switch v {
	case template.Minimal:
		return r.minimal
	case template.Modern:
		return r.modern
	case template.Developer:
		return r.developer
	default:
		return r.classic
	}
}

func (r *Registry) Profile(w io.Writer, v template.Variant, page ProfilePage) error {
	return r.Get(v).ExecuteTemplate(w, layoutName, page)
}

func (r *Registry) NotFound(w io.Writer, page NotFoundPage) error {
	return r.notFound.ExecuteTemplate(w, layoutName, page)
}

func (r *Registry) Landing(w io.Writer, page LandingPage) error {
	return r.landing.ExecuteTemplate(w, layoutName, page)
}

// Static exposes the stylesheet and other assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = htmltemplate.FuncMap{
	"initials": initials,
	"percent": func(proficiency int) int {
		return proficiency * 100 / profile.MaxProficiency
	},
	"join": strings.Join,
}

func initials(name string) string {
	out := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
