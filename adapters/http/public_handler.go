package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/http/render"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/route"
	"github.com/khoahotran/folio/internal/i18n"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type ProfileResolver interface {
	ResolveByUsername(ctx context.Context, username string) (*profile.Profile, error)
}

// ViewRecorder must not block; the page never waits on it.
type ViewRecorder interface {
	Record(profileID uuid.UUID, visitorKey string)
}

type PublicHandler struct {
	resolver ProfileResolver
	recorder ViewRecorder
	pages    *render.Registry
	bundle   *i18n.Bundle
	images   service.ImageResolver
	locales  locale.Set
	logger   logger.Logger
}

func NewPublicHandler(
	resolver ProfileResolver,
	recorder ViewRecorder,
	pages *render.Registry,
	bundle *i18n.Bundle,
	images service.ImageResolver,
	locales locale.Set,
	log logger.Logger,
) *PublicHandler {
	return &PublicHandler{
		resolver: resolver,
		recorder: recorder,
		pages:    pages,
		bundle:   bundle,
		images:   images,
		locales:  locales,
		logger:   log,
	}
}

// ShowProfile renders GET /:locale/:username. A view is recorded only after
// the profile resolved.
func (h *PublicHandler) ShowProfile(c *gin.Context) {
	username := c.Param("username")
	l, ok := h.pathLocale(c)
	if !ok {
		h.renderNotFound(c, l, username)
		return
	}

	p, err := h.resolver.ResolveByUsername(c.Request.Context(), username)
	if err != nil {
		if apperror.IsNotFound(err) {
			h.logger.Debug("Profile not found", zap.String("username", username))
			h.renderNotFound(c, l, username)
			return
		}
		c.Error(err)
		return
	}

	h.recorder.Record(p.ID, GetVisitorKeyFromGinContext(c))

	page := render.ProfilePage{
		Page:      h.page(l, p.DisplayName, "/"+p.Username),
		Profile:   p,
		AvatarURL: h.images.URL(p.ProfileImage, service.ImageAvatar),
		BannerURL: h.images.URL(p.BannerImage, service.ImageBanner),
		Projects:  make([]render.ProjectView, len(p.Projects)),
	}
	if page.Title == "" {
		page.Title = p.Username
	}
	for i, proj := range p.Projects {
		page.Projects[i] = render.ProjectView{Project: proj, ImageURL: h.images.URL(proj.Image, service.ImageProject)}
	}

	c.Header("Content-Language", l.String())
	h.html(c, http.StatusOK, func(w io.Writer) error {
		return h.pages.Profile(w, p.Template(), page)
	})
}

// Landing renders GET /:locale.
func (h *PublicHandler) Landing(c *gin.Context) {
	l, ok := h.pathLocale(c)
	if !ok {
		h.renderNotFound(c, l, "")
		return
	}
	c.Header("Content-Language", l.String())
	h.html(c, http.StatusOK, func(w io.Writer) error {
		return h.pages.Landing(w, render.LandingPage{Page: h.page(l, h.bundle.Localizer(l).T("landing.title"), "")})
	})
}

// NotFound is the NoRoute handler. Locale redirects have already run, so
// the locale comes from the path when it has one.
func (h *PublicHandler) NotFound(c *gin.Context) {
	l := GetLocaleFromGinContext(c, h.locales.Default())
	if segs := route.Segments(c.Request.URL.Path); len(segs) > 0 && h.locales.Contains(segs[0]) {
		l = locale.Locale(segs[0])
	}
	h.renderNotFound(c, l, "")
}

func (h *PublicHandler) renderNotFound(c *gin.Context, l locale.Locale, username string) {
	loc := h.bundle.Localizer(l)
	page := render.NotFoundPage{
		Page:     h.page(l, loc.T("notfound.title"), ""),
		Username: username,
		HomeURL:  "/" + l.String(),
	}
	h.html(c, http.StatusNotFound, func(w io.Writer) error {
		return h.pages.NotFound(w, page)
	})
}

// pathLocale returns the :locale param when supported, else the negotiated
// locale and false.
func (h *PublicHandler) pathLocale(c *gin.Context) (locale.Locale, bool) {
	if param := c.Param("locale"); h.locales.Contains(param) {
		return locale.Locale(param), true
	}
	return GetLocaleFromGinContext(c, h.locales.Default()), false
}

func (h *PublicHandler) page(l locale.Locale, title, rest string) render.Page {
	loc := h.bundle.Localizer(l)
	supported := h.locales.Supported()
	alternates := make([]render.LocaleLink, 0, len(supported))
	for _, alt := range supported {
		alternates = append(alternates, render.LocaleLink{
			Locale: alt,
			Name:   loc.T("locale.name." + alt.String()),
			URL:    "/" + alt.String() + rest,
			Active: alt == l,
		})
	}
	return render.Page{L: loc, Locale: l, Title: title, Alternates: alternates}
}

// html renders into a buffer first so a template error never leaves a
// half-written page.
func (h *PublicHandler) html(c *gin.Context, status int, fn func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		c.Error(apperror.NewInternal("render page", err))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
