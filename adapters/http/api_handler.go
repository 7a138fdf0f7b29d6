package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/pkg/apperror"
)

const localeCookieMaxAge = 365 * 24 * 60 * 60

type APIHandler struct {
	resolver     ProfileResolver
	images       service.ImageResolver
	locales      locale.Set
	cookieName   string
	secureCookie bool
}

func NewAPIHandler(resolver ProfileResolver, images service.ImageResolver, locales locale.Set, cookieName string, secureCookie bool) *APIHandler {
	return &APIHandler{
		resolver:     resolver,
		images:       images,
		locales:      locales,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// GetProfile serves GET /api/profiles/:username. No view is recorded.
func (h *APIHandler) GetProfile(c *gin.Context) {
	p, err := h.resolver.ResolveByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p, h.images))
}

// SetLocale stores an explicit locale choice. The cookie then wins over
// Accept-Language on every later request.
func (h *APIHandler) SetLocale(c *gin.Context) {
	var req SetLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for locale", err))
		return
	}
	if !h.locales.Contains(req.Locale) {
		c.Error(apperror.NewInvalidInput("unsupported locale '"+req.Locale+"'", nil))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, req.Locale, localeCookieMaxAge, "/", "", h.secureCookie, false)
	c.JSON(http.StatusOK, gin.H{"locale": req.Locale})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
