package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/internal/domain/route"
)

// LocaleRedirect negotiates the request locale and sends every path that
// lacks a locale prefix, and is not reserved, to its /{locale}/... form.
// Register it with Use so it also runs in the NoRoute chain.
func LocaleRedirect(classifier *route.Classifier, locales locale.Set, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cookieName)
		negotiated := locales.Negotiate(c.GetHeader("Accept-Language"), cookie)
		c.Set(GinContextKeyLocale, negotiated)

		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		// Classify the decoded path but build the target from the escaped one
		// so encoded bytes survive the redirect.
		class := classifier.Classify(c.Request.URL.Path)
		decision := route.Decide(class, c.Request.URL.EscapedPath(), c.Request.URL.RawQuery, negotiated.String())
		if decision.Redirect {
			c.Header("Vary", "Accept-Language, Cookie")
			c.Redirect(http.StatusFound, decision.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetLocaleFromGinContext returns the negotiated locale, or def when the
// middleware did not run.
func GetLocaleFromGinContext(c *gin.Context, def locale.Locale) locale.Locale {
	v, ok := c.Get(GinContextKeyLocale)
	if !ok {
		return def
	}
	l, ok := v.(locale.Locale)
	if !ok || l == "" {
		return def
	}
	return l
}
