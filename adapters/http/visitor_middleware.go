package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/folio/internal/domain/view"
)

const visitorCookieMaxAge = 365 * 24 * 60 * 60

type VisitorConfig struct {
	CookieName   string
	IssueCookie  bool
	SecureCookie bool
}

// Visitor computes the view dedup key for the request. A valid visitor
// cookie is used as is. Without one, a fresh cookie is issued and its id
// keys this request too, so later visits carrying it resolve to the same
// key. With issuing disabled the key falls back to client IP and user-agent.
func Visitor(cfg VisitorConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieID, _ := c.Cookie(cfg.CookieName)
		if _, err := uuid.Parse(cookieID); err != nil {
			cookieID = ""
		}

		if cookieID == "" && cfg.IssueCookie {
			cookieID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, cookieID, visitorCookieMaxAge, "/", "", cfg.SecureCookie, true)
		}

		clientIP := view.ClientIP(c.GetHeader("X-Forwarded-For"), c.RemoteIP())
		c.Set(GinContextKeyVisitor, view.VisitorKey(cookieID, clientIP, c.Request.UserAgent()))
		c.Next()
	}
}

func GetVisitorKeyFromGinContext(c *gin.Context) string {
	return c.GetString(GinContextKeyVisitor)
}
