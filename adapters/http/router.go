package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/adapters/http/render"
	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/internal/domain/route"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type RouterConfig struct {
	Logger       logger.Logger
	Classifier   *route.Classifier
	Locales      locale.Set
	LocaleCookie string
	Visitor      VisitorConfig
	CORSOrigins  []string
	Verifier     *auth.SessionVerifier
	AccessCookie string

	Public    *PublicHandler
	API       *APIHandler
	Dashboard *DashboardHandler
	Auth      *AuthHandler
}

// NewRouter wires the middleware chain and every route. The locale
// redirect is global so it also covers paths that match no route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(ErrorMiddleware(cfg.Logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(LocaleRedirect(cfg.Classifier, cfg.Locales, cfg.LocaleCookie))

	r.GET("/healthz", Health)
	r.StaticFS("/static", http.FS(render.Static()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", cfg.Auth.Login)
		authGroup.POST("/refresh", cfg.Auth.Refresh)
		authGroup.POST("/logout", cfg.Auth.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/profiles/:username", cfg.API.GetProfile)
		api.POST("/locale", cfg.API.SetLocale)
	}

	dashboard := r.Group("/dashboard")
	dashboard.Use(AuthMiddleware(cfg.Verifier, cfg.AccessCookie, cfg.Logger))
	{
		dashboard.GET("", cfg.Dashboard.GetDashboard)
		dashboard.PUT("/profile/:section", cfg.Dashboard.UpdateSection)
		dashboard.GET("/username/check", cfg.Dashboard.CheckUsername)
		dashboard.PUT("/username", cfg.Dashboard.Rename)
		dashboard.GET("/views", cfg.Dashboard.CountViews)
	}

	r.GET("/:locale", cfg.Public.Landing)
	r.GET("/:locale/:username", Visitor(cfg.Visitor), cfg.Public.ShowProfile)
	r.NoRoute(cfg.Public.NotFound)

	return r
}
