package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/service"
	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	"github.com/khoahotran/folio/pkg/apperror"
)

const refreshCookieMaxAge = 30 * 24 * 60 * 60

type CookieConfig struct {
	AccessName  string
	RefreshName string
	Secure      bool
}

type AuthHandler struct {
	sessionUseCase *authUC.SessionUseCase
	cookies        CookieConfig
}

func NewAuthHandler(uc *authUC.SessionUseCase, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		sessionUseCase: uc,
		cookies:        cookies,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	output, err := h.sessionUseCase.ExecuteLogin(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookies(c, output.Session)
	c.JSON(http.StatusOK, toSessionDTO(output.Session))
}

// Refresh takes the refresh token from the body or the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid JSON body for refresh", err))
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(h.cookies.RefreshName)
	}

	output, err := h.sessionUseCase.ExecuteRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.clearSessionCookies(c)
		c.Error(err)
		return
	}

	h.setSessionCookies(c, output.Session)
	c.JSON(http.StatusOK, toSessionDTO(output.Session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token, _ = c.Cookie(h.cookies.AccessName)
	}

	h.sessionUseCase.ExecuteLogout(c.Request.Context(), token)
	h.clearSessionCookies(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, s *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookies.AccessName, s.AccessToken, s.ExpiresIn, "/", "", h.cookies.Secure, true)
	if s.RefreshToken != "" {
		c.SetCookie(h.cookies.RefreshName, s.RefreshToken, refreshCookieMaxAge, "/", "", h.cookies.Secure, true)
	}
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookies.AccessName, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(h.cookies.RefreshName, "", -1, "/", "", h.cookies.Secure, true)
}

func toSessionDTO(s *service.Session) SessionDTO {
	return SessionDTO{
		UserID:      s.UserID.String(),
		Email:       s.Email,
		AccessToken: s.AccessToken,
		ExpiresIn:   s.ExpiresIn,
	}
}
