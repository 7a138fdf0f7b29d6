package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/service"
	profileUC "github.com/khoahotran/folio/internal/application/usecase/profile"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type DashboardHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	images         service.ImageResolver
	logger         logger.Logger
}

func NewDashboardHandler(uc *profileUC.ProfileUseCase, images service.ImageResolver, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		profileUseCase: uc,
		images:         images,
		logger:         log,
	}
}

// GetDashboard returns the caller's profile, creating it on first visit.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	session, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("session not found in context"))
		return
	}

	output, err := h.profileUseCase.ExecuteEnsureProfile(c.Request.Context(), profileUC.EnsureProfileInput{
		UserID: session.UserID,
		Email:  session.Email,
	})
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	c.JSON(status, DashboardDTO{
		Profile:   ToProfileDTO(output.Profile, h.images),
		Created:   output.Created,
		ViewCount: output.ViewCount,
	})
}

func (h *DashboardHandler) UpdateSection(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("session not found in context"))
		return
	}

	section, ok := profile.ParseSection(c.Param("section"))
	if !ok {
		c.Error(apperror.NewInvalidInput("unknown profile section '"+c.Param("section")+"'", profile.ErrUnknownSection))
		return
	}

	var req UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for section update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateSection(c.Request.Context(), profileUC.UpdateSectionInput{
		UserID:  userID,
		Section: section,
		Data:    req.ToDomainProfile(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, h.images))
}

func (h *DashboardHandler) CheckUsername(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("session not found in context"))
		return
	}

	username := c.Query("username")
	if username == "" {
		c.Error(apperror.NewInvalidInput("query parameter 'username' is required", nil))
		return
	}

	output, err := h.profileUseCase.ExecuteCheckUsername(c.Request.Context(), profileUC.CheckUsernameInput{
		UserID:   userID,
		Username: username,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, UsernameCheckDTO{
		Username:  output.Username,
		Available: output.Available,
		Reason:    output.Reason,
	})
}

func (h *DashboardHandler) Rename(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("session not found in context"))
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for rename", err))
		return
	}

	output, err := h.profileUseCase.ExecuteRename(c.Request.Context(), profileUC.RenameInput{
		UserID:   userID,
		Username: req.Username,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, h.images))
}

func (h *DashboardHandler) CountViews(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("session not found in context"))
		return
	}

	count, err := h.profileUseCase.ExecuteCountViews(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view_count": count})
}
