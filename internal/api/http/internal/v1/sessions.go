package v1

import (
	"net/http"
	"time"

	"github.com/team-divops/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) initSessionsRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")

	sessions.POST("", h.createSession)
	sessions.DELETE("", h.deleteSessionsByEmail)
}

type createSessionInput struct {
	Email     string `json:"email" binding:"required,notblank,email"`
	UserAgent string `json:"user_agent" binding:"max=512"`
	IP        string `json:"ip" binding:"omitempty,ip"`
}

type createSessionResponse struct {
	SessionID        string    `json:"session_id"`
	AccessToken      string    `json:"access_token"`
	ExpiresIn        int64     `json:"expires_in"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type deleteSessionsQuery struct {
	Email string `json:"email" form:"email" binding:"required,notblank"`
}

// @Summary Create session
// @Tags Sessions
// @Description Persists a session for an account authenticated by the caller
// @ModuleID createSession
// @Accept  json
// @Produce  json
// @Param input body createSessionInput true "session owner"
// @Success 201 {object} createSessionResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 403 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Security InternalAuth
// @Router /internal/v1/sessions [post]
func (h *Handler) createSession(c *gin.Context) {
	var input createSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	ip := input.IP
	if ip == "" {
		ip = c.ClientIP()
	}
	userAgent := input.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	tokens, err := h.services.Sessions.Create(c.Request.Context(), service.CreateSessionInput{
		Email:     input.Email,
		UserAgent: userAgent,
		IP:        ip,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, createSessionResponse{
		SessionID:        tokens.SessionID,
		AccessToken:      tokens.AccessToken,
		ExpiresIn:        int64(tokens.AccessTTL.Seconds()),
		RefreshToken:     tokens.RefreshToken,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
	})
}

// @Summary Delete sessions by email
// @Tags Sessions
// @Description Deletes every session of an account, e.g. on account deletion. Email matching is exact.
// @ModuleID deleteSessionsByEmail
// @Produce  json
// @Param email query string true "account email"
// @Success 200 {object} deletedResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 403 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Security InternalAuth
// @Router /internal/v1/sessions [delete]
func (h *Handler) deleteSessionsByEmail(c *gin.Context) {
	var query deleteSessionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		validationErrorResponse(c, err)
		return
	}

	deleted, err := h.services.Sessions.LogoutAll(c.Request.Context(), query.Email)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, deletedResponse{Deleted: deleted})
}
