package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
	auth.POST("/logout-all", h.userIdentityMiddleware, h.logoutAll)
	auth.GET("/verify", h.userIdentityMiddleware, h.verify)
}

type refreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required,notblank"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

type verifyResponse struct {
	Subject   string `json:"subject"`
	SessionID string `json:"session_id"`
}

// @Summary Refresh access token
// @Tags Auth
// @Description Issues a new access token for the session holding the refresh token
// @ModuleID refresh
// @Accept  json
// @Produce  json
// @Param input body refreshTokenInput true "refresh token"
// @Success 200 {object} accessTokenResponse
// @Failure 400 {object} ErrorStruct
// @Failure 401 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Router /api/v1/auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var input refreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Sessions.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, accessTokenResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int64(tokens.AccessTTL.Seconds()),
	})
}

// @Summary Logout
// @Tags Auth
// @Description Deletes the session holding the refresh token
// @ModuleID logout
// @Accept  json
// @Param input body refreshTokenInput true "refresh token"
// @Success 204
// @Failure 400 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Router /api/v1/auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input refreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Sessions.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Logout from all devices
// @Tags Auth
// @Description Deletes every session of the authenticated account
// @ModuleID logoutAll
// @Produce  json
// @Success 200 {object} deletedResponse
// @Failure 401 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Security UserAuth
// @Router /api/v1/auth/logout-all [post]
func (h *Handler) logoutAll(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		errorResponse(c, UnauthorizedCode)
		return
	}

	deleted, err := h.services.Sessions.LogoutAll(c.Request.Context(), claims.Subject)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, deletedResponse{Deleted: deleted})
}

// @Summary Verify access token
// @Tags Auth
// @Description Returns the subject of a valid access token
// @ModuleID verify
// @Produce  json
// @Success 200 {object} verifyResponse
// @Failure 401 {object} ErrorStruct
// @Security UserAuth
// @Router /api/v1/auth/verify [get]
func (h *Handler) verify(c *gin.Context) {
	claims, err := h.getClaims(c)
	if err != nil {
		errorResponse(c, UnauthorizedCode)
		return
	}

	c.JSON(http.StatusOK, verifyResponse{
		Subject:   claims.Subject,
		SessionID: claims.SessionID,
	})
}
