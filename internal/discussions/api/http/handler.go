package discussionsHttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/gatewayclient"
	"github.com/team-divops/backend/pkg/limiter"
	"github.com/team-divops/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	unauthorizedCode    = 1005
	unauthorizedMessage = "missing or invalid access token"
	gatewayErrorCode    = 1008
	gatewayErrorMessage = "gateway unavailable"
)

// Verifier authenticates an access token against the gateway.
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (*gatewayclient.Identity, error)
}

type Handler struct {
	gateway Verifier
	config  *config.Discussions
}

func NewHandlers(gateway Verifier, cfg *config.Discussions) *Handler {
	return &Handler{
		gateway: gateway,
		config:  cfg,
	}
}

type errorStruct struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type meResponse struct {
	Subject   string `json:"subject"`
	SessionID string `json:"session_id"`
}

// Init builds the engine. Background work started here stops when ctx is done.
func (h *Handler) Init(ctx context.Context) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(ctx, h.config.Limiter.RPS, h.config.Limiter.Burst, h.config.Limiter.TTL),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/me", h.me)

	return router
}

func (h *Handler) me(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorStruct{unauthorizedCode, unauthorizedMessage})
		return
	}

	identity, err := h.gateway.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, gatewayclient.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorStruct{unauthorizedCode, unauthorizedMessage})
			return
		}
		logger.Error("gateway verify failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, errorStruct{gatewayErrorCode, gatewayErrorMessage})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		Subject:   identity.Subject,
		SessionID: identity.SessionID,
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
