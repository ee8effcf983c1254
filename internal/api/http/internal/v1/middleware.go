package v1

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/team-divops/backend/internal/domain"
	"github.com/team-divops/backend/pkg/auth"
	"github.com/team-divops/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	internalTokenHeader = "X-Internal-Token"
	claimsCtx           = "claims"
)

func (h *Handler) userIdentityMiddleware(c *gin.Context) {
	claims, err := h.parseAuthHeader(c)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			serviceErrorResponse(c, err)
			return
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			logger.Debug("parse auth header failed", zap.Error(err))
		}
		errorResponse(c, UnauthorizedCode)
		return
	}

	c.Set(claimsCtx, claims)
}

func (h *Handler) parseAuthHeader(c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return nil, errors.New("empty auth header")
	}

	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return nil, errors.New("invalid auth header")
	}

	if len(headerParts[1]) == 0 {
		return nil, errors.New("token is empty")
	}

	return h.services.Sessions.Verify(c.Request.Context(), headerParts[1])
}

func (h *Handler) getClaims(c *gin.Context) (*auth.Claims, error) {
	value, ok := c.Get(claimsCtx)
	if !ok {
		return nil, errors.New("claims not found")
	}

	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil, errors.New("claims have unexpected type")
	}

	return claims, nil
}

func (h *Handler) internalTokenMiddleware(c *gin.Context) {
	token := c.GetHeader(internalTokenHeader)
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.config.InternalAPIToken)) != 1 {
		logger.Warn("internal token mismatch", zap.String("ip", c.ClientIP()))
		errorResponse(c, InvalidInternalTokenCode)
		return
	}

	c.Next()
}
