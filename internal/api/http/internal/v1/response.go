package v1

import (
	"errors"
	"fmt"

	"github.com/team-divops/backend/internal/domain"
	"github.com/team-divops/backend/internal/service"
	"github.com/team-divops/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func errorResponse(c *gin.Context, code ErrorCode) {
	status, body := getErrorStruct(code)
	c.AbortWithStatusJSON(status, body)
}

// serviceErrorResponse maps service and store errors onto the error envelope.
func serviceErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		errorResponse(c, InvalidInputCode)
	case errors.Is(err, service.ErrSessionNotFound):
		errorResponse(c, SessionNotFoundCode)
	case errors.Is(err, service.ErrSessionExpired):
		errorResponse(c, SessionExpiredCode)
	case errors.Is(err, service.ErrSessionExists):
		errorResponse(c, SessionAlreadyExistsCode)
	case errors.Is(err, service.ErrInvalidAccessToken):
		errorResponse(c, UnauthorizedCode)
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.Error("session store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		errorResponse(c, SessionStoreUnavailableCode)
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		errorResponse(c, UnknownErrorCode)
	}
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		errorResponse(c, InvalidInputCode)
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
	}
	status, _ := getErrorStruct(InvalidInputCode)
	c.AbortWithStatusJSON(status, ValidationErrorStruct{
		ErrorCode:    ValidationErrorCode,
		ErrorMessage: ValidationErrorMessage,
		Errors:       out,
	})
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required", "notblank":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	}
	return tag
}
