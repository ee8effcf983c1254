package v1

import (
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// @title Session Gateway API
// @version 1.0
// @description Refresh-token sessions of the gateway service

// @BasePath /

// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey InternalAuth
// @in header
// @name X-Internal-Token

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandler(
	services *service.Services,
	config *config.Config,
) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// Init registers the public routes under api.
func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initAuthRoutes(v1)
}

// InitInternal registers the service-to-service routes under internal.
func (h *Handler) InitInternal(internal *gin.RouterGroup) {
	v1 := internal.Group("v1", h.internalTokenMiddleware)

	h.initSessionsRoutes(v1)
}
