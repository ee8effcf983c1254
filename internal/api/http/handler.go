package apiHttp

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/team-divops/backend/docs"
	"github.com/team-divops/backend/pkg/limiter"
	"github.com/team-divops/backend/pkg/logger"
	"github.com/team-divops/backend/pkg/validator"

	internalV1 "github.com/team-divops/backend/internal/api/http/internal/v1"
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   cfg,
	}
}

// Init builds the engine. Background work started here stops when ctx is done.
func (h *Handler) Init(ctx context.Context) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(ctx, h.config.Limiter.RPS, h.config.Limiter.Burst, h.config.Limiter.TTL),
		corsMiddleware(h.config.HttpServer.CORSOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if h.config.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName("internal")))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	handlersV1 := internalV1.NewHandler(h.services, h.config)

	api := router.Group("/api")
	handlersV1.Init(api)

	internal := router.Group("/internal")
	handlersV1.InitInternal(internal)
}
