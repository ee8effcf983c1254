package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/team-divops/backend/internal/api/http"
	"github.com/team-divops/backend/internal/app"
	"github.com/team-divops/backend/internal/cache"
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/queue/client"
	"github.com/team-divops/backend/internal/server"
	"github.com/team-divops/backend/internal/service"
	"github.com/team-divops/backend/pkg/auth"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to an env file, environment variables apply either way")
	flag.Parse()

	// Init cfg from environment variables
	cfg := config.MustLoad(*configPath)

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("starting gateway", zap.String("env", cfg.Env), zap.String("session_store", cfg.SessionStore))
	appLogger.Debug("debug messages are enabled")

	repos, closeStore, err := app.OpenRepositories(cfg)
	if err != nil {
		appLogger.Error("session store connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		os.Exit(1)
	}

	var notifier service.Notifier
	if cfg.Email.Enabled {
		queueClient := client.New(cache.AsynqRedisOptions(cfg.Cache))
		defer func() {
			if err := queueClient.Close(); err != nil {
				appLogger.Error("error when closing queue client", zap.Error(err))
			}
		}()
		notifier = queueClient
	}

	// Services, Repos & API Handlers
	services := service.NewServices(service.Deps{
		TokenManager: tokenManager,
		Repos:        repos,
		Notifier:     notifier,
	})
	handlers := apiHttp.NewHandlers(services, cfg)

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// HTTP Server
	srv := server.NewServer(cfg.HttpServer, handlers.Init(appCtx))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("gateway stopped")
}
