package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/team-divops/backend/internal/config"
	discussionsHttp "github.com/team-divops/backend/internal/discussions/api/http"
	"github.com/team-divops/backend/internal/gatewayclient"
	"github.com/team-divops/backend/internal/server"
	"github.com/team-divops/backend/pkg/httpclient"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("discussions", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to an env file, environment variables apply either way")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadDiscussions(*configPath)
	if err != nil {
		return fmt.Errorf("cannot read config: %w", err)
	}

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("starting discussions service", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	// one client for every outbound call of the process
	httpClient := httpclient.New(cfg.HttpClient)
	defer httpClient.CloseIdleConnections()

	gateway := gatewayclient.New(cfg.GatewayBaseURL, httpClient)
	handlers := discussionsHttp.NewHandlers(gateway, cfg)

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	srv := server.NewServer(cfg.HttpServer, handlers.Init(appCtx))
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		appLogger.Error("error occurred while running http server", zap.Error(err))
		return fmt.Errorf("run http server: %w", err)
	case sig := <-quit:
		appLogger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("discussions service stopped")

	return nil
}
