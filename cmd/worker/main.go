package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/team-divops/backend/internal/app"
	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/queue/asynqserver"
	"github.com/team-divops/backend/internal/service"
	"github.com/team-divops/backend/internal/worker"
	emailProvider "github.com/team-divops/backend/pkg/email"
	"github.com/team-divops/backend/pkg/email/smtp"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to an env file, environment variables apply either way")
	flag.Parse()

	cfg := config.MustLoadWorker(*configPath)

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("starting worker", zap.String("env", cfg.Env))

	repos, closeStore, err := app.OpenRepositories(cfg)
	if err != nil {
		appLogger.Error("session store connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	var sender emailProvider.Sender
	if cfg.Email.Enabled {
		sender, err = smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			appLogger.Error("smtp sender creation failed", zap.Error(err))
			os.Exit(1)
		}
	}

	// the worker never issues tokens
	services := service.NewServices(service.Deps{
		Repos: repos,
	})
	workers := worker.NewWorkers(worker.Deps{
		Services:      services,
		EmailProvider: sender,
		Config:        cfg,
	})

	srv, mux := asynqserver.New(cfg, workers)
	if err := srv.Start(mux); err != nil {
		appLogger.Error("asynq server start failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("asynq server started", zap.Int("concurrency", cfg.Worker.Concurrency))

	scheduler, err := asynqserver.NewScheduler(cfg)
	if err != nil {
		appLogger.Error("asynq scheduler creation failed", zap.Error(err))
		srv.Shutdown()
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		appLogger.Error("asynq scheduler start failed", zap.Error(err))
		srv.Shutdown()
		os.Exit(1)
	}
	appLogger.Info("purge scheduler started", zap.String("cron", cfg.Worker.PurgeCron))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	scheduler.Shutdown()
	srv.Shutdown()

	appLogger.Info("worker stopped")
}
