package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/hrcore/internal/app"
	"github.com/ogurasousui/hrcore/internal/platform/config"
	"github.com/ogurasousui/hrcore/internal/platform/logging"
	"github.com/ogurasousui/hrcore/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.EffectivePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("failed to close application", zap.Error(err))
		}
	}()

	if err := application.Structure.Load(ctx); err != nil {
		logger.Warn("reference data not loaded at startup, retrying on first use", zap.Error(err))
	}

	grpcServer := server.New(cfg.Server.ListenAddr, application.Handler(), logger.Named("grpc"))
	if err := grpcServer.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
