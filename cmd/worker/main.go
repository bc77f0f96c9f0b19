package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hrcore/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if os.Getenv("APP_ENV") != "production" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx, logger); err != nil {
		logger.Fatal("outbox worker failed", zap.Error(err))
	}
}
