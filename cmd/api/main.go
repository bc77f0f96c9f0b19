package main

import (
	"log"
	"os"

	"hrcore/internal/app"
	"hrcore/internal/bootstrap"
	"hrcore/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger := buildLogger()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	application, err := app.BuildApp(logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	addr := ":" + envOr("PORT", "8080")
	if err := bootstrap.StartHTTPServer(addr, application.Router, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func buildLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	return logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
