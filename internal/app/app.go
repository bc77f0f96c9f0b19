package app

import (
	"database/sql"
	"os"

	"hrcore/internal/bootstrap"
	"hrcore/internal/middleware"
	"hrcore/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func BuildApp(logger *zap.Logger) (*App, error) {
	db, err := connection.ConnectGORMWithRetry(
		env("DB_HOST", "localhost"),
		env("DB_USER", "postgres"),
		env("DB_PASSWORD", "postgres"),
		env("DB_NAME", "hrcore"),
		env("DB_PORT", "5432"),
		env("DB_SSLMODE", "disable"),
		connectRetries,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(env("REDIS_ADDR", "localhost:6379"), connectRetries)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		bootstrap.AuditMiddleware(bootstrap.NewStdoutAuditLogger(logger)),
	)

	api := router.Group("/api/v1")
	if err := registerModules(api, db, sqlDB, rdb, logger); err != nil {
		return nil, err
	}

	return &App{
		Router: router,
		DB:     db,
		SQLDB:  sqlDB,
		Redis:  rdb,
		Logger: logger,
	}, nil
}
