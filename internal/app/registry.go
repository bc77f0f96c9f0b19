package app

import (
	"database/sql"

	"hrcore/internal/auth"
	"hrcore/internal/employee"
	"hrcore/internal/leave"
	"hrcore/internal/level"
	"hrcore/internal/messaging/kafka"
	"hrcore/internal/rbac"
	"hrcore/internal/rbac/infra"
	"hrcore/internal/shared/counter"
	"hrcore/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	api *gin.RouterGroup,
	db *gorm.DB,
	sqlDB *sql.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	enforcer, err := infra.NewEnforcer(env("CASBIN_MODEL_PATH", "internal/rbac/infra/model.conf"))
	if err != nil {
		return err
	}

	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	rbacRepo := rbac.NewRepository(db)
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	rbac.RegisterRoutes(api, rbacHandler)

	tenantRepo := tenant.NewRepository(db)
	tenantService := tenant.NewService(tenantRepo)
	tenantHandler := tenant.NewHandler(tenantService, logger)
	tenant.RegisterRoutes(api, tenantHandler, rbacService)

	levelRepo := level.NewRepository(db)
	levelService := level.NewService(levelRepo, logger)
	levelHandler := level.NewHandler(levelService, logger)
	level.RegisterRoutes(api, levelHandler, rbacService)

	employeeRepo := employee.NewRepository(db)
	employeeService := employee.NewService(employeeRepo, counterRepo, levelRepo, tenantRepo, outboxRepo, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	employee.RegisterRoutes(api, employeeHandler, rbacService)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(sqlDB, authRepo, employeeRepo, tenantRepo, counterRepo, rbacService, logger)
	authHandler := auth.NewHandler(authService, logger)
	auth.RegisterRoutes(api, authHandler)

	leaveRepo := leave.NewRepository(db)
	leaveService := leave.NewService(sqlDB, leaveRepo, outboxRepo, logger)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)

	return nil
}
