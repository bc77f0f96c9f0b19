package leave

import (
	"hrcore/internal/middleware"
	"hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		types := leaves.Group("/types")
		{
			types.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetTypes)
			types.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.AddType)
			types.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.UpdateType)
			types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.DeleteType)
		}

		leaves.GET("/balances", handler.GetBalances)
		leaves.GET("/balances/:employeeId", middleware.RBACAuthorize(rbacService, "leave", "manage"), handler.GetBalances)

		requests := leaves.Group("/requests")
		{
			requests.POST("", middleware.Idempotency(rdb), handler.Request)
			requests.GET("", handler.GetAll)
			requests.GET("/:id", handler.GetById)
			requests.PATCH("/:id/status", handler.Transition)
			requests.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "manage"), handler.Delete)
		}
	}
}
