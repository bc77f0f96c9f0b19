package level

import (
	"hrcore/internal/middleware"
	"hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	levels := r.Group("/levels")
	levels.Use(middleware.AuthMiddleware())
	{
		levels.GET("", middleware.RBACAuthorize(rbacService, "level", "read"), handler.GetAll)
		levels.GET("/:id", middleware.RBACAuthorize(rbacService, "level", "read"), handler.GetById)
		levels.POST("", middleware.RBACAuthorize(rbacService, "level", "manage"), handler.Create)
		levels.PUT("/:id", middleware.RBACAuthorize(rbacService, "level", "manage"), handler.Update)
		levels.DELETE("/:id", middleware.RBACAuthorize(rbacService, "level", "manage"), handler.Delete)
	}
}
