package rbac

import (
	"hrcore/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	roles := r.Group("/roles")
	roles.Use(middleware.AuthMiddleware())
	roles.Use(middleware.RoleMiddleware(middleware.RoleTenantAdmin, middleware.RoleSuperAdmin))
	{
		roles.GET("", handler.ListRoles)
		roles.POST("", handler.CreateRole)
		roles.PUT("/:id", handler.UpdateRole)
		roles.DELETE("/:id", handler.DeleteRole)
		roles.POST("/:id/assign/:employeeId", handler.AssignRole)
		roles.GET("/permissions", handler.ListPermissions)
	}

	r.POST("/rbac/enforce", handler.Enforce)
}
