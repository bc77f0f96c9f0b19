package tenant

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
	tenants := r.Group("/tenant")
	tenants.Use(middleware.AuthMiddleware())
	{
		tenants.GET("/me", handler.GetMe)
		tenants.PUT("/me", middleware.RBACAuthorize(rbacService, "tenant", "manage"), handler.Update)
	}
}
