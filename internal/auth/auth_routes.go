package auth

import (
	"time"

	"hrcore/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitByIP(rate.Every(time.Minute/5), 5), handler.RegisterTenant)
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Every(time.Second), 10), handler.Login)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/users", middleware.RoleMiddleware(middleware.RoleTenantAdmin, middleware.RoleSuperAdmin), handler.RegisterEmployeeUser)
			protected.POST("/refresh", handler.Refresh)
			protected.GET("/me", handler.GetMe)
		}
	}
}
