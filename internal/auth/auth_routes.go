package auth

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(1, 5), handler.Refresh)
		auth.GET("/me", authMW, middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/change-password", authMW, middleware.RateLimitByUser(0.5, 3), handler.ChangePassword)
		auth.POST("/logout", authMW, handler.Logout)
	}
}
