package analytics

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, authMW gin.HandlerFunc) {
	analytics := r.Group("/analytics")
	analytics.Use(authMW)
	{
		analytics.GET("/dashboard", middleware.RBACAuthorize(rbacService, rbac.ResourceAnalytics, rbac.ActionRead), handler.Dashboard)
	}
}
