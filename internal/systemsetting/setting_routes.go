package systemsetting

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMW gin.HandlerFunc,
) {
	settings := r.Group("/settings")
	settings.Use(authMW)
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceSetting, rbac.ActionRead), handler.List)
		settings.GET("/:key", middleware.RBACAuthorize(rbacService, rbac.ResourceSetting, rbac.ActionRead), handler.GetByKey)
		settings.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceSetting, rbac.ActionCreate), handler.Create)
		settings.PUT("/:key", middleware.RBACAuthorize(rbacService, rbac.ResourceSetting, rbac.ActionUpdate), handler.Upsert)
		settings.DELETE("/:key", middleware.RBACAuthorize(rbacService, rbac.ResourceSetting, rbac.ActionDelete), handler.Delete)
	}
}
