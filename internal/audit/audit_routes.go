package audit

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
	logs := r.Group("/audit-logs")
	logs.Use(authMW)
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceAudit, rbac.ActionRead), handler.List)
	}
}
