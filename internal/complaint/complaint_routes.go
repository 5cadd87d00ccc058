package complaint

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, authMW gin.HandlerFunc) {
	complaints := r.Group("/complaints")
	complaints.Use(authMW)
	{
		complaints.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionRead), handler.GetAll)
		complaints.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionCreate), handler.Create)
		complaints.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionRead), handler.GetByID)
		complaints.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionUpdate), handler.Update)
		complaints.POST("/:id/set-status", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionSetStatus), handler.SetStatus)
		complaints.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceComplaint, rbac.ActionDelete), handler.Delete)
	}
}
