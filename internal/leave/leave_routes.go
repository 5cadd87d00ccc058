package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(authMW)
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetAll)
		leaves.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate), handler.Create)
		leaves.GET("/balances", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetBalances)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetById)
		leaves.GET("/:id/approvers", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetApprovers)
		leaves.GET("/:id/approvals", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.ListApprovals)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove), handler.Approve)
		leaves.POST("/:id/deny", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove), handler.Deny)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionDelete), handler.Delete)
		leaves.POST("/:id/restore", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRestore), handler.Restore)
	}

	types := r.Group("/leave-types")
	types.Use(authMW)
	{
		types.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead), handler.GetTypes)
		types.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionCreate), handler.CreateType)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionUpdate), handler.UpdateType)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionDelete), handler.DeleteType)
	}
}
