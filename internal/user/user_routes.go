package user

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
	users := r.Group("/users")
	users.Use(authMW)
	{
		users.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead), handler.GetById)
		users.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionCreate), handler.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionDelete), handler.Delete)
		users.POST("/:id/restore", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRestore), handler.Restore)
		users.POST("/:id/promote", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionPromote), handler.Promote)
		users.POST("/:id/demote", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionPromote), handler.Demote)
		users.POST("/:id/disable", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Disable)
		users.POST("/:id/enable", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Enable)
	}
}
