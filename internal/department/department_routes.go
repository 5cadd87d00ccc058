package department

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
	departments := r.Group("/departments")
	departments.Use(authMW)
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionRead), handler.GetAll)
		departments.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionRead), handler.GetById)
		departments.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionCreate), handler.Create)
		departments.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionUpdate), handler.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionDelete), handler.Delete)
		departments.POST("/:id/restore", middleware.RBACAuthorize(rbacService, rbac.ResourceDepartment, rbac.ActionCreate), handler.Restore)
	}
}
