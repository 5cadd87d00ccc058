package task

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, authMW gin.HandlerFunc) {
	tasks := r.Group("/tasks")
	tasks.Use(authMW)
	{
		tasks.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionRead), handler.GetAll)
		tasks.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionCreate), handler.Create)
		tasks.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionRead), handler.GetByID)
		tasks.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionUpdate), handler.Update)
		tasks.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionDelete), handler.Delete)

		tasks.POST("/:id/assign", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionAssign), handler.Assign)
		tasks.POST("/:id/unassign", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionAssign), handler.Unassign)
		tasks.POST("/:id/mark-done", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionUpdate), handler.MarkDone)
		tasks.GET("/:id/assignments", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionRead), handler.GetAssignments)

		tasks.GET("/:id/comments", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionRead), handler.GetComments)
		tasks.POST("/:id/comments", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionUpdate), handler.AddComment)
		tasks.DELETE("/:id/comments/:commentId", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionDelete), handler.DeleteComment)

		tasks.GET("/:id/attachments", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionRead), handler.GetAttachments)
		tasks.POST("/:id/attachments", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionUpdate), handler.AddAttachment)
		tasks.DELETE("/:id/attachments/:attachmentId", middleware.RBACAuthorize(rbacService, rbac.ResourceTask, rbac.ActionDelete), handler.DeleteAttachment)
	}
}
