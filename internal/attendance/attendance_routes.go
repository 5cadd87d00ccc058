package attendance

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
	att := r.Group("/attendance")
	att.Use(authMW)
	{
		att.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), handler.GetAll)
		att.POST("/check-in", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCreate), handler.CheckIn)
		att.POST("/check-out", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCreate), handler.CheckOut)
		att.GET("/today", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), handler.Today)
		att.GET("/monthly-summary", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), handler.MonthlySummary)
		att.POST("/reset-today", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionReset), handler.ResetToday)
		att.GET("/export", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionExport), handler.Export)
	}
}
