package report

import (
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMW gin.HandlerFunc,
	redisClient *redis.Client,
) {
	reports := r.Group("/reports")
	reports.Use(authMW)
	{
		// A retried request must not queue the same report twice.
		if redisClient != nil {
			reports.POST(
				"/leave-summary",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionCreate),
				handler.RequestLeaveSummary,
			)
		} else {
			reports.POST("/leave-summary", middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionCreate), handler.RequestLeaveSummary)
		}
		reports.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionRead), handler.GetByID)
		reports.GET("/:id/download", middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionRead), handler.Download)
	}
}
