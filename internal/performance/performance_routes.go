package performance

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
	cycles := r.Group("/review-cycles")
	cycles.Use(authMW)
	{
		cycles.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionRead), handler.GetCycles)
		cycles.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionCreate), handler.CreateCycle)
	}

	comps := r.Group("/competencies")
	comps.Use(authMW)
	{
		comps.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionRead), handler.GetCompetencies)
		comps.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionCreate), handler.CreateCompetency)
	}

	reviews := r.Group("/reviews")
	reviews.Use(authMW)
	{
		reviews.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionRead), handler.GetReviews)
		reviews.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionCreate), handler.CreateReview)
		reviews.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionRead), handler.GetReviewById)
		reviews.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionUpdate), handler.UpdateReview)
		reviews.POST("/:id/status", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionUpdate), handler.SetStatus)
		reviews.PUT("/:id/scores", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionUpdate), handler.UpsertScore)
		reviews.POST("/:id/finalize", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionFinalize), handler.Finalize)
		reviews.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionDelete), handler.DeleteReview)
		reviews.GET("/:id/snapshots", middleware.RBACAuthorize(rbacService, rbac.ResourcePerformance, rbac.ActionRead), handler.GetSnapshots)
	}
}
