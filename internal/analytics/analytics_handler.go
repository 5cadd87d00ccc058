package analytics

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("analytics.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor := rbac.Actor{
		ID:           c.GetString(middleware.CtxActorID),
		Role:         domain.ParseRole(c.GetString(middleware.CtxActorRole)),
		DepartmentID: c.GetString(middleware.CtxDepartmentID),
	}

	resp, err := h.service.Dashboard(c.Request.Context(), actor)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("dashboard request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
