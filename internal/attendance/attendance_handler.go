package attendance

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFromContext(c *gin.Context) rbac.Actor {
	return rbac.Actor{
		ID:           c.GetString(middleware.CtxActorID),
		Role:         domain.ParseRole(c.GetString(middleware.CtxActorRole)),
		DepartmentID: c.GetString(middleware.CtxDepartmentID),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Today(c *gin.Context) {
	resp, err := h.service.Today(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	opts := ListOptions{
		Month:      c.Query("month"),
		EmployeeID: c.Query("employee_id"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), actorFromContext(c), opts)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlySummary(c *gin.Context) {
	resp, err := h.service.MonthlySummary(c.Request.Context(), actorFromContext(c), c.Query("month"), c.Query("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetToday(c *gin.Context) {
	deleted, err := h.service.ResetToday(c.Request.Context(), actorFromContext(c), c.Query("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

func (h *Handler) Export(c *gin.Context) {
	data, filename, err := h.service.ExportMonthlySummary(c.Request.Context(), actorFromContext(c), c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
