package audit

import (
	"net/http"
	"strconv"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{repo: repo, logger: l}
}

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id,omitempty"`
	Action     string `json:"action"`
	Summary    string `json:"summary"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	IPAddress  string `json:"ip_address"`
	UserAgent  string `json:"user_agent"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(e AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         e.ID.String(),
		Action:     e.Action,
		Summary:    e.Summary,
		Method:     e.Method,
		Path:       e.Path,
		StatusCode: e.StatusCode,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if e.ActorID != nil {
		resp.ActorID = e.ActorID.String()
	}
	return resp
}

// List returns audit entries newest first, filtered by action, actor and
// path prefix.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	filter := ListFilter{
		Action:  c.Query("action"),
		ActorID: c.Query("actor_id"),
		Path:    c.Query("path"),
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}

	entries, total, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("list audit logs failed", zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	items := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toResponse(e))
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}
