package audit

import (
	"encoding/json"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Trail records request outcomes through the recorder. The verbosity
// mode decides which requests are kept; recording itself is asynchronous
// and never fails the request.
func Trail(recorder *Recorder, mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mode == ModeOff {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		method := c.Request.Method
		path := c.Request.URL.Path

		action := ClassifyAction(method, path, status)
		if !ShouldLog(mode, action, status) {
			return
		}
		if action == "" {
			action = ActionAPICall
		}

		entry := AuditLog{
			Action:     action,
			Summary:    method + " " + path,
			Method:     method,
			Path:       path,
			StatusCode: status,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Extra:      json.RawMessage(`{}`),
			CreatedAt:  time.Now().UTC(),
		}
		if actorID := c.GetString(middleware.CtxActorID); actorID != "" {
			if id, err := uuid.Parse(actorID); err == nil {
				entry.ActorID = &id
			}
		}
		if rid := c.GetString("request_id"); rid != "" {
			extra, err := json.Marshal(map[string]string{"request_id": rid})
			if err == nil {
				entry.Extra = extra
			}
		}

		recorder.Record(entry)
	}
}
