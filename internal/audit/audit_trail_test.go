package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTrailRouter(repo *fakeAuditRepo, mode string, actorID string) (*gin.Engine, *Recorder) {
	gin.SetMode(gin.TestMode)
	rec := NewRecorder(repo, 8, zap.NewNop())

	r := gin.New()
	if actorID != "" {
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxActorID, actorID) })
	}
	r.Use(Trail(rec, mode))

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/v1/complaints", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/api/v1/complaints/:id/set-status", ok)
	r.POST("/api/v1/tasks", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/api/v1/users", ok)

	return r, rec
}

func perform(r *gin.Engine, method, path string) {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
}

func TestTrailRecordsImportantActions(t *testing.T) {
	repo := &fakeAuditRepo{}
	actorID := uuid.New()
	r, rec := setupTrailRouter(repo, ModeImportant, actorID.String())

	perform(r, http.MethodPost, "/api/v1/complaints")
	perform(r, http.MethodPost, "/api/v1/complaints/"+uuid.NewString()+"/set-status")
	perform(r, http.MethodPost, "/api/v1/tasks")
	perform(r, http.MethodGet, "/api/v1/users")
	rec.Close()

	require.Equal(t, 2, repo.count())
	assert.Equal(t, "complaint_created", repo.created[0].Action)
	assert.Equal(t, "task_created", repo.created[1].Action)
	require.NotNil(t, repo.created[0].ActorID)
	assert.Equal(t, actorID, *repo.created[0].ActorID)
}

func TestTrailStatusChangeNotRecordedAsCreate(t *testing.T) {
	repo := &fakeAuditRepo{}
	r, rec := setupTrailRouter(repo, ModeAll, "")

	perform(r, http.MethodPost, "/api/v1/complaints/"+uuid.NewString()+"/set-status")
	rec.Close()

	require.Equal(t, 1, repo.count())
	assert.Equal(t, ActionAPICall, repo.created[0].Action)
}

func TestTrailModeOffRecordsNothing(t *testing.T) {
	repo := &fakeAuditRepo{}
	r, rec := setupTrailRouter(repo, ModeOff, "")

	perform(r, http.MethodPost, "/api/v1/complaints")
	rec.Close()

	assert.Equal(t, 0, repo.count())
}
