package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenan-yosef/hrms-backend/internal/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": c.GetString(middleware.CtxActorID)})
	})
	return r
}

func performAuthed(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := setupAuthTestRouter()
	actorID := uuid.NewString()
	token := signToken(t, jwt.MapClaims{
		"user_id": actorID,
		"role":    "employee",
		"exp":     time.Now().Add(time.Minute).Unix(),
	})

	w := performAuthed(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, actorID, res["actor"])
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := setupAuthTestRouter()
	token := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "employee",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	w := performAuthed(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthMiddleware_MalformedUserIDClaim(t *testing.T) {
	r := setupAuthTestRouter()
	// Validly signed, but the subject is not a UUID. Must be rejected
	// here instead of panicking downstream.
	token := signToken(t, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"role":    "employee",
		"exp":     time.Now().Add(time.Minute).Unix(),
	})

	w := performAuthed(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := setupAuthTestRouter()

	w := performAuthed(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
