package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fenan-yosef/hrms-backend/internal/auth"
	autherrors "github.com/fenan-yosef/hrms-backend/internal/auth/errors"
	authMock "github.com/fenan-yosef/hrms-backend/internal/auth/mock"
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("success sets token cookies", func(t *testing.T) {
		reqBody := auth.LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		}
		body, _ := json.Marshal(reqBody)

		pair := auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}
		profile := auth.AuthResponse{
			ID:    "user-1",
			Email: "test@example.com",
			Role:  "employee",
		}

		mockService.EXPECT().
			Login(gomock.Any(), reqBody.Email, reqBody.Password, gomock.Any()).
			Return(pair, profile, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		data := res["data"].(map[string]interface{})
		assert.Equal(t, "test@example.com", data["user"].(map[string]interface{})["email"])
		assert.Equal(t, "access-token", data["access_token"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.TokenPair{}, auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		body, _ := json.Marshal(auth.LoginRequest{Email: "wrong@test.com", Password: "123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing email rejected before the service is called", func(t *testing.T) {
		body, _ := json.Marshal(auth.LoginRequest{Password: "password123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/refresh", handler.Refresh)

	t.Run("falls back to refresh cookie", func(t *testing.T) {
		pair := auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
		mockService.EXPECT().
			Refresh(gomock.Any(), "cookie-refresh").
			Return(pair, auth.AuthResponse{ID: "user-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no token anywhere", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		mockService.EXPECT().
			Refresh(gomock.Any(), "stale").
			Return(auth.TokenPair{}, auth.AuthResponse{}, autherrors.ErrInvalidRefreshToken)

		body, _ := json.Marshal(auth.RefreshRequest{RefreshToken: "stale"})
		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.GET("/me", func(c *gin.Context) {
		c.Set(middleware.CtxActorID, "user-1")
	}, handler.Me)

	mockService.EXPECT().
		GetMe(gomock.Any(), "user-1").
		Return(auth.AuthResponse{ID: "user-1", Email: "me@example.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "me@example.com", res["data"].(map[string]interface{})["email"])
}

func TestHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := auth.NewHandler(authMock.NewMockService(ctrl))
	router := setupAuthRouter()
	router.POST("/logout", handler.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		assert.Equal(t, -1, cookie.MaxAge)
	}
}
