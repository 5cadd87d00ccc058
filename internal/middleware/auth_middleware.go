package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	autherrors "github.com/fenan-yosef/hrms-backend/internal/auth/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/shared/response"
)

// Gin context keys set by AuthMiddleware and read everywhere downstream.
const (
	CtxActorID      = "actor_id"
	CtxActorRole    = "actor_role"
	CtxDepartmentID = "department_id"
)

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}
		// Downstream code trusts the actor id to be a well-formed UUID.
		if _, err := uuid.Parse(userID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID in token is malformed", nil)
			c.Abort()
			return
		}

		roleClaim, _ := claims["role"].(string)
		role := domain.ParseRole(roleClaim)
		if !role.Valid() {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Role not found in token", nil)
			c.Abort()
			return
		}

		// Department is optional: CEO/HR/Admin may not belong to one.
		departmentID, _ := claims["department_id"].(string)

		c.Set(CtxActorID, userID)
		c.Set(CtxActorRole, role.String())
		c.Set(CtxDepartmentID, departmentID)

		c.Next()
	}
}
