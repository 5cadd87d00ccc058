package autherrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrAccountDisabled = apperror.New(
		apperror.CodeForbidden,
		"account is disabled",
		http.StatusForbidden,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token expired",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid or expired refresh token",
		http.StatusUnauthorized,
	)
	ErrTooManyAttempts = apperror.New(
		apperror.CodeInvalidState,
		"too many failed login attempts, try again later",
		http.StatusTooManyRequests,
	)
	ErrWrongPassword = apperror.New(
		apperror.CodeUnauthorized,
		"current password is incorrect",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate token",
		http.StatusInternalServerError,
	)
)
