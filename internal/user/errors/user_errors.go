package usererrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeInvalidInput,
		"user with this email already exists",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrNotPromotable = apperror.New(
		apperror.CodeInvalidState,
		"role is not on the promotion ladder",
		http.StatusBadRequest,
	)
	ErrAlreadyTopRole = apperror.New(
		apperror.CodeInvalidState,
		"user already holds the highest role",
		http.StatusBadRequest,
	)
	ErrAlreadyBottomRole = apperror.New(
		apperror.CodeInvalidState,
		"user already holds the lowest role",
		http.StatusBadRequest,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this user",
		http.StatusForbidden,
	)
	ErrUserDeleted = apperror.New(
		apperror.CodeInvalidState,
		"user is deleted",
		http.StatusBadRequest,
	)
	ErrUserNotDeleted = apperror.New(
		apperror.CodeInvalidState,
		"user is not deleted",
		http.StatusBadRequest,
	)
)
