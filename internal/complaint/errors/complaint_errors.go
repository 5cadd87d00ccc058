package complainterrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrComplaintNotFound = apperror.New(
		apperror.CodeNotFound,
		"complaint not found",
		http.StatusNotFound,
	)
	ErrInvalidComplaintID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid complaint id",
		http.StatusBadRequest,
	)
	ErrInvalidTargetUser = apperror.New(
		apperror.CodeInvalidInput,
		"target user not found",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid complaint status",
		http.StatusBadRequest,
	)
	ErrCEOOnly = apperror.New(
		apperror.CodeForbidden,
		"this complaint is escalated to the CEO",
		http.StatusForbidden,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this complaint",
		http.StatusForbidden,
	)
)
