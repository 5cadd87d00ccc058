package attendanceerrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"Already checked in.",
		http.StatusBadRequest,
	)
	ErrNotCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"no check-in recorded for today",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"Already checked out.",
		http.StatusBadRequest,
	)
	ErrNoAttendanceToday = apperror.New(
		apperror.CodeNotFound,
		"no attendance recorded for today",
		http.StatusNotFound,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this attendance data",
		http.StatusForbidden,
	)
)
