package leaveerrors

import (
	"fmt"
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrOnBehalfNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"only HR can request leave on behalf of another employee",
		http.StatusForbidden,
	)
	ErrNotAnApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not an authorized approver for this request",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusBadRequest,
	)
	ErrTypeCodeTaken = apperror.New(
		apperror.CodeInvalidInput,
		"leave type with this code already exists",
		http.StatusBadRequest,
	)
	ErrLeaveNotDeleted = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not deleted",
		http.StatusBadRequest,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this leave request",
		http.StatusForbidden,
	)
)

// CapExceeded reports an annual-cap violation with the remaining allowance
// spelled out for the requester.
func CapExceeded(cap, remaining float64) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("annual leave cap of %g days exceeded, %g days remaining", cap, remaining),
		http.StatusBadRequest,
	).WithDetails(map[string]float64{
		"cap":       cap,
		"remaining": remaining,
	})
}
