package departmenterrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrCodeTaken = apperror.New(
		apperror.CodeInvalidInput,
		"department with this code already exists",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"manager user not found",
		http.StatusBadRequest,
	)
	ErrDepartmentNotDeleted = apperror.New(
		apperror.CodeInvalidState,
		"department is not deleted",
		http.StatusBadRequest,
	)
)
