package taskerrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"task not found",
		http.StatusNotFound,
	)
	ErrCommentNotFound = apperror.New(
		apperror.CodeNotFound,
		"comment not found",
		http.StatusNotFound,
	)
	ErrAttachmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"attachment not found",
		http.StatusNotFound,
	)
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task id",
		http.StatusBadRequest,
	)
	ErrInvalidAssigneeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignee id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidDueDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid due date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrAlreadyAssigned = apperror.New(
		apperror.CodeInvalidState,
		"user is already assigned to this task",
		http.StatusBadRequest,
	)
	ErrNotAssigned = apperror.New(
		apperror.CodeInvalidState,
		"user is not assigned to this task",
		http.StatusBadRequest,
	)
	ErrTaskDone = apperror.New(
		apperror.CodeInvalidState,
		"task is already done",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task status",
		http.StatusBadRequest,
	)
	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task priority",
		http.StatusBadRequest,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this task",
		http.StatusForbidden,
	)
)
