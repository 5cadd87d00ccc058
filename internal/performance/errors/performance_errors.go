package performanceerrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrReviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"performance review not found",
		http.StatusNotFound,
	)
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"review cycle not found",
		http.StatusNotFound,
	)
	ErrCompetencyNotFound = apperror.New(
		apperror.CodeNotFound,
		"competency not found",
		http.StatusNotFound,
	)
	ErrInvalidReviewID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrReviewExists = apperror.New(
		apperror.CodeInvalidInput,
		"a review for this employee already exists in the cycle",
		http.StatusBadRequest,
	)
	ErrCycleNameTaken = apperror.New(
		apperror.CodeInvalidInput,
		"review cycle with this name already exists",
		http.StatusBadRequest,
	)
	ErrCompetencyCodeTaken = apperror.New(
		apperror.CodeInvalidInput,
		"competency with this code already exists",
		http.StatusBadRequest,
	)
	ErrReviewFinalized = apperror.New(
		apperror.CodeInvalidState,
		"review is finalized and can no longer be modified",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid review status transition",
		http.StatusBadRequest,
	)
	ErrNoScores = apperror.New(
		apperror.CodeInvalidState,
		"cannot finalize a review without competency scores",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrForbiddenScope = apperror.New(
		apperror.CodeForbidden,
		"not allowed to access this review",
		http.StatusForbidden,
	)
)
