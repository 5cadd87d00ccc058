package reporterrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrReportNotFound = apperror.New(
		apperror.CodeNotFound,
		"report not found",
		http.StatusNotFound,
	)
	ErrInvalidReportID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid report id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid report year",
		http.StatusBadRequest,
	)
	ErrReportNotReady = apperror.New(
		apperror.CodeInvalidState,
		"report is not ready yet",
		http.StatusConflict,
	)
)
