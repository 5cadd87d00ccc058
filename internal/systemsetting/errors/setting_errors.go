package settingerrors

import (
	"net/http"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
)

var (
	ErrSettingNotFound = apperror.New(
		apperror.CodeNotFound,
		"setting not found",
		http.StatusNotFound,
	)
	ErrUnknownKey = apperror.New(
		apperror.CodeInvalidInput,
		"unknown setting key",
		http.StatusBadRequest,
	)
	ErrInvalidValue = apperror.New(
		apperror.CodeInvalidInput,
		"invalid setting value",
		http.StatusBadRequest,
	)
	ErrDuplicateKey = apperror.New(
		apperror.CodeInvalidInput,
		"setting with this key already exists",
		http.StatusBadRequest,
	)
)
