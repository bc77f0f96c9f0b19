package levelerrors

import (
	"net/http"

	"hrcore/internal/shared/apperror"
)

var (
	ErrLevelNotFound = apperror.New(
		apperror.CodeNotFound,
		"level not found",
		http.StatusNotFound,
	)
	ErrLevelNameTaken = apperror.New(
		apperror.CodeConflict,
		"a level with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidLevelID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid level id",
		http.StatusBadRequest,
	)
)
