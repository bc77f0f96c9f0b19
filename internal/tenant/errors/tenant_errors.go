package tenanterrors

import (
	"net/http"

	"hrcore/internal/shared/apperror"
)

var (
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid tenant id",
		http.StatusBadRequest,
	)
	ErrTenantNotFound = apperror.New(
		apperror.CodeNotFound,
		"tenant not found",
		http.StatusNotFound,
	)
	ErrTenantNameTaken = apperror.New(
		apperror.CodeConflict,
		"a tenant with this name already exists",
		http.StatusConflict,
	)
	ErrTenantInactive = apperror.New(
		apperror.CodeForbidden,
		"tenant is deactivated",
		http.StatusForbidden,
	)
)
