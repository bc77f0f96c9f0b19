package employeeerrors

import (
	"net/http"

	"hrcore/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"line manager not found in this tenant",
		http.StatusNotFound,
	)
	ErrSelfManagement = apperror.New(
		apperror.CodeInvalidInput,
		"an employee cannot be their own line manager",
		http.StatusBadRequest,
	)
	ErrLevelNotFound = apperror.New(
		apperror.CodeNotFound,
		"level not found in this tenant",
		http.StatusNotFound,
	)
)
