package leaveerrors

import (
	"net/http"

	"hrcore/internal/shared/apperror"
)

var (
	ErrInvalidLeaveTypeID = apperror.New(apperror.CodeInvalidInput, "invalid leave type id", http.StatusBadRequest)
	ErrInvalidRequestID   = apperror.New(apperror.CodeInvalidInput, "invalid leave request id", http.StatusBadRequest)
	ErrInvalidDateRange   = apperror.New(apperror.CodeInvalidInput, "resumption date must be after start date", http.StatusBadRequest)
	ErrDurationMismatch   = apperror.New(apperror.CodeInvalidInput, "duration does not match the supplied date range", http.StatusBadRequest)
	ErrReasonRequired     = apperror.New(apperror.CodeInvalidInput, "a reason is required when rejecting a request", http.StatusBadRequest)

	ErrLeaveTypeNotFound = apperror.New(apperror.CodeNotFound, "leave type not found", http.StatusNotFound)
	ErrLeaveTypeExists   = apperror.New(apperror.CodeConflict, "a leave type with this name already exists for this level", http.StatusConflict)
	ErrRequestNotFound   = apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)
	ErrBalanceNotFound   = apperror.New(apperror.CodeNotFound, "leave balance not found", http.StatusNotFound)

	ErrNoLineManager       = apperror.New(apperror.CodeInvalidInput, "employee has no line manager assigned", http.StatusUnprocessableEntity)
	ErrOverlappingRequest  = apperror.New(apperror.CodeConflict, "an open leave request already covers part of this period", http.StatusConflict)
	ErrInsufficientBalance = apperror.New(apperror.CodeInsufficientBalance, "insufficient leave balance", http.StatusUnprocessableEntity)

	ErrInvalidStatusTransition = apperror.New(apperror.CodeInvalidState, "leave request is not pending", http.StatusConflict)
	ErrInvalidTargetStatus     = apperror.New(apperror.CodeInvalidInput, "status must be APPROVED or REJECTED", http.StatusBadRequest)
	ErrNotRequestManager       = apperror.New(apperror.CodeForbidden, "only the line manager or an admin may act on this request", http.StatusForbidden)
)
