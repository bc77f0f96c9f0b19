package apperror

import "fmt"

// AppError is the single error shape that crosses layer boundaries.
// Services return these (directly or wrapped); handlers translate them
// to the transport envelope via ToHTTP.
type AppError struct {
	Code       string // stable machine-readable kind (e.g. INSUFFICIENT_BALANCE)
	Message    string // human-readable message
	HTTPStatus int
	Err        error // wrapped cause (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without a wrapped cause.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches an AppError classification to an existing error.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
