// Package errors provides the application error taxonomy.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error.
type ErrorCode string

// Predefined error codes.
const (
	// Generic (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// Authentication / authorization (2xxx)
	CodeTokenExpired     ErrorCode = "2001"
	CodeTokenInvalid     ErrorCode = "2002"
	CodeTokenMissing     ErrorCode = "2003"
	CodePermissionDenied ErrorCode = "2004"

	// Resources (3xxx)
	CodeCaseNotFound         ErrorCode = "3001"
	CodeSessionNotFound      ErrorCode = "3002"
	CodeConversationNotFound ErrorCode = "3003"

	// Business (4xxx)
	CodeValidationFailed ErrorCode = "4001"
	CodeSessionCompleted ErrorCode = "4002"
	CodeLLMCallFailed    ErrorCode = "4003"

	// External services (5xxx)
	CodeDatabaseError ErrorCode = "5001"
	CodeCacheError    ErrorCode = "5002"
	CodeAuditError    ErrorCode = "5003"
)

// AppError carries a code, a user-facing message and the underlying cause.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a human-readable detail.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError attaches the underlying cause.
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus maps an error code to an HTTP status.
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound, CodeCaseNotFound, CodeSessionNotFound, CodeConversationNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSessionCompleted:
		return http.StatusConflict
	case CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeLLMCallFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors.
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized    = New(CodeUnauthorized, "unauthorized")
	ErrForbidden       = New(CodeForbidden, "forbidden")
	ErrNotFound        = New(CodeNotFound, "resource not found")
	ErrConflict        = New(CodeConflict, "resource conflict")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
	ErrInternalError   = New(CodeInternalError, "internal server error")

	ErrTokenExpired     = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid     = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing     = New(CodeTokenMissing, "token missing")
	ErrPermissionDenied = New(CodePermissionDenied, "case permission denied")

	ErrCaseNotFound         = New(CodeCaseNotFound, "case not found")
	ErrSessionNotFound      = New(CodeSessionNotFound, "drafting session not found")
	ErrConversationNotFound = New(CodeConversationNotFound, "conversation not found")

	ErrValidationFailed = New(CodeValidationFailed, "message batch validation failed")
	ErrSessionCompleted = New(CodeSessionCompleted, "drafting session already completed")
	ErrLLMCallFailed    = New(CodeLLMCallFailed, "LLM call failed")

	ErrDatabase = New(CodeDatabaseError, "database error")
)

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError, wrapping unknown errors.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
