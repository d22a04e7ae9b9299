package apperror

import "net/http"

// Kind classifies an error so callers can react without matching on message text.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission"
	KindStaleState Kind = "stale_state"
	KindDependency Kind = "dependency"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// AppError is a custom error type that carries an error kind and an HTTP status code.
type AppError struct {
	Kind    Kind
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind, status code and message.
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 validation error.
func Validation(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message)
}

// Conflict builds a 409 conflict error.
func Conflict(message string) *AppError {
	return New(KindConflict, http.StatusConflict, message)
}

// Permission builds a 403 permission error.
func Permission(message string) *AppError {
	return New(KindPermission, http.StatusForbidden, message)
}

// StaleState builds a 409 stale-state error for lost transition races.
func StaleState(message string) *AppError {
	return New(KindStaleState, http.StatusConflict, message)
}

// Dependency builds a 502 dependency error wrapping the collaborator failure.
func Dependency(message string, err error) *AppError {
	return Wrap(err, KindDependency, http.StatusBadGateway, message)
}

// NotFound builds a 404 error.
func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message)
}
