package apperrors

import (
	"fmt"
	"net/http"
)

// Factories and predefined variables for common domain errors.

const fallbackMessage = "Oops... something went wrong!"

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and the
// like) into a 404 AppError.
func ErrNotFound(err error, message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return Wrap(err, CodeNotFound, "resource", message, http.StatusNotFound)
}

// ErrAlreadyExists converts a duplicate-resource failure into a 409.
func ErrAlreadyExists(err error, message string) *AppError {
	if message == "" {
		message = "Resource already exists"
	}
	return Wrap(err, CodeAlreadyExists, "resource", message, http.StatusConflict)
}

// BadRequest translates any non-domain failure into the uniform
// client-error response. The original message is kept when present so
// clients (and tests) can rely on the fallback copy otherwise.
func BadRequest(err error) *AppError {
	message := fallbackMessage
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return Wrap(err, CodeInvalidOperation, "request", message, http.StatusBadRequest)
}

// QuotaExceeded reports that the daily message budget is spent. The limit
// is carried both in the message and in Details for machine consumption.
func QuotaExceeded(limit int) *AppError {
	return New(
		CodeLimitExceeded,
		"quota",
		fmt.Sprintf("Daily message limit of %d reached. Upgrade your plan to continue chatting!", limit),
		http.StatusForbidden,
	).WithDetails(map[string]int{"limit": limit})
}

// UpstreamError reports a collaborator failure (completion service, object
// storage, mail). Never retried by the caller.
func UpstreamError(err error, collaborator string) *AppError {
	return Wrap(
		err,
		CodeExternalServiceError,
		collaborator,
		fmt.Sprintf("Upstream %s request failed", collaborator),
		http.StatusBadGateway,
	)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserBlocked = New(
	CodeForbidden,
	"auth",
	"Your account has been blocked",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrSignInAgain is raised when the acting user cannot be resolved.
var ErrSignInAgain = New(
	CodeUnauthorized,
	"auth",
	"Invalid credentials, please sign-in again!",
	http.StatusUnauthorized,
)

var ErrInsufficientRole = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
