package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/lazyacme/core/lifecycle"
)

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("api: missing dependency")

// HTTPError is a structured error response.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithError returns a copy of the error carrying err as its cause.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

var (
	ErrBadRequest = HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: http.StatusText(http.StatusBadRequest),
	}

	ErrNotFound = HTTPError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: http.StatusText(http.StatusNotFound),
	}

	ErrConflict = HTTPError{
		Status:  http.StatusConflict,
		Code:    "conflict",
		Message: http.StatusText(http.StatusConflict),
	}

	ErrInternalServerError = HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}

	ErrServiceUnavailable = HTTPError{
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: http.StatusText(http.StatusServiceUnavailable),
	}
)

// submitError maps admission errors from the lifecycle manager onto
// HTTP errors.
func submitError(err error) HTTPError {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidRequest):
		return ErrBadRequest.WithMessage("Both domain and dns must be provided.")
	case errors.Is(err, lifecycle.ErrAcquisitionInProgress):
		return ErrConflict.WithMessage("Certificate acquisition for this domain is already in progress.")
	case errors.Is(err, lifecycle.ErrAlreadyProvisioned):
		return ErrBadRequest.WithMessage("Certificate for this domain already exists.")
	case errors.Is(err, lifecycle.ErrBusy):
		return ErrServiceUnavailable.WithMessage("Another certificate acquisition is currently in progress. Please try again later.")
	case errors.Is(err, lifecycle.ErrProviderUnavailable):
		return ErrBadRequest.WithMessage("Specified DNS provider configuration not found.").WithError(err)
	default:
		return ErrInternalServerError.WithError(err)
	}
}

// toHTTPError converts any error to an HTTPError. Unknown errors become 500.
func toHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return ErrInternalServerError.WithError(err)
}
