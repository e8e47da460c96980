package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/lazyacme/core/logger"
)

// handlerFunc is an http handler that reports failures by returning them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// jsonWithStatus writes v as application/json with the given status.
func jsonWithStatus(w http.ResponseWriter, v any, status int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// jsonOK writes v with 200 OK.
func jsonOK(w http.ResponseWriter, v any) error {
	return jsonWithStatus(w, v, http.StatusOK)
}

// accepted is the body of 202 responses.
type accepted struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AttemptID string `json:"attempt_id,omitempty"`
}

// wrap adapts a handlerFunc, rendering returned errors as JSON.
func (a *API) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.Status >= http.StatusInternalServerError {
			a.logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
		}

		if rw, ok := w.(*responseWriter); ok && rw.Written() {
			return
		}
		_ = jsonWithStatus(w, httpErr, httpErr.Status)
	}
}
