package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"

	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/service"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its category. Unexpected errors are
// logged, reported to Sentry and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		writeMessage(w, status, err.Error())
		return
	}

	logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	writeMessage(w, status, "internal server error")
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeMessage(w, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// decode reads a JSON body into dst; it writes the 400 itself and reports false on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "invalid request body: %v", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		badRequest(w, "invalid %s %q", name, raw)
		return 0, false
	}
	return int32(id), true
}

func queryInt(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}

type page[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
