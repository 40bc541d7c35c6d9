package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"assistant/internal/domain"
	"assistant/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Faults are logged
// with detail and answered with a generic message.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case domain.IsContractViolation(err):
		logger.Error("contract violation",
			"error", err,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"field": conflictErr.Field,
		})
	case errors.Is(err, domain.ErrNoData):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		httputil.RespondError(w, http.StatusTooManyRequests, "too many generation requests, try again later")
	case errors.Is(err, domain.ErrUpstream):
		logger.Error("upstream failure",
			"error", err,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusBadGateway, "language model request failed")
	default:
		logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam reads a required path value, answering 400 when it is missing
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// parseBody decodes the JSON body, answering 400 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
