package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/store-locator/internal/domain"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorBody writes an errorResponse.
func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps a service error onto its HTTP status. Anything that is not
// a known domain error is logged and reported as a 500 without details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		verr    *domain.ValidationError
		tooLong *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", verr.Field+" "+verr.Reason)
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.As(err, &tooLong):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrNotOwner):
		writeErrorBody(w, http.StatusForbidden, "forbidden", domain.ErrNotOwner.Error())
	case errors.Is(err, domain.ErrDuplicateSlug):
		writeErrorBody(w, http.StatusConflict, "conflict", "could not claim a unique slug, try again")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unauthorized rejects a write that arrived without an account identity.
func unauthorized(w http.ResponseWriter) {
	writeErrorBody(w, http.StatusUnauthorized, "unauthorized", "X-Account-ID header is required")
}
