package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/middleware"
)

// pathUUID binds the UUID path parameter name.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a UUID")
	}
	return id, nil
}

// pathString binds and unescapes the string path parameter name.
func pathString(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", domain.NewValidationError(name, "is invalid")
	}
	return v, nil
}

// queryParam binds the form-style query parameter name into dest. Optional
// parameters use a pointer dest that stays nil when absent.
func queryParam(r *http.Request, name string, required bool, dest any) error {
	q := r.URL.Query()
	if required && !q.Has(name) {
		return domain.NewValidationError(name, "is required")
	}
	if err := runtime.BindQueryParameter("form", true, required, name, q, dest); err != nil {
		return domain.NewValidationError(name, "is invalid")
	}
	return nil
}

// optionalLimit binds ?limit=. Absent yields zero, which services read as
// their default; a negative value is rejected.
func optionalLimit(r *http.Request) (int, error) {
	var limit *int
	if err := queryParam(r, "limit", false, &limit); err != nil {
		return 0, err
	}
	if limit == nil {
		return 0, nil
	}
	if *limit < 0 {
		return 0, domain.NewValidationError("limit", "must not be negative")
	}
	return *limit, nil
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLong *http.MaxBytesError
		switch {
		case errors.As(err, &tooLong):
			return err
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("body", "is required")
		default:
			return domain.NewValidationError("body", "must be valid JSON")
		}
	}
	return nil
}

// requireAccount returns the caller's account, writing a 401 when absent.
func requireAccount(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.AccountID(r.Context())
	if !ok {
		unauthorized(w)
		return uuid.Nil, false
	}
	return id, true
}
