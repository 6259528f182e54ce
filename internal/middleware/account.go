package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AccountHeader carries the authenticated account ID. It is set by the
// authentication proxy in front of the API; the API never issues identities.
const AccountHeader = "X-Account-ID"

type accountKey struct{}

// NewAccountIdentity returns a middleware that reads AccountHeader into the
// request context. A missing header leaves the request anonymous; a malformed
// one is rejected with 401.
func NewAccountIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(AccountHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "malformed "+AccountHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), id)))
		})
	}
}

// WithAccountID returns a copy of ctx carrying id.
func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, accountKey{}, id)
}

// AccountID returns the account ID stored by NewAccountIdentity, if any.
func AccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountKey{}).(uuid.UUID)
	return id, ok
}

// writeJSONError writes the API error envelope. Middleware answers before the
// handler package is involved, so it carries its own copy of the shape.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
