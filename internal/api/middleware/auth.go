package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anavarro/melodia/internal/token"
)

// SessionCookie is the cookie that carries the signed session token.
const SessionCookie = "token"

type contextKey string

const identityKey contextKey = "identity"

// Auth resolves the caller's identity from the session cookie. A missing
// cookie and a failed verification get the same 401; the handler behind this
// middleware always has an identity in context.
func Auth(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				unauthorized(w)
				return
			}

			ident, err := issuer.Verify(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (token.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(token.Identity)
	return ident, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
