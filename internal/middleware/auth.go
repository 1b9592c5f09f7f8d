package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"planes-utils/flightnoise/internal/auth"
	"planes-utils/flightnoise/internal/common"
)

// TokenValidator checks a bearer token.
type TokenValidator interface {
	Validate(tokenString string) (*common.AccessToken, error)
}

// RequireScope rejects requests without a valid bearer token granting
// scope. The claims are stored in the request context.
func RequireScope(validator TokenValidator, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, start, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			tok, err := validator.Validate(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				msg := "Unauthorized. Invalid token"
				if errors.Is(err, common.ErrTokenRevoked) {
					msg = "Unauthorized. Token revoked"
				}
				common.RespondError(w, start, nil, msg, http.StatusUnauthorized)
				return
			}

			claims := auth.FromAccessToken(tok)
			if !claims.HasScope(scope) {
				common.RespondError(w, start, nil, "Forbidden. Token lacks the "+scope+" scope", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetClaims(r.Context(), claims)))
		})
	}
}

// AdminAuth requires an admin-scoped token.
func AdminAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return RequireScope(validator, common.ScopeAdmin)
}
