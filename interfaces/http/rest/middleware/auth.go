package middleware

import (
	"net/http"
	"strings"

	"tomosu-backend/pkg/auth"
	"tomosu-backend/pkg/common"
)

// OptionalAuth resolves the viewer from a bearer token when one is present.
// Requests without a token, or with a stale token, proceed anonymously - the
// read endpoints degrade to the unpersonalized projection instead of failing.
func OptionalAuth(sessions *auth.SessionManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token != "" {
				if session, err := sessions.Validate(token); err == nil {
					r = r.WithContext(auth.SetSessionInContext(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid session. Used by the write
// path and the session introspection endpoints.
func RequireAuth(sessions *auth.SessionManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "missing authorization header")
				return
			}
			session, err := sessions.Validate(token)
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.SetSessionInContext(r.Context(), session)))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}
