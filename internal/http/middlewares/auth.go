package middlewares

import (
	"net/http"
	"strings"

	httpx "github.com/dropDatabas3/moim/internal/http"
	jwtx "github.com/dropDatabas3/moim/internal/jwt"
)

// RequireAuth validates Authorization: Bearer <token> and stores the
// subject's stable id in the context. Missing or invalid tokens get 401.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httpx.WriteError(w, http.StatusUnauthorized, "token_missing", "missing bearer token")
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			sub, err := issuer.Verify(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httpx.WriteError(w, http.StatusUnauthorized, "token_invalid", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sub)))
		})
	}
}
