package middlewares

import (
	"net/http"
	"runtime/debug"

	httpx "github.com/dropDatabas3/moim/internal/http"
	"github.com/dropDatabas3/moim/internal/observability/logger"
)

// WithRecover converts panics into a 500 response instead of killing the
// connection, logging the stack for diagnosis.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.String("panic", toString(rec)),
						logger.String("stack", string(debug.Stack())),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return "unknown panic"
	}
}
