// Package router aggregates all routes on a chi mux.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/moim/internal/http"
	authctrl "github.com/dropDatabas3/moim/internal/http/controllers/auth"
	socialctrl "github.com/dropDatabas3/moim/internal/http/controllers/social"
	mw "github.com/dropDatabas3/moim/internal/http/middlewares"
)

// Deps contains everything the router wires together.
type Deps struct {
	Auth   *authctrl.Controller
	Social *socialctrl.Controller

	// RequireAuth guards the self-service routes.
	RequireAuth mw.Middleware

	// Metrics is the /metrics handler; nil disables the route.
	Metrics http.Handler
}

// New builds the service router with the shared middleware chain applied.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", deps.Auth.Register)
		r.Post("/auth/login", deps.Auth.Login)
		r.Get("/handles/{handle}/availability", deps.Auth.HandleAvailability)

		r.Get("/auth/{provider}/start", deps.Social.Start)
		r.Post("/auth/{provider}/callback", deps.Social.Callback)

		r.Group(func(r chi.Router) {
			r.Use(deps.RequireAuth)
			r.Get("/users/me", deps.Auth.Me)
			r.Patch("/users/me", deps.Auth.UpdateProfile)
			r.Put("/users/me/handle", deps.Auth.UpdateHandle)
			r.Delete("/users/me", deps.Auth.Delete)
		})
	})

	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		httpx.WithMetrics,
	)
}
