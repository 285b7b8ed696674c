// Package social exposes the federated-login endpoints: the start redirect
// and the code-for-token callback per provider.
package social

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/moim/internal/http"
	authdto "github.com/dropDatabas3/moim/internal/http/dto/auth"
	dto "github.com/dropDatabas3/moim/internal/http/dto/social"
	svc "github.com/dropDatabas3/moim/internal/http/services/social"
	"github.com/dropDatabas3/moim/internal/oauth"
	"github.com/dropDatabas3/moim/internal/observability/logger"
)

// Controller handles the /auth/{provider} routes.
type Controller struct {
	login svc.LoginService
	start svc.StartService
}

// NewController creates a social controller.
func NewController(login svc.LoginService, start svc.StartService) *Controller {
	return &Controller{login: login, start: start}
}

// Start handles GET /auth/{provider}/start. It returns the authorization
// URL instead of redirecting so web and mobile clients can choose how to
// open it.
func (c *Controller) Start(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	res, err := c.start.Start(r.Context(), provider)
	if err != nil {
		c.writeServiceError(w, r, provider, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.StartResponse{
		RedirectURL: res.RedirectURL,
		State:       res.State,
	})
}

// Callback handles POST /auth/{provider}/callback with the provider's code.
// When a state is present it must match one issued by Start; clients doing
// app-side flows may omit it.
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var req dto.CallbackRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "code is required")
		return
	}

	if req.State != "" {
		if err := c.start.Consume(r.Context(), provider, req.State); err != nil {
			c.writeServiceError(w, r, provider, err)
			return
		}
	}

	res, err := c.login.Login(r.Context(), provider, req.Code)
	if err != nil {
		if errors.Is(err, oauth.ErrUpstreamRejected) || errors.Is(err, oauth.ErrSubjectMissing) || errors.Is(err, oauth.ErrEmailMissing) {
			httpx.RecordLogin(provider, "rejected")
		} else {
			httpx.RecordLogin(provider, "error")
		}
		c.writeServiceError(w, r, provider, err)
		return
	}

	httpx.RecordLogin(provider, "ok")
	httpx.WriteJSON(w, http.StatusOK, authdto.TokenResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        authdto.NewUserResponse(res.User),
	})
}

func (c *Controller) writeServiceError(w http.ResponseWriter, r *http.Request, provider string, err error) {
	switch {
	case errors.Is(err, svc.ErrProviderUnknown), errors.Is(err, svc.ErrProviderDisabled):
		httpx.WriteError(w, http.StatusNotFound, "unknown_provider", "no such login provider")
	case errors.Is(err, svc.ErrInvalidState):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_state", "state is missing, expired, or already used")
	case errors.Is(err, oauth.ErrUpstreamRejected):
		httpx.WriteError(w, http.StatusBadGateway, "upstream_rejected", "the provider rejected the authorization code")
	case errors.Is(err, oauth.ErrMalformedResponse):
		httpx.WriteError(w, http.StatusBadGateway, "upstream_malformed", "the provider returned an unusable response")
	case errors.Is(err, oauth.ErrUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, "upstream_unavailable", "the provider did not respond")
	case errors.Is(err, oauth.ErrSubjectMissing), errors.Is(err, oauth.ErrEmailMissing):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "profile_incomplete", err.Error())
	default:
		logger.From(r.Context()).Error("social controller failure",
			logger.Provider(provider), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
