// Package auth exposes the local-account endpoints: register, login, and
// the authenticated self-service operations.
package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/moim/internal/http"
	dto "github.com/dropDatabas3/moim/internal/http/dto/auth"
	mw "github.com/dropDatabas3/moim/internal/http/middlewares"
	svc "github.com/dropDatabas3/moim/internal/http/services/auth"
	"github.com/dropDatabas3/moim/internal/observability/logger"
)

// Controller handles the /auth and /users routes.
type Controller struct {
	service svc.Service
}

// NewController creates an auth controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /auth/register.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	u, err := c.service.Register(r.Context(), svc.RegisterInput{
		Handle:      req.Handle,
		Secret:      req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dto.NewUserResponse(*u))
}

// Login handles POST /auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, svc.ErrCredentialMismatch) || errors.Is(err, svc.ErrRecordNotFound) {
			httpx.RecordLogin("local", "rejected")
		} else {
			httpx.RecordLogin("local", "error")
		}
		c.writeServiceError(w, r, err)
		return
	}

	httpx.RecordLogin("local", "ok")
	httpx.WriteJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        dto.NewUserResponse(res.User),
	})
}

// Me handles GET /users/me.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	userID := mw.GetUserID(r.Context())
	u, err := c.service.GetUser(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(*u))
}

// UpdateProfile handles PATCH /users/me.
func (c *Controller) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	userID := mw.GetUserID(r.Context())
	u, err := c.service.UpdateProfile(r.Context(), userID, userID, svc.ProfilePatch{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Secret:      req.Password,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(*u))
}

// UpdateHandle handles PUT /users/me/handle.
func (c *Controller) UpdateHandle(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateHandleRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	userID := mw.GetUserID(r.Context())
	u, err := c.service.UpdateHandle(r.Context(), userID, userID, req.Handle)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(*u))
}

// Delete handles DELETE /users/me.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	userID := mw.GetUserID(r.Context())
	u, err := c.service.DeleteAccount(r.Context(), userID, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	// Return the record as it existed, for caller confirmation.
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(*u))
}

// HandleAvailability handles GET /handles/{handle}/availability.
func (c *Controller) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	available, err := c.service.HandleAvailable(r.Context(), handle)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.HandleAvailabilityResponse{
		Handle:    handle,
		Available: available,
	})
}

func (c *Controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, svc.ErrDuplicateHandle):
		httpx.WriteError(w, http.StatusConflict, "duplicate_handle", "handle already taken")
	case errors.Is(err, svc.ErrRecordNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "account not found")
	case errors.Is(err, svc.ErrCredentialMismatch):
		httpx.WriteError(w, http.StatusUnauthorized, "credential_mismatch", "handle or password is wrong")
	case errors.Is(err, svc.ErrUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "cannot act on another account")
	default:
		logger.From(r.Context()).Error("auth controller failure", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
