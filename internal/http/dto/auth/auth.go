// Package auth holds the wire types for the account endpoints.
package auth

import (
	"time"

	"github.com/dropDatabas3/moim/internal/domain/repository"
)

type RegisterRequest struct {
	Handle      string `json:"handle"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
}

type UpdateHandleRequest struct {
	Handle string `json:"handle"`
}

// UserResponse is the public projection of a user record. The password hash
// never leaves the service.
type UserResponse struct {
	StableID    string    `json:"stable_id"`
	Handle      string    `json:"handle,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type HandleAvailabilityResponse struct {
	Handle    string `json:"handle"`
	Available bool   `json:"available"`
}

// NewUserResponse projects a store record onto the wire type.
func NewUserResponse(u repository.User) UserResponse {
	return UserResponse{
		StableID:    u.StableID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Provider:    string(u.Provider),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
