// Package auth implements password-based signup, login, and self-service
// account management on top of the identity store.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/moim/internal/domain/repository"
)

// Service is the local-account surface. Mutating operations take the
// requester's authenticated stable id and refuse to act on other accounts.
type Service interface {
	// Register creates a local account. The handle must be unused; the
	// store's uniqueness constraint is the authority, the pre-check only a
	// fast path.
	Register(ctx context.Context, in RegisterInput) (*repository.User, error)

	// Login verifies the secret against the stored hash and mints a token.
	Login(ctx context.Context, handle, secret string) (*LoginResult, error)

	// GetUser returns the record for stableID.
	GetUser(ctx context.Context, stableID string) (*repository.User, error)

	// HandleAvailable reports whether handle is free to claim.
	HandleAvailable(ctx context.Context, handle string) (bool, error)

	// UpdateProfile applies the non-nil fields of patch to the requester's
	// own record. A present Secret is re-hashed before storage.
	UpdateProfile(ctx context.Context, stableID, requester string, patch ProfilePatch) (*repository.User, error)

	// UpdateHandle changes the requester's handle to a new unused one.
	UpdateHandle(ctx context.Context, stableID, requester, handle string) (*repository.User, error)

	// DeleteAccount removes the record and everything it owns in dependent
	// stores. Returns the record as it existed before deletion.
	DeleteAccount(ctx context.Context, stableID, requester string) (*repository.User, error)
}

// RegisterInput carries the signup fields. Email is optional.
type RegisterInput struct {
	Handle      string
	Secret      string
	DisplayName string
	Email       string
}

// ProfilePatch applies only its non-nil fields.
type ProfilePatch struct {
	DisplayName *string
	Email       *string
	Secret      *string
}

// LoginResult is the outcome of a successful local login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      repository.User
}

// Errors for the local auth service.
var (
	ErrDuplicateHandle    = errors.New("handle already taken")
	ErrRecordNotFound     = errors.New("record not found")
	ErrCredentialMismatch = errors.New("credential mismatch")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
)
