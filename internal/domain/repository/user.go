package repository

import (
	"context"
	"time"
)

// Provider identifies how an account was created. It never changes after
// creation.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderKakao  Provider = "kakao"
	ProviderGoogle Provider = "google"
)

// User is the canonical account record.
//
// StableID is provider-namespaced for federated accounts (the provider's
// subject id) or locally assigned (UUID) for password accounts. Handle is the
// human-chosen public username; empty until set. Both are globally unique.
type User struct {
	StableID     string
	Handle       string
	DisplayName  string
	Email        string // empty when the provider did not supply one
	PasswordHash string // PHC string; placeholder hash for federated accounts
	Provider     Provider
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateUserInput contains the mutable fields of a user. Nil means "leave
// unchanged".
type UpdateUserInput struct {
	Handle       *string
	DisplayName  *string
	Email        *string
	PasswordHash *string
}

// UserRepository defines the identity-store contract.
//
// Uniqueness of StableID and Handle must be enforced by the driver itself:
// Create and Update return ErrConflict when an insert or handle change loses
// a race, regardless of any prior existence check at the service layer.
// Each call is a single atomic step; drivers never leave partial writes.
type UserRepository interface {
	// GetByStableID returns the user or ErrNotFound.
	GetByStableID(ctx context.Context, stableID string) (*User, error)

	// GetByHandle returns the user or ErrNotFound.
	GetByHandle(ctx context.Context, handle string) (*User, error)

	// ExistsByStableID reports whether a record with the id exists.
	ExistsByStableID(ctx context.Context, stableID string) (bool, error)

	// ExistsByHandle reports whether a record with the handle exists.
	ExistsByHandle(ctx context.Context, handle string) (bool, error)

	// Create inserts a new user. Returns ErrConflict when StableID or
	// Handle is already taken.
	Create(ctx context.Context, u User) (*User, error)

	// Update applies the non-nil fields of input to the user identified by
	// stableID. Returns ErrNotFound if absent, ErrConflict on a handle
	// collision.
	Update(ctx context.Context, stableID string, input UpdateUserInput) (*User, error)

	// Delete removes the user. Returns ErrNotFound if absent.
	Delete(ctx context.Context, stableID string) error
}
