// Package social contains the federated-login reconciliation flow: exchange
// the provider's authorization code, normalize the profile into the
// canonical triple, create or refresh the local account, and mint a token.
package social

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/moim/internal/domain/repository"
)

// LoginService drives a federated login end to end.
type LoginService interface {
	// Login exchanges code with the named provider and returns a bearer
	// token plus the canonical user record. No store mutation happens
	// before the provider round-trips and field extraction succeed.
	Login(ctx context.Context, provider, code string) (*LoginResult, error)
}

// LoginResult is the outcome of a successful login (local or federated).
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      repository.User
}

// StartService hands out provider authorization URLs with a one-time state
// nonce, consumed again on the callback.
type StartService interface {
	// Start returns the provider's authorization URL for a fresh state.
	Start(ctx context.Context, provider string) (*StartResult, error)

	// Consume validates and invalidates a state nonce. A reused or unknown
	// state fails with ErrInvalidState.
	Consume(ctx context.Context, provider, state string) error
}

// StartResult carries the redirect target and the state embedded in it.
type StartResult struct {
	RedirectURL string
	State       string
}

// Errors for the social services.
var (
	ErrProviderUnknown  = errors.New("unknown provider")
	ErrProviderDisabled = errors.New("provider not enabled")
	ErrInvalidState     = errors.New("invalid state")
	ErrHandleExhausted  = errors.New("could not allocate a unique handle")
)
